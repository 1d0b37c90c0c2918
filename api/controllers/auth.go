package controllers

import (
	"net/http"

	"github.com/provenly/custody-backend/api/responses"
	"github.com/provenly/custody-backend/api/validators"
	"github.com/provenly/custody-backend/pkg/auth/token"
	"github.com/provenly/custody-backend/pkg/config"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

type mintTokenRequest struct {
	Address string `json:"address" validate:"required"`
}

// MintAccessToken issues a bearer token for an address. The route is only
// registered outside prod; real deployments put a wallet-signature or SSO
// exchange in front instead.
func MintAccessToken(cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload mintTokenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principal, err := types.ParsePrincipal(payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address"))
			return
		}

		signed, err := token.Issue(cfg, principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue token"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"token": signed})
	}
}
