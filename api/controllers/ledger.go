package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/api/responses"
	"github.com/provenly/custody-backend/api/validators"
	"github.com/provenly/custody-backend/internal/ledger"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

type mintRequest struct {
	Address string `json:"address" validate:"required"`
	Amount  string `json:"amount" validate:"required"`
}

// MintTokens credits freshly minted units to an address; admin only.
func MintTokens(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}

		var payload mintRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := types.ParsePrincipal(payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address"))
			return
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		if err := svc.Mint(r.Context(), actor, target, amount); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"address": target.String(), "amount": amount.String()})
	}
}

// GetBalance returns the ledger balance for an address.
func GetBalance(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := types.ParsePrincipal(r.URL.Query().Get("address"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address"))
			return
		}

		balance, err := svc.Balance(r.Context(), target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"address": target.String(), "balance": balance.String()})
	}
}
