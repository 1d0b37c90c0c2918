package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/provenly/custody-backend/api/responses"
	"github.com/provenly/custody-backend/api/validators"
	"github.com/provenly/custody-backend/internal/registry"
	"github.com/provenly/custody-backend/pkg/enums"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

type roleRequest struct {
	Address string `json:"address" validate:"required"`
	Role    string `json:"role" validate:"required"`
}

type verifyUserRequest struct {
	Address string `json:"address" validate:"required"`
}

// GrantRole adds a principal to a role's member set; admin only.
func GrantRole(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return roleHandler(svc.GrantRole, logg)
}

// RevokeRole removes a principal from a role's member set; admin only.
func RevokeRole(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return roleHandler(svc.RevokeRole, logg)
}

// VerifyUser marks a principal verified; admin only.
func VerifyUser(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}

		var payload verifyUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := types.ParsePrincipal(payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address"))
			return
		}

		if err := svc.VerifyUser(r.Context(), actor, target); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"address": target.String(), "verified": true})
	}
}

// DescribePrincipal returns the roles and verification flag for an address.
func DescribePrincipal(svc registry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := types.ParsePrincipal(r.URL.Query().Get("address"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address"))
			return
		}

		info, err := svc.Describe(r.Context(), target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

func roleHandler(op func(ctx context.Context, actor, target types.Principal, role enums.Role) error, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}

		var payload roleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target, err := types.ParsePrincipal(payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address"))
			return
		}

		role, err := enums.ParseRole(strings.TrimSpace(payload.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		if err := op(r.Context(), actor, target, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"address": target.String(), "role": role.String()})
	}
}
