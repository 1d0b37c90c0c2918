package registry

import (
	"context"
	"fmt"

	"github.com/provenly/custody-backend/pkg/enums"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

// Service exposes the admin-gated registry operations.
type Service interface {
	GrantRole(ctx context.Context, actor, target types.Principal, role enums.Role) error
	RevokeRole(ctx context.Context, actor, target types.Principal, role enums.Role) error
	VerifyUser(ctx context.Context, actor, target types.Principal) error
	Describe(ctx context.Context, target types.Principal) (PrincipalInfo, error)
}

// PrincipalInfo is the read model for a principal's registry state.
type PrincipalInfo struct {
	Principal types.Principal `json:"principal"`
	Roles     []enums.Role    `json:"roles"`
	Verified  bool            `json:"verified"`
}

type service struct {
	registry Registry
	logg     *logger.Logger
}

// NewService wires a registry service with the provided backing registry.
func NewService(reg Registry, logg *logger.Logger) (Service, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry required")
	}
	return &service{registry: reg, logg: logg}, nil
}

func (s *service) GrantRole(ctx context.Context, actor, target types.Principal, role enums.Role) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if target.IsNone() {
		return pkgerrors.New(pkgerrors.CodeValidation, "target principal required")
	}
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}
	if err := s.registry.GrantRole(ctx, target, role); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "grant role")
	}
	s.log(ctx, actor, target, "registry.role_granted", map[string]any{"role": role.String()})
	return nil
}

func (s *service) RevokeRole(ctx context.Context, actor, target types.Principal, role enums.Role) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if target.IsNone() {
		return pkgerrors.New(pkgerrors.CodeValidation, "target principal required")
	}
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}
	if err := s.registry.RevokeRole(ctx, target, role); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke role")
	}
	s.log(ctx, actor, target, "registry.role_revoked", map[string]any{"role": role.String()})
	return nil
}

func (s *service) VerifyUser(ctx context.Context, actor, target types.Principal) error {
	if err := s.requireAdmin(ctx, actor); err != nil {
		return err
	}
	if target.IsNone() {
		return pkgerrors.New(pkgerrors.CodeValidation, "target principal required")
	}
	if err := s.registry.MarkVerified(ctx, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark verified")
	}
	s.log(ctx, actor, target, "registry.user_verified", nil)
	return nil
}

func (s *service) Describe(ctx context.Context, target types.Principal) (PrincipalInfo, error) {
	if target.IsNone() {
		return PrincipalInfo{}, pkgerrors.New(pkgerrors.CodeValidation, "target principal required")
	}
	roles, err := s.registry.RolesOf(ctx, target)
	if err != nil {
		return PrincipalInfo{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list roles")
	}
	verified, err := s.registry.IsVerified(ctx, target)
	if err != nil {
		return PrincipalInfo{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check verification")
	}
	return PrincipalInfo{Principal: target, Roles: roles, Verified: verified}, nil
}

func (s *service) requireAdmin(ctx context.Context, actor types.Principal) error {
	isAdmin, err := s.registry.HasRole(ctx, actor, enums.RoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin role")
	}
	if !isAdmin {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin role required")
	}
	return nil
}

func (s *service) log(ctx context.Context, actor, target types.Principal, msg string, extra map[string]any) {
	if s.logg == nil {
		return
	}
	fields := map[string]any{
		"actor":  actor.String(),
		"target": target.String(),
	}
	for k, v := range extra {
		fields[k] = v
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), msg)
}
