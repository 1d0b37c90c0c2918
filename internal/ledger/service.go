package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/internal/registry"
	"github.com/provenly/custody-backend/pkg/enums"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

// Minter is the funding surface of the in-process ledger.
type Minter interface {
	Credit(ctx context.Context, principal types.Principal, amount decimal.Decimal) error
}

// Service exposes balance reads and the admin-gated mint operation used to
// fund payers in a self-contained deployment.
type Service interface {
	Mint(ctx context.Context, actor, to types.Principal, amount decimal.Decimal) error
	Balance(ctx context.Context, principal types.Principal) (decimal.Decimal, error)
}

type service struct {
	ledger   Ledger
	minter   Minter
	registry registry.Reader
	logg     *logger.Logger
}

// NewService wires a ledger service with the provided collaborators.
func NewService(l Ledger, minter Minter, reg registry.Reader, logg *logger.Logger) (Service, error) {
	if l == nil {
		return nil, fmt.Errorf("ledger required")
	}
	if minter == nil {
		return nil, fmt.Errorf("minter required")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry required")
	}
	return &service{ledger: l, minter: minter, registry: reg, logg: logg}, nil
}

func (s *service) Mint(ctx context.Context, actor, to types.Principal, amount decimal.Decimal) error {
	isAdmin, err := s.registry.HasRole(ctx, actor, enums.RoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin role")
	}
	if !isAdmin {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin role required")
	}
	if to.IsNone() {
		return pkgerrors.New(pkgerrors.CodeValidation, "target principal required")
	}
	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must not be negative")
	}
	if err := s.minter.Credit(ctx, to, amount); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit balance")
	}
	if s.logg != nil {
		fields := map[string]any{
			"actor":  actor.String(),
			"target": to.String(),
			"amount": amount.String(),
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "ledger.minted")
	}
	return nil
}

func (s *service) Balance(ctx context.Context, principal types.Principal) (decimal.Decimal, error) {
	if principal.IsNone() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "principal required")
	}
	balance, err := s.ledger.BalanceOf(ctx, principal)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read balance")
	}
	return balance, nil
}
