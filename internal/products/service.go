package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/internal/events"
	"github.com/provenly/custody-backend/internal/ledger"
	"github.com/provenly/custody-backend/internal/registry"
	"github.com/provenly/custody-backend/pkg/enums"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/metrics"
	"github.com/provenly/custody-backend/pkg/types"
)

// Transition labels used for metrics and logs.
const (
	transitionCreate         = "create_product"
	transitionPay            = "pay_for_product"
	transitionShip           = "ship_product"
	transitionReceive        = "receive_product"
	transitionRaiseDispute   = "raise_dispute"
	transitionResolveDispute = "resolve_dispute"
)

// Service is the lifecycle engine. Every transition checks its guards in a
// fixed, documented order and the first violation aborts with no state
// change and no event:
//
//  1. role-gated transitions (create/ship/receive/resolve): role, then
//     verification, then record existence, then state flags;
//  2. payment: existence, then state flags, then balance, then transfer;
//  3. raiseDispute: existence, then caller identity (the check needs the
//     loaded record), then the dispute flag.
//
// Role and verification lookups hit the registry fresh on every call.
type Service interface {
	Create(ctx context.Context, actor types.Principal, input CreateInput) (Product, error)
	Pay(ctx context.Context, actor types.Principal, id uint64) (Product, error)
	Ship(ctx context.Context, actor types.Principal, id uint64, location string) (Product, error)
	Receive(ctx context.Context, actor types.Principal, id uint64) (Product, error)
	RaiseDispute(ctx context.Context, actor types.Principal, id uint64) (Product, error)
	ResolveDispute(ctx context.Context, actor types.Principal, id uint64) (Product, error)
	Get(ctx context.Context, id uint64) (Product, error)
	List(ctx context.Context) ([]Product, error)
}

// CreateInput carries the caller-supplied fields of a new product record.
type CreateInput struct {
	Name   string
	Origin string
	Price  decimal.Decimal
}

type service struct {
	store    *Store
	registry registry.Reader
	ledger   ledger.Ledger
	events   *events.Log
	logg     *logger.Logger
	metrics  *metrics.TransitionMetrics
}

// NewService wires the lifecycle engine with its collaborators. Logger and
// metrics are optional.
func NewService(store *Store, reg registry.Reader, l ledger.Ledger, log *events.Log, logg *logger.Logger, m *metrics.TransitionMetrics) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store required")
	}
	if reg == nil {
		return nil, fmt.Errorf("role registry required")
	}
	if l == nil {
		return nil, fmt.Errorf("token ledger required")
	}
	if log == nil {
		return nil, fmt.Errorf("event log required")
	}
	return &service{
		store:    store,
		registry: reg,
		ledger:   l,
		events:   log,
		logg:     logg,
		metrics:  m,
	}, nil
}

func (s *service) Create(ctx context.Context, actor types.Principal, input CreateInput) (Product, error) {
	start := time.Now()
	product, err := s.create(ctx, actor, input)
	s.finish(ctx, transitionCreate, actor, product.ID, start, err)
	return product, err
}

func (s *service) create(ctx context.Context, actor types.Principal, input CreateInput) (Product, error) {
	if err := s.requireVerifiedRole(ctx, actor, enums.RoleProducer); err != nil {
		return Product{}, err
	}

	name := strings.TrimSpace(input.Name)
	origin := strings.TrimSpace(input.Origin)
	if name == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	if origin == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "product origin required")
	}
	if input.Price.IsNegative() {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	product, err := s.store.Create(Product{
		Name:     name,
		Origin:   origin,
		Producer: actor,
		Shipper:  types.PrincipalNone,
		Buyer:    types.PrincipalNone,
		Location: origin,
		Price:    input.Price,
	})
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert product")
	}

	s.emit(ctx, enums.EventProductCreated, product.ID, actor, ProductCreatedPayload{
		Name:     product.Name,
		Origin:   product.Origin,
		Price:    product.Price,
		Producer: product.Producer,
	})
	return product, nil
}

func (s *service) Pay(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	start := time.Now()
	product, err := s.pay(ctx, actor, id)
	s.finish(ctx, transitionPay, actor, id, start, err)
	return product, err
}

// pay is deliberately open to any principal: a third party may settle on a
// buyer's behalf, and the buyer identity is bound only at receipt.
func (s *service) pay(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	product, err := s.store.Mutate(id, func(p *Product) error {
		if p.IsReceived {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product already received")
		}
		if p.IsPaid {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product already paid")
		}

		balance, err := s.ledger.BalanceOf(ctx, actor)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read payer balance")
		}
		if balance.LessThan(p.Price) {
			return pkgerrors.New(pkgerrors.CodeInsufficientFunds, "balance below price").
				WithDetails(map[string]any{"price": p.Price.String(), "balance": balance.String()})
		}
		if err := s.ledger.Transfer(ctx, actor, p.Producer, p.Price); err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return pkgerrors.Wrap(pkgerrors.CodeInsufficientFunds, err, "balance below price")
			}
			return pkgerrors.Wrap(pkgerrors.CodeTransferFailed, err, "ledger transfer")
		}

		p.IsPaid = true
		return nil
	}, func(p Product) {
		s.emit(ctx, enums.EventPaymentTransferred, p.ID, actor, PaymentTransferredPayload{
			Payer:  actor,
			Payee:  p.Producer,
			Amount: p.Price,
		})
	})
	return product, s.mapStoreErr(err)
}

func (s *service) Ship(ctx context.Context, actor types.Principal, id uint64, location string) (Product, error) {
	start := time.Now()
	product, err := s.ship(ctx, actor, id, location)
	s.finish(ctx, transitionShip, actor, id, start, err)
	return product, err
}

func (s *service) ship(ctx context.Context, actor types.Principal, id uint64, location string) (Product, error) {
	if err := s.requireVerifiedRole(ctx, actor, enums.RoleShipper); err != nil {
		return Product{}, err
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeValidation, "location required")
	}

	product, err := s.store.Mutate(id, func(p *Product) error {
		if p.IsReceived {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product already received")
		}
		if !p.IsPaid {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product not paid")
		}
		if p.IsDisputed {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product is disputed")
		}
		p.Shipper = actor
		p.Location = location
		return nil
	}, func(p Product) {
		s.emit(ctx, enums.EventProductShipped, p.ID, actor, ProductShippedPayload{
			Shipper:  p.Shipper,
			Location: p.Location,
		})
	})
	return product, s.mapStoreErr(err)
}

func (s *service) Receive(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	start := time.Now()
	product, err := s.receive(ctx, actor, id)
	s.finish(ctx, transitionReceive, actor, id, start, err)
	return product, err
}

func (s *service) receive(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	if err := s.requireVerifiedRole(ctx, actor, enums.RoleBuyer); err != nil {
		return Product{}, err
	}

	product, err := s.store.Mutate(id, func(p *Product) error {
		if p.IsReceived {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product already received")
		}
		if !p.IsPaid {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product not paid")
		}
		if p.IsDisputed {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product is disputed")
		}
		p.Buyer = actor
		p.IsReceived = true
		return nil
	}, func(p Product) {
		s.emit(ctx, enums.EventProductReceived, p.ID, actor, ProductReceivedPayload{
			Buyer: p.Buyer,
		})
	})
	return product, s.mapStoreErr(err)
}

func (s *service) RaiseDispute(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	start := time.Now()
	product, err := s.raiseDispute(ctx, actor, id)
	s.finish(ctx, transitionRaiseDispute, actor, id, start, err)
	return product, err
}

// raiseDispute checks the caller against the currently bound buyer. Before
// receipt the buyer is unset, so only the producer can raise; after receipt
// the transition is unreachable anyway since disputes block receive but
// receive is what binds the buyer. That boundary is intentional.
func (s *service) raiseDispute(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	product, err := s.store.Mutate(id, func(p *Product) error {
		if actor != p.Buyer && actor != p.Producer {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "only the producer or bound buyer may raise a dispute")
		}
		if p.IsDisputed {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "dispute already raised")
		}
		p.IsDisputed = true
		return nil
	}, func(p Product) {
		s.emit(ctx, enums.EventDisputeRaised, p.ID, actor, DisputeRaisedPayload{
			RaisedBy: actor,
		})
	})
	return product, s.mapStoreErr(err)
}

func (s *service) ResolveDispute(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	start := time.Now()
	product, err := s.resolveDispute(ctx, actor, id)
	s.finish(ctx, transitionResolveDispute, actor, id, start, err)
	return product, err
}

func (s *service) resolveDispute(ctx context.Context, actor types.Principal, id uint64) (Product, error) {
	isAdmin, err := s.registry.HasRole(ctx, actor, enums.RoleAdmin)
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin role")
	}
	if !isAdmin {
		return Product{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin role required")
	}

	product, err := s.store.Mutate(id, func(p *Product) error {
		if !p.IsDisputed {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "product is not disputed")
		}
		p.IsDisputed = false
		return nil
	}, func(p Product) {
		s.emit(ctx, enums.EventDisputeResolved, p.ID, actor, DisputeResolvedPayload{
			ResolvedBy: actor,
		})
	})
	return product, s.mapStoreErr(err)
}

func (s *service) Get(_ context.Context, id uint64) (Product, error) {
	product, err := s.store.Get(id)
	return product, s.mapStoreErr(err)
}

func (s *service) List(_ context.Context) ([]Product, error) {
	return s.store.List(), nil
}

// requireVerifiedRole enforces the conjunctive gate: role membership first,
// verification second, so a role-holding unverified caller sees NOT_VERIFIED
// rather than UNAUTHORIZED.
func (s *service) requireVerifiedRole(ctx context.Context, actor types.Principal, role enums.Role) error {
	hasRole, err := s.registry.HasRole(ctx, actor, role)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check role")
	}
	if !hasRole {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, fmt.Sprintf("%s role required", role))
	}
	verified, err := s.registry.IsVerified(ctx, actor)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check verification")
	}
	if !verified {
		return pkgerrors.New(pkgerrors.CodeNotVerified, "caller is not verified")
	}
	return nil
}

func (s *service) mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "product store")
}

func (s *service) emit(ctx context.Context, eventType enums.EventType, productID uint64, actor types.Principal, payload any) {
	if _, err := s.events.Append(ctx, eventType, productID, actor, payload); err != nil && s.logg != nil {
		s.logg.Error(ctx, "append audit event", err)
	}
}

func (s *service) finish(ctx context.Context, transition string, actor types.Principal, productID uint64, start time.Time, err error) {
	s.metrics.ObserveDuration(transition, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(transition, string(pkgerrors.As(err).Code()))
		return
	}
	s.metrics.IncSuccess(transition)
	if s.logg != nil {
		fields := map[string]any{
			"transition": transition,
			"actor":      actor.String(),
			"product_id": productID,
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "transition applied")
	}
}
