package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/api/middleware"
	"github.com/provenly/custody-backend/api/responses"
	"github.com/provenly/custody-backend/api/validators"
	"github.com/provenly/custody-backend/internal/products"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
	"github.com/provenly/custody-backend/pkg/types"
)

type createProductRequest struct {
	Name   string `json:"name" validate:"required"`
	Origin string `json:"origin" validate:"required"`
	Price  string `json:"price" validate:"required"`
}

type shipProductRequest struct {
	Location string `json:"location" validate:"required"`
}

// CreateProduct registers a new good for a verified producer.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		price, err := decimal.NewFromString(strings.TrimSpace(payload.Price))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price"))
			return
		}

		product, err := svc.Create(r.Context(), actor, products.CreateInput{
			Name:   payload.Name,
			Origin: payload.Origin,
			Price:  price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// PayForProduct settles the price from the caller's ledger balance. Open to
// any authenticated principal.
func PayForProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}

		product, err := svc.Pay(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ShipProduct moves a paid, undisputed product to a new location.
func ShipProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}

		var payload shipProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Ship(r.Context(), actor, id, payload.Location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ReceiveProduct binds the caller as buyer and closes the custody chain.
func ReceiveProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}

		product, err := svc.Receive(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// RaiseDispute flags the product; only the producer or bound buyer may call.
func RaiseDispute(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}

		product, err := svc.RaiseDispute(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ResolveDispute clears the dispute flag; admin only.
func ResolveDispute(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := requirePrincipal(w, r, logg)
		if !ok {
			return
		}
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}

		product, err := svc.ResolveDispute(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProduct returns a single record.
func GetProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := productIDParam(w, r, logg)
		if !ok {
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListProducts returns every record ordered by id.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func requirePrincipal(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (types.Principal, bool) {
	actor := middleware.PrincipalFromContext(r.Context())
	if actor.IsNone() {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "principal context missing"))
		return types.PrincipalNone, false
	}
	return actor, true
}

func productIDParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
		return 0, false
	}
	return id, true
}
