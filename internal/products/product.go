package products

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/pkg/types"
)

// Product is one record per physical good moving through the custody chain.
// Shipper and Buyer stay at the none sentinel until shipment/receipt bind
// them. Flags never regress once set.
type Product struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Origin     string          `json:"origin"`
	Producer   types.Principal `json:"producer"`
	Shipper    types.Principal `json:"shipper"`
	Buyer      types.Principal `json:"buyer"`
	Location   string          `json:"location"`
	Price      decimal.Decimal `json:"price"`
	IsPaid     bool            `json:"isPaid"`
	IsReceived bool            `json:"isReceived"`
	IsDisputed bool            `json:"isDisputed"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// checkInvariants validates the cross-flag invariants in one place. The
// store runs it before committing any mutation; a violation means a bug in
// a transition guard, not caller error.
func (p Product) checkInvariants() error {
	if p.Producer.IsNone() {
		return fmt.Errorf("product %d: producer unset", p.ID)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("product %d: negative price", p.ID)
	}
	if p.IsReceived && !p.IsPaid {
		return fmt.Errorf("product %d: received before paid", p.ID)
	}
	if !p.Shipper.IsNone() && !p.IsPaid {
		return fmt.Errorf("product %d: shipped before paid", p.ID)
	}
	if p.IsReceived && p.Buyer.IsNone() {
		return fmt.Errorf("product %d: received without buyer", p.ID)
	}
	return nil
}
