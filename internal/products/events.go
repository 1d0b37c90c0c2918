package products

import (
	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/pkg/types"
)

// ProductCreatedPayload is emitted when a producer registers a good.
type ProductCreatedPayload struct {
	Name     string          `json:"name"`
	Origin   string          `json:"origin"`
	Price    decimal.Decimal `json:"price"`
	Producer types.Principal `json:"producer"`
}

// PaymentTransferredPayload is emitted after a successful ledger transfer.
type PaymentTransferredPayload struct {
	Payer  types.Principal `json:"payer"`
	Payee  types.Principal `json:"payee"`
	Amount decimal.Decimal `json:"amount"`
}

// ProductShippedPayload is emitted when a shipper takes custody.
type ProductShippedPayload struct {
	Shipper  types.Principal `json:"shipper"`
	Location string          `json:"location"`
}

// ProductReceivedPayload is emitted when the buyer confirms receipt.
type ProductReceivedPayload struct {
	Buyer types.Principal `json:"buyer"`
}

// DisputeRaisedPayload is emitted when the producer or buyer flags a dispute.
type DisputeRaisedPayload struct {
	RaisedBy types.Principal `json:"raisedBy"`
}

// DisputeResolvedPayload is emitted when an admin clears the dispute flag.
type DisputeResolvedPayload struct {
	ResolvedBy types.Principal `json:"resolvedBy"`
}
