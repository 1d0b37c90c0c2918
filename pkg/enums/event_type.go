package enums

import "fmt"

// EventType identifies an audit trail entry produced by a lifecycle transition.
type EventType string

const (
	EventProductCreated     EventType = "product.created"
	EventPaymentTransferred EventType = "payment.transferred"
	EventProductShipped     EventType = "product.shipped"
	EventProductReceived    EventType = "product.received"
	EventDisputeRaised      EventType = "dispute.raised"
	EventDisputeResolved    EventType = "dispute.resolved"
)

var validEventTypes = []EventType{
	EventProductCreated,
	EventPaymentTransferred,
	EventProductShipped,
	EventProductReceived,
	EventDisputeRaised,
	EventDisputeResolved,
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventType.
func (e EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into an EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
