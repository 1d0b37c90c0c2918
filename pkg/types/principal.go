package types

import (
	"fmt"
	"strings"
)

// Principal is an authenticated caller identity (an opaque address).
type Principal string

// PrincipalNone is the explicit "unset" value. Product fields use it as a
// sentinel until shipment/receipt binds a real identity.
const PrincipalNone Principal = ""

// String implements fmt.Stringer.
func (p Principal) String() string {
	return string(p)
}

// IsNone reports whether the principal is unset.
func (p Principal) IsNone() bool {
	return p == PrincipalNone
}

// ParsePrincipal validates raw input and returns a Principal.
func ParsePrincipal(value string) (Principal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return PrincipalNone, fmt.Errorf("principal address is required")
	}
	return Principal(trimmed), nil
}
