package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/provenly/custody-backend/pkg/types"
)

// ErrInsufficientFunds is returned when a debit exceeds the payer's balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger is the external fungible-token collaborator. Payment settlement
// pulls the price from the payer and credits the producer in one call.
type Ledger interface {
	BalanceOf(ctx context.Context, principal types.Principal) (decimal.Decimal, error)
	Transfer(ctx context.Context, from, to types.Principal, amount decimal.Decimal) error
}

// Memory is the in-process ledger implementation.
type Memory struct {
	mu       sync.Mutex
	balances map[types.Principal]decimal.Decimal
}

// NewMemory builds an empty in-process ledger.
func NewMemory() *Memory {
	return &Memory{balances: make(map[types.Principal]decimal.Decimal)}
}

// BalanceOf returns the current balance, zero for unknown principals.
func (m *Memory) BalanceOf(_ context.Context, principal types.Principal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[principal], nil
}

// Transfer atomically debits from and credits to for the given amount.
func (m *Memory) Transfer(_ context.Context, from, to types.Principal, amount decimal.Decimal) error {
	if from.IsNone() || to.IsNone() {
		return fmt.Errorf("transfer requires both parties")
	}
	if amount.IsNegative() {
		return fmt.Errorf("transfer amount must not be negative")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	balance := m.balances[from]
	if balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	m.balances[from] = balance.Sub(amount)
	m.balances[to] = m.balances[to].Add(amount)
	return nil
}

// Credit adds freshly minted units to the principal's balance.
func (m *Memory) Credit(_ context.Context, principal types.Principal, amount decimal.Decimal) error {
	if principal.IsNone() {
		return fmt.Errorf("principal required")
	}
	if amount.IsNegative() {
		return fmt.Errorf("credit amount must not be negative")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[principal] = m.balances[principal].Add(amount)
	return nil
}
