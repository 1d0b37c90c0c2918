package registry

import (
	"context"
	"sync"

	"github.com/provenly/custody-backend/pkg/enums"
	"github.com/provenly/custody-backend/pkg/types"
)

// Reader answers the role and verification queries the lifecycle engine
// performs. The engine re-reads on every transition and never caches.
type Reader interface {
	HasRole(ctx context.Context, principal types.Principal, role enums.Role) (bool, error)
	IsVerified(ctx context.Context, principal types.Principal) (bool, error)
}

// Registry is the full role-membership surface, including the mutations an
// admin performs through the Service.
type Registry interface {
	Reader
	GrantRole(ctx context.Context, principal types.Principal, role enums.Role) error
	RevokeRole(ctx context.Context, principal types.Principal, role enums.Role) error
	MarkVerified(ctx context.Context, principal types.Principal) error
	RolesOf(ctx context.Context, principal types.Principal) ([]enums.Role, error)
}

// Memory is the in-process registry implementation.
type Memory struct {
	mu       sync.RWMutex
	roles    map[enums.Role]map[types.Principal]struct{}
	verified map[types.Principal]struct{}
}

// NewMemory builds a registry seeded with a single bootstrap admin.
func NewMemory(bootstrapAdmin types.Principal) *Memory {
	m := &Memory{
		roles:    make(map[enums.Role]map[types.Principal]struct{}),
		verified: make(map[types.Principal]struct{}),
	}
	if !bootstrapAdmin.IsNone() {
		m.roles[enums.RoleAdmin] = map[types.Principal]struct{}{bootstrapAdmin: {}}
	}
	return m
}

// HasRole reports membership of the principal in the given role.
func (m *Memory) HasRole(_ context.Context, principal types.Principal, role enums.Role) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members, ok := m.roles[role]
	if !ok {
		return false, nil
	}
	_, ok = members[principal]
	return ok, nil
}

// IsVerified reports whether the principal carries the verification flag.
func (m *Memory) IsVerified(_ context.Context, principal types.Principal) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.verified[principal]
	return ok, nil
}

// GrantRole adds the principal to the role's member set.
func (m *Memory) GrantRole(_ context.Context, principal types.Principal, role enums.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	members, ok := m.roles[role]
	if !ok {
		members = make(map[types.Principal]struct{})
		m.roles[role] = members
	}
	members[principal] = struct{}{}
	return nil
}

// RevokeRole removes the principal from the role's member set.
func (m *Memory) RevokeRole(_ context.Context, principal types.Principal, role enums.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if members, ok := m.roles[role]; ok {
		delete(members, principal)
	}
	return nil
}

// MarkVerified sets the verification flag for the principal.
func (m *Memory) MarkVerified(_ context.Context, principal types.Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verified[principal] = struct{}{}
	return nil
}

// RolesOf lists the roles currently held by the principal.
func (m *Memory) RolesOf(_ context.Context, principal types.Principal) ([]enums.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var held []enums.Role
	for _, role := range []enums.Role{enums.RoleAdmin, enums.RoleProducer, enums.RoleShipper, enums.RoleBuyer} {
		if members, ok := m.roles[role]; ok {
			if _, member := members[principal]; member {
				held = append(held, role)
			}
		}
	}
	return held, nil
}
