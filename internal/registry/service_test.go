package registry

import (
	"context"
	"testing"

	"github.com/provenly/custody-backend/pkg/enums"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/types"
)

const (
	admin   = types.Principal("addr-admin")
	target  = types.Principal("addr-target")
	someone = types.Principal("addr-someone")
)

func newTestService(t *testing.T) (Service, *Memory) {
	t.Helper()
	memory := NewMemory(admin)
	svc, err := NewService(memory, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, memory
}

func TestMemorySeedsBootstrapAdmin(t *testing.T) {
	memory := NewMemory(admin)

	isAdmin, err := memory.HasRole(context.Background(), admin, enums.RoleAdmin)
	if err != nil {
		t.Fatalf("has role: %v", err)
	}
	if !isAdmin {
		t.Fatalf("bootstrap admin should hold the admin role")
	}

	verified, err := memory.IsVerified(context.Background(), admin)
	if err != nil {
		t.Fatalf("is verified: %v", err)
	}
	if verified {
		t.Fatalf("bootstrap only grants the role, not verification")
	}
}

func TestGrantRoleRequiresAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.GrantRole(context.Background(), someone, target, enums.RoleProducer)
	if !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestGrantRoleValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.GrantRole(ctx, admin, types.PrincipalNone, enums.RoleProducer); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("none target should fail validation, got %v", err)
	}
	if err := svc.GrantRole(ctx, admin, target, enums.Role("janitor")); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("unknown role should fail validation, got %v", err)
	}
}

func TestGrantAndRevokeRole(t *testing.T) {
	svc, memory := newTestService(t)
	ctx := context.Background()

	if err := svc.GrantRole(ctx, admin, target, enums.RoleProducer); err != nil {
		t.Fatalf("grant: %v", err)
	}
	hasRole, _ := memory.HasRole(ctx, target, enums.RoleProducer)
	if !hasRole {
		t.Fatalf("target should hold the producer role")
	}

	if err := svc.RevokeRole(ctx, admin, target, enums.RoleProducer); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	hasRole, _ = memory.HasRole(ctx, target, enums.RoleProducer)
	if hasRole {
		t.Fatalf("role should be gone after revoke")
	}
}

func TestVerifyUser(t *testing.T) {
	svc, memory := newTestService(t)
	ctx := context.Background()

	if err := svc.VerifyUser(ctx, someone, target); !pkgerrors.Is(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED for non-admin, got %v", err)
	}

	if err := svc.VerifyUser(ctx, admin, target); err != nil {
		t.Fatalf("verify: %v", err)
	}
	verified, _ := memory.IsVerified(ctx, target)
	if !verified {
		t.Fatalf("target should be verified")
	}

	// Verification is independent of role membership.
	hasAny := false
	for _, role := range []enums.Role{enums.RoleAdmin, enums.RoleProducer, enums.RoleShipper, enums.RoleBuyer} {
		if ok, _ := memory.HasRole(ctx, target, role); ok {
			hasAny = true
		}
	}
	if hasAny {
		t.Fatalf("verification must not grant roles")
	}
}

func TestDescribe(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.GrantRole(ctx, admin, target, enums.RoleProducer); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.GrantRole(ctx, admin, target, enums.RoleBuyer); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.VerifyUser(ctx, admin, target); err != nil {
		t.Fatalf("verify: %v", err)
	}

	info, err := svc.Describe(ctx, target)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if info.Principal != target {
		t.Fatalf("unexpected principal %s", info.Principal)
	}
	if !info.Verified {
		t.Fatalf("expected verified")
	}
	if len(info.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", info.Roles)
	}

	if _, err := svc.Describe(ctx, types.PrincipalNone); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("none target should fail validation, got %v", err)
	}
}
