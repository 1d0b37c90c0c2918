package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/provenly/custody-backend/pkg/config"
	"github.com/provenly/custody-backend/pkg/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "super-secret", Issuer: "custody-api", ExpirationMinutes: 10}
}

func TestIssueAndParseRoundtrip(t *testing.T) {
	cfg := testJWTConfig()
	principal := types.Principal("addr-producer")

	signed, err := Issue(cfg, principal)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parsed, err := Parse(cfg, signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != principal {
		t.Fatalf("expected %s, got %s", principal, parsed)
	}
}

func TestIssueRejectsNonePrincipal(t *testing.T) {
	if _, err := Issue(testJWTConfig(), types.PrincipalNone); err == nil {
		t.Fatalf("expected error for unset principal")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := Issue(cfg, "addr-producer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := Parse(other, signed); err == nil {
		t.Fatalf("expected signature validation to fail")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := Issue(cfg, "addr-producer")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := Parse(other, signed); err == nil {
		t.Fatalf("expected issuer validation to fail")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()
	claims := Claims{
		Address: "addr-producer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   "addr-producer",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Parse(cfg, signed); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestParseRejectsTokenWithoutExpiration(t *testing.T) {
	cfg := testJWTConfig()
	claims := Claims{
		Address: "addr-producer",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  cfg.Issuer,
			Subject: "addr-producer",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := Parse(cfg, signed); err == nil {
		t.Fatalf("expected token without exp to be rejected")
	}
}
