package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/provenly/custody-backend/pkg/config"
	"github.com/provenly/custody-backend/pkg/types"
)

// Claims carries the authenticated principal inside a bearer token. Roles are
// deliberately absent: the registry is consulted fresh on every transition.
type Claims struct {
	Address string `json:"addr"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the given principal.
func Issue(cfg config.JWTConfig, principal types.Principal) (string, error) {
	if principal.IsNone() {
		return "", fmt.Errorf("principal is required")
	}
	now := time.Now()
	claims := Claims{
		Address: principal.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    cfg.Issuer,
			Subject:   principal.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.Expiration())),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// Parse validates a raw token and returns the embedded principal.
func Parse(cfg config.JWTConfig, raw string) (types.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return types.PrincipalNone, err
	}
	if !token.Valid {
		return types.PrincipalNone, fmt.Errorf("invalid token")
	}
	return types.ParsePrincipal(claims.Address)
}
