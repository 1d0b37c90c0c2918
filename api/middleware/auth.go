package middleware

import (
	"net/http"
	"strings"

	"github.com/provenly/custody-backend/api/responses"
	"github.com/provenly/custody-backend/pkg/auth/token"
	"github.com/provenly/custody-backend/pkg/config"
	pkgerrors "github.com/provenly/custody-backend/pkg/errors"
	"github.com/provenly/custody-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// authenticated principal.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "missing credentials"))
				return
			}

			bearer := raw
			if strings.HasPrefix(strings.ToLower(bearer), "bearer ") {
				bearer = strings.TrimSpace(bearer[7:])
			}
			if bearer == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthenticated, "missing credentials"))
				return
			}

			principal, err := token.Parse(cfg, bearer)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, "invalid token"))
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithPrincipal(ctx, principal.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
