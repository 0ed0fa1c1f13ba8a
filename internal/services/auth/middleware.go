package auth

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/mlukyanov/authsvc/internal/domain/auth"
)

type ctxKey int

const claimsKey ctxKey = 1

func ClaimsFromContext(ctx context.Context) (*domainauth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domainauth.Claims)
	return claims, ok
}

// RequireAuth verifies the bearer access token and stores its claims in the
// request context. Missing token yields 401, a bad or expired one 403.
func (c *Controller) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			c.respondMsg(w, http.StatusUnauthorized, "Access token required")
			return
		}
		claims, err := c.tokens.VerifyAccess(token)
		if err != nil {
			c.respondMsg(w, http.StatusForbidden, "Invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	v := r.Header.Get("Authorization")
	if v == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(v), "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return v
}
