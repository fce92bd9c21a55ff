package middleware

import (
	"context"
	"net/http"
	"strings"

	"ticketdesk/internal/models"
	"ticketdesk/internal/policy"
	"ticketdesk/internal/utils"
)

type ctxKey int

const principalKey ctxKey = iota

// PrincipalFrom returns the authenticated principal set by Authenticate.
func PrincipalFrom(ctx context.Context) (policy.Principal, bool) {
	p, ok := ctx.Value(principalKey).(policy.Principal)
	return p, ok
}

// WithPrincipal is exposed for handler tests.
func WithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authenticate verifies the bearer credential on every protected request.
// A missing token is unauthenticated (401); a present but invalid or expired
// token is forbidden (403). The two cases are deliberately not collapsed.
func Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			tok := strings.TrimPrefix(h, "Bearer ")

			claims, err := utils.ParseJWT(secret, tok)
			if err != nil {
				utils.Error(w, http.StatusForbidden, "invalid credentials")
				return
			}
			role, ok := models.ParseRole(claims.Role)
			if !ok {
				utils.Error(w, http.StatusForbidden, "invalid credentials")
				return
			}

			p := policy.Principal{ID: claims.UserID, Email: claims.Email, Role: role}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
