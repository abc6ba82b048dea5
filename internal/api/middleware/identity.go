package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sala-livre/batepapo/internal/sanitize"
	"github.com/sala-livre/batepapo/internal/services/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity resolves who is asking. A Bearer session token issued at
// registration takes precedence; the legacy User header is accepted as a
// fallback and is never verified beyond sanitization — the gate's
// directory check is what makes it meaningful. Requests without either
// proceed anonymously; handlers that need an identity reject them.
func Identity(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := resolveIdentity(r, authService)
			if name != "" {
				ctx := context.WithValue(r.Context(), identityContextKey, name)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolveIdentity(r *http.Request, authService *auth.Service) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if name, err := authService.Resolve(token); err == nil {
			return name
		}
	}

	return sanitize.Text(r.Header.Get("User"))
}

// GetIdentity returns the requester name from the context, or "" when the
// request carried no identity
func GetIdentity(ctx context.Context) string {
	name, _ := ctx.Value(identityContextKey).(string)
	return name
}
