package http

import (
	"context"
	"net/http"
	"strings"

	"taskmasters/internal/domain"
	"taskmasters/internal/service"
)

type ctxKey string

const ctxKeyAccountID ctxKey = "account_id"

// requireAuth verifies the bearer token and stashes the account ID in the
// request context. It never hits the database; tokens are self-contained.
func requireAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			accountID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAccountID, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accountIDFromContext returns the authenticated account, set by requireAuth.
func accountIDFromContext(ctx context.Context) (domain.AccountID, bool) {
	id, ok := ctx.Value(ctxKeyAccountID).(domain.AccountID)
	return id, ok
}
