package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/prasetyowira/qrcodes/constant"
	appLogger "github.com/prasetyowira/qrcodes/infrastructure/logger"
)

// SessionStore resolves admin session tokens issued by the auth collaborator
// and purges a shop's sessions on uninstall.
type SessionStore interface {
	ShopForToken(ctx context.Context, token string) (string, error)
	DeleteSessionsByShop(ctx context.Context, shop string) error
}

// sessionAuth guards admin routes with a bearer session token. On success
// the owning shop is placed in the request context.
func sessionAuth(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" || token == r.Header.Get("Authorization") {
				WriteJSONError(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			shop, err := store.ShopForToken(ctx, token)
			if err != nil {
				appLogger.CtxWarn(ctx, "Rejected admin request", appLogger.LoggerInfo{
					ContextFunction: constant.CtxAPI,
					Error: &appLogger.CustomError{
						Code:    constant.ErrCodeAPIUnauthorized,
						Message: err.Error(),
						Type:    constant.ErrTypeAPI,
					},
				})
				WriteJSONError(w, "Invalid session token", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, constant.ShopKey, shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ShopFromContext returns the shop set by sessionAuth, or empty.
func ShopFromContext(ctx context.Context) string {
	if shop, ok := ctx.Value(constant.ShopKey).(string); ok {
		return shop
	}
	return ""
}

// WithShop places the owning shop in the context; used by tests and by any
// caller invoking handlers outside the router.
func WithShop(ctx context.Context, shop string) context.Context {
	return context.WithValue(ctx, constant.ShopKey, shop)
}
