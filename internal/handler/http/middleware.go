package http

import (
	"context"
	"net/http"

	"github.com/Ezra-186/Team09-HCH/pkg/httputil"
	"github.com/Ezra-186/Team09-HCH/pkg/logger"

	"github.com/Ezra-186/Team09-HCH/internal/auth"
)

type contextKey string

const sellerIDKey contextKey = "seller_id"

// SellerFromContext returns the authenticated seller id, if any.
func SellerFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sellerIDKey).(string)
	return id, ok && id != ""
}

// SessionMiddleware resolves the session cookie into a seller id on the
// request context. An absent or invalid cookie is not an error here; routes
// that need authentication layer RequireSeller on top.
func SessionMiddleware(codec *auth.SessionCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sellerID, ok := codec.Verify(cookie.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), sellerIDKey, sellerID)
			ctx = logger.WithSellerID(ctx, sellerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSeller rejects requests that did not present a valid session.
func RequireSeller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SellerFromContext(r.Context()); !ok {
			httputil.WriteMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
