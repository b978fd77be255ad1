package auth

import (
	"context"
	"eyesup/errors"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RolesKey  contextKey = "roles"
)

// Unauthorized writes the rejection of a request.
type Unauthorized func(w http.ResponseWriter, r *http.Request, err error)

// RequireToken validates the bearer token of every request before handing
// it to next. Browsers cannot set headers on a websocket upgrade, so a
// token query parameter is accepted as well.
func RequireToken(issuer *TokenIssuer, reject Unauthorized) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				reject(w, r, errors.ErrUnauthorized)
				return
			}
			claims, err := issuer.ValidateToken(tokenStr)
			if err != nil {
				reject(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RolesKey, claims.Roles)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		// Expecting the standard "Bearer <token>" format
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// UserID returns the caller identity injected by RequireToken.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
