package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Principal identifies the authenticated user for the request.
type Principal struct {
	UserID string
	Email  string
}

type claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

const principalKey contextKey = "principal"

// WithPrincipal stores the principal on the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the request's principal and whether one was set.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// Auth validates the Bearer token and attaches the principal. The user ID
// comes from the userId claim, falling back to the subject.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				WriteError(w, http.StatusUnauthorized, "Authorization header must be a Bearer token")
				return
			}

			var c claims
			token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			userID := c.UserID
			if userID == "" {
				userID = c.Subject
			}
			if userID == "" {
				WriteError(w, http.StatusUnauthorized, "Token carries no user identity")
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{UserID: userID, Email: c.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
