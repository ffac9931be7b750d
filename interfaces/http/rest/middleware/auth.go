package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"nutrilens/pkg/common"
	"nutrilens/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// UserContext is the identity the auth middleware extracts from a
// validated token.
type UserContext struct {
	UserID string
	Email  string
}

// WithUser injects an authenticated user into the context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser returns the authenticated user from the request context.
func GetUser(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, errors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}

// supabaseClaims are the claims the managed provider signs into its
// access tokens.
type supabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate validates the Supabase HS256 access token on protected
// routes and injects the user context.
func Authenticate(jwtSecret string, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			claims := &supabaseClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.NewUnauthorizedError("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				logger.Debug("token validation failed", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}
			if claims.Subject == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "token has no subject")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, &UserContext{
				UserID: claims.Subject,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
