package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the identity provider's session token.
// The provider issues HS256 tokens signed with a secret shared with this
// service; sub carries the provider-side user id.
type SessionClaims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"given_name,omitempty"`
	LastName  string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

type sessionKey string

const (
	clerkIDKey sessionKey = "clerk_id"
	claimsKey  sessionKey = "session_claims"
)

// ParseSessionToken verifies an identity-provider session token and returns
// its claims.
func ParseSessionToken(secret, token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Auth requires a valid Bearer session token and stores the provider user id
// and claims in the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			claims, err := ParseSessionToken(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), clerkIDKey, claims.Subject)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClerkIDFromContext returns the identity provider user id for the request, or
// an empty string for unauthenticated requests.
func ClerkIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(clerkIDKey).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromContext returns the full session claims when present.
func ClaimsFromContext(ctx context.Context) *SessionClaims {
	if v, ok := ctx.Value(claimsKey).(*SessionClaims); ok {
		return v
	}
	return nil
}

// ContextWithSession seeds a context with session values, for tests and
// internal calls.
func ContextWithSession(ctx context.Context, claims *SessionClaims) context.Context {
	if claims == nil || claims.Subject == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, clerkIDKey, claims.Subject)
	return context.WithValue(ctx, claimsKey, claims)
}
