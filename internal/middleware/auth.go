package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// tokenClaims is the payload Vadtrans issues at login: the subject user and
// their role, plus the registered expiry.
type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth returns a middleware that validates the Authorization bearer
// token (HS256) and stores the caller's identity in the request context.
// Requests with a missing, malformed, or expired token get 401.
func RequireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w)
				return
			}

			claims := &tokenClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				unauthorized(w)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				unauthorized(w)
				return
			}
			role := domain.Role(claims.Role)
			if role != domain.RoleTraveler && role != domain.RoleOperator && role != domain.RoleAdmin {
				unauthorized(w)
				return
			}

			identity := domain.Identity{UserID: userID, Role: role}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"missing or invalid credentials"}`))
}

// WithIdentity stores an identity in ctx. Exported so handler tests can build
// authenticated requests without minting tokens.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFrom extracts the authenticated identity placed by RequireAuth.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// SignToken mints an HS256 token for the given identity with the provided
// registered claims. Used by login flows and tests.
func SignToken(secret []byte, identity domain.Identity, registered jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &tokenClaims{
		UserID:           identity.UserID.String(),
		Role:             string(identity.Role),
		RegisteredClaims: registered,
	})
	return token.SignedString(secret)
}
