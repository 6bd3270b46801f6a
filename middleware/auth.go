package middleware

import (
	"context"
	"mediease/models"
	"mediease/utils"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "forbidden access"
)

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

// UserFinder looks a user up by email. It returns nil, nil when no user
// has that email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ClaimsFromContext returns the claims attached by Authenticate.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok && claims != nil
}

// Authenticator verifies bearer tokens.
type Authenticator struct {
	tokens TokenParser
}

func NewAuthenticator(tokens TokenParser) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Authenticate verifies the JWT in the Authorization header and attaches its
// claims to the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		claims, err := a.tokens.Parse(parts[1])
		if err != nil {
			utils.Debug("rejecting token: %v", err)
			utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RoleGate admits only users whose stored role equals Role. It must run
// after Authenticate. The role is read from the database on every request.
type RoleGate struct {
	users UserFinder
	role  string
}

func NewRoleGate(users UserFinder, role string) *RoleGate {
	return &RoleGate{users: users, role: role}
}

// Role returns the role this gate requires.
func (g *RoleGate) Role() string {
	return g.role
}

func (g *RoleGate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		user, err := g.users.FindByEmail(r.Context(), claims.Email)
		if err != nil {
			utils.Error("role lookup for %s: %v", claims.Email, err)
			utils.WriteError(w, http.StatusInternalServerError, "failed to verify role")
			return
		}
		if user == nil || user.Role != g.role {
			utils.WriteError(w, http.StatusForbidden, msgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// MatchEmail rejects the request unless the path variable varName equals the
// token's email. Roles are not consulted.
func MatchEmail(varName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			if mux.Vars(r)[varName] != claims.Email {
				utils.WriteError(w, http.StatusForbidden, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
