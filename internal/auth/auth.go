// Package auth is the boundary to the external authentication
// collaborator. Token issuance and validation internals live outside
// this service; the middleware only extracts a bearer token, hands it to
// the injected verifier, and stores the resulting identity in the
// request context. Every persistence operation downstream must be scoped
// by the identity's user id.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityContextKey = "varlik.identity"

// RoleAdmin gates admin-only operations such as the manual refresh
// trigger.
const RoleAdmin = "admin"

// Identity is the authenticated caller: an opaque user id plus a role.
type Identity struct {
	UserID string
	Role   string
}

// TokenVerifier validates a bearer token and resolves its identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// ErrInvalidToken is returned by verifiers for unknown or malformed
// tokens.
var ErrInvalidToken = errors.New("invalid token")

// StaticVerifier resolves tokens from a fixed map of "user_id:role"
// values. Development stand-in for the real auth service.
type StaticVerifier struct {
	tokens map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	return &StaticVerifier{tokens: tokens}
}

func (v *StaticVerifier) Verify(token string) (Identity, error) {
	value, ok := v.tokens[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	userID, role, _ := strings.Cut(value, ":")
	if userID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Role: role}, nil
}

// Middleware authenticates requests via the Authorization header and
// aborts with 401 when the token is missing or rejected.
func Middleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		identity, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireRole allows only callers holding the given role. Must run after
// Middleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := FromContext(c)
		if !ok || identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// FromContext returns the identity stored by Middleware.
func FromContext(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
