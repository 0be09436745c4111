package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitejournal/bitejournal/model"
	"github.com/bitejournal/bitejournal/utils/flag"
	"github.com/bitejournal/bitejournal/utils/token"
)

const identityKey = "caller_identity"

var (
	// tokenManager verifies bearer tokens for the JWT middlewares. Before using
	// any middleware in this package, make sure it's initialized via Setup.
	tokenManager *token.Manager
)

// Identity is the resolved caller of a request. Handlers receive it explicitly
// through GetIdentity instead of consulting any ambient session state.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// Setup initializes all package scoped variables that are needed to perform
// middleware functionalities. This function must be called before any
// middleware is used.
func Setup(m *token.Manager) {
	tokenManager = m
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// JWT rejects any request without a valid access token before it reaches a
// handler. On success the resolved Identity is stored on the request context.
// With the bypass_auth flag set the guard degrades to OptionalJWT, so local
// debugging can hit protected routes without minting tokens.
func JWT() gin.HandlerFunc {
	optional := OptionalJWT()
	return func(c *gin.Context) {
		if flag.ByPassAuth {
			optional(c)
			return
		}

		jwt := bearerToken(c)

		if jwt == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing bearer token"})
			return
		}

		claims, err := tokenManager.VerifyAccessToken(jwt)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(identityKey, Identity{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// OptionalJWT resolves the caller identity when a valid token is presented and
// lets the request through anonymous otherwise. Read endpoints use it to derive
// per-user fields (hasLiked, isBookmarked) without requiring auth.
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwt := bearerToken(c); jwt != "" {
			if claims, err := tokenManager.VerifyAccessToken(jwt); err == nil {
				c.Set(identityKey, Identity{UserID: claims.UserID, Role: claims.Role})
			}
		}
		c.Next()
	}
}

// GetIdentity returns the caller resolved by JWT/OptionalJWT, and false when
// the request is anonymous.
func GetIdentity(c *gin.Context) (Identity, bool) {
	val, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	return val.(Identity), true
}

// CanModify is the ownership rule applied to every mutating operation: the
// caller must own the resource or be an admin. Written once against the
// Ownable capability instead of per resource kind.
func CanModify(caller Identity, resource model.Ownable) bool {
	return caller.IsAdmin() || resource.OwnerID() == caller.UserID
}
