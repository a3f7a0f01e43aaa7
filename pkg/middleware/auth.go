package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "auth_identity"

// Identity is the per-request authenticated caller, resolved once at
// the boundary. Handlers read it from the context and never fall back
// to identity fields in request bodies.
type Identity struct {
	UserID string
	Admin  bool
}

type claims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

func IssueToken(secret, userID string, admin bool) (string, error) {
	c := claims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func parseToken(secret, raw string) (*Identity, bool) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || c.Subject == "" {
		return nil, false
	}
	return &Identity{UserID: c.Subject, Admin: c.Admin}, true
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return after
	}
	// Legacy storefront clients send the raw token in a "token" header.
	return c.GetHeader("token")
}

// Auth requires a valid user token.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseToken(secret, bearerToken(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}
		c.Set(identityKey, *id)
		c.Next()
	}
}

// OptionalAuth resolves identity when a token is present but lets
// anonymous requests through (guest checkout).
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := parseToken(secret, bearerToken(c)); ok {
			c.Set(identityKey, *id)
		}
		c.Next()
	}
}

// AdminAuth requires a valid token carrying the admin claim.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseToken(secret, bearerToken(c))
		if !ok || !id.Admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}
		c.Set(identityKey, *id)
		c.Next()
	}
}

// IdentityFrom returns the resolved identity, if any.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
