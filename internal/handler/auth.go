package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/zahrashop/backend/internal/domain/user"
)

// Context keys set by the auth middleware.
const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "role"
)

// Claims is the bearer token payload. Token issuance happens in the identity
// service; this API only verifies.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier parses and validates HS256 bearer tokens.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Parse validates the token signature and expiry and returns its claims.
func (v *JWTVerifier) Parse(tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Auth requires a valid bearer token and stores its identity on the context.
func Auth(verifier *JWTVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c, verifier)
		if err != nil {
			abortLocalized(c, http.StatusUnauthorized, "error.unauthorized")
			return
		}
		c.Set(ctxUserIDKey, claims.UserID)
		c.Set(ctxRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth stores the identity when a valid token is present and
// continues anonymously otherwise. Public surfaces use it to personalize
// wishlist and story state.
func OptionalAuth(verifier *JWTVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := bearerClaims(c, verifier); err == nil {
			c.Set(ctxUserIDKey, claims.UserID)
			c.Set(ctxRoleKey, claims.Role)
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin identities. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get(ctxRoleKey); role != user.RoleAdmin {
			abortLocalized(c, http.StatusForbidden, "error.forbidden")
			return
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, verifier *JWTVerifier) (*Claims, error) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}
	return verifier.Parse(strings.TrimPrefix(h, "Bearer "))
}

// userID returns the authenticated user ID, empty for anonymous requests.
func userID(c *gin.Context) string {
	id, _ := c.Get(ctxUserIDKey)
	s, _ := id.(string)
	return s
}
