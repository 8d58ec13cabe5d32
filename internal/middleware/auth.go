package middleware

import (
	"net/http"
	"strings"

	"github.com/warklp/saasBarber-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const claimsKey = "auth_claims"

// JWTClaims is the payload carried by both access and refresh tokens. The
// TokenType discriminator prevents a refresh token from being replayed as an
// access token.
type JWTClaims struct {
	UserID    uuid.UUID `json:"uid"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	TokenType string    `json:"typ"` // access | refresh
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer access token and stores the claims on the
// request context.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(raw, secret)
		if err != nil || claims.TokenType != "access" {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated role is
// one of the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden,
			apierror.Fail(apierror.Forbidden("insufficient role for this operation")))
	}
}

// ParseToken verifies signature and expiry, rejecting any algorithm other
// than HMAC.
func ParseToken(raw, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &JWTClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GetClaims retrieves the claims stored by JWTAuth.
func GetClaims(c *gin.Context) (*JWTClaims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*JWTClaims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.Envelope{
		Success: false,
		Error:   &apierror.Error{Code: "UNAUTHORIZED", Message: msg},
	})
}
