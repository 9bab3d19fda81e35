package middleware

import (
	"net/http"
	"strings"

	"posbackend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Context keys set by RequireRole
const (
	ContextUserID     = "userID"
	ContextUserRole   = "userRole"
	ContextBusinessID = "businessID"
)

// BusinessHeader selects the business for tokens that are not bound to one.
const BusinessHeader = "X-Business-ID"

// RequireRole Middleware validates the JWT token, checks if the user's role exists in the allowedRoles list
// and resolves the business the request operates on.
func RequireRole(secret []byte, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try cookie first, fallback to Authorization header
		tokenString, cookieErr := c.Cookie("access_token")
		if cookieErr != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid authorization format. Expected 'Bearer <token>'"))
				return
			}
			tokenString = parts[1]
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token: "+err.Error()))
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}

		if !lo.Contains(allowedRoles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		businessID, ok := resolveBusiness(c, claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Business scope is missing or invalid"))
			return
		}

		sub, _ := claims["sub"].(string)
		c.Set(ContextUserID, sub)
		c.Set(ContextUserRole, userRole)
		c.Set(ContextBusinessID, businessID)

		c.Next()
	}
}

// ParseToken verifies an HMAC-signed JWT and returns its claims.
func ParseToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// resolveBusiness prefers the business_id claim; the header is only consulted
// for tokens without one.
func resolveBusiness(c *gin.Context, claims jwt.MapClaims) (uuid.UUID, bool) {
	raw, _ := claims["business_id"].(string)
	if raw == "" {
		raw = c.GetHeader(BusinessHeader)
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// BusinessID returns the business resolved by RequireRole.
func BusinessID(c *gin.Context) uuid.UUID {
	id, _ := c.Get(ContextBusinessID)
	businessID, _ := id.(uuid.UUID)
	return businessID
}

// UserID returns the token subject, empty for service tokens.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
