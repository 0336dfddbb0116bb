package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"dojo.app/platform/common/logger"
	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/cache"
	"dojo.app/platform/internal/model"
)

const claimsKey = "auth_claims"

// Authenticate requires a valid Bearer token and stores its claims on the context.
func Authenticate(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		claims, err := issuer.Parse(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		fields := logger.LogFields{UserID: logger.Ptr(claims.UserID)}
		if claims.OrganizationID != 0 {
			fields.OrganizationID = logger.Ptr(claims.OrganizationID)
		}
		if claims.SchoolID != 0 {
			fields.SchoolID = logger.Ptr(claims.SchoolID)
		}
		c.Request = c.Request.WithContext(logger.WithLogFields(c.Request.Context(), fields))
		c.Set(claimsKey, claims)

		c.Next()
	}
}

// Authorize must run after Authenticate.
func Authorize(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// OrganizationCacheScope keys cached responses by the caller's organization.
func OrganizationCacheScope(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return cache.OrganizationScope(claims.OrganizationID)
	}
	return "public"
}
