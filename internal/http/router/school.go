package router

import (
	"github.com/gin-gonic/gin"

	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/cache"
	"dojo.app/platform/internal/http/handler"
	"dojo.app/platform/internal/http/middleware"
	"dojo.app/platform/internal/model"
)

// SchoolRouter sets up school management. Reads are cached per organization.
func SchoolRouter(rg *gin.RouterGroup, h *handler.SchoolHandler, issuer *auth.TokenIssuer, rc *cache.ResponseCache) {
	rg.Use(middleware.Authenticate(issuer))

	cached := rc.Middleware(middleware.OrganizationCacheScope)
	staff := middleware.Authorize(model.RoleSuperAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin)
	owners := middleware.Authorize(model.RoleSuperAdmin, model.RoleOrgAdmin)

	rg.GET("", staff, cached, h.List)
	rg.GET("/:id", staff, cached, h.Get)
	rg.GET("/:id/stats", staff, h.Stats)
	rg.POST("", owners, h.Create)
	rg.PUT("/:id", owners, h.Update)
	rg.DELETE("/:id", owners, h.Delete)
}
