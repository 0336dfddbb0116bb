package router

import (
	"github.com/gin-gonic/gin"

	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/http/handler"
	"dojo.app/platform/internal/http/middleware"
	"dojo.app/platform/internal/model"
)

// RegistrationRouter sets up sign-up and trial routes.
// - register, check-email and schema are public
// - trial management requires an organization or super admin
func RegistrationRouter(rg *gin.RouterGroup, h *handler.RegistrationHandler, issuer *auth.TokenIssuer) {
	rg.POST("/register", h.Register)
	rg.POST("/check-email", h.CheckEmail)
	rg.GET("/schema", h.Schema)

	authed := rg.Group("", middleware.Authenticate(issuer))
	{
		authed.GET("/trial-status", h.TrialStatus)

		admins := authed.Group("", middleware.Authorize(model.RoleSuperAdmin, model.RoleOrgAdmin))
		admins.POST("/extend-trial", h.ExtendTrial)
		admins.POST("/convert-subscription", h.ConvertSubscription)
	}
}
