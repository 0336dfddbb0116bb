package router

import (
	"github.com/gin-gonic/gin"

	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/http/handler"
	"dojo.app/platform/internal/http/middleware"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, issuer *auth.TokenIssuer) {
	rg.POST("/login", h.Login)

	authed := rg.Group("", middleware.Authenticate(issuer))
	authed.GET("/me", h.Me)
	authed.POST("/logout", h.Logout)
}
