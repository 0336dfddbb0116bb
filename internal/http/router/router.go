package router

import (
	"github.com/gin-gonic/gin"

	"dojo.app/platform/internal/auth"
	"dojo.app/platform/internal/cache"
	"dojo.app/platform/internal/http/handler"
	"dojo.app/platform/internal/service"
)

type RouterConfig struct {
	Issuer       *auth.TokenIssuer
	Cache        *cache.ResponseCache
	HealthChecks map[string]handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	responseCache := cfg.Cache
	if responseCache == nil {
		responseCache = cache.Disabled()
	}

	healthHandler := handler.NewHealthHandler(cfg.HealthChecks)
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		registrationHandler := handler.NewRegistrationHandler(
			services.Registration(),
			services.Subscriptions(),
			services.Auth(),
			responseCache,
		)
		RegistrationRouter(api.Group("/registration"), registrationHandler, cfg.Issuer)

		authHandler := handler.NewAuthHandler(services.Auth())
		AuthRouter(api.Group("/auth"), authHandler, cfg.Issuer)

		schoolHandler := handler.NewSchoolHandler(services.Schools(), responseCache)
		SchoolRouter(api.Group("/schools"), schoolHandler, cfg.Issuer, responseCache)
	}
}
