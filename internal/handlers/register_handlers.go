package handlers

import (
	"github.com/SscSPs/fintech_ledger/cmd/ledger_backend/docs"
	portssvc "github.com/SscSPs/fintech_ledger/internal/core/ports/services"
	"github.com/SscSPs/fintech_ledger/internal/middleware"
	"github.com/SscSPs/fintech_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	verifier middleware.IdentityVerifier,
	rateLimit gin.HandlerFunc,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, verifier, rateLimit)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	verifier middleware.IdentityVerifier,
	rateLimit gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1")

	// Operator routes use the admin key instead of an owner token
	registerAdminRoutes(v1.Group("/admin", middleware.AdminKeyMiddleware(cfg.AdminKeyHash), rateLimit), services)

	// Rate limiting runs after auth so requests are counted per owner
	owner := v1.Group("", middleware.AuthMiddleware(verifier), rateLimit)
	registerAccountRoutes(owner, services.Account, services.Ledger)
	registerTransactionRoutes(owner, services.Ledger)
	registerReportingRoutes(owner, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
