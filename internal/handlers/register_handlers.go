package handlers

import (
	"github.com/backofficehq/jobledger_backend/cmd/docs"
	"github.com/backofficehq/jobledger_backend/internal/core/domain"
	portssvc "github.com/backofficehq/jobledger_backend/internal/core/ports/services"
	"github.com/backofficehq/jobledger_backend/internal/middleware"
	"github.com/backofficehq/jobledger_backend/pkg/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// One document handler per kind, same implementation underneath. The user
	// service doubles as the permission checker for mutating routes.
	RegisterDocumentRoutes(v1, "/invoices", domain.KindInvoice, services.InvoiceSvc, services.UserSvc)
	RegisterDocumentRoutes(v1, "/purchase-orders", domain.KindPurchaseOrder, services.PurchaseOrderSvc, services.UserSvc)
	RegisterDocumentRoutes(v1, "/credit-notes", domain.KindCreditNote, services.CreditNoteSvc, services.UserSvc)

	registerLedgerRoutes(v1, services.LedgerSvc, services.UserSvc)
	registerGLAccountRoutes(v1, services.GLAccountSvc, services.UserSvc)
	registerTaxRateRoutes(v1, services.TaxRateSvc)
	registerUserRoutes(v1, services.UserSvc)
	registerJobRoutes(v1, services.JobSvc)
	registerReportRoutes(v1, services.ReportingSvc)
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
