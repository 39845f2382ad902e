package handlers

import (
	portssvc "github.com/SscSPs/moneyflow/internal/core/ports/services"
	"github.com/SscSPs/moneyflow/internal/middleware"
	"github.com/SscSPs/moneyflow/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) {
	r.GET("/", getHome)
	r.GET("/health", getHealth)

	setupAPIV1Routes(r, cfg, services, apiMiddleware...)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	apiMiddleware ...gin.HandlerFunc,
) {
	// Auth runs first so per-user middleware (rate limiting) can key on the subject
	chain := append([]gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}, apiMiddleware...)
	v1 := r.Group("/api/v1", chain...)

	RegisterDashboardRoutes(v1, services.Dashboard, services.Session)
	RegisterAccountRoutes(v1, services.Account, services.Settings)
	RegisterCategoryRoutes(v1, services.Category, services.Counterparty)
	RegisterTransactionRoutes(v1, services.Transaction, services.Transfer)
	RegisterPlanningRoutes(v1, services)
	RegisterSettingsRoutes(v1, services.Settings)
}
