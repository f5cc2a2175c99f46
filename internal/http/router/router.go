package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/config"
	"github.com/norvik-group/facility-api/internal/database"
	"github.com/norvik-group/facility-api/internal/erp"
	"github.com/norvik-group/facility-api/internal/http/handler"
	"github.com/norvik-group/facility-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/norvik-group/facility-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                  *config.Config
	logger               *zap.Logger
	db                   *gorm.DB
	ledger               *erp.Client
	authMiddleware       *auth.Middleware
	rateLimiter          *middleware.RateLimiter
	authHandler          *handler.AuthHandler
	accommodationHandler *handler.AccommodationHandler
	paymentHandler       *handler.PaymentHandler
	supplierHandler      *handler.SupplierHandler
	clientHandler        *handler.ClientHandler
	pricingRuleHandler   *handler.PricingRuleHandler
	assetHandler         *handler.AssetHandler
	professionHandler    *handler.ProfessionHandler
	workOrderHandler     *handler.WorkOrderHandler
	userHandler          *handler.UserHandler
	fileHandler          *handler.FileHandler
	dashboardHandler     *handler.DashboardHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	ledger *erp.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	accommodationHandler *handler.AccommodationHandler,
	paymentHandler *handler.PaymentHandler,
	supplierHandler *handler.SupplierHandler,
	clientHandler *handler.ClientHandler,
	pricingRuleHandler *handler.PricingRuleHandler,
	assetHandler *handler.AssetHandler,
	professionHandler *handler.ProfessionHandler,
	workOrderHandler *handler.WorkOrderHandler,
	userHandler *handler.UserHandler,
	fileHandler *handler.FileHandler,
	dashboardHandler *handler.DashboardHandler,
) *Router {
	return &Router{
		cfg:                  cfg,
		logger:               logger,
		db:                   db,
		ledger:               ledger,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		authHandler:          authHandler,
		accommodationHandler: accommodationHandler,
		paymentHandler:       paymentHandler,
		supplierHandler:      supplierHandler,
		clientHandler:        clientHandler,
		pricingRuleHandler:   pricingRuleHandler,
		assetHandler:         assetHandler,
		professionHandler:    professionHandler,
		workOrderHandler:     workOrderHandler,
		userHandler:          userHandler,
		fileHandler:          fileHandler,
		dashboardHandler:     dashboardHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check across dependencies. The ledger is optional
	// and does not fail readiness when disabled.
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		if rt.ledger.IsEnabled() {
			status := rt.ledger.HealthCheck(r.Context())
			checks["ledger"] = status
			if status.Status == "unhealthy" {
				allHealthy = false
			}
		} else {
			checks["ledger"] = map[string]interface{}{"status": "disabled"}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Post("/auth/token", rt.authHandler.IssueToken)

			// Accommodations
			r.Route("/accommodations", func(r chi.Router) {
				r.Get("/", rt.accommodationHandler.List)
				r.Post("/", rt.accommodationHandler.Create)
				r.Get("/{id}", rt.accommodationHandler.Get)
				r.Put("/{id}", rt.accommodationHandler.Update)
				r.Delete("/{id}", rt.accommodationHandler.Delete)
			})

			// Payments
			r.Route("/payments", func(r chi.Router) {
				r.Get("/", rt.paymentHandler.List)
				r.Post("/", rt.paymentHandler.Create)
				r.Get("/{id}", rt.paymentHandler.Get)
				r.Put("/{id}", rt.paymentHandler.Update)
				r.Delete("/{id}", rt.paymentHandler.Delete)
			})

			// Suppliers and supplier types
			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", rt.supplierHandler.List)
				r.Post("/", rt.supplierHandler.Create)
				r.Get("/types", rt.supplierHandler.ListTypes)
				r.Post("/types", rt.supplierHandler.CreateType)
				r.Delete("/types/{id}", rt.supplierHandler.DeleteType)
				r.Get("/{id}", rt.supplierHandler.Get)
				r.Put("/{id}", rt.supplierHandler.Update)
				r.Delete("/{id}", rt.supplierHandler.Delete)
				r.Get("/{id}/ledger", rt.supplierHandler.LedgerBalance)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.Get)
				r.Put("/{id}", rt.clientHandler.Update)
				r.Delete("/{id}", rt.clientHandler.Delete)
			})

			// Pricing rules
			r.Route("/pricing-rules", func(r chi.Router) {
				r.Get("/", rt.pricingRuleHandler.List)
				r.Post("/", rt.pricingRuleHandler.Create)
				r.Get("/{id}", rt.pricingRuleHandler.Get)
				r.Put("/{id}", rt.pricingRuleHandler.Update)
				r.Delete("/{id}", rt.pricingRuleHandler.Delete)
			})

			// Assets
			r.Route("/assets", func(r chi.Router) {
				r.Get("/", rt.assetHandler.List)
				r.Post("/", rt.assetHandler.Create)
				r.Get("/{id}", rt.assetHandler.Get)
				r.Put("/{id}", rt.assetHandler.Update)
				r.Delete("/{id}", rt.assetHandler.Delete)
			})

			// Professions
			r.Route("/professions", func(r chi.Router) {
				r.Get("/", rt.professionHandler.List)
				r.Put("/", rt.professionHandler.Upsert)
				r.Get("/{name}", rt.professionHandler.Get)
				r.Delete("/{name}", rt.professionHandler.Delete)
			})

			// Work orders and line items
			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", rt.workOrderHandler.List)
				r.Post("/", rt.workOrderHandler.Create)
				r.Get("/{id}", rt.workOrderHandler.Get)
				r.Put("/{id}", rt.workOrderHandler.Update)
				r.Delete("/{id}", rt.workOrderHandler.Delete)
				r.Post("/{id}/warranty", rt.workOrderHandler.ReopenAsWarranty)

				r.Post("/{id}/services", rt.workOrderHandler.AddService)
				r.Delete("/{id}/services/{serviceId}", rt.workOrderHandler.DeleteService)
				r.Post("/{id}/services/{serviceId}/approve", rt.workOrderHandler.ApproveService)

				r.Post("/{id}/parts", rt.workOrderHandler.AddPart)
				r.Delete("/{id}/parts/{partId}", rt.workOrderHandler.DeletePart)
				r.Post("/{id}/parts/{partId}/approve", rt.workOrderHandler.ApprovePart)

				r.Post("/{id}/addons", rt.workOrderHandler.AddAddon)
				r.Delete("/{id}/addons/{addonId}", rt.workOrderHandler.DeleteAddon)
				r.Post("/{id}/addons/{addonId}/approve", rt.workOrderHandler.ApproveAddon)
			})

			// Users and roles
			r.Route("/users", func(r chi.Router) {
				r.Get("/", rt.userHandler.List)
				r.Post("/", rt.userHandler.Create)
				r.Get("/{id}", rt.userHandler.Get)
				r.Put("/{id}", rt.userHandler.Update)
				r.Delete("/{id}", rt.userHandler.Delete)
			})
			r.Route("/roles", func(r chi.Router) {
				r.Get("/", rt.userHandler.ListRoles)
				r.Post("/", rt.userHandler.CreateRole)
				r.Get("/{id}", rt.userHandler.GetRole)
				r.Put("/{id}", rt.userHandler.UpdateRole)
				r.Delete("/{id}", rt.userHandler.DeleteRole)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Get("/", rt.fileHandler.ListForRecord)
				r.Post("/", rt.fileHandler.Upload)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			// Dashboard
			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/summary", rt.dashboardHandler.Summary)
				r.Get("/work-orders-by-status", rt.dashboardHandler.WorkOrdersByStatus)
			})
		})
	})

	return r
}
