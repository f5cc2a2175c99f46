package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/norvik-group/facility-api/docs"
	"github.com/norvik-group/facility-api/internal/auth"
	"github.com/norvik-group/facility-api/internal/config"
	"github.com/norvik-group/facility-api/internal/database"
	"github.com/norvik-group/facility-api/internal/erp"
	"github.com/norvik-group/facility-api/internal/http/handler"
	"github.com/norvik-group/facility-api/internal/http/middleware"
	"github.com/norvik-group/facility-api/internal/http/router"
	"github.com/norvik-group/facility-api/internal/jobs"
	"github.com/norvik-group/facility-api/internal/logger"
	"github.com/norvik-group/facility-api/internal/repository"
	"github.com/norvik-group/facility-api/internal/service"
	"github.com/norvik-group/facility-api/internal/storage"
	"go.uber.org/zap"
)

// @title Norvik Facility API
// @version 1.0
// @description Back office API for accommodation housing, supplier and client registries, payments, assets and the work order lifecycle

// @contact.name API Support
// @contact.email support@norvik.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "facility-api-staging.norvik.io"
	case "production":
		docs.SwaggerInfo.Host = "api.norvik.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets.
	// Development reads env vars; staging/production read Azure Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Accounting ledger connection (optional, read-only). The app continues
	// without it when unconfigured or unreachable.
	var ledger *erp.Client
	if cfg.Ledger.Enabled {
		ledger, err = erp.NewClient(&cfg.Ledger, log)
		if err != nil {
			log.Warn("ledger connection failed, continuing without it", zap.Error(err))
		} else if ledger != nil {
			log.Info("ledger connected",
				zap.Int("max_open_conns", cfg.Ledger.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.Ledger.QueryTimeout),
			)
		}
	} else {
		log.Info("ledger not configured, skipping")
	}

	// Repositories
	accommodationRepo := repository.NewAccommodationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	clientRepo := repository.NewClientRepository(db)
	pricingRuleRepo := repository.NewPricingRuleRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	professionRepo := repository.NewProfessionRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Services. The permission service is shared: every other service
	// resolves its module capabilities through it.
	permissionService := service.NewPermissionService(permissionRepo, log)
	accommodationService := service.NewAccommodationService(accommodationRepo, clientRepo, permissionService, log)
	paymentService := service.NewPaymentService(paymentRepo, supplierRepo, clientRepo, permissionService, log)
	supplierService := service.NewSupplierService(supplierRepo, ledger, permissionService, log)
	clientService := service.NewClientService(clientRepo, permissionService, log)
	pricingRuleService := service.NewPricingRuleService(pricingRuleRepo, clientRepo, permissionService, log)
	assetService := service.NewAssetService(assetRepo, accommodationRepo, permissionService, log)
	professionService := service.NewProfessionService(professionRepo, permissionService, log)
	workOrderService := service.NewWorkOrderService(workOrderRepo, clientRepo, accommodationRepo, pricingRuleRepo, permissionService, log)
	userService := service.NewUserService(userRepo, permissionRepo, permissionService, log)
	fileService := service.NewFileService(fileRepo, fileStorage, permissionService, log,
		cfg.Storage.MaxUploadSizeBytes(), cfg.Storage.AllowedContentTypes)
	dashboardService := service.NewDashboardService(workOrderRepo, paymentRepo, supplierRepo, clientRepo, accommodationRepo, permissionService, log)

	// Middleware
	jwtValidator := auth.NewJWTValidator(&cfg.Auth)
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, jwtValidator, log)
	accommodationHandler := handler.NewAccommodationHandler(accommodationService, log)
	paymentHandler := handler.NewPaymentHandler(paymentService, log)
	supplierHandler := handler.NewSupplierHandler(supplierService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	pricingRuleHandler := handler.NewPricingRuleHandler(pricingRuleService, log)
	assetHandler := handler.NewAssetHandler(assetService, log)
	professionHandler := handler.NewProfessionHandler(professionService, log)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, log)
	userHandler := handler.NewUserHandler(userService, log)
	fileHandler := handler.NewFileHandler(fileService, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		ledger,
		authMiddleware,
		rateLimiter,
		authHandler,
		accommodationHandler,
		paymentHandler,
		supplierHandler,
		clientHandler,
		pricingRuleHandler,
		assetHandler,
		professionHandler,
		workOrderHandler,
		userHandler,
		fileHandler,
		dashboardHandler,
	)

	// Background jobs: SLA breach scan, payment overdue sweep, and the
	// ledger reconciliation when the ledger is connected.
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterDeadlineJobs(
			scheduler, workOrderService, paymentService, log,
			cfg.Jobs.SLAScanSchedule, cfg.Jobs.OverdueSchedule,
		); err != nil {
			log.Error("failed to register deadline jobs", zap.Error(err))
		}
		if err := jobs.RegisterLedgerSyncJob(
			scheduler, ledger, supplierRepo, log, cfg.Jobs.LedgerSyncSchedule,
		); err != nil {
			log.Error("failed to register ledger sync job", zap.Error(err))
		}

		scheduler.Start()
		log.Info("scheduler started", zap.Strings("jobs", scheduler.GetJobNames()))
	} else {
		log.Info("background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if ledger != nil {
			if err := ledger.Close(); err != nil {
				log.Warn("error closing ledger connection", zap.Error(err))
			}
		}

		log.Info("server stopped gracefully")
	}

	return nil
}
