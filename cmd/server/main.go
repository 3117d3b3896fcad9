package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appaffiliate "github.com/rentfold/backend/internal/application/affiliate"
	appbilling "github.com/rentfold/backend/internal/application/billing"
	appevent "github.com/rentfold/backend/internal/application/event"
	appfinance "github.com/rentfold/backend/internal/application/finance"
	appidentity "github.com/rentfold/backend/internal/application/identity"
	appleasing "github.com/rentfold/backend/internal/application/leasing"
	applisting "github.com/rentfold/backend/internal/application/listing"
	appportfolio "github.com/rentfold/backend/internal/application/portfolio"
	appreporting "github.com/rentfold/backend/internal/application/reporting"
	"github.com/rentfold/backend/internal/domain/billing"
	"github.com/rentfold/backend/internal/domain/identity"
	"github.com/rentfold/backend/internal/infrastructure/auth"
	"github.com/rentfold/backend/internal/infrastructure/cache"
	"github.com/rentfold/backend/internal/infrastructure/config"
	"github.com/rentfold/backend/internal/infrastructure/crypto"
	"github.com/rentfold/backend/internal/infrastructure/event"
	"github.com/rentfold/backend/internal/infrastructure/logger"
	"github.com/rentfold/backend/internal/infrastructure/persistence"
	"github.com/rentfold/backend/internal/infrastructure/scheduler"
	"github.com/rentfold/backend/internal/infrastructure/storage"
	"github.com/rentfold/backend/internal/infrastructure/telemetry"
	"github.com/rentfold/backend/internal/interfaces/http/handler"
	"github.com/rentfold/backend/internal/interfaces/http/middleware"
	"github.com/rentfold/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Rentfold Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// OpenTelemetry providers (optional)
	var meterProvider *telemetry.MeterProvider
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			if err := meterProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
			Enabled:           cfg.Telemetry.LogsEnabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize logger provider", zap.Error(err))
		}
		defer func() {
			if err := logsProvider.Shutdown(context.Background()); err != nil {
				log.Error("Error shutting down logger provider", zap.Error(err))
			}
		}()
		if logsProvider.IsEnabled() {
			bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				Output:     cfg.Log.Output,
				TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			}, logsProvider, cfg.Telemetry.ServiceName)
			if err != nil {
				log.Fatal("Failed to bridge logger to collector", zap.Error(err))
			}
			log = bridged
		}
	}

	// Continuous profiling (optional)
	if cfg.Profiling.Enabled {
		profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
			Enabled:             true,
			ServerAddress:       cfg.Profiling.ServerAddress,
			ApplicationName:     cfg.Telemetry.ServiceName,
			BasicAuthUser:       cfg.Profiling.BasicAuthUser,
			BasicAuthPassword:   cfg.Profiling.BasicAuthPassword,
			ProfileCPU:          true,
			ProfileAllocObjects: true,
			ProfileAllocSpace:   true,
			ProfileInuseObjects: true,
			ProfileInuseSpace:   true,
			ProfileGoroutines:   true,
		}, log)
		if err != nil {
			log.Fatal("Failed to start profiler", zap.Error(err))
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
	}

	// Initialize database connection
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing and metrics (optional)
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if meterProvider != nil {
		dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		if dbMetrics != nil {
			dbMetrics.StartPoolStatsCollection(ctx)
			defer dbMetrics.Stop()
		}
	}

	// Initialize repositories
	businessRepo := persistence.NewGormBusinessRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	rentPaymentRepo := persistence.NewGormRentPaymentRepository(db.DB)
	maintenanceRepo := persistence.NewGormMaintenanceRequestRepository(db.DB)
	applicationRepo := persistence.NewGormRentalApplicationRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	accountRepo := persistence.NewGormLedgerAccountRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	tierRepo := persistence.NewGormPackageTierRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	addOnRepo := persistence.NewGormAddOnRepository(db.DB)
	affiliateRepo := persistence.NewGormAffiliateRepository(db.DB)
	referralRepo := persistence.NewGormReferralRepository(db.DB)
	aiKeyRepo := persistence.NewGormAIAPIKeyRepository(db.DB)
	aiUsageRepo := persistence.NewGormAIUsageRepository(db.DB)
	platformSettingRepo := persistence.NewGormPlatformSettingRepository(db.DB)
	resourceCounter := persistence.NewGormResourceCounter(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Inject outbox publisher into repositories whose aggregates raise
	// events, so events commit in the same transaction as state
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	rentPaymentRepo.SetOutboxEventSaver(outboxPublisher)

	// Redis-backed idempotency store with in-memory fallback, shared by
	// the event handlers and the Square endpoints
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Plan cache is optional: entitlement checks fall back to the
	// database when it is unavailable
	planCache, err := cache.NewPlanCache(cfg.Redis, log)
	if err != nil {
		log.Warn("Plan cache unavailable, entitlement checks will hit the database", zap.Error(err))
		planCache = nil
	}

	// Cipher for AI provider keys at rest. Production requires a
	// configured key; development gets an ephemeral one.
	var keyCipher *crypto.AESKeyCipher
	if cfg.Crypto.ProviderKeyB64 != "" {
		keyCipher, err = crypto.NewAESKeyCipherFromBase64(cfg.Crypto.ProviderKeyB64)
		if err != nil {
			log.Fatal("Failed to initialize provider key cipher", zap.Error(err))
		}
	} else {
		ephemeral := make([]byte, 32)
		if _, err := rand.Read(ephemeral); err != nil {
			log.Fatal("Failed to generate ephemeral cipher key", zap.Error(err))
		}
		keyCipher, err = crypto.NewAESKeyCipher(ephemeral)
		if err != nil {
			log.Fatal("Failed to initialize provider key cipher", zap.Error(err))
		}
		log.Warn("crypto.provider_key not set, stored AI provider keys will not survive a restart",
			zap.String("hint", "set RENTFOLD_CRYPTO_PROVIDER_KEY to a base64 32-byte key"),
			zap.String("example", base64.StdEncoding.EncodeToString(ephemeral)[:8]+"..."),
		)
	}

	// Photo storage: S3-compatible when configured, otherwise a stub
	// that keeps listings usable without object storage
	var photoStorage applisting.PhotoStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3PhotoStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize photo storage", zap.Error(err))
		}
		photoStorage = s3Storage
		log.Info("Photo storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		photoStorage = storage.NewStubPhotoStorage()
		log.Warn("storage.bucket not set, listing photos are disabled")
	}

	// Token blacklist: Redis when reachable, in-memory otherwise
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis token blacklist unavailable, falling back to in-memory", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Initialize application services
	entitlementOpts := []appbilling.EntitlementServiceOption{}
	if planCache != nil {
		entitlementOpts = append(entitlementOpts, appbilling.WithPlanCache(planCache))
	}
	entitlementService := appbilling.NewEntitlementService(subscriptionRepo, tierRepo, addOnRepo, resourceCounter, log, entitlementOpts...)

	affiliateService := appaffiliate.NewAffiliateService(affiliateRepo, referralRepo, log)

	subscriptionOpts := []appbilling.SubscriptionServiceOption{}
	if planCache != nil {
		subscriptionOpts = append(subscriptionOpts, appbilling.WithPlanCacheInvalidation(planCache))
	}
	subscriptionService := appbilling.NewSubscriptionService(subscriptionRepo, tierRepo, addOnRepo, affiliateService, log, subscriptionOpts...)

	usageAggregationService := appbilling.NewUsageAggregationService(subscriptionRepo, aiUsageRepo, log)
	aiService := appbilling.NewAIService(aiKeyRepo, aiUsageRepo, entitlementService, keyCipher, log)

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, jwtService, tokenBlacklist, appidentity.DefaultAuthServiceConfig(), log)
	userService := appidentity.NewUserService(userRepo, log)
	businessService := appidentity.NewBusinessService(businessRepo, userRepo, subscriptionService, affiliateService, log)
	superAdminService := appidentity.NewSuperAdminService(businessRepo, businessService, subscriptionService, subscriptionRepo, log)

	// Portfolio and leasing services
	propertyService := appportfolio.NewPropertyService(propertyRepo, entitlementService, log)
	unitService := appportfolio.NewUnitService(unitRepo, propertyRepo, entitlementService, log)
	tenantService := appleasing.NewTenantService(tenantRepo, entitlementService, log)
	leaseService := appleasing.NewLeaseService(leaseRepo, tenantRepo, unitRepo, log)
	paymentService := appleasing.NewRentPaymentService(rentPaymentRepo, leaseRepo, log)
	maintenanceService := appleasing.NewMaintenanceService(maintenanceRepo, unitRepo, log)
	applicationService := appleasing.NewApplicationService(applicationRepo, unitRepo, log)
	listingService := applisting.NewListingService(listingRepo, unitRepo, entitlementService, photoStorage, log)

	// Finance and reporting services
	accountService := appfinance.NewAccountService(accountRepo, log)
	ledgerService := appfinance.NewLedgerService(entryRepo, accountRepo, log)
	budgetService := appfinance.NewBudgetService(budgetRepo, accountRepo, entryRepo, log)
	dashboardService := appreporting.NewDashboardService(propertyRepo, unitRepo, tenantRepo, leaseRepo, rentPaymentRepo, maintenanceRepo, log)
	templateService := appreporting.NewImportTemplateService()
	statementService := appreporting.NewStatementService(entryRepo, accountRepo, log)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Settled rent payments post revenue to the ledger. The handler is
	// wrapped for idempotency because outbox delivery is at-least-once.
	settledHandler := appfinance.NewRentPaymentSettledHandler(entryRepo, accountRepo, log)
	eventBus.Subscribe(event.NewIdempotentHandler(settledHandler, idempotencyStore, log))
	log.Info("Event handlers registered",
		zap.Strings("rent_payment_settled_events", settledHandler.EventTypes()),
	)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers stored events to the bus
	if cfg.Event.ProcessorEnabled {
		outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			outboxProcessorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			outboxProcessorConfig.PollInterval = cfg.Event.PollInterval
		}
		outboxProcessorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			outboxProcessorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}

		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", outboxProcessorConfig.BatchSize),
			zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
		)
	}

	// Background jobs: lease expiry sweep, subscription rollover, AI
	// usage aggregation
	if cfg.Scheduler.Enabled {
		jobScheduler, err := scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, log)
		if err != nil {
			log.Fatal("Failed to create scheduler", zap.Error(err))
		}
		if err := scheduler.RegisterStandardJobs(jobScheduler, cfg.Scheduler, leaseService, subscriptionService, usageAggregationService, log); err != nil {
			log.Fatal("Failed to register scheduled jobs", zap.Error(err))
		}
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
		log.Info("Scheduler started",
			zap.Duration("lease_sweep_interval", cfg.Scheduler.LeaseSweepInterval),
			zap.Duration("subscription_interval", cfg.Scheduler.SubscriptionInterval),
			zap.String("usage_aggregation_cron", cfg.Scheduler.UsageAggregationCron),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	businessHandler := handler.NewBusinessHandler(businessService)
	superAdminHandler := handler.NewSuperAdminHandler(superAdminService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	unitHandler := handler.NewUnitHandler(unitService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	leaseHandler := handler.NewLeaseHandler(leaseService)
	paymentHandler := handler.NewRentPaymentHandler(paymentService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	listingHandler := handler.NewListingHandler(listingService)
	applyHandler := handler.NewApplyHandler(listingRepo, listingService, applicationService)
	accountHandler := handler.NewAccountHandler(accountService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, entitlementService)
	aiHandler := handler.NewAIHandler(aiService)
	affiliateHandler := handler.NewAffiliateHandler(affiliateService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	importExportHandler := handler.NewImportExportHandler(templateService, statementService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	systemHandler := handler.NewSystemHandler()

	// Square endpoints load gateway credentials from platform settings
	// per request so rotations take effect without a restart
	gatewayFactory := handler.NewSquareGatewayFactory(platformSettingRepo)
	parserFactory := handler.NewSquareWebhookParserFactory(platformSettingRepo)
	squarePaymentHandler := handler.NewSquarePaymentHandler(gatewayFactory, idempotencyStore, log)
	squareWebhookHandler := handler.NewSquareWebhookHandler(parserFactory, paymentService, rentPaymentRepo, idempotencyStore, log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Global middleware stack
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.TraceAttributes())
		engine.Use(middleware.SpanErrorMarker())
	}
	if meterProvider != nil {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Profiling.Enabled {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health endpoints (outside API versioning)
	engine.GET("/health", healthHandler())
	engine.GET("/ready", readyHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT authentication for API routes, with public endpoints skipped
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/businesses/register",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	})

	// Business scoping for API routes. Platform-level surfaces (system,
	// affiliates) carry no business claim and are skipped.
	businessConfig := middleware.DefaultBusinessConfig()
	businessConfig.Logger = log
	businessConfig.Validator = businessService
	businessConfig.SkipPaths = append(businessConfig.SkipPaths,
		"/api/v1/system/ping",
		"/api/v1/system/info",
	)
	businessConfig.SkipPathPrefixes = append(businessConfig.SkipPathPrefixes,
		"/api/v1/system/outbox",
		"/api/v1/affiliates",
		"/api/v1/referrals",
	)
	businessScope := middleware.BusinessMiddlewareWithConfig(businessConfig)

	r.Use(jwtAuth, businessScope)

	// Identity routes
	authRoutes := router.NewGroup("/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		}))
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	registerRoutes := router.NewGroup("/businesses")
	registerRoutes.POST("/register", businessHandler.Register)

	businessRoutes := router.NewGroup("/business")
	businessRoutes.GET("", businessHandler.Get)
	businessRoutes.PUT("/profile", businessHandler.UpdateProfile)
	businessRoutes.PUT("/contact", businessHandler.SetContact)
	businessRoutes.POST("/onboarding/advance", businessHandler.AdvanceOnboarding)

	userRoutes := router.NewGroup("/users")
	userRoutes.Use(middleware.RequireRole(identity.UserRoleOwner, identity.UserRoleManager))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id/role", userHandler.AssignRole)
	userRoutes.PUT("/:id/password", userHandler.ResetPassword)
	userRoutes.POST("/:id/unlock", userHandler.Unlock)
	userRoutes.DELETE("/:id", userHandler.Deactivate)

	// Portfolio routes
	propertyRoutes := router.NewGroup("/properties")
	propertyRoutes.POST("", propertyHandler.Create)
	propertyRoutes.GET("", propertyHandler.List)
	propertyRoutes.GET("/:id", propertyHandler.Get)
	propertyRoutes.GET("/:id/units", unitHandler.ListByProperty)
	propertyRoutes.PUT("/:id", propertyHandler.Update)
	propertyRoutes.POST("/:id/reactivate", propertyHandler.Reactivate)
	propertyRoutes.DELETE("/:id", propertyHandler.Deactivate)

	unitRoutes := router.NewGroup("/units")
	unitRoutes.POST("", unitHandler.Create)
	unitRoutes.GET("", unitHandler.List)
	unitRoutes.GET("/:id", unitHandler.Get)
	unitRoutes.PUT("/:id", unitHandler.Update)
	unitRoutes.PUT("/:id/status", unitHandler.SetStatus)
	unitRoutes.DELETE("/:id", unitHandler.Deactivate)

	// Leasing routes
	tenantRoutes := router.NewGroup("/tenants")
	tenantRoutes.POST("", tenantHandler.Create)
	tenantRoutes.GET("", tenantHandler.List)
	tenantRoutes.GET("/:id", tenantHandler.Get)
	tenantRoutes.PUT("/:id/contact", tenantHandler.UpdateContact)
	tenantRoutes.PUT("/:id/emergency-contact", tenantHandler.SetEmergencyContact)
	tenantRoutes.DELETE("/:id", tenantHandler.Deactivate)

	leaseRoutes := router.NewGroup("/leases")
	leaseRoutes.POST("", leaseHandler.Create)
	leaseRoutes.GET("", leaseHandler.List)
	leaseRoutes.GET("/:id", leaseHandler.Get)
	leaseRoutes.GET("/:id/payments", paymentHandler.ListByLease)
	leaseRoutes.PUT("/:id/terms", leaseHandler.UpdateTerms)
	leaseRoutes.POST("/:id/activate", leaseHandler.Activate)
	leaseRoutes.POST("/:id/end", leaseHandler.End)
	leaseRoutes.POST("/:id/terminate", leaseHandler.Terminate)

	paymentRoutes := router.NewGroup("/payments")
	paymentRoutes.POST("", paymentHandler.Record)
	paymentRoutes.GET("", paymentHandler.List)
	paymentRoutes.GET("/:id", paymentHandler.Get)
	paymentRoutes.POST("/:id/mark-paid", paymentHandler.MarkPaid)
	paymentRoutes.POST("/:id/mark-failed", paymentHandler.MarkFailed)
	paymentRoutes.POST("/:id/retry", paymentHandler.Retry)
	paymentRoutes.POST("/:id/refund", paymentHandler.Refund)

	maintenanceRoutes := router.NewGroup("/maintenance")
	maintenanceRoutes.Use(middleware.RequireEntitlement(entitlementService, billing.FeatureMaintenanceTracking))
	maintenanceRoutes.POST("", maintenanceHandler.Open)
	maintenanceRoutes.GET("", maintenanceHandler.List)
	maintenanceRoutes.GET("/:id", maintenanceHandler.Get)
	maintenanceRoutes.POST("/:id/start", maintenanceHandler.Start)
	maintenanceRoutes.POST("/:id/resolve", maintenanceHandler.Resolve)
	maintenanceRoutes.POST("/:id/cancel", maintenanceHandler.Cancel)
	maintenanceRoutes.POST("/:id/escalate", maintenanceHandler.Escalate)

	applicationRoutes := router.NewGroup("/applications")
	applicationRoutes.Use(middleware.RequireEntitlement(entitlementService, billing.FeatureApplications))
	applicationRoutes.GET("", applicationHandler.List)
	applicationRoutes.GET("/:id", applicationHandler.Get)
	applicationRoutes.POST("/:id/screen", applicationHandler.StartScreening)
	applicationRoutes.POST("/:id/approve", applicationHandler.Approve)
	applicationRoutes.POST("/:id/reject", applicationHandler.Reject)
	applicationRoutes.POST("/:id/withdraw", applicationHandler.Withdraw)

	// Listing routes
	listingRoutes := router.NewGroup("/listings")
	listingRoutes.Use(middleware.RequireEntitlement(entitlementService, billing.FeatureListings))
	listingRoutes.POST("", listingHandler.Create)
	listingRoutes.GET("", listingHandler.List)
	listingRoutes.GET("/published", listingHandler.ListPublished)
	listingRoutes.GET("/:id", listingHandler.Get)
	listingRoutes.PUT("/:id", listingHandler.Update)
	listingRoutes.POST("/:id/publish", listingHandler.Publish)
	listingRoutes.POST("/:id/unpublish", listingHandler.Unpublish)
	listingRoutes.POST("/:id/archive", listingHandler.Archive)
	listingRoutes.GET("/:id/photos", listingHandler.PhotoURLs)
	listingRoutes.POST("/:id/photos", listingHandler.AttachPhoto)
	listingRoutes.POST("/:id/photos/upload-url", listingHandler.RequestPhotoUpload)
	listingRoutes.POST("/:id/photos/remove", listingHandler.RemovePhoto)

	// Finance routes
	accountRoutes := router.NewGroup("/accounts")
	accountRoutes.POST("", accountHandler.Create)
	accountRoutes.GET("", accountHandler.List)
	accountRoutes.GET("/:id", accountHandler.Get)
	accountRoutes.PUT("/:id", accountHandler.Rename)
	accountRoutes.DELETE("/:id", accountHandler.Deactivate)

	ledgerRoutes := router.NewGroup("/ledger")
	ledgerRoutes.POST("/entries", ledgerHandler.Post)
	ledgerRoutes.GET("/entries", ledgerHandler.List)
	ledgerRoutes.POST("/entries/:id/void", ledgerHandler.Void)
	ledgerRoutes.GET("/export", importExportHandler.ExportLedger)

	budgetRoutes := router.NewGroup("/budgets")
	budgetRoutes.Use(middleware.RequireEntitlement(entitlementService, billing.FeatureBudgeting))
	budgetRoutes.POST("", budgetHandler.Create)
	budgetRoutes.GET("", budgetHandler.List)
	budgetRoutes.GET("/:id", budgetHandler.Get)
	budgetRoutes.GET("/:id/variance", budgetHandler.Variance)
	budgetRoutes.POST("/:id/allocate", budgetHandler.Allocate)
	budgetRoutes.PUT("/:id/items", budgetHandler.SetItem)
	budgetRoutes.DELETE("/:id/items/:accountId", budgetHandler.RemoveItem)
	budgetRoutes.POST("/:id/activate", budgetHandler.Activate)
	budgetRoutes.POST("/:id/archive", budgetHandler.Archive)
	budgetRoutes.POST("/:id/copy", budgetHandler.Copy)

	// Billing routes
	subscriptionRoutes := router.NewGroup("/subscription")
	subscriptionRoutes.GET("", subscriptionHandler.Get)
	subscriptionRoutes.GET("/tiers", subscriptionHandler.ListTiers)
	subscriptionRoutes.GET("/entitlements", subscriptionHandler.GetEntitlements)
	subscriptionRoutes.PUT("/tier", subscriptionHandler.ChangeTier)
	subscriptionRoutes.POST("/add-ons", subscriptionHandler.PurchaseAddOn)
	subscriptionRoutes.DELETE("/add-ons/:key", subscriptionHandler.RemoveAddOn)
	subscriptionRoutes.POST("/payments", subscriptionHandler.RecordPayment)
	subscriptionRoutes.DELETE("", subscriptionHandler.Cancel)

	aiRoutes := router.NewGroup("/ai")
	aiRoutes.Use(middleware.RequireEntitlement(entitlementService, billing.FeatureAIAssistant))
	aiRoutes.POST("/keys", aiHandler.RegisterKey)
	aiRoutes.GET("/keys", aiHandler.ListKeys)
	aiRoutes.POST("/keys/:id/rotate", aiHandler.RotateKey)
	aiRoutes.PUT("/keys/:id/budget", aiHandler.SetMonthlyBudget)
	aiRoutes.DELETE("/keys/:id", aiHandler.DeactivateKey)
	aiRoutes.POST("/usage", aiHandler.RecordUsage)
	aiRoutes.GET("/usage/summary", aiHandler.GetUsageSummary)

	// Affiliate program management is platform-level
	affiliateRoutes := router.NewGroup("/affiliates")
	affiliateRoutes.Use(middleware.RequireSuperAdmin())
	affiliateRoutes.POST("", affiliateHandler.Register)
	affiliateRoutes.GET("", affiliateHandler.List)
	affiliateRoutes.GET("/:id", affiliateHandler.Get)
	affiliateRoutes.GET("/:id/referrals", affiliateHandler.ListReferrals)
	affiliateRoutes.PUT("/:id/commission-rate", affiliateHandler.SetCommissionRate)
	affiliateRoutes.POST("/:id/suspend", affiliateHandler.Suspend)
	affiliateRoutes.POST("/:id/reinstate", affiliateHandler.Reinstate)
	affiliateRoutes.POST("/:id/close", affiliateHandler.Close)

	referralRoutes := router.NewGroup("/referrals")
	referralRoutes.Use(middleware.RequireSuperAdmin())
	referralRoutes.POST("/:id/approve-payout", affiliateHandler.ApprovePayout)

	// Reporting routes
	dashboardRoutes := router.NewGroup("/dashboard")
	dashboardRoutes.GET("", dashboardHandler.Overview)

	importRoutes := router.NewGroup("/import")
	importRoutes.Use(middleware.RequireEntitlement(entitlementService, billing.FeatureCSVImport))
	importRoutes.GET("/templates/properties", importExportHandler.PropertiesTemplate)
	importRoutes.GET("/templates/tenants", importExportHandler.TenantsTemplate)

	// System routes
	systemRoutes := router.NewGroup("/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	outboxRoutes := router.NewGroup("/system/outbox")
	outboxRoutes.Use(middleware.RequireSuperAdmin())
	outboxRoutes.GET("/dead", outboxHandler.GetDeadLetterEntries)
	outboxRoutes.GET("/stats", outboxHandler.GetStats)
	outboxRoutes.GET("/:id", outboxHandler.GetEntry)
	outboxRoutes.POST("/:id/retry", outboxHandler.RetryDeadEntry)
	outboxRoutes.POST("/dead/retry-all", outboxHandler.RetryAllDeadEntries)

	r.Register(authRoutes).
		Register(registerRoutes).
		Register(businessRoutes).
		Register(userRoutes).
		Register(propertyRoutes).
		Register(unitRoutes).
		Register(tenantRoutes).
		Register(leaseRoutes).
		Register(paymentRoutes).
		Register(maintenanceRoutes).
		Register(applicationRoutes).
		Register(listingRoutes).
		Register(accountRoutes).
		Register(ledgerRoutes).
		Register(budgetRoutes).
		Register(subscriptionRoutes).
		Register(aiRoutes).
		Register(affiliateRoutes).
		Register(referralRoutes).
		Register(dashboardRoutes).
		Register(importRoutes).
		Register(systemRoutes).
		Register(outboxRoutes)

	// Public rental application page, keyed by listing code
	applyRoutes := router.NewGroup("/apply")
	applyRoutes.GET("/:code", applyHandler.GetListing)
	applyRoutes.POST("/:code", applyHandler.Submit)

	// Square endpoints live outside the authenticated API: the webhook
	// is called by Square, the charge endpoint by the public payment page
	webhookRoutes := router.NewGroup("/webhooks/payments")
	webhookRoutes.POST("/square", squareWebhookHandler.HandleEvent)

	chargeRoutes := router.NewGroup("/payments/square")
	chargeRoutes.POST("/charge", squarePaymentHandler.Charge)

	// Platform operator routes, super admin tokens only
	superAdminRoutes := router.NewGroup("/super-admin")
	superAdminRoutes.Use(jwtAuth, middleware.RequireSuperAdmin())
	superAdminRoutes.GET("/stats", superAdminHandler.Stats)
	superAdminRoutes.GET("/businesses", superAdminHandler.ListBusinesses)
	superAdminRoutes.POST("/businesses/:id/suspend", superAdminHandler.SuspendBusiness)
	superAdminRoutes.POST("/businesses/:id/reinstate", superAdminHandler.ReinstateBusiness)
	superAdminRoutes.PUT("/businesses/:id/tier", superAdminHandler.OverrideTier)

	// Read-mostly owner views, gated on the owner portal feature
	ownerPortalRoutes := router.NewGroup("/owner-portal")
	ownerPortalRoutes.Use(jwtAuth, businessScope,
		middleware.RequireEntitlement(entitlementService, billing.FeatureOwnerPortal))
	ownerPortalRoutes.GET("/dashboard", dashboardHandler.Overview)
	ownerPortalRoutes.GET("/properties", propertyHandler.List)
	ownerPortalRoutes.GET("/units", unitHandler.List)
	ownerPortalRoutes.GET("/leases", leaseHandler.List)
	ownerPortalRoutes.GET("/payments", paymentHandler.List)
	ownerPortalRoutes.GET("/ledger/export", importExportHandler.ExportLedger)

	r.RegisterRoot(applyRoutes).
		RegisterRoot(webhookRoutes).
		RegisterRoot(chargeRoutes).
		RegisterRoot(superAdminRoutes).
		RegisterRoot(ownerPortalRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler answers liveness probes without touching dependencies
func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// readyHandler answers readiness probes with a database round trip
func readyHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not ready",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
