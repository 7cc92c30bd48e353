package main

// @title Registration Billing API
// @version 1.0
// @description Payment registration flows backed by Stripe: customers, invoices, payment intents and phone payments.

// @contact.name API Support

// @host localhost:8080
// @BasePath /

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/joho/godotenv"
	"github.com/jordanlanch/regbilling/config"
	_ "github.com/jordanlanch/regbilling/docs" // Swagger docs (generated)
	"github.com/jordanlanch/regbilling/pkg/api/handlers"
	"github.com/jordanlanch/regbilling/pkg/audit"
	"github.com/jordanlanch/regbilling/pkg/billing"
	"github.com/jordanlanch/regbilling/pkg/cache"
	"github.com/jordanlanch/regbilling/pkg/database"
	"github.com/jordanlanch/regbilling/pkg/email"
	"github.com/jordanlanch/regbilling/pkg/jobs"
	"github.com/jordanlanch/regbilling/pkg/logger"
	"github.com/jordanlanch/regbilling/pkg/metrics"
	custommiddleware "github.com/jordanlanch/regbilling/pkg/middleware"
	"github.com/jordanlanch/regbilling/pkg/registration"
	"github.com/jordanlanch/regbilling/pkg/secrets"
	"github.com/jordanlanch/regbilling/pkg/slack"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err == nil {
		log.Printf("📄 Loaded .env file")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("🔧 Configuration loaded (environment: %s)", cfg.EnvironmentName)

	appLogger := logger.New(cfg.LogLevel)

	// Resolve credentials from the configured secrets backend
	secretsCfg := secrets.AutoDetectConfig()
	secretsManager, err := secrets.NewManager(secretsCfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize secrets manager: %v", err)
	}
	defer secretsManager.Close()

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	creds, err := secrets.LoadBillingSecrets(loadCtx, secretsManager, secrets.BillingSecrets{
		StripeSecretKey: cfg.StripeSecretKey,
		DatabaseURL:     cfg.DatabaseURL,
		RedisURL:        cfg.RedisURL,
		SendGridAPIKey:  cfg.SendGridAPIKey,
		SlackWebhookURL: cfg.SlackWebhookURL,
		SentryDSN:       cfg.SentryDSN,
	})
	loadCancel()
	if err != nil {
		log.Fatalf("❌ Failed to load billing secrets: %v", err)
	}
	log.Printf("🔐 Secrets loaded (backend: %s)", secretsCfg.Backend)

	if cfg.StripeProductID == "" {
		log.Fatalf("❌ STRIPE_PRODUCT_ID is required")
	}

	// Initialize Sentry for error tracking
	if creds.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              creds.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.2,
			AttachStacktrace: true,
			BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
				// Request bodies carry contact details
				if event.Request != nil {
					event.Request.Data = ""
				}
				return event
			},
		})
		if err != nil {
			log.Printf("⚠️  Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.SentryEnvironment)
			defer sentry.Flush(2 * time.Second)
		}
	} else {
		log.Printf("ℹ️  Sentry disabled (no DSN configured)")
	}

	// Initialize database for the billing event audit trail (optional)
	var (
		db         *database.Client
		auditStore *audit.Store
	)
	if creds.DatabaseURL != "" {
		sslCfg := &database.SSLConfig{
			Mode:         cfg.DBSSLMode,
			CertPath:     cfg.DBSSLCertPath,
			KeyPath:      cfg.DBSSLKeyPath,
			RootCertPath: cfg.DBSSLRootCertPath,
		}
		db, err = database.NewClient(creds.DatabaseURL, sslCfg)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer db.Close()

		auditStore = audit.NewStore(db.DB, db.Driver)
		migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = auditStore.Migrate(migrateCtx)
		migrateCancel()
		if err != nil {
			log.Fatalf("❌ Failed to migrate billing events: %v", err)
		}
		log.Printf("✅ Billing event audit trail enabled")
	} else {
		log.Printf("ℹ️  Audit trail disabled (no DATABASE_URL configured)")
	}

	// Initialize Redis cache for the price catalog (optional)
	var redisClient *cache.Client
	if creds.RedisURL != "" {
		redisClient, err = cache.NewClient(creds.RedisURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		log.Printf("ℹ️  Price cache disabled (no REDIS_URL configured)")
	}

	// Initialize Prometheus metrics
	prometheusMetrics := metrics.New(prometheus.DefaultRegisterer)
	log.Printf("✅ Prometheus metrics initialized")

	// Stripe gateway and price catalog
	gateway := billing.NewStripeGateway(billing.StripeConfig{
		SecretKey:  creds.StripeSecretKey,
		APIVersion: cfg.StripeAPIVersion,
		BaseURL:    cfg.StripeBaseURL,
		MaxRetries: int64(cfg.StripeMaxRetries),
	}, prometheusMetrics, appLogger)

	catalog := billing.NewCatalog(gateway, cfg.StripeProductID, redisClient, cfg.PriceCacheTTL, appLogger)
	catalog.SetCacheObserver(prometheusMetrics)
	log.Printf("💳 Stripe gateway ready (product: %s)", cfg.StripeProductID)

	// Notifications
	var slackClient slack.SlackClient
	if creds.SlackWebhookURL != "" {
		slackClient = slack.NewWebhookClient(creds.SlackWebhookURL)
	}
	slackService := slack.NewService(slackClient)
	if slackService.IsEnabled() {
		log.Printf("✅ Slack notifications enabled")
	} else {
		log.Printf("ℹ️  Slack notifications disabled (no webhook configured)")
	}
	emailService := email.NewService(cfg.EmailFrom, cfg.EmailFromName, cfg.FrontendURL, creds.SendGridAPIKey)

	// Registration flows
	registrationService := registration.NewService(gateway, catalog, registration.Config{
		EnvironmentName:   cfg.EnvironmentName,
		VATTaxRateID:      cfg.StripeVATTaxRateID,
		DetachConcurrency: cfg.DetachConcurrency,
	}, appLogger)
	registrationService.SetMetrics(prometheusMetrics)
	if auditStore != nil {
		registrationService.SetRecorder(registration.NewAuditRecorder(auditStore))
	}
	if slackService.IsEnabled() {
		registrationService.AddNotifier(registration.NewSlackNotifier(slackService, cfg.EnvironmentName))
	}
	registrationService.AddNotifier(registration.NewEmailNotifier(emailService, catalog))

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Background work stops with this context
	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	// Initialize rate limiters
	rateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)
	for _, flow := range registration.Flows {
		rateLimiter.SetRouteLimit("/api/v1/register/"+flow, cfg.RegisterRateLimitPerMinute, cfg.RegisterRateLimitBurst)
	}
	rateLimiter.SetRouteLimit("/graphql", cfg.RegisterRateLimitPerMinute, cfg.RegisterRateLimitBurst)
	go rateLimiter.Run(bgCtx)

	// Global middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Printf("[%s] %s - Status: %d", c.Request().Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Sentry error tracking middleware (if configured)
	if creds.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{
			Repanic: true,
		}))
	}

	// Prometheus metrics middleware
	e.Use(prometheusMetrics.Middleware())

	// CORS with restricted origins
	e.Use(middleware.CORSWithConfig(custommiddleware.CORSConfig(cfg.CORSAllowedOrigins)))

	e.Use(middleware.Gzip())
	e.Use(custommiddleware.SecurityHeaders(custommiddleware.DefaultSecurityHeadersConfig()))

	e.Use(rateLimiter.RateLimitMiddleware())

	// Health check endpoints (public)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "Registration Billing API",
			"version":     custommiddleware.CurrentAPIVersion.Version,
			"status":      "running",
			"environment": cfg.EnvironmentName,
			"timestamp":   time.Now().Unix(),
		})
	})

	healthHandler := handlers.NewHealthHandler()
	if db != nil {
		healthHandler.AddCheck("database", db)
	}
	if redisClient != nil {
		healthHandler.AddCheck("cache", redisClient)
	}
	e.GET("/health", healthHandler.Health)

	// Prometheus metrics endpoint (public)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Swagger documentation (public)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// GraphQL
	graphqlHandler := handlers.NewGraphQLHandler(registrationService, appLogger)
	e.GET("/graphql", graphqlHandler.GraphQLEndpoint)
	e.POST("/graphql", graphqlHandler.GraphQLEndpoint, middleware.BodyLimit("1M"))
	e.GET("/playground", graphqlHandler.Playground)

	// API v1 routes group with versioning middleware
	apiVersion := custommiddleware.CurrentAPIVersion
	apiVersion.StripeAPIVersion = cfg.StripeAPIVersion
	v1 := e.Group("/api/v1")
	v1.Use(custommiddleware.APIVersionMiddleware(apiVersion))

	// Version info endpoint (public)
	v1.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, custommiddleware.VersionInfo(apiVersion))
	})

	// Registration flows
	handlers.NewRegistrationHandler(registrationService).Register(v1)

	// Pricing
	pricingHandler := handlers.NewPricingHandler(registrationService)
	v1.GET("/pricing/quote", pricingHandler.Quote)

	// Phone utilities
	phoneHandler := handlers.NewPhoneHandler()
	v1.POST("/phone/validate", phoneHandler.ValidatePhone)
	v1.POST("/phone/normalize", phoneHandler.NormalizePhone)

	// Support tooling
	if auditStore != nil {
		auditHandler := handlers.NewAuditHandler(auditStore, cfg.AdminToken)
		v1.GET("/admin/customers/:customerId/billing-events", auditHandler.GetCustomerEvents)
	}

	// Cron jobs
	var cronManager *jobs.CronManager
	if cfg.JobsEnabled {
		var (
			counter  jobs.OutcomeCounter
			reporter jobs.FailureReporter
		)
		if auditStore != nil {
			counter = auditStore
		}
		if slackService.IsEnabled() {
			reporter = slackService
		}
		monitor := jobs.NewBillingMonitor(catalog, cfg.StripeProductID, redisClient, counter, reporter, appLogger)
		cronManager = jobs.NewCronManager(monitor, log.Default())
		if err := cronManager.SetupJobs(); err != nil {
			log.Fatalf("❌ Failed to setup cron jobs: %v", err)
		}
		cronManager.Start()
		log.Printf("⏰ Cron jobs started")
	}

	// Start server
	address := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("🚀 Registration Billing API starting on %s", address)
	log.Printf("📝 Log level: %s", cfg.LogLevel)
	log.Printf("🌍 CORS: %v", cfg.CORSAllowedOrigins)
	log.Printf("🛡️  Rate limiting: %d req/min (burst: %d), registration %d req/min (burst: %d)",
		cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst, cfg.RegisterRateLimitPerMinute, cfg.RegisterRateLimitBurst)

	// Graceful shutdown
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	// Stop cron jobs
	if cronManager != nil {
		<-cronManager.Stop().Done()
		log.Println("✅ Cron jobs stopped")
	}
	bgCancel()

	// Gracefully shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server gracefully stopped")
}
