package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/app"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/auth"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/companies"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/guides"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/operators"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/products"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/stores"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/masterdata/tours"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/notifications"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/observability"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/cache"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/platform/db"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/rbac"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/reconciliation"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/sales"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/shared"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/systemlog"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/internal/users"
	"github.com/bahacan112/satis-yonetim-sistemi-sub001/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.PGDSN, cfg.MigrationsDir); err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	pool, err := db.New(ctx, cfg.PGDSN, logger)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "satis_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	recorder := systemlog.NewRecorder(pool)
	systemlogRepo := systemlog.NewRepository(pool)
	systemlogHandler := systemlog.NewHandler(logger, systemlogRepo)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	rbacService := rbac.NewService(pool)
	rbacMiddleware := rbac.Middleware{Service: rbacService, Logger: logger}

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, recorder)
	usersHandler := users.NewHandler(logger, usersService)

	companiesHandler := companies.NewHandler(logger, companies.NewService(companies.NewRepository(pool)))
	storesHandler := stores.NewHandler(logger, stores.NewService(stores.NewRepository(pool)))
	productsHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)))
	operatorsHandler := operators.NewHandler(logger, operators.NewService(operators.NewRepository(pool)))
	guidesHandler := guides.NewHandler(logger, guides.NewService(guides.NewRepository(pool)))
	toursHandler := tours.NewHandler(logger, tours.NewService(tours.NewRepository(pool)))

	salesService := sales.NewService(logger, sales.NewRepository(pool), recorder)
	salesHandler := sales.NewHandler(logger, salesService)

	reconService := reconciliation.NewService(logger, reconciliation.NewRepository(pool), redisClient, cfg.ReconSummaryTTL, recorder)
	reconHandler := reconciliation.NewHandler(logger, reconService)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	notificationsRepo := notifications.NewRepository(pool)
	notificationsService := notifications.NewService(logger, notificationsRepo, jobsClient, notificationsRepo)
	notificationsHandler := notifications.NewHandler(logger, notificationsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:                logger,
		Config:                cfg,
		SessionManager:        sessionManager,
		CSRFManager:           csrfManager,
		RBACMiddleware:        rbacMiddleware,
		Metrics:               metrics,
		AuthHandler:           authHandler,
		UsersHandler:          usersHandler,
		CompaniesHandler:      companiesHandler,
		StoresHandler:         storesHandler,
		ProductsHandler:       productsHandler,
		OperatorsHandler:      operatorsHandler,
		GuidesHandler:         guidesHandler,
		ToursHandler:          toursHandler,
		SalesHandler:          salesHandler,
		ReconciliationHandler: reconHandler,
		NotificationsHandler:  notificationsHandler,
		SystemLogHandler:      systemlogHandler,
		JobsHandler:           jobsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
