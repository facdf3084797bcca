package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yaufaniadam/invku/internal/billing/entity"
	"github.com/yaufaniadam/invku/internal/billing/handler"
	"github.com/yaufaniadam/invku/internal/billing/repository"
	"github.com/yaufaniadam/invku/internal/billing/service"
	"github.com/yaufaniadam/invku/internal/config"
	"github.com/yaufaniadam/invku/internal/middleware"
	"github.com/yaufaniadam/invku/internal/shared/mailer"
	"github.com/yaufaniadam/invku/internal/storage"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	redisClient := initRedis(cfg, logger)

	var store *storage.Storage
	if cfg.MinIO.Endpoint != "" {
		store, err = storage.New(context.Background(), cfg.MinIO)
		if err != nil {
			logger.Warn("object storage unavailable, uploads disabled", zap.Error(err))
		}
	}

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, cfg, logger, redisClient, store, mail)
	handlers := handler.NewHandlers(services)

	router := setupRouter(cfg, logger)
	registerRoutes(router, handlers, cfg, services.Auth)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	reminderCtx, stopReminders := context.WithCancel(context.Background())
	go runReminderLoop(reminderCtx, services.Subscription, logger)

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	stopReminders()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func initLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Server.Mode == "release" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.UserRole{},
		&entity.Profile{},
		&entity.Client{},
		&entity.Vendor{},
		&entity.Order{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Payment{},
		&entity.Expense{},
		&entity.Subscription{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func initRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable", zap.Error(err))
	}
	return client
}

func setupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return router
}

func registerRoutes(router *gin.Engine, h *handler.Handlers, cfg *config.Config, checker middleware.TokenChecker) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	authed := api.Group("", middleware.JWTAuth(cfg.JWT.Secret, checker))
	{
		authed.GET("/auth/me", h.Auth.Me)
		authed.POST("/auth/logout", h.Auth.Logout)

		authed.GET("/dashboard", h.Report.Dashboard)

		authed.GET("/profile", h.Profile.Get)
		authed.PUT("/profile", h.Profile.Update)
		authed.POST("/profile/logo", h.Profile.UploadLogo)
		authed.GET("/profile/logo", h.Profile.LogoURL)

		clients := authed.Group("/clients")
		{
			clients.GET("", h.Client.List)
			clients.POST("", h.Client.Create)
			clients.GET("/:id", h.Client.Get)
			clients.PUT("/:id", h.Client.Update)
			clients.DELETE("/:id", h.Client.Delete)
			clients.GET("/:id/deposit-balance", h.Client.DepositBalance)
		}

		vendors := authed.Group("/vendors")
		{
			vendors.GET("", h.Vendor.List)
			vendors.POST("", h.Vendor.Create)
			vendors.GET("/:id", h.Vendor.Get)
			vendors.PUT("/:id", h.Vendor.Update)
			vendors.DELETE("/:id", h.Vendor.Delete)
		}

		orders := authed.Group("/orders")
		{
			orders.GET("", h.Order.List)
			orders.POST("", h.Order.Create)
			orders.GET("/next-number", h.Order.NextNumber)
			orders.GET("/totals", h.Order.Totals)
			orders.GET("/:id", h.Order.Get)
			orders.PUT("/:id", h.Order.Update)
			orders.DELETE("/:id", h.Order.Delete)
		}

		invoices := authed.Group("/invoices")
		{
			invoices.GET("", h.Invoice.List)
			invoices.POST("", h.Invoice.Create)
			invoices.GET("/next-number", h.Invoice.NextNumber)
			invoices.GET("/:id", h.Invoice.Get)
			invoices.PUT("/:id", h.Invoice.Update)
			invoices.DELETE("/:id", h.Invoice.Delete)
			invoices.PATCH("/:id/status", h.Invoice.UpdateStatus)
			invoices.GET("/:id/balance", h.Payment.BalanceDue)
			invoices.GET("/:id/receipt", h.Invoice.Receipt)
		}

		payments := authed.Group("/payments")
		{
			payments.GET("", h.Payment.List)
			payments.POST("", h.Payment.Record)
			payments.GET("/:id", h.Payment.Get)
			payments.POST("/:id/proof", h.Payment.UploadProof)
			payments.GET("/:id/proof", h.Payment.ProofURL)
		}

		deposits := authed.Group("/deposits")
		{
			deposits.GET("", h.Payment.DepositSummaries)
			deposits.POST("", h.Payment.RecordDeposit)
		}

		expenses := authed.Group("/expenses")
		{
			expenses.GET("", h.Expense.List)
			expenses.POST("", h.Expense.Create)
			expenses.GET("/categories", h.Expense.Categories)
			expenses.GET("/:id", h.Expense.Get)
			expenses.PUT("/:id", h.Expense.Update)
			expenses.DELETE("/:id", h.Expense.Delete)
		}

		subscriptions := authed.Group("/subscriptions")
		{
			subscriptions.GET("", h.Subscription.List)
			subscriptions.POST("", h.Subscription.Create)
			subscriptions.GET("/:id", h.Subscription.Get)
			subscriptions.PUT("/:id", h.Subscription.Update)
			subscriptions.DELETE("/:id", h.Subscription.Delete)
			subscriptions.POST("/send-reminders",
				middleware.RequireRole(entity.RoleAdmin), h.Subscription.SendReminders)
		}

		reports := authed.Group("/reports")
		{
			reports.GET("/cashflow", h.Report.Cashflow)
			reports.GET("/clients", h.Report.Clients)
			reports.GET("/cashflow/export", h.Report.ExportCashflow)
			reports.GET("/expenses-by-category", h.Report.ExpensesByCategory)
			reports.GET("/invoices/export", h.Report.ExportInvoices)
		}
	}
}

// runReminderLoop fires the subscription renewal scan once a day.
func runReminderLoop(ctx context.Context, subs *service.SubscriptionService, logger *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := subs.SendRenewalReminders(ctx)
			if err != nil {
				logger.Error("renewal reminder scan failed", zap.Error(err))
				continue
			}
			logger.Info("renewal reminders sent", zap.Int("count", sent))
		}
	}
}
