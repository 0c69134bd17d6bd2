package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/swiftpay-review/config"
	"github.com/yourusername/swiftpay-review/handlers"
	"github.com/yourusername/swiftpay-review/lifecycle"
	"github.com/yourusername/swiftpay-review/middleware"
	"github.com/yourusername/swiftpay-review/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := config.SeedEmployee(db, cfg); err != nil {
		logger.Fatal("failed to seed employee", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, db, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting payment review API", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func setupRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "swiftpay-review-api",
		})
	})

	engine := lifecycle.NewEngine(store.NewTransactionStore(db), logger.Named("lifecycle"))
	guard := middleware.NewLoginGuard(cfg.LoginMaxFailures, cfg.LoginBanDuration)

	authHandler := handlers.NewAuthHandler(db, cfg, guard, logger)
	paymentHandler := handlers.NewPaymentHandler(engine, logger)
	transactionHandler := handlers.NewTransactionHandler(engine, logger)
	requireAuth := middleware.JwtAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/register", middleware.Deny(guard, middleware.ClientIPKey), authHandler.Register)
		auth.POST("/login", middleware.Deny(guard, middleware.ClientIPKey), authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)

		// Customer endpoints
		payments := api.Group("/payments", requireAuth, middleware.RequireRole(lifecycle.RoleCustomer))
		payments.POST("", paymentHandler.CreatePayment)
		payments.GET("", paymentHandler.ListPayments)
		payments.GET("/:id", paymentHandler.GetPayment)

		// Employee review and submission endpoints
		employee := api.Group("/employee/transactions", requireAuth, middleware.RequireRole(lifecycle.RoleEmployee))
		employee.GET("", transactionHandler.ListTransactions)
		employee.GET("/pending", transactionHandler.ListPendingTransactions)
		employee.GET("/:id", transactionHandler.GetTransaction)
		employee.POST("/:id/verify", transactionHandler.VerifyTransaction)
		employee.POST("/:id/reject", transactionHandler.RejectTransaction)
		employee.POST("/:id/submit", transactionHandler.SubmitTransaction)
		employee.POST("/mass-verify", transactionHandler.BatchVerify)
		employee.POST("/submit-swift", transactionHandler.BatchSubmit)
	}

	return router
}
