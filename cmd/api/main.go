package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/SimaldoneValentin/Fondo-Escudo/internal/cache"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/config"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/database"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/handlers"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/middleware"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/repository/memory"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/services"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/session"
	"github.com/SimaldoneValentin/Fondo-Escudo/internal/storage"
)

func main() {
	// .env is optional; real deployments use the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	var (
		users    repository.UserStore
		payments repository.PaymentStore
		tickets  repository.TicketStore
		tokens   session.TokenStore
		closers  []func()
	)

	if cfg.App.DemoMode {
		// Demo installs run fully in-process: no Postgres, no Redis.
		log.Println("Running in demo mode with in-memory stores")
		store := memory.NewStore()
		users = store.Users()
		payments = store.Payments()
		tickets = store.Tickets()
		tokens = session.NewMemoryStore()
	} else {
		pool, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		closers = append(closers, pool.Close)

		redisClient, err := cache.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to initialize Redis client: %v", err)
		}
		closers = append(closers, func() { redisClient.Close() })

		users = repository.NewUserRepository(pool)
		payments = repository.NewPaymentRepository(pool)
		tickets = repository.NewTicketRepository(pool)
		tokens = cache.NewSessionStore(redisClient)
	}

	store, err := storage.NewDriver(&storage.Config{
		Driver:             cfg.Storage.Driver,
		UploadsPath:        cfg.Storage.UploadsPath,
		AWSAccessKeyID:     cfg.Storage.AWSAccessKeyID,
		AWSSecretAccessKey: cfg.Storage.AWSSecretAccessKey,
		AWSRegion:          cfg.Storage.AWSRegion,
		AWSBucket:          cfg.Storage.AWSBucket,
		R2AccessKeyID:      cfg.Storage.R2AccessKeyID,
		R2SecretAccessKey:  cfg.Storage.R2SecretAccessKey,
		R2AccountID:        cfg.Storage.R2AccountID,
		R2Bucket:           cfg.Storage.R2Bucket,
		R2PublicURL:        cfg.Storage.R2PublicURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	sessions := session.NewManager(tokens, &cfg.JWT)
	verifier := services.NewGoogleVerifier(cfg.Google.ClientID)

	authService := services.NewAuthService(users, sessions, verifier)
	planService := services.NewPlanService(users)
	paymentService := services.NewPaymentService(payments, store, cfg.MercadoPago)
	ticketService := services.NewTicketService(tickets)

	router := setupRouter(cfg, authService, planService, paymentService, ticketService)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	for _, closeFn := range closers {
		closeFn()
	}

	log.Println("Server exited")
}

func setupRouter(
	cfg *config.Config,
	authService *services.AuthService,
	planService *services.PlanService,
	paymentService *services.PaymentService,
	ticketService *services.TicketService,
) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(planService, authService, paymentService, ticketService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, planService)
	ticketHandler := handlers.NewTicketHandler(ticketService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Local receipts are served straight from disk. S3 and R2 serve
	// their own URLs.
	if cfg.Storage.Driver == "local" {
		router.Static("/uploads", cfg.Storage.UploadsPath)
	}

	public := router.Group("/api")
	{
		public.POST("/auth/register", authHandler.Register)
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/google", authHandler.GoogleLogin)
		public.POST("/auth/google/complete", authHandler.GoogleComplete)
		public.GET("/payments/plans", paymentHandler.GetPlans)
	}

	protected := router.Group("/api")
	protected.Use(middleware.Auth(authService))
	{
		protected.GET("/auth/verify", authHandler.Verify)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.GET("/users/profile", userHandler.GetProfile)
		protected.PUT("/users/profile", userHandler.UpdateProfile)
		protected.PUT("/users/plan", userHandler.ChangePlan)
		protected.PUT("/users/password", userHandler.ChangePassword)
		protected.GET("/users/activity", userHandler.GetActivity)

		protected.POST("/payments/mercadopago", paymentHandler.CreateMercadoPago)
		protected.POST("/payments/transfer", paymentHandler.SubmitTransfer)
		protected.GET("/payments/history", paymentHandler.GetHistory)
		protected.GET("/payments/next", paymentHandler.GetNextPayment)

		protected.POST("/tickets/create", ticketHandler.Create)
		protected.GET("/tickets/:userId", ticketHandler.ListByUser)
	}

	return router
}
