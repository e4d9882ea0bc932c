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

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"gymcore/internal/caching"
	"gymcore/internal/config"
	"gymcore/internal/handlers"
	"gymcore/internal/jobs/background"
	appMiddleware "gymcore/internal/middleware"
	"gymcore/internal/models"
	"gymcore/internal/providers"
	"gymcore/internal/queue"
	"gymcore/internal/repositories"
	"gymcore/internal/services"
	"gymcore/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	gymRepo := repositories.NewGymRepository(pool)
	workoutRepo := repositories.NewWorkoutRepository(pool)
	auditRepo := repositories.NewAuditLogsRepository(pool)

	// Mail pipeline: handlers publish, the consumer drains into SMTP.
	// The service runs without it if RabbitMQ is unreachable.
	var mailQueue *queue.RabbitMailQueue
	var mailPublisher services.MailPublisher
	mailQueue, err = queue.NewRabbitMailQueue(cfg.AMQPURL, cfg.MailQueue)
	if err != nil {
		log.Printf("Mail queue unavailable, mail delivery disabled: %v", err)
	} else {
		defer mailQueue.Close()
		mailPublisher = mailQueue
	}

	// Services
	tokenSvc := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	sessionSvc := services.NewSessionService(cacheSvc, cfg.SessionTTL, cfg.IsProduction())
	resolver := services.NewTenantResolver(userRepo, gymRepo)
	gymSvc := services.NewGymService(gymRepo, userRepo, cacheSvc, resolver)
	registrationSvc := services.NewRegistrationService(userRepo, gymSvc, mailPublisher)
	resetSvc := services.NewPasswordResetService(userRepo, mailPublisher)
	userAdminSvc := services.NewUserAdminService(userRepo, resetSvc, mailPublisher)
	workoutSvc := services.NewWorkoutService(workoutRepo)
	auditSvc := services.NewAuditService(auditRepo)

	mediaSvc, err := services.NewMediaService(cfg.Minio)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}
	if err := mediaSvc.EnsureBucket(context.Background()); err != nil {
		log.Printf("Media bucket check failed: %v", err)
	}

	// Identity providers
	localProvider := providers.NewLocalProvider(userRepo)
	googleProvider := providers.NewGoogleProvider(userRepo, cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURL)

	var oidcProvider *providers.OIDCProvider
	if cfg.OIDC.JWKSURL != "" {
		oidcProvider, err = providers.NewOIDCProvider(userRepo, cfg.OIDC.JWKSURL, cfg.OIDC.Issuer, cfg.OIDC.Audience)
		if err != nil {
			log.Fatalf("Failed to initialize OIDC provider: %v", err)
		}
	}

	// Mail consumer
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if mailQueue != nil {
		mailer := services.NewMailerService(cfg.SMTP)
		if err := mailQueue.Consume(consumerCtx, mailer.Send); err != nil {
			log.Printf("Failed to start mail consumer: %v", err)
		}
	}

	// Background jobs
	scheduler := background.NewJobScheduler(userRepo)
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	// Handlers
	authHandlers := handlers.NewAuthHandlers(localProvider, googleProvider, oidcProvider,
		registrationSvc, resetSvc, sessionSvc, tokenSvc, auditSvc)
	adminHandlers := handlers.NewAdminHandlers(sessionSvc, userAdminSvc, auditSvc, cfg.AdminUsername, cfg.AdminPassword)
	gymHandlers := handlers.NewGymHandlers(gymSvc, mediaSvc, auditSvc)
	userHandlers := handlers.NewUserHandlers(userAdminSvc, auditSvc)
	workoutHandlers := handlers.NewWorkoutHandlers(workoutSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	auditMW := appMiddleware.NewAuditMiddleware(auditSvc)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	sessionAuth := appMiddleware.SessionAuth(sessionSvc, userRepo)
	rateLimit := appMiddleware.CredentialRateLimit(cfg.RateLimitPerMinute)

	// Probes
	e.GET("/health", healthHandlers.Health)
	e.GET("/ready", healthHandlers.Ready)

	// Authentication
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandlers.Login, rateLimit)
	auth.POST("/register", authHandlers.Register, rateLimit)
	auth.POST("/forgot-password", authHandlers.ForgotPassword, rateLimit)
	auth.POST("/reset-password", authHandlers.ResetPassword, rateLimit)
	auth.GET("/logout", authHandlers.Logout)
	auth.POST("/logout", authHandlers.Logout)
	auth.GET("/me", authHandlers.Me, sessionAuth)
	auth.GET("/google", authHandlers.GoogleRedirect)
	auth.GET("/google/callback", authHandlers.GoogleCallback)
	if oidcProvider != nil {
		auth.POST("/oidc/callback", authHandlers.OIDCCallback)
	}

	// Break-glass admin surface: the session flag is the only gate.
	admin := e.Group("/api/admin")
	admin.POST("/login", adminHandlers.Login, rateLimit)
	admin.GET("/check", adminHandlers.Check)
	admin.POST("/logout", adminHandlers.Logout)

	adminUsers := admin.Group("/users", appMiddleware.AdminFlagAuth(sessionSvc), auditMW.AuditMutations())
	adminUsers.GET("", adminHandlers.ListUsers)
	adminUsers.POST("", adminHandlers.InviteUser)
	adminUsers.GET("/:id", adminHandlers.GetUser)
	adminUsers.PUT("/:id", adminHandlers.UpdateUser)
	adminUsers.DELETE("/:id", adminHandlers.DeleteUser)

	// Gyms: invite validation is public, management is for admins.
	gyms := e.Group("/api/gyms")
	gyms.GET("/invite/:code", gymHandlers.ValidateInvite)
	gyms.POST("/set-active", gymHandlers.SetActive, sessionAuth)

	gymAdmin := gyms.Group("", sessionAuth, appMiddleware.RequireRoles(models.UserTypeAdmin), auditMW.AuditMutations())
	gymAdmin.POST("", gymHandlers.Create)
	gymAdmin.GET("", gymHandlers.List)
	gymAdmin.GET("/:id", gymHandlers.Get)
	gymAdmin.PUT("/:id", gymHandlers.Update)
	gymAdmin.DELETE("/:id", gymHandlers.Delete)
	gymAdmin.POST("/:id/logo", gymHandlers.UploadLogo)
	gymAdmin.GET("/:id/logo", gymHandlers.LogoURL)

	// Tenant-scoped app routes. The gymId query override is reserved for
	// the hub group below.
	app := e.Group("/api", sessionAuth, appMiddleware.TenantScope(resolver, false))
	app.GET("/workouts", workoutHandlers.List)
	app.POST("/workouts", workoutHandlers.Create)
	app.GET("/workouts/:id", workoutHandlers.Get)
	app.PUT("/workouts/:id", workoutHandlers.Update)
	app.DELETE("/workouts/:id", workoutHandlers.Delete)

	staff := app.Group("", appMiddleware.RequireRoles(models.UserTypePersonal, models.UserTypeAcademia, models.UserTypeAdmin))
	staff.GET("/members", userHandlers.ListMembers)
	staff.POST("/members/invite", userHandlers.InviteMember, auditMW.AuditMutations())
	staff.GET("/audit", userHandlers.AuditLog, appMiddleware.RequireRoles(models.UserTypeAcademia, models.UserTypeAdmin))

	// Hub routes honor the explicit gymId query parameter.
	hub := e.Group("/api/hub", sessionAuth,
		appMiddleware.RequireRoles(models.UserTypeAcademia, models.UserTypeAdmin),
		appMiddleware.TenantScope(resolver, true))
	hub.GET("/members", userHandlers.ListMembers)
	hub.GET("/workouts", workoutHandlers.List)
	hub.GET("/audit", userHandlers.AuditLog)

	// Bearer-gated API surface, separate from the session-gated groups.
	client := e.Group("/api/client", appMiddleware.BearerAuth(cfg.JWTSecret))
	client.GET("/me", userHandlers.Profile)

	// Serve
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
