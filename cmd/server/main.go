package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"claimhub/internal/auth"
	"claimhub/internal/cache"
	"claimhub/internal/config"
	"claimhub/internal/db"
	"claimhub/internal/handler"
	"claimhub/internal/model"
	"claimhub/internal/repository"
	"claimhub/internal/router"
	"claimhub/internal/service"
	"claimhub/internal/storage"
)

// @title Lecturer Claim Management API
// @version 1.0
// @description Lecturer hours-worked claims with coordinator review, HR user management, and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Claim{},
		&model.ClaimEvent{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	attachmentStore, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		log.Fatalf("attachment store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	claimRepo := repository.NewClaimRepository(gormDB)
	eventRepo := repository.NewClaimEventRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	validator := service.NewClaimValidator(cfg.Claims)
	notifier := service.NewClaimNotifier(eventRepo)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	claimService := service.NewClaimService(userRepo, claimRepo, validator, attachmentStore, notifier, cacheClient)
	approvalService := service.NewApprovalService(claimRepo, validator, notifier, cacheClient)
	userService := service.NewUserService(userRepo, claimRepo, cacheClient)
	reportService := service.NewReportService(userRepo, claimRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	claimHandler := handler.NewClaimHandler(claimService)
	approvalHandler := handler.NewApprovalHandler(claimService, approvalService)
	hrHandler := handler.NewHRHandler(userService, reportService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		claimHandler,
		approvalHandler,
		hrHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
