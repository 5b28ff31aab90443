package main

import (
	"log"
	"net/http"

	_ "galleria/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"galleria/internal/auth"
	"galleria/internal/cache"
	"galleria/internal/config"
	"galleria/internal/db"
	"galleria/internal/handler"
	"galleria/internal/mail"
	"galleria/internal/model"
	"galleria/internal/repository"
	"galleria/internal/router"
	"galleria/internal/service"
	"galleria/internal/storage"
)

// @title Galleria API
// @version 1.0
// @description Auction gallery API with cursor-paginated listings, presigned image storage and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
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
		&model.Category{},
		&model.Auction{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	store, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	auctionRepo := repository.NewAuctionRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	googleProvider := auth.NewGoogleProvider(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})

	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, mailer, cfg.FrontendURL)
	listingService := service.NewListingService(auctionRepo, store)
	categoryService := service.NewCategoryService(categoryRepo, store)
	mediaService := service.NewMediaService(store, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, googleProvider, cacheClient, cfg.FrontendURL)
	auctionHandler := handler.NewAuctionHandler(listingService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	storageHandler := handler.NewStorageHandler(mediaService)

	// Register routes
	router.Register(
		e,
		jwtService,
		authHandler,
		auctionHandler,
		categoryHandler,
		storageHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
