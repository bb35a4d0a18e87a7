package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	_ "vidtube/docs" // swagger docs

	"vidtube/internal/auth"
	"vidtube/internal/cache"
	"vidtube/internal/config"
	"vidtube/internal/db"
	"vidtube/internal/handler"
	"vidtube/internal/logger"
	"vidtube/internal/media"
	"vidtube/internal/model"
	"vidtube/internal/repository"
	"vidtube/internal/router"
	"vidtube/internal/service"
)

// @title VidTube API
// @version 1.0
// @description User account and channel backend with JWT authentication and refresh token rotation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logger.New("server")
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Subscription{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	uploader, err := media.NewS3Uploader(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("media uploader init")
	}

	userRepo := repository.NewUserRepository(gormDB)
	subRepo := repository.NewSubscriptionRepository(gormDB)

	tokens := auth.NewTokenService(
		cfg.AccessTokenSecret, cfg.AccessTokenTTL,
		cfg.RefreshTokenSecret, cfg.RefreshTokenTTL,
	)

	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, subRepo, uploader, cacheClient)

	authHandler := handler.NewAuthHandler(authService, tokens, uploader)
	userHandler := handler.NewUserHandler(userService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, log, tokens, authHandler, userHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
