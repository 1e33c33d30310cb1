package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"simpleblog/docs"
	"simpleblog/internal/auth"
	"simpleblog/internal/cache"
	"simpleblog/internal/config"
	"simpleblog/internal/db"
	"simpleblog/internal/handler"
	"simpleblog/internal/logger"
	"simpleblog/internal/repository"
	"simpleblog/internal/router"
	"simpleblog/internal/service"
	"simpleblog/internal/view"
)

// @title Simple Blog API
// @version 1.0
// @description JSON endpoints of the simple blog: post feed, comments, user listing and the cron keep-alive.
// @host localhost:4000
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("server", "info").Fatal().Err(err).Msg("load config")
	}
	log := logger.New("server", cfg.LogLevel)

	dsn := cfg.SQLitePath
	if cfg.DBDriver == "mysql" {
		dsn = cfg.MySQLDSN
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if !cacheClient.Enabled() {
		log.Info().Msg("REDIS_ADDR not set, caching disabled")
	}

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal().Err(err).Msg("reset database")
		}
		if err := service.ResetCache(context.Background(), cacheClient); err != nil {
			log.Fatal().Err(err).Msg("reset cache")
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Auth components
	tokens := auth.NewTokenService(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	cookie := auth.SessionCookie{Name: cfg.SessionCookie, TTL: cfg.SessionTTL, Secure: cfg.Production()}

	// Services
	validator := service.NewValidator()
	authService := service.NewAuthService(userRepo, hasher, tokens, validator, cfg.SessionTTL)
	postService := service.NewPostService(postRepo, cacheClient, validator)
	commentService := service.NewCommentService(commentRepo, postService)
	userService := service.NewUserService(userRepo, cacheClient)

	renderer, err := view.New()
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(e, cfg, log, tokens, renderer, router.Handlers{
		Auth:    handler.NewAuthHandler(authService, cookie),
		Post:    handler.NewPostHandler(postService),
		Comment: handler.NewCommentHandler(commentService),
		User:    handler.NewUserHandler(userService),
		Cron:    handler.NewCronHandler(cfg.CronSecret, cfg.CronTargetURL),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Str("swagger", "/swagger/index.html").Msg("server live")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}
