package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/omsomani/account-system/docs" // swagger docs

	"github.com/omsomani/account-system/internal/api"
	"github.com/omsomani/account-system/internal/api/handler"
	"github.com/omsomani/account-system/internal/auth"
	"github.com/omsomani/account-system/internal/core/service"
	"github.com/omsomani/account-system/internal/crypto"
	"github.com/omsomani/account-system/internal/infrastructure/config"
	"github.com/omsomani/account-system/internal/infrastructure/db/mysql"
	"github.com/omsomani/account-system/internal/infrastructure/db/redis"
	"github.com/omsomani/account-system/internal/infrastructure/http/handlers"
	"github.com/omsomani/account-system/internal/infrastructure/queue"
	"github.com/omsomani/account-system/internal/ratelimit"
	"github.com/omsomani/account-system/pkg/logger"
)

// @title        Account System API
// @version      1.0
// @description  Mobile-number based authentication and profile management.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mysql.Connect(mysql.Config{
		DSN:             cfg.MySQL.DSN,
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mysql init")
	}
	if err := mysql.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("mysql migrate")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis init")
	}

	dispatcher := queue.NewDispatcher(0, log)
	dispatcher.Start(ctx)

	repo := mysql.NewAccountRepository(db, cfg.MySQL.QueryTimeout)
	hasher := crypto.NewBcryptHasher()
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL)
	cache := redis.NewProfileCache(rdb)

	accounts := service.NewAccountService(repo, hasher, tokens, cache, dispatcher, log)

	e := api.NewRouter(api.Deps{
		Auth:    handler.NewAuthHandler(accounts),
		Profile: handler.NewProfileHandler(accounts),
		Health:  handlers.NewHealthHandler(),
		Ready:   handlers.NewReadinessHandler(db, rdb),
		Tokens:  tokens,
		Limiter: ratelimit.New(),
		LoginPolicy: ratelimit.Policy{
			Name:     ratelimit.LoginPolicy.Name,
			Window:   cfg.RateLimit.LoginWindow,
			MaxCount: cfg.RateLimit.LoginMax,
		},
		APIPolicy: ratelimit.Policy{
			Name:     ratelimit.APIPolicy.Name,
			Window:   cfg.RateLimit.APIWindow,
			MaxCount: cfg.RateLimit.APIMax,
		},
		Log: log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
		os.Exit(1)
	}
}
