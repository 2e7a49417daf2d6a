package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/config"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/handler"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/middleware"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/api/router"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/repository"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/scope"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/internal/service"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/database"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/jwt"
	applogger "github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/logger"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/metrics"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/policy"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/redis"
	"github.com/MarceloAnsilago/NovoGerenciadorDeAtividades-sub000/pkg/textsort"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("GERENCIADOR_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 4. Redis is optional: without it tokens cannot be revoked, login is not
	// rate limited, and acting units and drafts do not survive the request.
	rdb, err := redis.NewClient(&cfg.Redis, cfg.Session.TTL, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without sessions", zap.Error(err))
		rdb = nil
	}

	// 5. policy, collation, metrics
	pol, err := policy.New(cfg.Policy.Grants)
	if err != nil {
		logger.Fatal("load policy", zap.Error(err))
	}
	sorter := textsort.New(cfg.Roster.Locale)
	m := metrics.New()
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. repository → resolver → service → handler
	repo := repository.NewRepository(db)

	var (
		cache     scope.TreeCache
		sessions  scope.SessionStore
		blacklist service.TokenBlacklist
		drafts    service.DraftStore
		tokens    middleware.TokenChecker
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		cache, sessions = rdb, rdb
		blacklist, drafts = rdb, rdb
		tokens, limiter = rdb, rdb
	}

	resolver := scope.NewResolver(repo.Unit, pol, cache, sessions, sorter, cfg.Scope.CacheTTL, logger)

	svc := service.NewService(service.Deps{
		Config:    cfg,
		Repo:      repo,
		JWT:       jwtMgr,
		Resolver:  resolver,
		Blacklist: blacklist,
		Drafts:    drafts,
		Metrics:   m,
		Sorter:    sorter,
		Logger:    logger,
	})
	h := handler.NewHandler(svc)

	// 7. routes
	engine, err := router.Setup(router.Deps{
		Config:   cfg,
		Handler:  h,
		JWT:      jwtMgr,
		Resolver: resolver,
		Tokens:   tokens,
		Limiter:  limiter,
		Metrics:  m,
		Health: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return sqlDB.PingContext(ctx)
		},
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("setup router", zap.Error(err))
	}

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
