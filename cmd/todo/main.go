package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/todo/internal/access"
	"github.com/odyssey-erp/todo/internal/app"
	"github.com/odyssey-erp/todo/internal/auth"
	"github.com/odyssey-erp/todo/internal/observability"
	"github.com/odyssey-erp/todo/internal/platform/cache"
	"github.com/odyssey-erp/todo/internal/platform/db"
	"github.com/odyssey-erp/todo/internal/roles"
	"github.com/odyssey-erp/todo/internal/token"
	"github.com/odyssey-erp/todo/internal/users"
	"github.com/odyssey-erp/todo/jobs"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(&cfg.Runtime)
	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("todo api", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	if err := db.Migrate(ctx, dbpool); err != nil {
		return err
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokenOpts := token.Options{
		Secret:            cfg.JWTKey,
		ExpirationMinutes: cfg.JWTExpireMinutes,
		Issuer:            cfg.JWTIssuer,
		Audience:          cfg.JWTAudience,
	}
	issuer, err := token.NewIssuer(tokenOpts)
	if err != nil {
		return err
	}
	verifier, err := token.NewVerifier(tokenOpts)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()

	registry := access.NewRegistry()
	users.RegisterSubjects(registry)
	gate := access.NewGate(access.NewEvaluator(registry), logger, metrics)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB}
	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("job inspector close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(auth.NewRepository(dbpool), logger)
	authHandler := auth.NewHandler(logger, authService, issuer, gate,
		auth.WithMailer(jobClient),
		auth.WithLoginObserver(metrics),
	)

	roleService := roles.NewService(roles.NewRepository(dbpool), roles.NewCache(redisClient, cfg.RoleCacheTTL), logger)
	rolesHandler := roles.NewHandler(logger, roleService, gate)

	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(dbpool)), gate)

	router := app.NewRouter(app.RouterParams{
		Logger:       logger,
		Config:       cfg,
		Verifier:     verifier,
		AuthHandler:  authHandler,
		RolesHandler: rolesHandler,
		UsersHandler: usersHandler,
		JobHandler:   jobs.NewHandler(inspector, logger),
		Metrics:      metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
			return err
		}
		return nil
	})
	return g.Wait()
}
