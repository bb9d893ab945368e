package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsboard/gatekeeper/internal/api"
	"github.com/opsboard/gatekeeper/internal/api/middleware"
	"github.com/opsboard/gatekeeper/internal/core/ports"
	"github.com/opsboard/gatekeeper/internal/core/service"
	"github.com/opsboard/gatekeeper/internal/infrastructure/config"
	mongostore "github.com/opsboard/gatekeeper/internal/infrastructure/db/mongo"
	redisstore "github.com/opsboard/gatekeeper/internal/infrastructure/db/redis"
	"github.com/opsboard/gatekeeper/internal/infrastructure/http/handlers"
	"github.com/opsboard/gatekeeper/internal/infrastructure/queue"
	"github.com/opsboard/gatekeeper/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the gatekeeper HTTP server",
	Long: `Starts the gatekeeper HTTP server. Usage:

	gatekeeper server
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
			return err
		}
		return runServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "gatekeeper",
		Env:     cfg.Env,
	})

	// --- Storage ---
	mclient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = mclient.Disconnect(context.Background()) }()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	creds := mongostore.NewCredentialRepository(db)
	users := mongostore.NewUserRepository(db)
	if err := creds.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("credential indexes not created")
	}
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("user indexes not created")
	}
	overrides := redisstore.NewImpersonationStore(rdb, cfg.Auth.SessionTTL)

	readiness := map[string]handlers.Check{
		"mongodb": handlers.MongoCheck(db),
		"redis":   handlers.RedisCheck(rdb),
	}

	// --- Audit trail ---
	var sink ports.AuditSink = queue.NewLogSink(log)
	if cfg.RabbitMQ.URL != "" {
		rs, err := queue.NewRabbitMQSink(cfg.RabbitMQ.URL, cfg.RabbitMQ.AuditQueue)
		if err != nil {
			return err
		}
		defer func() { _ = rs.Close() }()
		sink = rs
		readiness["rabbitmq"] = func(context.Context) error { return rs.Healthy() }
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	audit := queue.NewDispatcher(cfg.RabbitMQ.AuditWorkers, sink, log)
	audit.Start(workerCtx)

	// --- Core services ---
	tokens := service.NewSessionTokens(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	resolver := service.NewIdentityResolver(users, service.IdentityPolicy(cfg.Auth.IdentityPolicy), log)
	gate := service.NewAccessGate(overrides, log)

	redirects := service.DefaultRedirectConfig()
	redirects.Delay = cfg.Auth.RedirectDelay

	authService := service.NewAuthService(creds, overrides, tokens, service.BcryptHasher{}, audit, log,
		service.WithLockoutPolicy(service.LockoutPolicy{
			MaxAttempts: cfg.Auth.LockoutAttempts,
			Duration:    cfg.Auth.LockoutDuration,
		}),
	)

	limiter := middleware.NewIPRateLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)
	go limiter.Run(ctx, time.Minute)

	e := api.NewRouter(api.Deps{
		Log:           log,
		Tokens:        tokens,
		Resolver:      resolver,
		Gate:          gate,
		Redirects:     service.NewRedirectEngine(gate, redirects, log),
		Auth:          authService,
		Impersonation: service.NewImpersonationService(overrides, audit, log),
		LoginLimiter:  limiter,
		Readiness:     readiness,
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("gatekeeper listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server stopped unexpectedly")
		audit.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	audit.Close()
	log.Info().Msg("gatekeeper stopped")
	return nil
}
