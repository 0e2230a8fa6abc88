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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	authmemory "github.com/gurulost/FitnessForge/internal/adapters/auth/memory"
	"github.com/gurulost/FitnessForge/internal/adapters/http/handlers"
	"github.com/gurulost/FitnessForge/internal/adapters/http/router"
	"github.com/gurulost/FitnessForge/internal/adapters/storage/memory"
	redisstorage "github.com/gurulost/FitnessForge/internal/adapters/storage/redis"
	"github.com/gurulost/FitnessForge/internal/config"
	"github.com/gurulost/FitnessForge/internal/core/ports"
	"github.com/gurulost/FitnessForge/internal/core/services"
	"github.com/gurulost/FitnessForge/internal/tasks"
)

const (
	csrfSweepTask    = "csrf-token-sweep"
	counterSweepTask = "ratelimit-counter-sweep"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}
}

type app struct {
	handler http.Handler
	tasks   *tasks.Manager
	close   func()
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	application, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer application.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.tasks.Start(ctx)
	defer application.tasks.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           application.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("env", cfg.Server.Environment).
			Str("storage", cfg.Storage.Type).
			Msg("server.listening")
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	return nil
}

func newApp(cfg config.Config) (*app, error) {
	counters, tokens, closeFn, err := initStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	limiter, err := services.NewRateLimiterService(counters, services.Config{
		APIRule:  cfg.RateLimiter.APIRule,
		AuthRule: cfg.RateLimiter.AuthRule,
	})
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to create limiter: %w", err)
	}

	csrf, err := services.NewCSRFService(tokens, services.CSRFConfig{
		TTL:       cfg.CSRF.TokenTTL,
		SingleUse: cfg.CSRF.SingleUse,
	})
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to create csrf service: %w", err)
	}

	manager := tasks.NewManager()
	manager.Register(csrfSweepTask, cfg.CSRF.SweepInterval, func(ctx context.Context, l zerolog.Logger) error {
		removed, err := csrf.Sweep(ctx)
		if err != nil {
			return err
		}
		l.Debug().Int("removed", removed).Msg("csrf tokens swept")
		return nil
	})
	manager.Register(counterSweepTask, cfg.RateLimiter.SweepInterval, func(ctx context.Context, l zerolog.Logger) error {
		removed, err := counters.SweepExpired(ctx)
		if err != nil {
			return err
		}
		l.Debug().Int("removed", removed).Msg("rate limit counters swept")
		return nil
	})

	handler := router.New(router.Deps{
		Limiter:           limiter,
		CSRF:              csrf,
		Auth:              authmemory.NewAuthenticator(0),
		CookieOptions:     handlers.CSRFCookieOptions(cfg.Server.Production(), csrf.TTL()),
		Production:        cfg.Server.Production(),
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		PublicHost:        cfg.Server.PublicHost,
	})

	return &app{handler: handler, tasks: manager, close: closeFn}, nil
}

func initStorage(cfg config.Config) (ports.CounterStorage, ports.TokenStorage, func(), error) {
	switch cfg.Storage.Type {
	case config.StorageMemory:
		counters := memory.NewCounterStore(memory.CounterConfig{MaxKeys: cfg.RateLimiter.MaxKeys})
		return counters, memory.NewTokenStore(nil), func() {}, nil
	case config.StorageRedis:
		redisCfg := redisstorage.Config{
			Addr:     fmt.Sprintf("%s:%d", cfg.Storage.Redis.Host, cfg.Storage.Redis.Port),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		}
		storage, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := storage.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis storage")
			}
		}
		return storage.Counters(), storage.Tokens(cfg.CSRF.TokenTTL, cfg.CSRF.SweepInterval), closeFn, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported storage type: %s", cfg.Storage.Type)
	}
}
