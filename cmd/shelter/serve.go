package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/petshelter/adoption-system/internal/api"
	"github.com/petshelter/adoption-system/internal/core/ports"
	"github.com/petshelter/adoption-system/internal/core/service"
	"github.com/petshelter/adoption-system/internal/infrastructure/config"
	"github.com/petshelter/adoption-system/internal/infrastructure/db/mongo"
	"github.com/petshelter/adoption-system/internal/infrastructure/db/postgres"
	redisdb "github.com/petshelter/adoption-system/internal/infrastructure/db/redis"
	"github.com/petshelter/adoption-system/internal/infrastructure/http/handlers"
	"github.com/petshelter/adoption-system/internal/infrastructure/imagefeed"
	"github.com/petshelter/adoption-system/internal/infrastructure/queue"
	"github.com/petshelter/adoption-system/internal/infrastructure/seed"
	"github.com/petshelter/adoption-system/internal/infrastructure/session"
	"github.com/petshelter/adoption-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Migrations are applied on startup. When SEED_FILE is set its users and
animals are inserted before the listener opens. SIGINT or SIGTERM drains
in-flight requests and pending audit events before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

type sessionBackend interface {
	ports.SessionStore
	Close() error
}

type redisBackend struct {
	*redisdb.SessionStore
	closeFn func() error
}

func (b redisBackend) Close() error { return b.closeFn() }

func openSessions(ctx context.Context, cfg *config.Config, log zerolog.Logger) (sessionBackend, error) {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		log.Warn().Msg("using in-memory session store; sessions are lost on restart")
		return session.NewMemoryStore(), nil
	default:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisBackend{SessionStore: redisdb.NewSessionStore(client), closeFn: client.Close}, nil
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	pool, err := openDatabase(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("database unavailable")
		return err
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	animals := postgres.NewAnimalRepository(pool)
	adoptions := postgres.NewAdoptionRepository(pool)

	sessions, err := openSessions(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("session store unavailable")
		return err
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Warn().Err(err).Msg("closing session store")
		}
	}()

	ready := map[string]handlers.Pinger{
		"postgres": pool,
		"sessions": sessions,
	}

	var (
		recorder ports.AuditRecorder   = ports.NopAudit{}
		auditLog ports.AuditRepository = ports.NopAudit{}
	)
	if cfg.Mongo.URI != "" {
		store, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, log)
		if err != nil {
			log.Error().Err(err).Msg("audit store unavailable")
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = store.Close(closeCtx)
		}()

		repo := mongo.NewAuditRepository(store.Database())
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes not ensured")
		}
		dispatcher := queue.NewDispatcher(cfg.Mongo.Workers, repo, logger.Component("audit"))
		// Workers outlive the signal so queued events are still written.
		dispatcher.Start(context.WithoutCancel(ctx))
		defer dispatcher.Close()

		recorder, auditLog = dispatcher, repo
		ready["audit"] = store
	}

	if cfg.SeedFile != "" {
		f, err := seed.Load(cfg.SeedFile)
		if err != nil {
			return err
		}
		if _, err := seed.NewSeeder(users, animals, logger.Component("seed")).Apply(ctx, f); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	authSvc := service.NewAuthService(users, sessions, recorder, cfg.Session.Secret, cfg.Session.TTL, logger.Component("auth"))
	adoptionSvc := service.NewAdoptionService(animals, adoptions, recorder, logger.Component("adoption"))
	adminSvc := service.NewAdminService(service.AdminDeps{
		Users:     users,
		Animals:   animals,
		Adoptions: adoptions,
		AuditLog:  auditLog,
		Audit:     recorder,
		Revoker:   authSvc,
	}, logger.Component("admin"))
	images := imagefeed.NewClient(imagefeed.Config{
		DogBaseURL: cfg.Images.DogAPIURL,
		CatBaseURL: cfg.Images.CatAPIURL,
		Count:      cfg.Images.Count,
	}, nil, logger.Component("images"))

	e := api.NewRouter(api.Deps{
		Auth:         authSvc,
		Adoption:     adoptionSvc,
		Admin:        adminSvc,
		Images:       images,
		Ready:        ready,
		RateLimit:    api.RateLimit{PerSecond: cfg.RateLimit.PerSecond, Burst: cfg.RateLimit.Burst},
		SecureCookie: cfg.IsProduction(),
		Log:          logger.Component("http"),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
