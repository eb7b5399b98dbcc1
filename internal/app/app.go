package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/tournament-votes/internal/config"
	"github.com/riskibarqy/tournament-votes/internal/domain/award"
	"github.com/riskibarqy/tournament-votes/internal/domain/ballot"
	"github.com/riskibarqy/tournament-votes/internal/domain/deadline"
	"github.com/riskibarqy/tournament-votes/internal/domain/user"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/adminlist"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/tournament-votes/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/tournament-votes/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/tournament-votes/internal/platform/cache"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
	"github.com/riskibarqy/tournament-votes/internal/usecase"
)

// App holds the HTTP server and the pieces cmd/api drives directly.
type App struct {
	Server         *http.Server
	AdminDirectory *usecase.AdminDirectory

	closers []func() error
}

func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type stores struct {
	ballots ballot.Repository
	voters  user.Repository
	close   func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	registry, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}
	gate := deadline.NewGate(cfg.VotingDeadline, nil)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app := &App{closers: []func() error{st.close}}

	ballots := st.ballots
	if cfg.CacheEnabled {
		ballots = cache.NewBallotRepository(ballots, basecache.NewStore(cfg.CacheTTL))
	}

	directory := usecase.NewAdminDirectory(adminlist.NewSource(cfg.AdminEmails, cfg.AdminEmailsFile), logger)
	if _, err := directory.Reload(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("load admin directory: %w", err)
	}
	app.AdminDirectory = directory

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectURL,
		cfg.AnubisAdminKey,
		anubis.BreakerConfig{
			Enabled:    cfg.AnubisCircuitEnabled,
			Failures:   cfg.AnubisCircuitFailureCount,
			Cooldown:   cfg.AnubisCircuitOpenTimeout,
			TrialCalls: cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
		anubis.WithPrincipalCacheTTL(cfg.AnubisPrincipalCacheTTL),
	)

	handler := httpapi.NewHandler(
		usecase.NewVoteService(registry, gate, ballots, st.voters, logger),
		usecase.NewTallyService(ballots, gate),
		usecase.NewModerationService(ballots, st.voters, logger),
		directory,
		registry,
		logger,
	)
	router := httpapi.NewRouter(handler, anubisClient, directory, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalToken:      cfg.InternalToken,
	})

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"store_driver", cfg.StoreDriver,
		"cache_enabled", cfg.CacheEnabled,
		"voting_deadline", cfg.VotingDeadline.Format(time.RFC3339),
	)
	return app, nil
}

func loadRegistry(cfg config.Config) (*award.Registry, error) {
	if cfg.EligibilityFile == "" {
		return award.DefaultRegistry(), nil
	}
	registry, err := award.LoadRegistryFile(cfg.EligibilityFile)
	if err != nil {
		return nil, fmt.Errorf("load eligibility registry: %w", err)
	}
	return registry, nil
}

func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, ballots are lost on restart")
		voters := memory.NewVoterRepository()
		return stores{
			ballots: memory.NewBallotRepository(voters),
			voters:  voters,
			close:   func() error { return nil },
		}, nil
	}

	db, err := openPostgres(ctx, cfg.DBURL)
	if err != nil {
		return stores{}, err
	}
	return stores{
		ballots: postgres.NewBallotRepository(db),
		voters:  postgres.NewVoterRepository(db),
		close:   db.Close,
	}, nil
}
