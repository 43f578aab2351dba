package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/cricket-stats/internal/config"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/domain/team"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
	"github.com/riskibarqy/cricket-stats/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/cricket-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-stats/internal/infrastructure/repository/document"
	"github.com/riskibarqy/cricket-stats/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-stats/internal/platform/cache"
	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
	idgen "github.com/riskibarqy/cricket-stats/internal/platform/id"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
	"github.com/riskibarqy/cricket-stats/internal/platform/metrics"
	"github.com/riskibarqy/cricket-stats/internal/platform/resilience"
	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

// App holds the wired services shared by the API server and the CLI.
type App struct {
	Config      config.Config
	Logger      *logging.Logger
	Metrics     *metrics.Manager
	Store       docstore.Store
	PlayerStats *usecase.PlayerStatsService
	TeamStats   *usecase.TeamStatsService
	Recompute   *usecase.RecomputeService

	db *sqlx.DB
}

type Options struct {
	// SeedFile overrides STORE_SEED_FILE.
	SeedFile string
	// DisableQueue forces inline recomputes even when QStash is configured.
	DisableQueue bool
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.NewManager(),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Store = store

	seedFile := cfg.StoreSeedFile
	if opts.SeedFile != "" {
		seedFile = opts.SeedFile
	}
	if err := a.seed(ctx, seedFile); err != nil {
		_ = a.Close()
		return nil, err
	}

	var (
		players     player.Repository      = document.NewPlayerRepository(store)
		playerStats playerstats.Repository = document.NewPlayerStatsRepository(store)
		teams       team.Repository        = document.NewTeamRepository(store)
		teamStats   teamstats.Repository   = document.NewTeamStatsRepository(store)
	)
	if cfg.CacheEnabled {
		c := cache.NewStore(cfg.CacheTTL)
		a.Metrics.RegisterCache("repository", c)
		players = cacherepo.NewPlayerRepository(players, c)
		playerStats = cacherepo.NewPlayerStatsRepository(playerStats, c)
		teams = cacherepo.NewTeamRepository(teams, c)
		teamStats = cacherepo.NewTeamStatsRepository(teamStats, c)
	}

	var queue usecase.JobQueue
	if cfg.QStashEnabled && !opts.DisableQueue {
		queue = a.newPublisher()
	}

	a.PlayerStats = usecase.NewPlayerStatsService(players, playerStats, queue, a.Metrics, cfg.PlayerStatsOptions(), logger)
	a.TeamStats = usecase.NewTeamStatsService(teams, teamStats, queue, a.Metrics, cfg.TeamStatsOptions(), logger)
	a.Recompute = usecase.NewRecomputeService(a.PlayerStats, a.TeamStats, players, teams, idgen.NewUUIDGenerator(), cfg.RecomputeMaxWorkers, logger)

	return a, nil
}

func (a *App) newPublisher() *jobqueue.QStashPublisher {
	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          a.Config.QStashBaseURL,
		Token:            a.Config.QStashToken,
		TargetBaseURL:    a.Config.QStashTargetBaseURL,
		Retries:          a.Config.QStashRetries,
		InternalJobToken: a.Config.InternalJobToken,
		Timeout:          a.Config.QStashTimeout,
		CircuitBreaker:   a.Config.QStashCircuit,
	}, a.Metrics, a.Logger)

	publisher.Breaker().OnStateChange(func(from, to resilience.CircuitState) {
		a.Metrics.SetBreakerState("qstash", string(to))
		a.Logger.Warn("qstash circuit breaker state changed", "from", string(from), "to", string(to))
	})
	return publisher
}

func (a *App) openStore(ctx context.Context) (docstore.Store, error) {
	if a.Config.StoreBackend != config.StorePostgres {
		a.Logger.Info("document store ready", "backend", config.StoreMemory)
		return memory.NewDocumentStore(), nil
	}

	dbName := a.Config.DatabaseName()
	db, err := otelsqlx.Open("postgres", a.Config.PostgresDSN(),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	a.db = db
	a.Logger.Info("document store ready", "backend", config.StorePostgres, "db_name", dbName)
	return postgres.NewDocumentStore(db), nil
}

// seed loads a seed file when one is configured. The in-memory backend falls
// back to the bundled sample data in dev so a fresh process has something to serve.
func (a *App) seed(ctx context.Context, path string) error {
	var data memory.SeedData
	switch {
	case path != "":
		loaded, err := memory.LoadSeedFile(path)
		if err != nil {
			return err
		}
		data = loaded
	case a.Config.StoreBackend == config.StoreMemory && a.Config.AppEnv == config.EnvDev:
		data = memory.DefaultSeed()
	default:
		return nil
	}

	n, err := memory.Seed(ctx, a.Store, data)
	if err != nil {
		return fmt.Errorf("seed %s store: %w", a.Config.StoreBackend, err)
	}
	a.Logger.Info("document store seeded", "documents", n, "file", path)
	return nil
}

// NewHTTPServer builds the API server around the wired services.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.Config.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.PlayerStats, a.TeamStats, a.Recompute, a.Logger)
	routerCfg := httpapi.RouterConfig{
		SwaggerEnabled:     a.Config.SwaggerEnabled,
		CORSAllowedOrigins: a.Config.CORSAllowedOrigins,
		InternalJobToken:   a.Config.InternalJobToken,
	}
	if a.Config.MetricsEnabled {
		routerCfg.Metrics = a.Metrics.Handler()
	}

	return &http.Server{
		Addr:              a.Config.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, a.Metrics, a.Logger, routerCfg),
		ReadTimeout:       a.Config.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      a.Config.WriteTimeout,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
