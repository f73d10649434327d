package commands

import (
	"context"
	"fmt"

	"github.com/wonny/insidertracker/backend/internal/cluster"
	"github.com/wonny/insidertracker/backend/internal/external/edgar"
	"github.com/wonny/insidertracker/backend/internal/ingest"
	"github.com/wonny/insidertracker/backend/internal/scoring"
	"github.com/wonny/insidertracker/backend/internal/store"
	"github.com/wonny/insidertracker/backend/pkg/config"
	"github.com/wonny/insidertracker/backend/pkg/database"
	"github.com/wonny/insidertracker/backend/pkg/httputil"
	"github.com/wonny/insidertracker/backend/pkg/logger"
	"github.com/wonny/insidertracker/backend/pkg/redis"
)

// app holds the wired application components shared by the commands
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	store    *store.Store
	pipeline *ingest.Pipeline
}

// bootstrap loads config and wires the full ingestion stack
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	st := store.New(db.Pool, log)
	if err := st.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// No retry against EDGAR: a failed fetch is counted as a skip or
	// error and the run moves on to the next candidate.
	httpClient := httputil.New(cfg, log).DisableRetry()
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "insider")
		httpClient = httpClient.WithRateLimiter(limiter, redis.SECRateLimit)
	}

	edgarClient := edgar.NewClient(httpClient, log)
	engine := scoring.NewEngine(st, log)
	detector := cluster.NewDetector(st, log)
	pipeline := ingest.New(edgarClient, st, engine, detector, cfg, log)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		redis:    redisClient,
		store:    st,
		pipeline: pipeline,
	}, nil
}

// close releases the app's connections
func (a *app) close() {
	a.redis.Close()
	a.db.Close()
}
