package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/insidertracker/backend/pkg/logger"
)

// Store implements contracts.Store and contracts.QueryStore on Postgres.
// ⭐ SSOT: all SQL lives in this package
type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// New creates a new Postgres-backed store
func New(pool *pgxpool.Pool, log *logger.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: log,
	}
}

// isNoRows reports whether err is the pgx empty-result sentinel
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
