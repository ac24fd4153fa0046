package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
	"github.com/kzboard/kzboard/internal/config"
)

// Repository provides read-only access to the leaderboard database
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a repository backed by a pooled MySQL connection
func New(cfg *config.DatabaseConfig, logger *slog.Logger) (*Repository, error) {
	dsnConfig, err := mysql.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	// DATETIME columns must come back as time.Time
	dsnConfig.ParseTime = true

	connector, err := mysql.NewConnector(dsnConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() error {
	return r.db.Close()
}

// Ping checks database connectivity
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
