// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"hr-intake/internal/common/config"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schemaDDL string

// PostgresClient owns the connection pool. Each statement borrows one pooled
// connection and returns it when the statement finishes.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens the pool. No connection is made until first use.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// EnsureSchema creates the applications table and its index if they are missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, c.DB)
}

// EnsureSchema applies the embedded DDL. Every statement is idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SchemaDDL returns the embedded table definition.
func SchemaDDL() string {
	return schemaDDL
}
