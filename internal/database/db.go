package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/config"
	_ "github.com/lib/pq"
)

// NewConnection opens the shared Postgres pool. The pool is owned by the
// caller for the process lifetime; there is no package-level instance.
func NewConnection(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
