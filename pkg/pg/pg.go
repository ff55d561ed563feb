// Package pg owns the PostgreSQL connection pool and schema migrations.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Config is the env-sourced database configuration.
type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL,required"`
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MinIdleConns      int32         `env:"PG_MIN_IDLE_CONNS" envDefault:"2"`
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
	MigrationsPath    string        `env:"PG_MIGRATIONS_PATH" envDefault:"migrations"`
}

var (
	ErrFailedToParseConfig  = errors.New("pg: failed to parse connection config")
	ErrFailedToConnect      = errors.New("pg: failed to open connection")
	ErrFailedToMigrate      = errors.New("pg: failed to apply migrations")
	ErrMigrationsPathNotSet = errors.New("pg: migrations path not provided")
)

// Connect establishes a pgx pool, retrying with a linear backoff so a
// service restarting alongside the database does not give up immediately.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MinIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	attempts := max(cfg.RetryAttempts, 1)
	for i := 0; i < attempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToConnect, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return nil, ErrFailedToConnect
}

// Migrate applies goose SQL migrations through a database/sql bridge over
// the pgx pool. goose does not speak pgx natively.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log gooseLogger) error {
	if cfg.MigrationsPath == "" {
		return errors.Join(ErrFailedToMigrate, ErrMigrationsPathNotSet)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) { _ = db.Close() }(db)

	goose.SetLogger(slogGooseAdapter{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToMigrate, err)
	}
	if err := goose.UpContext(ctx, db, cfg.MigrationsPath); err != nil {
		return errors.Join(ErrFailedToMigrate, err)
	}
	return nil
}

type gooseLogger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// slogGooseAdapter routes goose's Printf-style output through slog.
type slogGooseAdapter struct {
	log gooseLogger
}

func (a slogGooseAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (a slogGooseAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
