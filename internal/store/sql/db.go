package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/sageverse/tree/internal/config"
	"github.com/sageverse/tree/internal/logger"
)

// OpenOptions selects the driver and DSN.
type OpenOptions struct {
	Driver      string // config.DriverSQLite | config.DriverPostgres
	DSN         string
	Debug       bool // log every query at debug level
	PingTimeout time.Duration
}

// Open connects to the database and verifies the connection with a ping.
func Open(ctx context.Context, opts OpenOptions, log logger.Logger) (*bun.DB, error) {
	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)

	switch opts.Driver {
	case config.DriverSQLite:
		sqlDB, err = sql.Open("sqlite3", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		// A single connection serializes writers and keeps shared
		// in-memory databases alive for the lifetime of the pool.
		sqlDB.SetMaxOpenConns(1)
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case config.DriverPostgres:
		sqlDB, err = sql.Open("postgres", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	if opts.Debug {
		db.AddQueryHook(&queryLogger{log: log})
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", opts.Driver, err)
	}

	log.Info("database connected", logger.String("driver", opts.Driver))
	return db, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*accountRecord)(nil),
		(*profileRecord)(nil),
		(*linkRecord)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", m, err)
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*linkRecord)(nil)).
		Index("links_user_id_position_idx").
		Unique().
		Column("user_id", "position").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create links index: %w", err)
	}

	if _, err := db.NewCreateIndex().
		Model((*accountRecord)(nil)).
		Index("accounts_confirm_token_idx").
		Column("confirm_token").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create accounts index: %w", err)
	}

	return nil
}

// queryLogger is a bun.QueryHook that writes every statement to the debug log.
type queryLogger struct {
	log logger.Logger
}

func (h *queryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	fields := []logger.Field{
		logger.String("query", event.Query),
		logger.Duration("duration", time.Since(event.StartTime)),
	}
	if event.Err != nil && event.Err != sql.ErrNoRows {
		fields = append(fields, logger.Error(event.Err))
	}
	h.log.Debug("sql", fields...)
}
