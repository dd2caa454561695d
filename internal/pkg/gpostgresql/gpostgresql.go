package gpostgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"locshare/internal/config"

	"github.com/useinsider/go-pkg/inslogger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExecQueryRower is the subset of pgxpool.Pool the stores depend on, kept
// small so tests can substitute a mock.
type ExecQueryRower interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewDBConnection(ctx context.Context, dbConfig *config.DatabaseConfig, logger inslogger.Interface) (*pgxpool.Pool, error) {
	var db *pgxpool.Pool

	connString := strings.TrimSpace(fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d",
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Host,
		dbConfig.Port,
	))

	parseConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Errorf("Error parsing pool config: %v", err)
		return nil, err
	}

	// One local user, two keys: a small pool is plenty.
	parseConfig.MaxConns = 4
	parseConfig.MinConns = 1
	parseConfig.MaxConnLifetime = 30 * time.Minute
	parseConfig.MaxConnIdleTime = 10 * time.Minute
	parseConfig.HealthCheckPeriod = 2 * time.Minute

	db, err = pgxpool.NewWithConfig(ctx, parseConfig)
	if err != nil {
		logger.Errorf("error connecting to database: %v", err)
		return nil, err
	}

	logger.Log("connected to PostgreSQL")
	return db, nil
}

// EnsureSchema creates the preference table on startup. The table is tiny
// (two rows at most) so there is no migration tooling.
func EnsureSchema(ctx context.Context, db ExecQueryRower, logger inslogger.Interface) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_preferences (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		logger.Errorf("error ensuring user_preferences schema: %v", err)
		return err
	}
	return nil
}

func Close(ctx context.Context, pool *pgxpool.Pool, logger inslogger.Interface) {
	if pool != nil {
		logger.Log("Closing PostgreSQL connection pool")
		pool.Close()
	}
}
