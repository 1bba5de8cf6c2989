package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/config"
	"github.com/raneshrk02/smart-plant-monitoring/pkg/models"
)

const defaultQueryTimeout = 10 * time.Second

// DatabaseManager handles all database operations
type DatabaseManager struct {
	healthChecker *HealthChecker
	queryTimeout  time.Duration
}

// NewDatabaseManager connects using cfg, retrying with exponential backoff
// until the database answers or the retry budget is spent
func NewDatabaseManager(cfg config.DatabaseConfig) (*DatabaseManager, error) {
	connect := func() (*sql.DB, error) {
		return connectDatabase(cfg)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second

	var db *sql.DB
	err := backoff.Retry(func() error {
		var err error
		db, err = connect()
		if err != nil {
			log.Printf("⚠ Database not ready: %v", err)
		}
		return err
	}, backoff.WithMaxRetries(bo, 5))
	if err != nil {
		return nil, fmt.Errorf("could not connect to database after retries: %w", err)
	}

	log.Printf("✓ Connected to database %s on %s", cfg.Name, cfg.Host)

	dm := &DatabaseManager{
		healthChecker: NewHealthChecker(db, 30*time.Second, connect),
		queryTimeout:  cfg.QueryTimeout,
	}

	// Start health checking
	dm.healthChecker.Start()

	return dm, nil
}

// NewDatabaseManagerWithDB wraps an already opened connection. The health
// checker is not started and cannot reconnect.
func NewDatabaseManagerWithDB(db *sql.DB, queryTimeout time.Duration) *DatabaseManager {
	return &DatabaseManager{
		healthChecker: NewHealthChecker(db, 30*time.Second, nil),
		queryTimeout:  queryTimeout,
	}
}

// GetDB returns the underlying database connection
func (dm *DatabaseManager) GetDB() *sql.DB {
	return dm.healthChecker.DB()
}

// Close closes the database connection and stops health checking
func (dm *DatabaseManager) Close() error {
	dm.healthChecker.Stop()
	if db := dm.healthChecker.DB(); db != nil {
		return db.Close()
	}
	return nil
}

// withTimeout bounds a single storage round-trip
func (dm *DatabaseManager) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := dm.queryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// QueryWithHealthCheck executes a query with connection health verification
func (dm *DatabaseManager) QueryWithHealthCheck(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}

	return dm.healthChecker.DB().QueryContext(ctx, query, args...)
}

// QueryRowWithHealthCheck executes a query that returns a single row with
// health check. A failed check is returned here so it is never mistaken for
// sql.ErrNoRows at Scan.
func (dm *DatabaseManager) QueryRowWithHealthCheck(ctx context.Context, query string, args ...interface{}) (*sql.Row, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}

	return dm.healthChecker.DB().QueryRowContext(ctx, query, args...), nil
}

// ExecWithHealthCheck executes a statement with connection health verification
func (dm *DatabaseManager) ExecWithHealthCheck(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if err := dm.healthChecker.EnsureConnection(ctx); err != nil {
		return nil, err
	}

	return dm.healthChecker.DB().ExecContext(ctx, query, args...)
}

// IsConnectionHealthy returns the current health status
func (dm *DatabaseManager) IsConnectionHealthy() bool {
	return dm.healthChecker.IsHealthy()
}

// Ping verifies the database answers within the query timeout
func (dm *DatabaseManager) Ping(ctx context.Context) error {
	ctx, cancel := dm.withTimeout(ctx)
	defer cancel()
	return dm.healthChecker.EnsureConnection(ctx)
}

// Init initializes the database with migrations
func (dm *DatabaseManager) Init() error {
	log.Println("Running database migrations...")

	runner, err := NewMigrationsRunner(dm.GetDB())
	if err != nil {
		return fmt.Errorf("failed to create migration runner: %w", err)
	}

	if err := runner.Run(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✓ Database initialization completed successfully")
	return nil
}

// connectDatabase establishes a connection to the database
func connectDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return db, nil
}

func storageError(op string, err error) error {
	return &models.StorageError{Op: op, Err: err}
}
