// Package sqlite opens the application database, keeps its schema in sync with schema.sql, and periodically
// optimizes it.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/myrjola/fitroutine/internal/errors"
)

//go:embed schema.sql
var schemaDefinition string

//go:embed fixtures.sql
var fixtures string

const (
	maxReadConns      = 10
	optimizeInterval  = time.Hour
	connectionMaxLife = time.Hour
)

// Database holds separate connection pools for writes and reads.
//
// SQLite allows only one writer at a time, so ReadWrite has a single connection and begins transactions with
// BEGIN IMMEDIATE. ReadOnly serves concurrent readers.
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase connects to the database at url, migrates it to schema.sql, applies fixtures.sql, and starts the
// background optimizer that runs until ctx is done.
//
// url is a path to the SQLite database file or ":memory:" for an in-memory database private to this Database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect", slog.String("url", url))
	}

	if err = db.migrateTo(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}

	if _, err = db.ReadWrite.ExecContext(ctx, fixtures); err != nil {
		return nil, errors.Wrap(err, "apply fixtures")
	}

	if err = db.optimize(ctx); err != nil {
		return nil, err
	}
	go db.startDatabaseOptimizer(ctx, optimizeInterval)

	return db, nil
}

//nolint:gochecknoglobals // the driver can be registered only once per process.
var registerDriverOnce sync.Once

const optimizedDriver = "sqlite3optimized"

func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			Extensions: nil,
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if _, err := conn.Exec(
					// Keep temporary tables and indices in memory.
					"PRAGMA temp_store = memory;"+
						// Memory-mapped I/O reduces syscalls.
						"PRAGMA mmap_size = 30000000000;", nil); err != nil {
					return fmt.Errorf("exec optimization pragmas: %w", err)
				}
				return nil
			},
		})
}

// dsnOptions are shared by both pools. Options prefixed with an underscore are documented at
// https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open, the rest at https://www.sqlite.org/uri.html.
//
//nolint:gochecknoglobals // constant list.
var dsnOptions = []string{
	"_loc=auto",
	"_defer_foreign_keys=1",
	"_journal_mode=wal",
	"_busy_timeout=5000",
	"_synchronous=normal",
	"_foreign_keys=on",
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	options := dsnOptions
	// Each in-memory database gets a unique name so that parallel tests don't share data. Shared cache lets
	// both pools see the same database. See https://www.sqlite.org/inmemorydb.html.
	if strings.Contains(url, ":memory:") {
		url = rand.Text()
		options = append(append([]string{}, dsnOptions...), "mode=memory", "cache=shared")
	}
	common := strings.Join(options, "&")
	readWriteDSN := fmt.Sprintf("file:%s?_txlock=immediate&%s", url, common)
	readOnlyDSN := fmt.Sprintf("file:%s?_txlock=deferred&_query_only=true&%s", url, common)
	if !strings.Contains(common, "mode=memory") {
		readWriteDSN += "&mode=rwc"
		readOnlyDSN += "&mode=ro"
	}

	registerDriverOnce.Do(registerOptimizedDriver)

	readWrite, err := sql.Open(optimizedDriver, readWriteDSN)
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("sqlDsn", readWriteDSN))
	readWrite.SetMaxOpenConns(1)
	readWrite.SetMaxIdleConns(1)
	readWrite.SetConnMaxLifetime(connectionMaxLife)
	readWrite.SetConnMaxIdleTime(connectionMaxLife)

	// sql.DB is lazy. Ping creates the database file before the read-only pool tries to open it.
	if err = readWrite.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping read-write database: %w", err)
	}

	readOnly, err := sql.Open(optimizedDriver, readOnlyDSN)
	if err != nil {
		return nil, fmt.Errorf("open read-only database: %w", err)
	}
	readOnly.SetMaxOpenConns(maxReadConns)
	readOnly.SetMaxIdleConns(maxReadConns)
	readOnly.SetConnMaxLifetime(connectionMaxLife)
	readOnly.SetConnMaxIdleTime(connectionMaxLife)

	return &Database{
		ReadWrite: readWrite,
		ReadOnly:  readOnly,
		logger:    logger,
	}, nil
}

// WithTx runs fn in a read-write transaction. The transaction is committed if fn returns nil and rolled back
// otherwise.
func (db *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer db.rollback(ctx, tx)

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback is a no-op when the transaction was already committed.
func (db *Database) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		db.logger.LogAttrs(ctx, slog.LevelError, "failed to rollback transaction",
			errors.SlogError(errors.Wrap(err, "rollback")))
	}
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
