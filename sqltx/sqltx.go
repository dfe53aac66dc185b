// Package sqltx is a TransactionManager over database/sql and SQLite.
//
// Repositories never hold a *sql.Tx themselves: they ask the Manager for a
// Querier with the context of the current call, and get the transaction a
// proxy began for that call or the database outside of one.
//
// A Manager opened with Open uses a single connection. A transactional method
// must therefore not call another transactional bean backed by the same
// Manager: the inner Begin waits for the connection the outer call holds
// until its context is done.
package sqltx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xraph/beans"
	"github.com/xraph/go-utils/log"
)

// Querier is the subset of *sql.DB and *sql.Tx repositories use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Manager begins one database transaction per intercepted call.
type Manager struct {
	db     *sql.DB
	logger log.Logger
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string, logger log.Logger) (*Manager, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return New(db, logger), nil
}

// New wraps an open database.
func New(db *sql.DB, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	return &Manager{db: db, logger: logger}
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// ApplySchema executes DDL outside of any transaction.
func (m *Manager) ApplySchema(ctx context.Context, ddl string) error {
	if _, err := m.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Begin implements beans.TransactionManager.
func (m *Manager) Begin(ctx context.Context) (beans.Transaction, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	t := &Tx{
		ID:      uuid.NewString(),
		tx:      tx,
		mgr:     m,
		started: time.Now(),
	}

	m.logger.Debug("transaction begun", log.String("tx", t.ID))

	return t, nil
}

// Querier returns the transaction of the current call when ctx carries one
// begun by this manager, otherwise the database.
func (m *Manager) Querier(ctx context.Context) Querier {
	if tx, ok := beans.TransactionFrom(ctx); ok {
		if t, ok := tx.(*Tx); ok && t.mgr == m {
			return t.tx
		}
	}

	return m.db
}

// DB returns the underlying database.
func (m *Manager) DB() *sql.DB {
	return m.db
}

// Health implements di.HealthChecker.
func (m *Manager) Health(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// Close closes the database.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Tx is the handle of one call's transaction.
type Tx struct {
	// ID correlates the log lines of one transaction.
	ID string

	tx      *sql.Tx
	mgr     *Manager
	started time.Time
}

// Commit implements beans.Transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return err
	}

	t.mgr.logger.Debug("transaction committed",
		log.String("tx", t.ID),
		log.Duration("elapsed", time.Since(t.started)),
	)

	return nil
}

// Rollback implements beans.Transaction.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return err
	}

	t.mgr.logger.Debug("transaction rolled back",
		log.String("tx", t.ID),
		log.Duration("elapsed", time.Since(t.started)),
	)

	return nil
}
