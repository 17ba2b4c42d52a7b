// Package log provides the zerolog-based logger used by this repo's command
// line tools. Output goes to a console writer by default; Init switches it to
// an SQLite database so tool runs leave a queryable trace behind.
package log

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

var (
	mu        sync.Mutex
	pkgLogger = consoleLogger()
	dbWriter  *sqliteWriter
)

func consoleLogger() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).With().Timestamp().Logger()
}

// sqliteWriter stores each JSON log event as one row.
type sqliteWriter struct {
	mu   sync.Mutex
	db   *sql.DB
	stmt *sql.Stmt
}

func newSQLiteWriter(path string) (*sqliteWriter, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", path, err)
	}

	const createTableSQL = `
    CREATE TABLE IF NOT EXISTS logs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        inserted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        log_data TEXT NOT NULL
    );`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create logs table: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO logs (log_data) VALUES (?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	return &sqliteWriter{db: db, stmt: stmt}, nil
}

func (w *sqliteWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.stmt.Exec(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *sqliteWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.stmt.Close(); err != nil {
		w.db.Close()
		return fmt.Errorf("error closing statement: %w", err)
	}
	return w.db.Close()
}

// Init routes all subsequent events into the SQLite database at dbPath.
func Init(dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("log: Init needs an explicit db path")
	}

	mu.Lock()
	defer mu.Unlock()
	if dbWriter != nil {
		return fmt.Errorf("log: already initialized")
	}

	writer, err := newSQLiteWriter(dbPath)
	if err != nil {
		return err
	}
	dbWriter = writer
	zerolog.TimeFieldFormat = time.RFC3339Nano
	pkgLogger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}

// Close flushes the SQLite writer and falls back to the console logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if dbWriter == nil {
		return nil
	}
	writer := dbWriter
	dbWriter = nil
	pkgLogger = consoleLogger()
	return writer.close()
}

func Debug() *zerolog.Event { return pkgLogger.Debug() }
func Info() *zerolog.Event  { return pkgLogger.Info() }
func Warn() *zerolog.Event  { return pkgLogger.Warn() }
func Error() *zerolog.Event { return pkgLogger.Error() }
func Fatal() *zerolog.Event { return pkgLogger.Fatal() }

// Printf sends an info-level event in the manner of fmt.Printf.
func Printf(format string, v ...any) {
	pkgLogger.Info().CallerSkipFrame(1).Msgf(format, v...)
}
