package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Defaults applied when no Option overrides them.
const (
	DefaultKeep     = 20
	DefaultMaxBytes = 5 << 20
)

// Store holds the SQL driver and provides access to repositories.
type Store struct {
	db     *sql.DB
	drv    *entsql.Driver
	seq    *sequenceCounter
	logger *slog.Logger

	keep     int
	maxBytes int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for dropped entries and storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBytes caps the size of a serialized tree. Zero disables the cap.
func WithMaxBytes(n int) Option {
	return func(s *Store) { s.maxBytes = n }
}

// WithKeep sets how many snapshots are retained after each save.
// Values below one keep only the latest.
func WithKeep(n int) Option {
	return func(s *Store) { s.keep = n }
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the schema.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:       db,
		drv:      entsql.OpenDB(dialect.SQLite, db),
		seq:      seq,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		keep:     DefaultKeep,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// TreeRepo returns a TreeRepo backed by this store.
func (s *Store) TreeRepo() TreeRepo {
	return &treeRepo{
		drv:      s.drv,
		seq:      s.seq,
		logger:   s.logger,
		keep:     s.keep,
		maxBytes: s.maxBytes,
	}
}

const snapshotsTable = "tree_snapshots"

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tree_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			saved_at INTEGER NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tree_snapshots_sequence ON tree_snapshots (sequence)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLTREE_DB environment variable
// 2. $XDG_DATA_HOME/skilltree/skilltree.db
// 3. ~/.local/share/skilltree/skilltree.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLTREE_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "skilltree.db")
	return p, EnsureDir(p)
}

// DataDir returns the directory holding skilltree's database and logs.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "skilltree"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

