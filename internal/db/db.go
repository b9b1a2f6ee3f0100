package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"

	"github.com/ramanasai/streak/internal/encryption"
	"github.com/ramanasai/streak/internal/events"
)

//go:embed schema.sql
var schemaFS embed.FS

// SchemaVersion is the only schema this build knows how to read.
const SchemaVersion = 1

// AppDataDir returns ~/.local/share/streak, creating it if needed.
func AppDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	base := filepath.Join(home, ".local", "share", "streak")
	if err := os.MkdirAll(base, 0o755); err != nil {
		return "", err
	}
	return base, nil
}

// DefaultPath is the database file used when the config does not name one.
func DefaultPath() (string, error) {
	dir, err := AppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "streak.db"), nil
}

// Store owns the one shared database handle and the three record collections.
type Store struct {
	path string
	enc  *encryption.Encryptor
	bus  *events.Bus
	now  func() time.Time
	log  *slog.Logger

	opening singleflight.Group
	mu      sync.RWMutex
	conn    *sql.DB
}

type Option func(*Store)

// WithEncryptor seals notes at rest.
func WithEncryptor(enc *encryption.Encryptor) Option {
	return func(s *Store) { s.enc = enc }
}

// WithBus publishes a Change after every committed add or delete.
func WithBus(bus *events.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New builds a Store for the database at path. No I/O happens until the
// first operation.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path: strings.TrimSpace(path),
		now:  time.Now,
		log:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With(slog.String("component", "store"))
	return s
}

// Path is the database file location.
func (s *Store) Path() string { return s.path }

// Bus returns the change bus the store publishes to, if any.
func (s *Store) Bus() *events.Bus { return s.bus }

// EnsureOpen opens and migrates the database once. Concurrent first callers
// wait on the same in-flight open and receive the same handle. A failed open
// is not remembered, so a later call tries again.
func (s *Store) EnsureOpen(ctx context.Context) (*sql.DB, error) {
	if s.path == "" {
		return nil, ErrUnsupportedEnvironment
	}
	if conn := s.handle(); conn != nil {
		return conn, nil
	}

	v, err, _ := s.opening.Do("open", func() (any, error) {
		if conn := s.handle(); conn != nil {
			return conn, nil
		}
		conn, err := s.openConn(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.log.Debug("database opened", slog.String("path", s.path))
		return conn, nil
	})
	if err != nil {
		s.log.Error("database open failed", slog.String("path", s.path), slog.Any("error", err))
		return nil, err
	}
	return v.(*sql.DB), nil
}

func (s *Store) handle() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

func (s *Store) openConn(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedEnvironment, err)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		s.path,
	)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, persistErr("open", "", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, persistErr("open", "", err)
	}
	if err := migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, persistErr("migrate", "", err)
	}
	return conn, nil
}

func migrate(ctx context.Context, conn *sql.DB) error {
	var version int
	if err := conn.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

// Close releases the handle. The store must not be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
