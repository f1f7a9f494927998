package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence across
// process runs. It uses a write-ahead log for better concurrent read
// performance and a single-writer connection pool, which is all SQLite
// supports anyway.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	ttls   TTLs
	rec    Recorder
	now    func() time.Time

	mu        sync.Mutex
	closeOnce sync.Once

	// Pre-compiled statements for the hot Get/Set path.
	getStmt    *sql.Stmt
	setStmt    *sql.Stmt
	touchStmt  *sql.Stmt
	deleteStmt *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite cache backend.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file. Parent
	// directories are created as needed.
	DBPath string

	// TTLs is the per-namespace TTL table. Nil means DefaultTTLs.
	TTLs TTLs

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// Recorder receives hit/miss/eviction events. Nil disables metrics.
	Recorder Recorder
}

// NewSQLiteStore opens (or creates) the cache database at dbPath with
// default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig opens a cache database with custom settings.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.TTLs == nil {
		cfg.TTLs = DefaultTTLs()
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:     db,
		dbPath: cfg.DBPath,
		ttls:   cfg.TTLs,
		rec:    cfg.Recorder,
		now:    time.Now,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare cache statements: %w", err)
	}

	return store, nil
}

// SetClock injects a clock for TTL tests.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS result_cache (
		cache_key TEXT PRIMARY KEY,
		namespace TEXT NOT NULL,
		payload BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		last_accessed_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cache_namespace ON result_cache(namespace);
	CREATE INDEX IF NOT EXISTS idx_cache_created_at ON result_cache(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.getStmt, err = s.db.Prepare(`
		SELECT payload, created_at FROM result_cache WHERE cache_key = ?`)
	if err != nil {
		return err
	}

	s.setStmt, err = s.db.Prepare(`
		INSERT INTO result_cache (cache_key, namespace, payload, created_at, last_accessed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			namespace = excluded.namespace,
			payload = excluded.payload,
			created_at = excluded.created_at,
			last_accessed_at = excluded.last_accessed_at`)
	if err != nil {
		return err
	}

	s.touchStmt, err = s.db.Prepare(`
		UPDATE result_cache SET last_accessed_at = ? WHERE cache_key = ?`)
	if err != nil {
		return err
	}

	s.deleteStmt, err = s.db.Prepare(`DELETE FROM result_cache WHERE cache_key = ?`)
	return err
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, ns, key, extra string) ([]byte, error) {
	k := Key(ns, key, extra)

	s.mu.Lock()
	defer s.mu.Unlock()

	var payload []byte
	var createdAt int64
	err := s.getStmt.QueryRowContext(ctx, k).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		s.miss(ns)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	now := s.now()
	if ttl := s.ttls.For(ns); ttl > 0 && now.Sub(time.Unix(createdAt, 0)) > ttl {
		// Lazy eviction: the entry aged out since it was written.
		if _, err := s.deleteStmt.ExecContext(ctx, k); err != nil {
			return nil, fmt.Errorf("cache eviction failed: %w", err)
		}
		s.evict(ns)
		s.miss(ns)
		return nil, nil
	}

	if _, err := s.touchStmt.ExecContext(ctx, now.Unix(), k); err != nil {
		return nil, fmt.Errorf("cache touch failed: %w", err)
	}

	s.hit(ns)
	return payload, nil
}

// Set implements Store. Last write wins: re-resolving a key overwrites
// the previous entry and restarts its TTL.
func (s *SQLiteStore) Set(ctx context.Context, ns, key, extra string, payload []byte) error {
	k := Key(ns, key, extra)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	if _, err := s.setStmt.ExecContext(ctx, k, ns, payload, now, now); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context, ns, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res sql.Result
	var err error
	switch {
	case ns == "":
		res, err = s.db.ExecContext(ctx, `DELETE FROM result_cache`)
	case key != "":
		// Single-key clears can only match the context-free key form.
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM result_cache WHERE cache_key = ?`, Key(ns, key, ""))
	default:
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM result_cache WHERE namespace = ?`, ns)
	}
	if err != nil {
		return 0, fmt.Errorf("cache clear failed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

// CleanupExpired implements Store. Namespaces with a zero TTL are
// durable and never cleaned.
func (s *SQLiteStore) CleanupExpired(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	now := s.now()
	for ns, ttl := range s.ttls {
		if ttl == 0 {
			continue
		}
		cutoff := now.Add(-ttl).Unix()
		res, err := s.db.ExecContext(ctx,
			`DELETE FROM result_cache WHERE namespace = ? AND created_at < ?`, ns, cutoff)
		if err != nil {
			return deleted, fmt.Errorf("cache cleanup failed for namespace %q: %w", ns, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += int(n)
			for i := int64(0); i < n; i++ {
				s.evict(ns)
			}
		}
	}
	return deleted, nil
}

// Stats implements Store.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &Stats{ByNamespace: make(map[string]int)}

	rows, err := s.db.QueryContext(ctx,
		`SELECT namespace, COUNT(*) FROM result_cache GROUP BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("cache stats failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ns string
		var count int
		if err := rows.Scan(&ns, &count); err != nil {
			return nil, fmt.Errorf("cache stats scan failed: %w", err)
		}
		stats.ByNamespace[ns] = count
		stats.TotalEntries += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache stats failed: %w", err)
	}

	var oldest, newest sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT MIN(created_at), MAX(created_at) FROM result_cache`).Scan(&oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("cache stats failed: %w", err)
	}
	if oldest.Valid {
		stats.OldestEntry = time.Unix(oldest.Int64, 0)
	}
	if newest.Valid {
		stats.NewestEntry = time.Unix(newest.Int64, 0)
	}

	return stats, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.getStmt, s.setStmt, s.touchStmt, s.deleteStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteStore) hit(ns string) {
	if s.rec != nil {
		s.rec.Hit(ns)
	}
}

func (s *SQLiteStore) miss(ns string) {
	if s.rec != nil {
		s.rec.Miss(ns)
	}
}

func (s *SQLiteStore) evict(ns string) {
	if s.rec != nil {
		s.rec.Eviction(ns)
	}
}
