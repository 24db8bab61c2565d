// Package duckdb provides a DuckDB cache for PharmGKB annotations and an
// export target for interaction summaries.
package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-pgx/internal/pharmgkb"
)

// lookupCacheSize bounds the number of rsIDs kept by the lookup cache.
const lookupCacheSize = 4096

// Store manages a DuckDB connection for cached annotations and summaries.
type Store struct {
	db     *sql.DB
	logger *zap.Logger

	lookupOnce sync.Once
	lookupPS   *sql.Stmt
	lookupErr  error
	cache      *lru.Cache[string, []*pharmgkb.Record]
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	cache, err := lru.New[string, []*pharmgkb.Record](lookupCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}

	s := &Store{db: db, logger: zap.NewNop(), cache: cache}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// SetLogger sets the logger for lookup warnings.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.lookupPS != nil {
		s.lookupPS.Close()
	}
	return s.db.Close()
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS annotations (
			seq BIGINT,
			rsid VARCHAR,
			gene VARCHAR,
			drugs VARCHAR,
			phenotype_category VARCHAR,
			significance VARCHAR,
			notes VARCHAR,
			sentence VARCHAR,
			alleles VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			seq BIGINT,
			gene VARCHAR,
			drug VARCHAR,
			interaction_count BIGINT,
			rsids VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS source_files (
			name VARCHAR PRIMARY KEY,
			path VARCHAR,
			size BIGINT,
			mod_time VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	// Index for rsID point lookups
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_annotations_rsid ON annotations (rsid)`)
	return nil
}

// appendRows runs fn with an Appender on table and flushes it.
func (s *Store) appendRows(table string, fn func(a *goduckdb.Appender) error) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	if err := fn(appender); err != nil {
		return err
	}
	return appender.Flush()
}
