// Package store implements the SQLite-backed embedding cache. The cache is
// keyed by a content hash of the embedded text plus the model name, so a
// model change never serves stale vectors.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store represents the SQLite-based embedding cache
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance with SQLite database
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "headliner.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	embeddingsTable := `
	CREATE TABLE IF NOT EXISTS embeddings (
		content_hash TEXT NOT NULL,
		model TEXT NOT NULL,
		vector TEXT NOT NULL,
		date_cached DATETIME,
		PRIMARY KEY (content_hash, model)
	);`

	if _, err := s.db.Exec(embeddingsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ContentHash returns the cache key for a piece of embedded text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetEmbedding returns the cached vector for (text, model), or found=false
// on a miss. Corrupt rows are treated as misses.
func (s *Store) GetEmbedding(text, model string) ([]float64, bool) {
	var raw string
	query := `SELECT vector FROM embeddings WHERE content_hash = ? AND model = ?`
	err := s.db.QueryRow(query, ContentHash(text), model).Scan(&raw)
	if err != nil {
		return nil, false
	}

	var vector []float64
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		return nil, false
	}
	if len(vector) == 0 {
		return nil, false
	}

	return vector, true
}

// PutEmbedding stores a vector for (text, model), replacing any existing row.
func (s *Store) PutEmbedding(text, model string, vector []float64) error {
	raw, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO embeddings (content_hash, model, vector, date_cached)
	VALUES (?, ?, ?, ?)`

	if _, err := s.db.Exec(query, ContentHash(text), model, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to cache embedding: %w", err)
	}

	return nil
}

// PruneOlderThan deletes cache rows older than the given age and returns the
// number of rows removed.
func (s *Store) PruneOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	result, err := s.db.Exec(`DELETE FROM embeddings WHERE date_cached < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune embeddings: %w", err)
	}
	return result.RowsAffected()
}

// Stats returns the number of cached embeddings per model.
func (s *Store) Stats() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT model, COUNT(*) FROM embeddings GROUP BY model`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var model string
		var count int
		if err := rows.Scan(&model, &count); err != nil {
			return nil, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats[model] = count
	}

	return stats, rows.Err()
}
