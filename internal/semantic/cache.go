// # internal/semantic/cache.go
package semantic

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"driftwatch/internal/observability"
)

const cacheDriverName = "sqlite"

// Cache persists embeddings keyed by provider and text hash so repeated
// scans of an unchanged tree skip re-embedding.
type Cache struct {
	path string
	db   *sql.DB
}

func OpenCache(path string) (*Cache, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("embedding cache path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("embedding cache path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(cacheDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open embedding cache %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping embedding cache %q: %w", cleanPath, err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS embeddings (
  provider TEXT NOT NULL,
  text_hash TEXT NOT NULL,
  dimensions INTEGER NOT NULL,
  vector BLOB NOT NULL,
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP),
  PRIMARY KEY (provider, text_hash)
);
`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize embedding cache schema %q: %w", cleanPath, err)
	}

	return &Cache{path: cleanPath, db: db}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached vector for the provider/text pair, or nil when
// the pair has not been embedded yet.
func (c *Cache) Get(provider, text string) ([]float32, error) {
	var blob []byte
	var dims int
	err := c.db.QueryRow(
		`SELECT vector, dimensions FROM embeddings WHERE provider = ? AND text_hash = ?`,
		provider, textHash(text),
	).Scan(&blob, &dims)
	if err == sql.ErrNoRows {
		observability.EmbeddingCacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read embedding cache: %w", err)
	}

	vec, err := decodeVector(blob, dims)
	if err != nil {
		return nil, fmt.Errorf("decode cached embedding: %w", err)
	}
	observability.EmbeddingCacheHits.Inc()
	return vec, nil
}

func (c *Cache) Put(provider, text string, vec []float32) error {
	_, err := c.db.Exec(`
INSERT INTO embeddings (provider, text_hash, dimensions, vector)
VALUES (?, ?, ?, ?)
ON CONFLICT(provider, text_hash) DO UPDATE SET
  dimensions = excluded.dimensions,
  vector = excluded.vector
`, provider, textHash(text), len(vec), encodeVector(vec))
	if err != nil {
		return fmt.Errorf("write embedding cache: %w", err)
	}
	return nil
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := new(bytes.Buffer)
	buf.Grow(len(vec) * 4)
	for _, v := range vec {
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	return buf.Bytes()
}

func decodeVector(blob []byte, dims int) ([]float32, error) {
	if len(blob) != dims*4 {
		return nil, fmt.Errorf("vector blob is %d bytes, expected %d", len(blob), dims*4)
	}
	vec := make([]float32, dims)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4 : i*4+4])
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}
