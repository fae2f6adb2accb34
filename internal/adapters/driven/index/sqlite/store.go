// Package sqlite provides a persistent vector store backed by SQLite.
//
// Embeddings are stored as little-endian float32 blobs and searched
// with a brute-force distance scan. Collections are independent tables
// within one database file, so the index survives restarts without an
// external vector database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docuchat/docuchat-cli/internal/core/ports/driven"
	"github.com/docuchat/docuchat-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "pdf_documents"

// Store is a SQLite-backed vector collection.
type Store struct {
	db         *sql.DB
	path       string
	collection string
}

// NewStore opens (or creates) the vector database at the specified data
// directory and prepares the named collection. If dataDir is empty,
// defaults to ~/.docuchat/data/vectors.db.
func NewStore(dataDir, collection string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docuchat", "data")
	}
	if collection == "" {
		collection = DefaultCollection
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		collection: sanitiseCollection(collection),
	}

	if err := s.createCollection(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	logger.Debug("vector store ready: %s (collection %s)", dbPath, s.collection)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Collection returns the sanitised collection name.
func (s *Store) Collection() string {
	return s.collection
}

// Add inserts entries in a single transaction. Either every entry is
// stored or none are.
func (s *Store) Add(ctx context.Context, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, content, metadata, embedding)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`, s.collection))
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		metadataJSON, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling entry metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(entry.Embedding)

		if _, err := stmt.ExecContext(ctx, entry.ID, entry.Content,
			string(metadataJSON), embeddingBlob); err != nil {
			return fmt.Errorf("saving entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search scans the collection for the k nearest neighbours by squared
// L2 distance. Filters restrict candidates to entries whose metadata
// matches every key exactly.
func (s *Store) Search(ctx context.Context, query []float32, k int, filters map[string]any) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, content, metadata, embedding FROM %s", s.collection))
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var (
			id, content, metadataJSON string
			embeddingBlob             []byte
		)
		if err := rows.Scan(&id, &content, &metadataJSON, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
			return nil, fmt.Errorf("unmarshalling entry metadata: %w", err)
		}

		if !matchesFilters(metadata, filters) {
			continue
		}

		embedding := bytesToFloat32Slice(embeddingBlob)
		if len(embedding) != len(query) {
			logger.Warn("skipping entry %s: dimension mismatch (%d != %d)", id, len(embedding), len(query))
			continue
		}

		hits = append(hits, driven.VectorHit{
			ID:       id,
			Content:  content,
			Metadata: metadata,
			Distance: squaredL2(query, embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.collection))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// Clear removes every entry by dropping and recreating the collection.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.collection)); err != nil {
		return fmt.Errorf("dropping collection: %w", err)
	}
	if err := s.createCollection(); err != nil {
		return fmt.Errorf("recreating collection: %w", err)
	}
	return nil
}

// createCollection creates the collection table if it doesn't exist.
func (s *Store) createCollection() error {
	_, err := s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			embedding BLOB NOT NULL
		)
	`, s.collection))
	return err
}

// sanitiseCollection restricts collection names to identifier-safe
// characters, since the name is interpolated into SQL.
func sanitiseCollection(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return DefaultCollection
	}
	out := sb.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "c_" + out
	}
	return out
}

// matchesFilters reports whether metadata satisfies every filter key
// with an exact match. JSON numbers decode as float64, so numeric
// filter values are compared through the same representation.
func matchesFilters(metadata, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if normaliseValue(got) != normaliseValue(want) {
			return false
		}
	}
	return true
}

// normaliseValue collapses numeric types into one comparable form.
func normaliseValue(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return v
	}
}

// squaredL2 computes the squared Euclidean distance between vectors.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
