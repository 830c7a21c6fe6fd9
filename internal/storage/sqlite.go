package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindgraph/internal/apperr"
	"mindgraph/internal/graph"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS mindmaps (
			id TEXT PRIMARY KEY,
			title TEXT,
			source_text TEXT,
			created_at INTEGER,
			total_concepts INTEGER,
			clusters_found INTEGER,
			categories JSON,
			mindmap JSON
		);`,
		`CREATE TABLE IF NOT EXISTS embeddings (
			model TEXT,
			text_hash TEXT,
			embedding BLOB,
			PRIMARY KEY (model, text_hash)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_mindmaps_created ON mindmaps(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- MindmapStore Implementation ---

func (s *SQLiteStore) SaveMindmap(ctx context.Context, rec *Record) error {
	body, err := json.Marshal(rec.Mindmap)
	if err != nil {
		return fmt.Errorf("failed to encode mindmap: %w", err)
	}
	if err := graph.ValidateJSON(body); err != nil {
		return fmt.Errorf("refusing to store mindmap %s: %w", rec.ID, err)
	}
	categories, err := json.Marshal(rec.Mindmap.Metadata.Categories)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mindmaps (id, title, source_text, created_at, total_concepts, clusters_found, categories, mindmap)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title=excluded.title,
			source_text=excluded.source_text,
			created_at=excluded.created_at,
			total_concepts=excluded.total_concepts,
			clusters_found=excluded.clusters_found,
			categories=excluded.categories,
			mindmap=excluded.mindmap
	`, rec.ID, rec.Title, rec.Text, rec.CreatedAt.UnixMilli(),
		rec.Mindmap.Metadata.TotalConcepts, rec.Mindmap.Metadata.ClustersFound, categories, body)
	return err
}

func (s *SQLiteStore) GetMindmap(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, title, source_text, created_at, mindmap FROM mindmaps WHERE id = ?", id)

	var rec Record
	var created int64
	var body []byte
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Text, &created, &body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("mindmap " + id)
		}
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	if err := graph.ValidateJSON(body); err != nil {
		return nil, apperr.Internal(fmt.Errorf("stored mindmap %s is corrupt: %w", id, err))
	}
	if err := json.Unmarshal(body, &rec.Mindmap); err != nil {
		return nil, fmt.Errorf("failed to decode mindmap %s: %w", id, err)
	}
	return &rec, nil
}

func (s *SQLiteStore) ListMindmaps(ctx context.Context, limit int) ([]Summary, error) {
	query := "SELECT id, title, created_at, total_concepts, clusters_found, categories FROM mindmaps ORDER BY created_at DESC, id"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mindmaps: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var created int64
		var categories []byte
		if err := rows.Scan(&sum.ID, &sum.Title, &created, &sum.TotalConcepts, &sum.ClustersFound, &categories); err != nil {
			return nil, fmt.Errorf("failed to scan mindmap: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(created).UTC()
		if len(categories) > 0 {
			_ = json.Unmarshal(categories, &sum.Categories)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteMindmap(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM mindmaps WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("mindmap " + id)
	}
	return nil
}

// --- VectorCache Implementation ---

func (s *SQLiteStore) LoadEmbeddings(ctx context.Context, model string, texts []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	byHash := make(map[string]string, len(texts))
	args := []any{model}
	for _, t := range texts {
		h := textHash(t)
		if _, dup := byHash[h]; dup {
			continue
		}
		byHash[h] = t
		args = append(args, h)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)-1), ",")
	rows, err := s.db.QueryContext(ctx,
		"SELECT text_hash, embedding FROM embeddings WHERE model = ? AND text_hash IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var h string
		var blob []byte
		if err := rows.Scan(&h, &blob); err != nil {
			return nil, err
		}
		vec, err := decodeVector(blob)
		if err != nil {
			continue
		}
		out[byHash[h]] = vec
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveEmbeddings(ctx context.Context, model string, vectors map[string][]float32) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (model, text_hash, embedding) VALUES (?, ?, ?)
		ON CONFLICT(model, text_hash) DO UPDATE SET embedding=excluded.embedding
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for text, vec := range vectors {
		blob, err := encodeVector(vec)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, model, textHash(text), blob); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func encodeVector(v []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob has %d bytes", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}
