package storage

import (
	"context"
	"time"

	"mindgraph/internal/graph"
	"mindgraph/internal/knowledge"
)

// Record is a persisted mindmap together with the request that produced it.
type Record struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Text      string        `json:"text,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	Mindmap   graph.Mindmap `json:"mindmap"`
}

// Summary is the listing view of a Record.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"createdAt"`
	TotalConcepts int       `json:"totalConcepts"`
	ClustersFound int       `json:"clustersFound"`
	Categories    []string  `json:"categories"`
}

// Store combines mindmap persistence and the embedding cache.
type Store interface {
	MindmapStore
	knowledge.VectorCache
	Close() error
}

// MindmapStore defines operations for persisting generated mindmaps.
type MindmapStore interface {
	// SaveMindmap inserts or replaces a record by ID.
	SaveMindmap(ctx context.Context, rec *Record) error

	// GetMindmap returns apperr NotFound when no record has the ID.
	GetMindmap(ctx context.Context, id string) (*Record, error)

	// ListMindmaps returns summaries, newest first. limit <= 0 means no limit.
	ListMindmaps(ctx context.Context, limit int) ([]Summary, error)

	DeleteMindmap(ctx context.Context, id string) error
}
