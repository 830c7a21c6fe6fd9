package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mindgraph/internal/apperr"
	"mindgraph/internal/crawler"
	"mindgraph/internal/logger"
	"mindgraph/internal/storage"
)

// Runner processes requests and persists the results.
type Runner struct {
	proc  *Processor
	store storage.MindmapStore
	log   *logger.Logger
	now   func() time.Time
}

func NewRunner(proc *Processor, store storage.MindmapStore, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{proc: proc, store: store, log: log, now: time.Now}
}

// Generate builds a mindmap for req and stores it under a fresh id.
func (r *Runner) Generate(ctx context.Context, req Request) (*storage.Record, error) {
	mm, err := r.proc.Process(ctx, req)
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		title = mm.Nodes[0].Data.Label
	}
	rec := &storage.Record{
		ID:        uuid.NewString(),
		Title:     title,
		Text:      req.Text,
		CreatedAt: r.now().UTC(),
		Mindmap:   *mm,
	}
	if r.store != nil {
		if err := r.store.SaveMindmap(ctx, rec); err != nil {
			return nil, apperr.Internal(fmt.Errorf("failed to save mindmap: %w", err))
		}
	}
	r.log.Info("mindmap stored", "id", rec.ID, "title", rec.Title)
	return rec, nil
}

// BatchResult reports the outcome for one document of a batch run.
type BatchResult struct {
	Path   string
	Record *storage.Record
	Err    error
}

// Batch generates a mindmap for every document under root. Per-document failures are
// reported through onResult and do not stop the run; a context cancellation does.
func (r *Runner) Batch(ctx context.Context, root string, onResult func(BatchResult)) error {
	return crawler.NewCrawler().ScanDocuments(root, func(doc crawler.Document) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := r.Generate(ctx, Request{Text: doc.Text, Title: doc.Title})
		if err != nil {
			r.log.Warn("document skipped", "path", doc.Path, "error", err)
		}
		if onResult != nil {
			onResult(BatchResult{Path: doc.Path, Record: rec, Err: err})
		}
		return nil
	})
}
