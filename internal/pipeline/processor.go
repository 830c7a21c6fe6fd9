package pipeline

import (
	"context"
	"fmt"
	"time"

	"mindgraph/internal/apperr"
	"mindgraph/internal/cluster"
	"mindgraph/internal/extractor"
	"mindgraph/internal/graph"
	"mindgraph/internal/knowledge"
	"mindgraph/internal/labeler"
	"mindgraph/internal/logger"
)

// Embeddings is the embedding capability the processor waits on before clustering.
type Embeddings interface {
	EmbedAll(ctx context.Context, texts []string) ([]knowledge.Vector, error)
}

// Processor runs the text-to-mindmap pipeline. It holds no per-request state and is safe
// for concurrent use.
type Processor struct {
	extractor *extractor.Extractor
	embedder  Embeddings
	clusterer *cluster.Engine
	builder   *graph.Builder
	log       *logger.Logger
	now       func() time.Time
}

func NewProcessor(embedder Embeddings, opts Options, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	return &Processor{
		extractor: extractor.NewExtractor(opts.Extractor),
		embedder:  embedder,
		clusterer: cluster.NewEngine(opts.Cluster),
		builder:   graph.NewBuilder(opts.Layout),
		log:       log,
		now:       time.Now,
	}
}

// Process validates req and turns its text into a mindmap. Any failure fails the whole
// request; a partial graph is never returned.
func (p *Processor) Process(ctx context.Context, req Request) (mm *graph.Mindmap, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := p.now()

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("pipeline panicked", "panic", r)
			mm, err = nil, apperr.Internal(fmt.Errorf("panic: %v", r))
		}
	}()

	concepts := p.extractStage(req.Text)
	if len(concepts) == 0 {
		return nil, apperr.NoConceptsFound()
	}

	embeddings, err := p.embedStage(ctx, concepts)
	if err != nil {
		return nil, err
	}

	clusters, err := p.clusterStage(concepts, embeddings)
	if err != nil {
		p.log.Error("clustering failed", "error", err)
		return nil, apperr.Internal(err)
	}

	clusters = labeler.LabelAll(clusters)
	nodes, edges := p.builder.Build(clusters, req.Title)

	elapsed := p.now().Sub(start)
	p.log.Info("mindmap built",
		"concepts", len(concepts),
		"clusters", len(clusters),
		"nodes", len(nodes),
		"duration", elapsed,
	)

	mm = &graph.Mindmap{
		Nodes: nodes,
		Edges: edges,
		Metadata: graph.Metadata{
			TotalConcepts:  len(concepts),
			ClustersFound:  len(clusters),
			ProcessingTime: elapsed.Milliseconds(),
			Categories:     graph.Categories(nodes),
			AIModel:        AIModel,
			Accuracy:       Accuracy,
		},
	}
	if err := mm.Validate(); err != nil {
		return nil, apperr.Internal(err)
	}
	return mm, nil
}

func (p *Processor) extractStage(text string) []extractor.Concept {
	concepts := p.extractor.Extract(text)
	p.log.Debug("concepts extracted", "count", len(concepts))
	return concepts
}

func (p *Processor) embedStage(ctx context.Context, concepts []extractor.Concept) ([]knowledge.Vector, error) {
	texts := make([]string, len(concepts))
	for i, c := range concepts {
		texts[i] = c.Text
	}

	vecs, err := p.embedder.EmbedAll(ctx, texts)
	if err != nil {
		p.log.Warn("embedding failed", "error", err)
		if apperr.Is(err, apperr.KindEmbeddingUnavailable) {
			return nil, err
		}
		return nil, apperr.EmbeddingUnavailable(err)
	}
	if len(vecs) != len(concepts) {
		return nil, apperr.EmbeddingUnavailable(fmt.Errorf("got %d embeddings for %d concepts", len(vecs), len(concepts)))
	}
	return vecs, nil
}

func (p *Processor) clusterStage(concepts []extractor.Concept, embeddings []knowledge.Vector) ([]cluster.Cluster, error) {
	clusters, err := p.clusterer.Cluster(concepts, embeddings)
	if err != nil {
		return nil, err
	}
	p.log.Debug("concepts clustered", "clusters", len(clusters))
	return clusters, nil
}
