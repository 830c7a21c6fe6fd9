package cluster

import (
	"fmt"
	"sort"

	"mindgraph/internal/extractor"
)

// Options holds the similarity constants of the greedy pass.
type Options struct {
	// BaseThreshold is lowered by ImportanceFactor * seed importance for each seed.
	BaseThreshold    float64
	ImportanceFactor float64
	// CategoryBonus is added to the similarity when both concepts share a category.
	CategoryBonus float64
	MaxRelated    int
	// Clusters with no related concepts survive only with importance above MinImportance.
	MinImportance float64
}

func DefaultOptions() Options {
	return Options{
		BaseThreshold:    0.65,
		ImportanceFactor: 0.1,
		CategoryBonus:    0.05,
		MaxRelated:       4,
		MinImportance:    0.4,
	}
}

// Related is a concept attached to a cluster with its raw similarity to the seed.
type Related struct {
	Index      int               `json:"index"`
	Concept    extractor.Concept `json:"concept"`
	Similarity float64           `json:"similarity"`
}

type Cluster struct {
	ID         string             `json:"id"`
	MainIndex  int                `json:"mainIndex"`
	Main       extractor.Concept  `json:"mainConcept"`
	Related    []Related          `json:"relatedConcepts"`
	Centroid   []float64          `json:"-"`
	Category   extractor.Category `json:"category"`
	Importance float64            `json:"importance"`
	Label      string             `json:"label,omitempty"`
}

// Concepts returns the main concept followed by the related ones.
func (c *Cluster) Concepts() []extractor.Concept {
	out := make([]extractor.Concept, 0, 1+len(c.Related))
	out = append(out, c.Main)
	for _, r := range c.Related {
		out = append(out, r.Concept)
	}
	return out
}

type Engine struct {
	opts Options
}

func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Cluster groups concepts in one greedy pass over seeds ordered by importance.
// embeddings[i] must belong to concepts[i].
func (e *Engine) Cluster(concepts []extractor.Concept, embeddings [][]float64) ([]Cluster, error) {
	if len(concepts) != len(embeddings) {
		return nil, fmt.Errorf("concept/embedding count mismatch: %d vs %d", len(concepts), len(embeddings))
	}

	order := make([]int, len(concepts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return concepts[order[a]].Importance > concepts[order[b]].Importance
	})

	assigned := make([]bool, len(concepts))
	var clusters []Cluster

	for _, i := range order {
		if assigned[i] {
			continue
		}
		seed := concepts[i]
		c := Cluster{
			ID:         fmt.Sprintf("cluster-%d", len(clusters)),
			MainIndex:  i,
			Main:       seed,
			Centroid:   embeddings[i],
			Category:   seed.Category,
			Importance: seed.Importance,
		}
		assigned[i] = true

		threshold := e.opts.BaseThreshold - seed.Importance*e.opts.ImportanceFactor
		for j := range concepts {
			if assigned[j] {
				continue
			}
			if len(c.Related) >= e.opts.MaxRelated {
				break
			}
			sim := CosineSimilarity(embeddings[i], embeddings[j])
			adjusted := sim
			if concepts[j].Category == seed.Category {
				adjusted += e.opts.CategoryBonus
			}
			if adjusted > threshold {
				c.Related = append(c.Related, Related{Index: j, Concept: concepts[j], Similarity: sim})
				assigned[j] = true
			}
		}
		clusters = append(clusters, c)
	}

	kept := clusters[:0]
	for _, c := range clusters {
		if c.Importance > e.opts.MinImportance || len(c.Related) > 0 {
			kept = append(kept, c)
		}
	}
	return kept, nil
}
