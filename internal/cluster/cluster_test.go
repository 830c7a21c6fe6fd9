package cluster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph/internal/extractor"
)

func concept(i int, imp float64, cat extractor.Category) extractor.Concept {
	return extractor.Concept{
		ID:          fmt.Sprintf("concept-%d", i),
		Text:        fmt.Sprintf("sentence %d", i),
		Category:    cat,
		SourceIndex: i,
		Importance:  imp,
	}
}

func TestEngine_IdenticalSentencesJoinOneCluster(t *testing.T) {
	concepts := []extractor.Concept{
		concept(0, 0.8, extractor.CategoryTechnology),
		concept(1, 0.8, extractor.CategoryTechnology),
	}
	v := []float64{0.6, 0.8, 0}
	embeddings := [][]float64{v, append([]float64(nil), v...)}

	clusters, err := NewEngine(DefaultOptions()).Cluster(concepts, embeddings)
	require.NoError(t, err)
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Equal(t, "cluster-0", c.ID)
	assert.Equal(t, 0, c.MainIndex)
	require.Len(t, c.Related, 1)
	assert.Equal(t, 1, c.Related[0].Index)
	assert.InDelta(t, 1.0, c.Related[0].Similarity, 1e-9)
}

func TestEngine_SeedsByImportance(t *testing.T) {
	concepts := []extractor.Concept{
		concept(0, 0.6, extractor.CategoryGeneral),
		concept(1, 0.9, extractor.CategoryGeneral),
		concept(2, 0.9, extractor.CategoryGeneral),
	}
	embeddings := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	clusters, err := NewEngine(DefaultOptions()).Cluster(concepts, embeddings)
	require.NoError(t, err)
	require.Len(t, clusters, 3)
	// stable on ties: index 1 before index 2
	assert.Equal(t, []int{1, 2, 0}, []int{clusters[0].MainIndex, clusters[1].MainIndex, clusters[2].MainIndex})
	assert.Equal(t, "cluster-2", clusters[2].ID)
}

func TestEngine_RelatedCapAndPartition(t *testing.T) {
	var concepts []extractor.Concept
	var embeddings [][]float64
	for i := range 11 {
		concepts = append(concepts, concept(i, 0.5+float64(i%3)*0.1, extractor.CategoryScience))
		embeddings = append(embeddings, []float64{1, 0.01 * float64(i)})
	}

	clusters, err := NewEngine(DefaultOptions()).Cluster(concepts, embeddings)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, c := range clusters {
		assert.LessOrEqual(t, len(c.Related), 4)
		assert.False(t, seen[c.MainIndex])
		seen[c.MainIndex] = true
		for _, r := range c.Related {
			assert.False(t, seen[r.Index], "concept %d assigned twice", r.Index)
			seen[r.Index] = true
		}
		assert.GreaterOrEqual(t, c.Importance, 0.0)
		assert.LessOrEqual(t, c.Importance, 1.0)
	}
	assert.Len(t, seen, 11)
	assert.Len(t, clusters, 3)
}

func TestEngine_CategoryBonusTipsThreshold(t *testing.T) {
	// cos ~ 0.58 against a threshold of 0.65 - 0.1*0.5 = 0.6; only the bonus pushes it over.
	a := []float64{1, 0}
	b := []float64{0.58, 0.8146}

	same := []extractor.Concept{concept(0, 0.5, extractor.CategoryHealth), concept(1, 0.45, extractor.CategoryHealth)}
	clusters, err := NewEngine(DefaultOptions()).Cluster(same, [][]float64{a, b})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.InDelta(t, 0.58, clusters[0].Related[0].Similarity, 1e-3)

	diff := []extractor.Concept{concept(0, 0.5, extractor.CategoryHealth), concept(1, 0.45, extractor.CategoryBusiness)}
	clusters, err = NewEngine(DefaultOptions()).Cluster(diff, [][]float64{a, b})
	require.NoError(t, err)
	assert.Len(t, clusters, 2)
}

func TestEngine_DropsWeakSingletons(t *testing.T) {
	concepts := []extractor.Concept{
		concept(0, 0.9, extractor.CategoryGeneral),
		concept(1, 0.35, extractor.CategoryGeneral),
	}
	clusters, err := NewEngine(DefaultOptions()).Cluster(concepts, [][]float64{{1, 0}, {0, 1}})
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, "cluster-0", clusters[0].ID)
}

func TestEngine_MismatchedInput(t *testing.T) {
	_, err := NewEngine(DefaultOptions()).Cluster([]extractor.Concept{concept(0, 0.5, extractor.CategoryGeneral)}, nil)
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	a := []float64{0.3, -1.2, 4.5, 0.01}
	b := []float64{2.2, 0.4, -0.7, 9}

	assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-12)
	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
	assert.Zero(t, CosineSimilarity(a, []float64{1, 2}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 2}))
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-2, 0}), 1e-12)
}
