package graph

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph/internal/cluster"
	"mindgraph/internal/extractor"
)

func labeledCluster(id string, imp float64, cat extractor.Category, sims ...float64) cluster.Cluster {
	c := cluster.Cluster{
		ID:         id,
		Main:       extractor.Concept{ID: id + "-main", Text: "Main sentence of " + id + "."},
		Category:   cat,
		Importance: imp,
		Label:      "Label " + id,
	}
	for i, s := range sims {
		c.Related = append(c.Related, cluster.Related{
			Index: i + 1,
			Concept: extractor.Concept{
				Text:    fmt.Sprintf("Related %d.", i),
				Phrases: []string{fmt.Sprintf("phrase %d", i)},
			},
			Similarity: s,
		})
	}
	return c
}

func countType(nodes []Node, typ NodeType) int {
	n := 0
	for _, node := range nodes {
		if node.Type == typ {
			n++
		}
	}
	return n
}

func TestBuilder_ThreeClusterRing(t *testing.T) {
	clusters := []cluster.Cluster{
		labeledCluster("cluster-0", 0.7, extractor.CategoryScience),
		labeledCluster("cluster-1", 0.9, extractor.CategoryTechnology),
		labeledCluster("cluster-2", 0.5, extractor.CategoryBusiness),
	}
	opts := DefaultLayoutOptions()
	nodes, edges := NewBuilder(opts).Build(clusters, "")

	assert.Equal(t, 200.0, BaseRadius(3, opts))
	require.Len(t, nodes, 4)
	require.Len(t, edges, 3)
	assert.Equal(t, 1, countType(nodes, NodeCentral))
	assert.Equal(t, 3, countType(nodes, NodeCluster))

	central := nodes[0]
	assert.Equal(t, CentralNodeID, central.ID)
	assert.Equal(t, "Main Topic", central.Data.Label)
	assert.Equal(t, CentralColor, central.Data.Color)
	assert.Equal(t, Position{X: 325, Y: 275}, central.Position)
	assert.Nil(t, central.Data.Importance)

	// importance order: cluster-1, cluster-0, cluster-2
	assert.Equal(t, "cluster-1", nodes[1].ID)
	assert.Equal(t, "cluster-0", nodes[2].ID)
	assert.Equal(t, "cluster-2", nodes[3].ID)

	// position 0: angle 0, radius 200 + 0.9*50
	assert.InDelta(t, 400+245.0-75, nodes[1].Position.X, 1e-9)
	assert.InDelta(t, 300-25.0, nodes[1].Position.Y, 1e-9)

	// position 1 of 3: angle 2π/3, radius 200 + 0.7*50
	angle := 2 * math.Pi / 3
	assert.InDelta(t, 400+235*math.Cos(angle)-75, nodes[2].Position.X, 1e-9)
	assert.InDelta(t, 300+235*math.Sin(angle)-25, nodes[2].Position.Y, 1e-9)

	assert.Equal(t, "#3b82f6", nodes[1].Data.Color)
	require.NotNil(t, nodes[1].Data.Importance)
	assert.Equal(t, 0.9, *nodes[1].Data.Importance)
	assert.Equal(t, "Main sentence of cluster-1.", nodes[1].Data.Description)

	assert.Equal(t, Edge{ID: "edge-central-cluster-1", Source: CentralNodeID, Target: "cluster-1", Type: EdgeMain, Label: "High"}, edges[0])
	assert.Equal(t, "Med", edges[1].Label)
	assert.Equal(t, "", edges[2].Label)
}

func TestBuilder_SubNodes(t *testing.T) {
	c := labeledCluster("cluster-0", 0.8, extractor.CategoryTechnology, 0.7, 0.95, 0.664, 0.8)
	nodes, edges := NewBuilder(DefaultLayoutOptions()).Build([]cluster.Cluster{c}, "Topic")

	require.Len(t, nodes, 5)
	assert.Equal(t, "Topic", nodes[0].Data.Label)
	assert.Equal(t, 3, countType(nodes, NodeSub))

	sub := nodes[2]
	assert.Equal(t, "cluster-0-sub-0", sub.ID)
	assert.Equal(t, SubConceptCategory, sub.Data.Category)
	assert.Equal(t, "#63aaff", sub.Data.Color)
	assert.Equal(t, "Phrase 1", sub.Data.Label)
	require.NotNil(t, sub.Data.Similarity)
	assert.Equal(t, 0.95, *sub.Data.Similarity)

	// highest similarities, in order; 0.664 is dropped
	assert.Equal(t, 0.8, *nodes[3].Data.Similarity)
	assert.Equal(t, 0.7, *nodes[4].Data.Similarity)

	// sub-index 0 sits one angle step before the cluster angle (0)
	radius := 200 + 0.8*50 + 120
	assert.InDelta(t, 400+radius*math.Cos(-0.4)-60, sub.Position.X, 1e-9)
	assert.InDelta(t, 300+radius*math.Sin(-0.4)-20, sub.Position.Y, 1e-9)

	assert.Equal(t, "edge-cluster-0-cluster-0-sub-0", edges[1].ID)
	assert.Equal(t, EdgeSub, edges[1].Type)
	assert.Equal(t, "95%", edges[1].Label)
	assert.Equal(t, "cluster-0", edges[1].Source)
}

func TestBuilder_SubLabelFallbacks(t *testing.T) {
	c := labeledCluster("cluster-0", 0.8, extractor.CategoryHealth)
	c.Related = []cluster.Related{
		{Concept: extractor.Concept{Terms: []string{"therapy"}}, Similarity: 0.9},
		{Concept: extractor.Concept{Phrases: []string{"!!!"}}, Similarity: 0.8},
	}
	nodes, _ := NewBuilder(DefaultLayoutOptions()).Build([]cluster.Cluster{c}, "")
	require.Len(t, nodes, 4)
	assert.Equal(t, "Therapy", nodes[2].Data.Label)
	assert.Equal(t, "Related Concept", nodes[3].Data.Label)
}

func TestBuilder_ManyClustersWidenRadius(t *testing.T) {
	var clusters []cluster.Cluster
	for i := range 10 {
		clusters = append(clusters, labeledCluster(fmt.Sprintf("cluster-%d", i), 0.5, extractor.CategoryGeneral))
	}
	opts := DefaultLayoutOptions()
	assert.Equal(t, 300.0, BaseRadius(10, opts))

	nodes, _ := NewBuilder(opts).Build(clusters, "")
	assert.Equal(t, 1, countType(nodes, NodeCentral))
	assert.Equal(t, 10, countType(nodes, NodeCluster))
	assert.InDelta(t, 400+325.0-75, nodes[1].Position.X, 1e-9)
}

func TestLighten(t *testing.T) {
	assert.Equal(t, "#63aaff", Lighten("#3b82f6", 40))
	assert.Equal(t, "#ffffff", Lighten("#f0f0f0", 40))
	assert.Equal(t, "#9395ab", Lighten("#6b6d83", 40))
	assert.Equal(t, "nope", Lighten("nope", 40))
}

func TestCategories(t *testing.T) {
	c := labeledCluster("cluster-0", 0.8, extractor.CategoryHealth, 0.9)
	nodes, _ := NewBuilder(DefaultLayoutOptions()).Build([]cluster.Cluster{c}, "")
	assert.Equal(t, []string{"central", "health", "sub-concept"}, Categories(nodes))
}
