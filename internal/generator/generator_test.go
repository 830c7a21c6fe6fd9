package generator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindgraph/internal/apperr"
	"mindgraph/internal/graph"
)

func sampleMindmap() *graph.Mindmap {
	imp := 0.9
	sim := 0.87
	return &graph.Mindmap{
		Nodes: []graph.Node{
			{ID: graph.CentralNodeID, Type: graph.NodeCentral, Data: graph.NodeData{Label: "AI (overview)", Category: graph.CentralCategory}},
			{ID: "cluster-0", Type: graph.NodeCluster, Data: graph.NodeData{Label: "Machine Learning", Category: "technology", Description: "Machine learning is a subset of AI.", Importance: &imp}},
			{ID: "cluster-0-sub-0", Type: graph.NodeSub, Data: graph.NodeData{Label: "Neural Networks", Category: graph.SubConceptCategory, Description: "Neural networks learn weights.", Similarity: &sim}},
		},
		Edges: []graph.Edge{
			{ID: "edge-central-cluster-0", Source: graph.CentralNodeID, Target: "cluster-0", Type: graph.EdgeMain},
			{ID: "edge-cluster-0-cluster-0-sub-0", Source: "cluster-0", Target: "cluster-0-sub-0", Type: graph.EdgeSub, Label: "87%"},
		},
		Metadata: graph.Metadata{TotalConcepts: 2, ClustersFound: 1, Categories: []string{"central", "technology", "sub-concept"}},
	}
}

func TestMermaidGenerator(t *testing.T) {
	out := (&MermaidGenerator{}).Generate(sampleMindmap())

	expected := "```mermaid\n" +
		"mindmap\n" +
		"  central_node((AI overview))\n" +
		"    cluster_0[Machine Learning]\n" +
		"      cluster_0_sub_0(Neural Networks)\n" +
		"```\n"
	assert.Equal(t, expected, out)
}

func TestMarkdownGenerator(t *testing.T) {
	out := NewMarkdownGenerator(false).Generate(sampleMindmap())

	assert.True(t, strings.HasPrefix(out, "# AI (overview)\n\n"))
	assert.Contains(t, out, "_2 concepts in 1 clusters · technology_")
	assert.Contains(t, out, "## Machine Learning\n\n> Machine learning is a subset of AI.\n")
	assert.Contains(t, out, "- **Neural Networks** (87%): Neural networks learn weights.\n")
	assert.NotContains(t, out, "```mermaid")

	withDiagram := NewMarkdownGenerator(true).Generate(sampleMindmap())
	assert.Contains(t, withDiagram, "## Diagram\n\n```mermaid\nmindmap\n")
}

func TestExport(t *testing.T) {
	f, err := ParseFormat("MMD")
	require.NoError(t, err)
	assert.Equal(t, FormatMermaid, f)

	_, err = ParseFormat("pdf")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	out, err := Export(sampleMindmap(), FormatJSON)
	require.NoError(t, err)
	var decoded graph.Mindmap
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Nodes, 3)

	md, err := Export(sampleMindmap(), FormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, md, "# AI (overview)")
	assert.Equal(t, "text/markdown; charset=utf-8", FormatMarkdown.ContentType())
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "node", sanitizeMermaidID("  "))
	assert.Equal(t, "n_1st_topic", sanitizeMermaidID("1st topic"))
}
