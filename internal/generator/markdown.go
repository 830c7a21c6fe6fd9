package generator

import (
	"fmt"
	"strings"

	"mindgraph/internal/graph"
)

// MarkdownGenerator renders a mindmap as a nested outline with the source sentences.
type MarkdownGenerator struct {
	// IncludeDiagram appends the Mermaid rendering after the outline.
	IncludeDiagram bool
	mermaid        *MermaidGenerator
}

func NewMarkdownGenerator(includeDiagram bool) *MarkdownGenerator {
	return &MarkdownGenerator{IncludeDiagram: includeDiagram, mermaid: &MermaidGenerator{}}
}

func (g *MarkdownGenerator) Generate(mm *graph.Mindmap) string {
	var sb strings.Builder

	title := "Main Topic"
	if root, ok := mm.Node(graph.CentralNodeID); ok {
		title = root.Data.Label
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	meta := mm.Metadata
	fmt.Fprintf(&sb, "_%d concepts in %d clusters", meta.TotalConcepts, meta.ClustersFound)
	if cats := topicCategories(meta.Categories); len(cats) > 0 {
		fmt.Fprintf(&sb, " · %s", strings.Join(cats, ", "))
	}
	sb.WriteString("_\n\n")

	for _, c := range mm.Children(graph.CentralNodeID) {
		fmt.Fprintf(&sb, "## %s\n\n", c.Data.Label)
		if c.Data.Description != "" {
			fmt.Fprintf(&sb, "> %s\n\n", c.Data.Description)
		}
		subs := mm.Children(c.ID)
		for _, s := range subs {
			line := fmt.Sprintf("- **%s**", s.Data.Label)
			if s.Data.Similarity != nil {
				line += fmt.Sprintf(" (%.0f%%)", *s.Data.Similarity*100)
			}
			if s.Data.Description != "" {
				line += ": " + s.Data.Description
			}
			sb.WriteString(line + "\n")
		}
		if len(subs) > 0 {
			sb.WriteString("\n")
		}
	}

	if g.IncludeDiagram {
		sb.WriteString("## Diagram\n\n")
		sb.WriteString(g.mermaid.Generate(mm))
	}
	return sb.String()
}

// topicCategories drops the structural categories of the central and sub nodes.
func topicCategories(categories []string) []string {
	var out []string
	for _, c := range categories {
		if c == graph.CentralCategory || c == graph.SubConceptCategory {
			continue
		}
		out = append(out, c)
	}
	return out
}
