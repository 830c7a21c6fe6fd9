package generator

import (
	"fmt"
	"regexp"
	"strings"

	"mindgraph/internal/graph"
)

var (
	mermaidIDStrip   = regexp.MustCompile(`[^a-z0-9_]`)
	mermaidTextStrip = regexp.MustCompile(`[()\[\]{}"<>]`)
)

// MermaidGenerator renders a mindmap as a Mermaid `mindmap` diagram.
type MermaidGenerator struct{}

func (m *MermaidGenerator) Generate(mm *graph.Mindmap) string {
	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("mindmap\n")

	root, ok := mm.Node(graph.CentralNodeID)
	if ok {
		fmt.Fprintf(&sb, "  %s((%s))\n", sanitizeMermaidID(root.ID), sanitizeMermaidText(root.Data.Label))
		for _, c := range mm.Children(root.ID) {
			fmt.Fprintf(&sb, "    %s[%s]\n", sanitizeMermaidID(c.ID), sanitizeMermaidText(c.Data.Label))
			for _, s := range mm.Children(c.ID) {
				fmt.Fprintf(&sb, "      %s(%s)\n", sanitizeMermaidID(s.ID), sanitizeMermaidText(s.Data.Label))
			}
		}
	}

	sb.WriteString("```\n")
	return sb.String()
}

func sanitizeMermaidID(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" {
		return "node"
	}
	v = mermaidIDStrip.ReplaceAllString(strings.ReplaceAll(v, "-", "_"), "_")
	if v[0] >= '0' && v[0] <= '9' {
		v = "n_" + v
	}
	return v
}

func sanitizeMermaidText(v string) string {
	v = strings.Join(strings.Fields(mermaidTextStrip.ReplaceAllString(v, " ")), " ")
	if v == "" {
		return "untitled"
	}
	return v
}
