package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"mindgraph/internal/apperr"
	"mindgraph/internal/graph"
)

type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names and the md/mmd shorthands.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", apperr.InvalidInput(fmt.Sprintf("unsupported export format %q", s))
	}
}

// ContentType is the HTTP media type of an export.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMermaid:
		return "text/vnd.mermaid; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

func Export(mm *graph.Mindmap, f Format) (string, error) {
	switch f {
	case FormatMermaid:
		return (&MermaidGenerator{}).Generate(mm), nil
	case FormatMarkdown:
		return NewMarkdownGenerator(true).Generate(mm), nil
	case FormatJSON:
		b, err := json.MarshalIndent(mm, "", "  ")
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", apperr.InvalidInput(fmt.Sprintf("unsupported export format %q", f))
	}
}
