package graph

import (
	"fmt"
	"math"
	"sort"

	"mindgraph/internal/cluster"
	"mindgraph/internal/labeler"
)

const (
	defaultTitle    = "Main Topic"
	centralDesc     = "Central topic of the mindmap"
	fallbackSubName = "Related Concept"
)

// LayoutOptions controls the radial placement. Node offsets shift a computed anchor
// to the top-left corner the renderer expects.
type LayoutOptions struct {
	CenterX          float64
	CenterY          float64
	MinRadius        float64
	RadiusPerCluster float64
	ImportanceRadius float64
	SubRadiusOffset  float64
	SubAngleStep     float64
	MaxSubNodes      int
	LightenAmount    int

	CentralOffset Position
	ClusterOffset Position
	SubOffset     Position
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		CenterX:          400,
		CenterY:          300,
		MinRadius:        200,
		RadiusPerCluster: 30,
		ImportanceRadius: 50,
		SubRadiusOffset:  120,
		SubAngleStep:     0.4,
		MaxSubNodes:      3,
		LightenAmount:    40,
		CentralOffset:    Position{X: 75, Y: 25},
		ClusterOffset:    Position{X: 75, Y: 25},
		SubOffset:        Position{X: 60, Y: 20},
	}
}

type Builder struct {
	opts LayoutOptions
}

func NewBuilder(opts LayoutOptions) *Builder {
	return &Builder{opts: opts}
}

// Build lays out one central node, one node per cluster and up to MaxSubNodes
// sub-nodes per cluster. Clusters must already be labeled.
func (b *Builder) Build(clusters []cluster.Cluster, title string) ([]Node, []Edge) {
	o := b.opts
	if title == "" {
		title = defaultTitle
	}

	nodes := []Node{{
		ID: CentralNodeID,
		Data: NodeData{
			Label:       title,
			Category:    CentralCategory,
			Color:       CentralColor,
			Description: centralDesc,
		},
		Position: Position{X: o.CenterX - o.CentralOffset.X, Y: o.CenterY - o.CentralOffset.Y},
		Type:     NodeCentral,
	}}
	edges := []Edge{}

	sorted := append([]cluster.Cluster(nil), clusters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Importance > sorted[j].Importance
	})

	n := len(sorted)
	baseRadius := BaseRadius(n, o)

	for k, c := range sorted {
		angle := 2 * math.Pi * float64(k) / float64(n)
		radius := baseRadius + c.Importance*o.ImportanceRadius
		x, y := b.polar(radius, angle)

		color := ColorFor(c.Category)
		importance := c.Importance
		nodes = append(nodes, Node{
			ID: c.ID,
			Data: NodeData{
				Label:       c.Label,
				Category:    string(c.Category),
				Color:       color,
				Description: c.Main.Text,
				Importance:  &importance,
			},
			Position: Position{X: x - o.ClusterOffset.X, Y: y - o.ClusterOffset.Y},
			Type:     NodeCluster,
		})
		edges = append(edges, Edge{
			ID:     "edge-central-" + c.ID,
			Source: CentralNodeID,
			Target: c.ID,
			Type:   EdgeMain,
			Label:  ImportanceLabel(c.Importance),
		})

		for s, r := range TopRelated(c.Related, o.MaxSubNodes) {
			subAngle := angle + float64(s-1)*o.SubAngleStep
			sx, sy := b.polar(radius+o.SubRadiusOffset, subAngle)
			subID := fmt.Sprintf("%s-sub-%d", c.ID, s)
			similarity := r.Similarity

			nodes = append(nodes, Node{
				ID: subID,
				Data: NodeData{
					Label:       subLabel(r),
					Category:    SubConceptCategory,
					Color:       Lighten(color, o.LightenAmount),
					Description: r.Concept.Text,
					Similarity:  &similarity,
				},
				Position: Position{X: sx - o.SubOffset.X, Y: sy - o.SubOffset.Y},
				Type:     NodeSub,
			})
			edges = append(edges, Edge{
				ID:     fmt.Sprintf("edge-%s-%s", c.ID, subID),
				Source: c.ID,
				Target: subID,
				Type:   EdgeSub,
				Label:  fmt.Sprintf("%d%%", int(math.Floor(similarity*100+0.5))),
			})
		}
	}
	return nodes, edges
}

func (b *Builder) polar(radius, angle float64) (float64, float64) {
	return b.opts.CenterX + radius*math.Cos(angle), b.opts.CenterY + radius*math.Sin(angle)
}

// BaseRadius grows with the number of clusters but never drops below MinRadius.
func BaseRadius(clusterCount int, o LayoutOptions) float64 {
	return math.Max(o.MinRadius, float64(clusterCount)*o.RadiusPerCluster)
}

func ImportanceLabel(importance float64) string {
	switch {
	case importance > 0.8:
		return "High"
	case importance > 0.6:
		return "Med"
	default:
		return ""
	}
}

// TopRelated returns at most limit related concepts, most similar first.
func TopRelated(related []cluster.Related, limit int) []cluster.Related {
	out := append([]cluster.Related(nil), related...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func subLabel(r cluster.Related) string {
	candidates := make([]string, 0, 3)
	if len(r.Concept.Phrases) > 0 {
		candidates = append(candidates, r.Concept.Phrases[0])
	}
	if len(r.Concept.Terms) > 0 {
		candidates = append(candidates, r.Concept.Terms[0])
	}
	candidates = append(candidates, fallbackSubName)
	for _, c := range candidates {
		if l := labeler.Clean(c); l != "" {
			return l
		}
	}
	return fallbackSubName
}
