package graph

type NodeType string

const (
	NodeCentral NodeType = "central"
	NodeCluster NodeType = "cluster"
	NodeSub     NodeType = "sub"
)

type EdgeType string

const (
	EdgeMain EdgeType = "main"
	EdgeSub  EdgeType = "sub"
)

const (
	CentralNodeID      = "central-node"
	CentralCategory    = "central"
	SubConceptCategory = "sub-concept"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the render payload of a node. Cluster nodes carry Importance,
// sub-nodes carry Similarity, the central node carries neither.
type NodeData struct {
	Label       string   `json:"label"`
	Category    string   `json:"category"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
	Importance  *float64 `json:"importance,omitempty"`
	Similarity  *float64 `json:"similarity,omitempty"`
}

type Node struct {
	ID       string   `json:"id"`
	Data     NodeData `json:"data"`
	Position Position `json:"position"`
	Type     NodeType `json:"type"`
}

type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
	Label  string   `json:"label"`
}

type Metadata struct {
	TotalConcepts  int      `json:"totalConcepts"`
	ClustersFound  int      `json:"clustersFound"`
	ProcessingTime int64    `json:"processingTime"` // milliseconds
	Categories     []string `json:"categories"`
	AIModel        string   `json:"aiModel"`
	Accuracy       string   `json:"accuracy"`
}

// Mindmap is the complete result of one text-to-graph run.
type Mindmap struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Metadata Metadata `json:"metadata"`
}

// Node returns the node with the given id.
func (m *Mindmap) Node(id string) (Node, bool) {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Children returns the nodes reached by edges leaving id, in edge order.
func (m *Mindmap) Children(id string) []Node {
	var out []Node
	for _, e := range m.Edges {
		if e.Source != id {
			continue
		}
		if n, ok := m.Node(e.Target); ok {
			out = append(out, n)
		}
	}
	return out
}

// Categories lists the distinct node categories in first-seen order.
func Categories(nodes []Node) []string {
	seen := make(map[string]bool, len(nodes))
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.Data.Category] {
			continue
		}
		seen[n.Data.Category] = true
		out = append(out, n.Data.Category)
	}
	return out
}
