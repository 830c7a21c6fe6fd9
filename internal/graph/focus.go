package graph

import (
	"sort"
)

// Focus is the neighborhood of one node, reached by walking edges in either direction.
type Focus struct {
	RootID  string         `json:"rootId"`
	MaxHops int            `json:"maxHops"`
	Nodes   []Node         `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Depth   map[string]int `json:"depth"`
}

type queueItem struct {
	id    string
	depth int
}

type edgeHop struct {
	to   string
	edge Edge
}

// FocusOn returns the sub-graph within maxHops of rootID. ok is false when the
// root does not exist.
func FocusOn(m *Mindmap, rootID string, maxHops int) (Focus, bool) {
	if _, found := m.Node(rootID); !found {
		return Focus{}, false
	}
	if maxHops < 0 {
		maxHops = 0
	}

	adj := make(map[string][]edgeHop)
	for _, e := range m.Edges {
		adj[e.Source] = append(adj[e.Source], edgeHop{to: e.Target, edge: e})
		adj[e.Target] = append(adj[e.Target], edgeHop{to: e.Source, edge: e})
	}

	depth := map[string]int{rootID: 0}
	queue := []queueItem{{id: rootID}}
	edgeSeen := make(map[string]bool)
	var edges []Edge

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxHops {
			continue
		}
		for _, next := range adj[cur.id] {
			if !edgeSeen[next.edge.ID] {
				edgeSeen[next.edge.ID] = true
				edges = append(edges, next.edge)
			}
			if _, seen := depth[next.to]; !seen {
				depth[next.to] = cur.depth + 1
				queue = append(queue, queueItem{id: next.to, depth: cur.depth + 1})
			}
		}
	}

	var nodes []Node
	for _, n := range m.Nodes {
		if _, ok := depth[n.ID]; ok {
			nodes = append(nodes, n)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	return Focus{RootID: rootID, MaxHops: maxHops, Nodes: nodes, Edges: edges, Depth: depth}, true
}
