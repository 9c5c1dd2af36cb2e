package skillgraph

import "strings"

// Ancestors collects every node that transitively precedes one of targets,
// following edges backwards. The result is shared across all targets, so a
// target that is also an ancestor of another target is included once and
// not walked twice. Targets are only included when they are genuine
// ancestors of another target.
func Ancestors(edges []Edge, targets map[string]bool) map[string]bool {
	preds := make(map[string][]string)
	for _, e := range edges {
		preds[e.Target] = append(preds[e.Target], e.Source)
	}

	ancestors := make(map[string]bool)
	for id := range targets {
		if ancestors[id] {
			continue
		}
		stack := []string{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, p := range preds[cur] {
				if ancestors[p] {
					continue
				}
				ancestors[p] = true
				stack = append(stack, p)
			}
		}
	}
	return ancestors
}

// HighlightedNodeIDs returns the skills whose name contains query
// (case-insensitive) together with all their ancestors. A blank query or a
// query without matches yields an empty set, meaning no highlight is active.
func HighlightedNodeIDs(skills []Skill, edges []Edge, query string) map[string]bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return map[string]bool{}
	}

	matches := make(map[string]bool)
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s.Data.Name), q) {
			matches[s.ID] = true
		}
	}
	if len(matches) == 0 {
		return map[string]bool{}
	}

	for id := range Ancestors(edges, matches) {
		matches[id] = true
	}
	return matches
}

// HighlightedEdgeIDs returns the ids of edges whose endpoints are both
// highlighted.
func HighlightedEdgeIDs(edges []Edge, highlighted map[string]bool) map[string]bool {
	result := make(map[string]bool)
	if len(highlighted) == 0 {
		return result
	}
	for _, e := range edges {
		if highlighted[e.Source] && highlighted[e.Target] {
			result[e.ID] = true
		}
	}
	return result
}

// Highlight is the search-driven emphasis state consumed by views.
type Highlight struct {
	Query string
	Nodes map[string]bool
	Edges map[string]bool
}

// Active reports whether any node is highlighted.
func (h Highlight) Active() bool {
	return len(h.Nodes) > 0
}

// Dimmed reports whether the node should be rendered de-emphasized.
func (h Highlight) Dimmed(id string) bool {
	return h.Active() && !h.Nodes[id]
}

// Search computes the highlight state for query over t.
func Search(t Tree, query string) Highlight {
	nodes := HighlightedNodeIDs(t.Skills, t.Edges, query)
	return Highlight{
		Query: query,
		Nodes: nodes,
		Edges: HighlightedEdgeIDs(t.Edges, nodes),
	}
}
