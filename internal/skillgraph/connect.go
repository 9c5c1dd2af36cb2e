package skillgraph

import "slices"

// IsSelfLoop reports whether source and target are the same node.
func IsSelfLoop(source, target string) bool {
	return source == target
}

// IsDuplicate reports whether edges already contain source -> target.
func IsDuplicate(edges []Edge, source, target string) bool {
	return slices.ContainsFunc(edges, func(e Edge) bool {
		return e.Source == source && e.Target == target
	})
}

// ValidateConnection rejects candidates with a missing endpoint, self-loops
// and duplicates. Cycles are checked separately with WouldCreateCycle.
func ValidateConnection(edges []Edge, c Connection) bool {
	if c.Source == "" || c.Target == "" {
		return false
	}
	if IsSelfLoop(c.Source, c.Target) {
		return false
	}
	if IsDuplicate(edges, c.Source, c.Target) {
		return false
	}
	return true
}

// AddConnection returns edges with the candidate appended, or edges itself
// when the candidate is not valid. The input slice is never modified.
func AddConnection(edges []Edge, c Connection) []Edge {
	if !ValidateConnection(edges, c) {
		return edges
	}
	out := make([]Edge, len(edges), len(edges)+1)
	copy(out, edges)
	return append(out, NewEdge(c.Source, c.Target))
}

// RemoveEdges returns edges without the ones whose id is in ids.
func RemoveEdges(edges []Edge, ids ...string) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out
}

// NodeMove is a canvas drag result for one skill.
type NodeMove struct {
	ID       string
	Position Position
}

// MoveNodes returns a copy of skills with the given positions applied.
// Moves for unknown ids are ignored.
func MoveNodes(skills []Skill, moves ...NodeMove) []Skill {
	out := make([]Skill, len(skills))
	copy(out, skills)
	for _, m := range moves {
		for i := range out {
			if out[i].ID == m.ID {
				out[i].Position = m.Position
			}
		}
	}
	return out
}
