package skillgraph

import (
	"slices"
)

// Adjacency maps a node id to the targets of its outgoing edges.
// Nodes without outgoing edges have no key.
type Adjacency map[string][]string

// BuildAdjacency groups edge targets by source, preserving input order.
func BuildAdjacency(edges []Edge) Adjacency {
	adj := make(Adjacency)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}

// Reachable reports whether goal can be reached from start by following
// directed edges. A node always reaches itself. Each node is expanded at most
// once, so malformed input containing cycles terminates.
func Reachable(adj Adjacency, start, goal string) bool {
	if start == goal {
		return true
	}

	visited := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if id == goal {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true

		next := adj[id]
		// Push in reverse so neighbours are explored in insertion order.
		for i := len(next) - 1; i >= 0; i-- {
			if !visited[next[i]] {
				stack = append(stack, next[i])
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether adding source -> target to edges would
// close a directed cycle, i.e. whether target already reaches source.
// The caller's edges are not modified.
func WouldCreateCycle(edges []Edge, source, target string) bool {
	adj := BuildAdjacency(edges)
	adj[source] = append(slices.Clone(adj[source]), target)
	return Reachable(adj, target, source)
}

// Prerequisites returns the skills with an edge into id, in edge order.
// Edges whose source skill does not exist are skipped.
func Prerequisites(t Tree, id string) []Skill {
	var result []Skill
	for _, e := range t.Edges {
		if e.Target != id {
			continue
		}
		if s, ok := Lookup(t.Skills, e.Source); ok {
			result = append(result, s)
		}
	}
	return result
}

// Dependents returns the skills that directly require id.
func Dependents(t Tree, id string) []Skill {
	var result []Skill
	for _, e := range t.Edges {
		if e.Source != id {
			continue
		}
		if s, ok := Lookup(t.Skills, e.Target); ok {
			result = append(result, s)
		}
	}
	return result
}

// TopologicalOrder returns the skills ordered so that every skill appears
// after its prerequisites (Kahn's algorithm). Ties keep insertion order.
// Skills caught in a cycle, which insertion checks normally prevent, are
// appended at the end in insertion order.
func TopologicalOrder(t Tree) []Skill {
	index := make(map[string]int, len(t.Skills))
	for i, s := range t.Skills {
		index[s.ID] = i
	}

	inDegree := make([]int, len(t.Skills))
	dependents := make(map[string][]int)
	for _, e := range t.Edges {
		src, okS := index[e.Source]
		dst, okT := index[e.Target]
		if !okS || !okT {
			continue
		}
		inDegree[dst]++
		dependents[t.Skills[src].ID] = append(dependents[t.Skills[src].ID], dst)
	}

	var queue []int
	for i := range t.Skills {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	placed := make([]bool, len(t.Skills))
	order := make([]Skill, 0, len(t.Skills))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, t.Skills[i])
		placed[i] = true

		deps := slices.Clone(dependents[t.Skills[i].ID])
		slices.Sort(deps)
		for _, d := range deps {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	for i, s := range t.Skills {
		if !placed[i] {
			order = append(order, s)
		}
	}
	return order
}
