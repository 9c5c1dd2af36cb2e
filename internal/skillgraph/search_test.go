package skillgraph

import (
	"reflect"
	"testing"
)

func idSet(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestAncestors(t *testing.T) {
	// A -> B -> D, C -> D, E -> F
	es := edges("A", "B", "B", "D", "C", "D", "E", "F")

	tests := []struct {
		name    string
		targets map[string]bool
		want    map[string]bool
	}{
		{"root has none", idSet("A"), idSet()},
		{"transitive", idSet("D"), idSet("A", "B", "C")},
		{"multiple targets merged", idSet("D", "F"), idSet("A", "B", "C", "E")},
		{"target that is ancestor of another target", idSet("B", "D"), idSet("A", "B", "C")},
		{"unknown", idSet("Z"), idSet()},
		{"empty", idSet(), idSet()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ancestors(es, tt.targets)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Ancestors(%v) = %v, want %v", tt.targets, got, tt.want)
			}
		})
	}
}

func TestAncestors_TerminatesOnCycle(t *testing.T) {
	es := edges("A", "B", "B", "A", "X", "A")
	got := Ancestors(es, idSet("A"))
	if !reflect.DeepEqual(got, idSet("A", "B", "X")) {
		t.Errorf("got %v", got)
	}
}

func searchTree() Tree {
	return Tree{
		Skills: []Skill{
			skill("fireball", "Fireball", false),
			skill("ice", "Ice Blast", false),
			skill("flame", "Flame Burst", false),
		},
		Edges: edges("fireball", "flame"),
	}
}

func TestHighlightedNodeIDs_MatchPlusAncestor(t *testing.T) {
	tr := searchTree()
	got := HighlightedNodeIDs(tr.Skills, tr.Edges, "flame")
	if !reflect.DeepEqual(got, idSet("flame", "fireball")) {
		t.Errorf("got %v, want {flame fireball}", got)
	}
}

func TestHighlightedNodeIDs_CaseInsensitiveAndTrimmed(t *testing.T) {
	tr := searchTree()
	got := HighlightedNodeIDs(tr.Skills, tr.Edges, "  ICE ")
	if !reflect.DeepEqual(got, idSet("ice")) {
		t.Errorf("got %v, want {ice}", got)
	}
}

func TestHighlightedNodeIDs_Empty(t *testing.T) {
	tr := searchTree()
	for _, q := range []string{"", "   ", "\t", "no such skill"} {
		if got := HighlightedNodeIDs(tr.Skills, tr.Edges, q); len(got) != 0 {
			t.Errorf("query %q: got %v, want empty", q, got)
		}
	}
}

func TestHighlightedEdgeIDs(t *testing.T) {
	es := edges("A", "B", "B", "C", "C", "D")

	got := HighlightedEdgeIDs(es, idSet("A", "B", "C"))
	if !reflect.DeepEqual(got, idSet("A->B", "B->C")) {
		t.Errorf("got %v", got)
	}

	for _, hl := range []map[string]bool{nil, idSet()} {
		if got := HighlightedEdgeIDs(es, hl); len(got) != 0 {
			t.Errorf("empty highlight gave %v, want empty", got)
		}
	}
}

func TestSearch(t *testing.T) {
	tr := searchTree()
	h := Search(tr, "burst")

	if !h.Active() {
		t.Fatal("highlight should be active")
	}
	if !reflect.DeepEqual(h.Edges, idSet("fireball->flame")) {
		t.Errorf("edges = %v", h.Edges)
	}
	if !h.Dimmed("ice") {
		t.Error("ice should be dimmed")
	}
	if h.Dimmed("fireball") {
		t.Error("fireball is an ancestor and should not be dimmed")
	}

	none := Search(tr, " ")
	if none.Active() || none.Dimmed("ice") {
		t.Error("blank query must not dim anything")
	}
}
