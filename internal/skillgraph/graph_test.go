package skillgraph

import (
	"reflect"
	"slices"
	"strconv"
	"testing"
)

func edges(pairs ...string) []Edge {
	var out []Edge
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, NewEdge(pairs[i], pairs[i+1]))
	}
	return out
}

func skill(id, name string, unlocked bool) Skill {
	return Skill{ID: id, Data: SkillData{Name: name, Description: name + " desc", Unlocked: unlocked}}
}

func TestBuildAdjacency(t *testing.T) {
	adj := BuildAdjacency(edges("A", "B", "A", "C", "B", "C"))

	if got := adj["A"]; !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("adj[A] = %v, want [B C]", got)
	}
	if got := adj["B"]; !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("adj[B] = %v, want [C]", got)
	}
	if _, ok := adj["C"]; ok {
		t.Error("node without outgoing edges should not be a key")
	}
}

func TestBuildAdjacency_Empty(t *testing.T) {
	if adj := BuildAdjacency(nil); len(adj) != 0 {
		t.Errorf("got %d keys, want 0", len(adj))
	}
}

func TestReachable(t *testing.T) {
	adj := BuildAdjacency(edges("A", "B", "B", "C", "X", "Y"))

	tests := []struct {
		name        string
		start, goal string
		want        bool
	}{
		{"reflexive", "A", "A", true},
		{"reflexive unknown node", "Z", "Z", true},
		{"direct", "A", "B", true},
		{"transitive", "A", "C", true},
		{"backwards", "C", "A", false},
		{"disconnected", "A", "Y", false},
		{"start without outgoing edges", "C", "B", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reachable(adj, tt.start, tt.goal); got != tt.want {
				t.Errorf("Reachable(%s, %s) = %v, want %v", tt.start, tt.goal, got, tt.want)
			}
		})
	}
}

func TestReachable_TerminatesOnExistingCycle(t *testing.T) {
	adj := BuildAdjacency(edges("A", "B", "B", "C", "C", "A"))
	if Reachable(adj, "A", "Z") {
		t.Error("Z should not be reachable")
	}
	if !Reachable(adj, "B", "A") {
		t.Error("A should be reachable from B through the cycle")
	}
}

func TestReachable_LongChain(t *testing.T) {
	var es []Edge
	for i := 0; i < 100000; i++ {
		es = append(es, NewEdge("n"+strconv.Itoa(i), "n"+strconv.Itoa(i+1)))
	}
	adj := BuildAdjacency(es)
	if !Reachable(adj, es[0].Source, es[len(es)-1].Target) {
		t.Error("end of chain should be reachable")
	}
}

func TestWouldCreateCycle(t *testing.T) {
	es := edges("A", "B", "B", "C")

	if !WouldCreateCycle(es, "C", "A") {
		t.Error("C -> A should close A -> B -> C")
	}
	if WouldCreateCycle(es, "C", "D") {
		t.Error("C -> D should not create a cycle")
	}
	if WouldCreateCycle(es, "A", "C") {
		t.Error("A -> C is a shortcut, not a cycle")
	}
	if !WouldCreateCycle(es, "B", "A") {
		t.Error("B -> A should create a two-node cycle")
	}
	if !WouldCreateCycle(es, "A", "A") {
		t.Error("self-loop is trivially a cycle")
	}
}

func TestWouldCreateCycle_DoesNotMutateInput(t *testing.T) {
	es := edges("A", "B", "A", "C")
	before := slices.Clone(es)
	WouldCreateCycle(es[:1], "A", "D")
	if !reflect.DeepEqual(es, before) {
		t.Errorf("edges mutated: got %v, want %v", es, before)
	}
}

func TestWouldCreateCycle_MatchesReachability(t *testing.T) {
	es := edges("A", "B", "B", "C", "C", "D", "A", "E", "E", "D")
	ids := []string{"A", "B", "C", "D", "E", "F"}
	adj := BuildAdjacency(es)
	for _, s := range ids {
		for _, tgt := range ids {
			want := Reachable(adj, tgt, s)
			if got := WouldCreateCycle(es, s, tgt); got != want {
				t.Errorf("WouldCreateCycle(%s, %s) = %v, want %v", s, tgt, got, want)
			}
		}
	}
}

func TestPrerequisitesAndDependents(t *testing.T) {
	tr := Tree{
		Skills: []Skill{skill("A", "a", false), skill("B", "b", false), skill("C", "c", false)},
		Edges:  edges("A", "C", "B", "C", "ghost", "C", "A", "B"),
	}

	var got []string
	for _, s := range Prerequisites(tr, "C") {
		got = append(got, s.ID)
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Prerequisites(C) = %v, want [A B]", got)
	}

	got = nil
	for _, s := range Dependents(tr, "A") {
		got = append(got, s.ID)
	}
	if !reflect.DeepEqual(got, []string{"C", "B"}) {
		t.Errorf("Dependents(A) = %v, want [C B]", got)
	}

	if len(Prerequisites(tr, "A")) != 0 {
		t.Error("A has no prerequisites")
	}
}

func TestTopologicalOrder(t *testing.T) {
	tr := Tree{
		Skills: []Skill{skill("C", "c", false), skill("B", "b", false), skill("A", "a", false), skill("D", "d", false)},
		Edges:  edges("A", "B", "B", "C"),
	}
	topo := TopologicalOrder(tr)
	if len(topo) != 4 {
		t.Fatalf("got %d skills, want 4", len(topo))
	}

	pos := make(map[string]int)
	for i, s := range topo {
		pos[s.ID] = i
	}
	for _, e := range tr.Edges {
		if pos[e.Source] >= pos[e.Target] {
			t.Errorf("%s (pos %d) should come before %s (pos %d)", e.Source, pos[e.Source], e.Target, pos[e.Target])
		}
	}
}

func TestTopologicalOrder_KeepsCycleMembers(t *testing.T) {
	tr := Tree{
		Skills: []Skill{skill("A", "a", false), skill("B", "b", false), skill("C", "c", false)},
		Edges:  edges("A", "B", "B", "A"),
	}
	topo := TopologicalOrder(tr)
	if len(topo) != 3 {
		t.Fatalf("got %d skills, want 3", len(topo))
	}
	if topo[0].ID != "C" {
		t.Errorf("first skill = %q, want C", topo[0].ID)
	}
}

func TestTreeClone_Independent(t *testing.T) {
	lvl := 3
	tr := Tree{Skills: []Skill{skill("A", "a", false)}, Edges: edges("A", "B")}
	tr.Skills[0].Data.Level = &lvl

	c := tr.Clone()
	c.Skills[0].Data.Name = "MUTATED"
	*c.Skills[0].Data.Level = 7
	c.Edges[0].Target = "Z"

	if tr.Skills[0].Data.Name == "MUTATED" || *tr.Skills[0].Data.Level != 3 || tr.Edges[0].Target != "B" {
		t.Error("Clone shares state with the original")
	}
}
