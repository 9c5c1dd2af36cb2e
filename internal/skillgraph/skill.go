package skillgraph

import "slices"

// Limits on user-entered skill fields.
const (
	MaxNameLen        = 50
	MaxDescriptionLen = 150
	MinLevel          = 0
	MaxLevel          = 999
)

// Position is a node's canvas coordinate. It carries no meaning for graph logic.
type Position struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// SkillData holds the user-visible attributes of a skill.
type SkillData struct {
	Name        string `json:"name" msgpack:"name"`
	Description string `json:"description" msgpack:"description"`
	Level       *int   `json:"level,omitempty" msgpack:"level,omitempty"`
	Unlocked    bool   `json:"isUnlocked" msgpack:"isUnlocked"`
}

// Skill is a single node in the prerequisite graph.
type Skill struct {
	ID       string    `json:"id" msgpack:"id"`
	Position Position  `json:"position" msgpack:"position"`
	Data     SkillData `json:"data" msgpack:"data"`
}

// Edge is a directed prerequisite: Source must be unlocked before Target.
type Edge struct {
	ID     string `json:"id" msgpack:"id"`
	Source string `json:"source" msgpack:"source"`
	Target string `json:"target" msgpack:"target"`
}

// Connection is a candidate edge. Either endpoint may be empty.
type Connection struct {
	Source string
	Target string
}

// Tree is the unit of state and persistence.
type Tree struct {
	Skills []Skill `json:"skills" msgpack:"skills"`
	Edges  []Edge  `json:"prereqs" msgpack:"prereqs"`
}

// Clone returns a copy of the tree that shares no slices with t.
func (t Tree) Clone() Tree {
	out := Tree{
		Skills: slices.Clone(t.Skills),
		Edges:  slices.Clone(t.Edges),
	}
	for i := range out.Skills {
		if lvl := out.Skills[i].Data.Level; lvl != nil {
			v := *lvl
			out.Skills[i].Data.Level = &v
		}
	}
	return out
}

// IsEmpty reports whether the tree has neither skills nor edges.
func (t Tree) IsEmpty() bool {
	return len(t.Skills) == 0 && len(t.Edges) == 0
}

// EdgeID derives the id of the edge from source to target.
func EdgeID(source, target string) string {
	return source + "->" + target
}

// NewEdge builds the edge for the given endpoints.
func NewEdge(source, target string) Edge {
	return Edge{ID: EdgeID(source, target), Source: source, Target: target}
}

// Lookup returns the skill with the given id.
func Lookup(skills []Skill, id string) (Skill, bool) {
	for _, s := range skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// SkillState represents a skill's unlock state relative to the rest of the tree.
type SkillState int

const (
	StateLocked    SkillState = iota // At least one prerequisite is not unlocked
	StateAvailable                   // All prerequisites unlocked, skill itself still locked
	StateUnlocked
)

// Icon returns the display icon for a skill state.
func (s SkillState) Icon() string {
	switch s {
	case StateLocked:
		return "🔒"
	case StateAvailable:
		return "🔓"
	case StateUnlocked:
		return "✅"
	default:
		return "?"
	}
}

// Label returns the display label for a skill state.
func (s SkillState) Label() string {
	switch s {
	case StateLocked:
		return "Locked"
	case StateAvailable:
		return "Available"
	case StateUnlocked:
		return "Unlocked"
	default:
		return "Unknown"
	}
}

// StateOf computes the state of the skill with the given id.
// Unknown ids are reported as locked.
func StateOf(t Tree, id string) SkillState {
	s, ok := Lookup(t.Skills, id)
	if !ok {
		return StateLocked
	}
	if s.Data.Unlocked {
		return StateUnlocked
	}
	if CanUnlock(t.Skills, t.Edges, id) {
		return StateAvailable
	}
	return StateLocked
}

// TreeStats summarizes a tree.
type TreeStats struct {
	Skills    int
	Edges     int
	Locked    int
	Available int
	Unlocked  int
}

// Stats counts skills per state.
func Stats(t Tree) TreeStats {
	st := TreeStats{Skills: len(t.Skills), Edges: len(t.Edges)}
	for _, s := range t.Skills {
		switch StateOf(t, s.ID) {
		case StateUnlocked:
			st.Unlocked++
		case StateAvailable:
			st.Available++
		default:
			st.Locked++
		}
	}
	return st
}
