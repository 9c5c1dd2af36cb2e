package skillgraph

import (
	"strings"
	"testing"
)

func TestValidate_ValidTree(t *testing.T) {
	tr := Tree{
		Skills: []Skill{skill("a", "A", true), skill("b", "B", false)},
		Edges:  edges("a", "b"),
	}
	if err := Validate(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_EmptyTree(t *testing.T) {
	if err := Validate(Tree{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tooBig := 1000
	tests := []struct {
		name string
		tree Tree
		want string
	}{
		{
			name: "cycle",
			tree: Tree{Skills: []Skill{skill("a", "A", false), skill("b", "B", false)}, Edges: edges("a", "b", "b", "a")},
			want: "cycle",
		},
		{
			name: "dangling edge",
			tree: Tree{Skills: []Skill{skill("a", "A", false)}, Edges: edges("a", "nonexistent")},
			want: "nonexistent",
		},
		{
			name: "duplicate id",
			tree: Tree{Skills: []Skill{skill("a", "A", false), skill("a", "B", false)}},
			want: "duplicate skill ID",
		},
		{
			name: "self-loop",
			tree: Tree{Skills: []Skill{skill("a", "A", false)}, Edges: edges("a", "a")},
			want: "self-loop",
		},
		{
			name: "duplicate edge",
			tree: Tree{Skills: []Skill{skill("a", "A", false), skill("b", "B", false)}, Edges: edges("a", "b", "a", "b")},
			want: "duplicate edge",
		},
		{
			name: "empty name",
			tree: Tree{Skills: []Skill{{ID: "a", Data: SkillData{Name: "  ", Description: "d"}}}},
			want: "name",
		},
		{
			name: "long description",
			tree: Tree{Skills: []Skill{{ID: "a", Data: SkillData{Name: "n", Description: strings.Repeat("x", 151)}}}},
			want: "description",
		},
		{
			name: "level out of range",
			tree: Tree{Skills: []Skill{{ID: "a", Data: SkillData{Name: "n", Description: "d", Level: &tooBig}}}},
			want: "level",
		},
		{
			name: "unlocked with locked prerequisite",
			tree: Tree{Skills: []Skill{skill("a", "A", false), skill("b", "B", true)}, Edges: edges("a", "b")},
			want: "locked prerequisites",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.tree)
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}
