package store

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/skilltree/internal/sanitize"
	"github.com/abhisek/skilltree/internal/skillgraph"
)

// skillSchema describes one persisted skill entry. Extra fields are allowed
// and ignored.
var skillSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "data"},
	"properties": map[string]any{
		"id": map[string]any{"type": "string", "minLength": 1},
		"position": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"x": map[string]any{"type": "number"},
				"y": map[string]any{"type": "number"},
			},
		},
		"data": map[string]any{
			"type":     "object",
			"required": []any{"name", "description"},
			"properties": map[string]any{
				"name":        map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"level": map[string]any{
					"type":    []any{"integer", "null"},
					"minimum": skillgraph.MinLevel,
					"maximum": skillgraph.MaxLevel,
				},
				"isUnlocked": map[string]any{"type": "boolean"},
			},
		},
	},
}

// edgeSchema describes one persisted prerequisite edge.
var edgeSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "source", "target"},
	"properties": map[string]any{
		"id":     map[string]any{"type": "string", "minLength": 1},
		"source": map[string]any{"type": "string", "minLength": 1},
		"target": map[string]any{"type": "string", "minLength": 1},
	},
}

var (
	compileOnce sync.Once
	compiled    struct {
		skill *jsonschema.Schema
		edge  *jsonschema.Schema
	}
	compileErr error
)

func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled.skill, compileErr = compileSchema("skill", skillSchema)
		if compileErr != nil {
			return
		}
		compiled.edge, compileErr = compileSchema("edge", edgeSchema)
	})
	return compiled.skill, compiled.edge, compileErr
}

func compileSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	// The compiler wants plain parsed JSON values, so round-trip the Go literal.
	b, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", name, err)
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://skilltree/%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource %s: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return s, nil
}

type storedSkill struct {
	ID       string              `json:"id"`
	Position skillgraph.Position `json:"position"`
	Data     struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Level       *float64 `json:"level"`
		Unlocked    bool     `json:"isUnlocked"`
	} `json:"data"`
}

// Decode parses a persisted tree, dropping entries that fail validation.
// It returns nil when raw is not a tree at all or when no skill survives.
func Decode(raw []byte) *skillgraph.Tree {
	return decode(raw, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decode(raw []byte, logger *slog.Logger) *skillgraph.Tree {
	skillSch, edgeSch, err := schemas()
	if err != nil {
		logger.Error("tree schema unavailable", "error", err)
		return nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		logger.Warn("discarding stored tree", "reason", "not a JSON object")
		return nil
	}

	var rawSkills []json.RawMessage
	if err := json.Unmarshal(top["skills"], &rawSkills); err != nil || rawSkills == nil {
		logger.Warn("discarding stored tree", "reason", "skills is not an array")
		return nil
	}
	var rawEdges []json.RawMessage
	if p, ok := top["prereqs"]; ok {
		if err := json.Unmarshal(p, &rawEdges); err != nil {
			logger.Warn("discarding stored tree", "reason", "prereqs is not an array")
			return nil
		}
	}

	var tree skillgraph.Tree
	seen := make(map[string]bool, len(rawSkills))
	for i, entry := range rawSkills {
		s, reason := decodeSkill(entry, skillSch)
		if reason == "" && seen[s.ID] {
			reason = "duplicate id"
		}
		if reason != "" {
			logger.Warn("dropping stored skill", "index", i, "reason", reason)
			continue
		}
		seen[s.ID] = true
		tree.Skills = append(tree.Skills, s)
	}
	if len(tree.Skills) == 0 {
		logger.Warn("discarding stored tree", "reason", "no valid skills")
		return nil
	}

	for i, entry := range rawEdges {
		var v any
		if err := json.Unmarshal(entry, &v); err != nil {
			logger.Warn("dropping stored edge", "index", i, "reason", err.Error())
			continue
		}
		if err := edgeSch.Validate(v); err != nil {
			logger.Warn("dropping stored edge", "index", i, "reason", err.Error())
			continue
		}
		var e skillgraph.Edge
		if err := json.Unmarshal(entry, &e); err != nil {
			logger.Warn("dropping stored edge", "index", i, "reason", err.Error())
			continue
		}
		tree.Edges = append(tree.Edges, e)
	}

	return &tree
}

// decodeSkill validates and converts one entry. A non-empty reason means
// the entry must be dropped.
func decodeSkill(entry json.RawMessage, sch *jsonschema.Schema) (skillgraph.Skill, string) {
	var v any
	if err := json.Unmarshal(entry, &v); err != nil {
		return skillgraph.Skill{}, err.Error()
	}
	if err := sch.Validate(v); err != nil {
		return skillgraph.Skill{}, err.Error()
	}

	var in storedSkill
	if err := json.Unmarshal(entry, &in); err != nil {
		return skillgraph.Skill{}, err.Error()
	}

	name := sanitize.Text(in.Data.Name)
	if n := utf8.RuneCountInString(name); n == 0 || n > skillgraph.MaxNameLen {
		return skillgraph.Skill{}, "invalid name"
	}
	desc := sanitize.Text(in.Data.Description)
	if n := utf8.RuneCountInString(desc); n == 0 || n > skillgraph.MaxDescriptionLen {
		return skillgraph.Skill{}, "invalid description"
	}

	out := skillgraph.Skill{
		ID:       in.ID,
		Position: in.Position,
		Data: skillgraph.SkillData{
			Name:        name,
			Description: desc,
			Unlocked:    in.Data.Unlocked,
		},
	}
	if in.Data.Level != nil {
		f := *in.Data.Level
		if f != math.Trunc(f) {
			return skillgraph.Skill{}, "level is not an integer"
		}
		lvl := int(f)
		out.Data.Level = &lvl
	}
	return out, ""
}
