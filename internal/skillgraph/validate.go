package skillgraph

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validate performs structural checks on a tree that may have come from
// outside the insertion checks (storage, imports).
// Returns a combined error describing all problems found, or nil if valid.
func Validate(t Tree) error {
	var errs []string

	idSet := make(map[string]bool, len(t.Skills))

	// Check for duplicate IDs and field limits
	for _, s := range t.Skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
		}
		if idSet[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		idSet[s.ID] = true

		if n := utf8.RuneCountInString(strings.TrimSpace(s.Data.Name)); n == 0 || n > MaxNameLen {
			errs = append(errs, fmt.Sprintf("skill %q: name must be 1-%d characters, got %d", s.ID, MaxNameLen, n))
		}
		if n := utf8.RuneCountInString(strings.TrimSpace(s.Data.Description)); n == 0 || n > MaxDescriptionLen {
			errs = append(errs, fmt.Sprintf("skill %q: description must be 1-%d characters, got %d", s.ID, MaxDescriptionLen, n))
		}
		if lvl := s.Data.Level; lvl != nil && (*lvl < MinLevel || *lvl > MaxLevel) {
			errs = append(errs, fmt.Sprintf("skill %q: level must be in [%d, %d], got %d", s.ID, MinLevel, MaxLevel, *lvl))
		}
	}

	// Check edges: dangling endpoints, self-loops, duplicates
	seen := make(map[[2]string]bool, len(t.Edges))
	for _, e := range t.Edges {
		if !idSet[e.Source] {
			errs = append(errs, fmt.Sprintf("edge %q references nonexistent source %q", e.ID, e.Source))
		}
		if !idSet[e.Target] {
			errs = append(errs, fmt.Sprintf("edge %q references nonexistent target %q", e.ID, e.Target))
		}
		if IsSelfLoop(e.Source, e.Target) {
			errs = append(errs, fmt.Sprintf("edge %q is a self-loop", e.ID))
		}
		key := [2]string{e.Source, e.Target}
		if seen[key] {
			errs = append(errs, fmt.Sprintf("duplicate edge %s -> %s", e.Source, e.Target))
		}
		seen[key] = true
	}

	// Check for cycles using Kahn's algorithm
	inDegree := make(map[string]int, len(t.Skills))
	adjList := make(map[string][]string)
	for _, e := range t.Edges {
		if !idSet[e.Source] || !idSet[e.Target] {
			continue
		}
		inDegree[e.Target]++
		adjList[e.Source] = append(adjList[e.Source], e.Target)
	}

	var queue []string
	for id := range idSet {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adjList[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	if visited < len(idSet) {
		var cycleNodes []string
		for _, s := range t.Skills {
			if inDegree[s.ID] > 0 {
				cycleNodes = append(cycleNodes, s.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("cycle detected involving skills: %s", strings.Join(cycleNodes, ", ")))
	}

	// Unlocked skills must have unlocked prerequisites
	for _, s := range t.Skills {
		if s.Data.Unlocked && !CanUnlock(t.Skills, t.Edges, s.ID) {
			errs = append(errs, fmt.Sprintf("skill %q is unlocked but has locked prerequisites", s.ID))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("skill tree validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
