package skillgraph

// CanUnlock reports whether every prerequisite of skillID is an existing,
// unlocked skill. A skill with no incoming edges can always be unlocked; an
// edge from a missing skill counts as unsatisfied.
func CanUnlock(skills []Skill, edges []Edge, skillID string) bool {
	unlocked := make(map[string]bool, len(skills))
	for _, s := range skills {
		unlocked[s.ID] = s.Data.Unlocked
	}
	for _, e := range edges {
		if e.Target == skillID && !unlocked[e.Source] {
			return false
		}
	}
	return true
}

// Unlock returns a new skill slice in which skillID is marked unlocked.
// Other skills are copied unchanged. Unlocking an unlocked skill yields an
// equal slice.
func Unlock(skills []Skill, skillID string) []Skill {
	out := make([]Skill, len(skills))
	copy(out, skills)
	for i := range out {
		if out[i].ID == skillID {
			out[i].Data.Unlocked = true
		}
	}
	return out
}

// AvailableSkills returns the locked skills whose prerequisites are all
// unlocked, in topological order.
func AvailableSkills(t Tree) []Skill {
	var result []Skill
	for _, s := range TopologicalOrder(t) {
		if !s.Data.Unlocked && CanUnlock(t.Skills, t.Edges, s.ID) {
			result = append(result, s)
		}
	}
	return result
}
