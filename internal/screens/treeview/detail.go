package treeview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltree/internal/screen"
	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/tree"
	"github.com/abhisek/skilltree/internal/ui/layout"
	"github.com/abhisek/skilltree/internal/ui/theme"
)

// DetailScreen shows one skill with its direct prerequisites and
// dependents. A prerequisite can be removed from here.
type DetailScreen struct {
	ctx   context.Context
	mgr   *tree.Manager
	notes *tree.Recorder
	id    string

	cursor int // index into the prerequisites
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)

// NewDetail creates the detail screen for skill id.
func NewDetail(ctx context.Context, mgr *tree.Manager, notes *tree.Recorder, id string) *DetailScreen {
	return &DetailScreen{ctx: ctx, mgr: mgr, notes: notes, id: id}
}

func (d *DetailScreen) Init() tea.Cmd { return nil }

func (d *DetailScreen) Title() string {
	if sk, ok := skillgraph.Lookup(d.mgr.Tree().Skills, d.id); ok {
		return sk.Data.Name
	}
	return "Skill"
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	prereqs := skillgraph.Prerequisites(d.mgr.Tree(), d.id)
	switch key.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(prereqs)-1 {
			d.cursor++
		}
	case "x":
		if d.cursor < len(prereqs) {
			edgeID := skillgraph.EdgeID(prereqs[d.cursor].ID, d.id)
			if err := d.mgr.RemoveEdges(d.ctx, edgeID); err == nil {
				d.notes.NotifySuccess(fmt.Sprintf("Removed prerequisite %s", prereqs[d.cursor].Data.Name))
			}
			if d.cursor > 0 && d.cursor >= len(prereqs)-1 {
				d.cursor--
			}
		}
	}
	return d, nil
}

func (d *DetailScreen) View(width, height int) string {
	t := d.mgr.Tree()
	sk, ok := skillgraph.Lookup(t.Skills, d.id)
	if !ok {
		return theme.Hint.Render("\n  This skill no longer exists.")
	}
	state := skillgraph.StateOf(t, sk.ID)

	contentWidth := width - 8
	if contentWidth > 70 {
		contentWidth = 70
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("  %s  %s", state.Icon(), sk.Data.Name)))
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render("  " + state.Label()))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(theme.Text).
		PaddingLeft(2).
		Render(sk.Data.Description))
	b.WriteString("\n\n")

	if sk.Data.Level != nil {
		b.WriteString(theme.Dim.Render("  Level:     ") + theme.Body.Render(fmt.Sprintf("%d", *sk.Data.Level)) + "\n")
	}
	b.WriteString(theme.Dim.Render("  ID:        ") + theme.Body.Render(sk.ID) + "\n\n")

	prereqs := skillgraph.Prerequisites(t, sk.ID)
	b.WriteString(theme.Section.Render("  Prerequisites"))
	b.WriteString("\n")
	if len(prereqs) == 0 {
		b.WriteString(theme.Hint.Render("  none, always unlockable"))
		b.WriteString("\n")
	}
	for i, p := range prereqs {
		b.WriteString(renderNeighbour(t, p, i == d.cursor))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	deps := skillgraph.Dependents(t, sk.ID)
	if len(deps) > 0 {
		b.WriteString(theme.Section.Render("  Unlocks"))
		b.WriteString("\n")
		for _, dep := range deps {
			b.WriteString(theme.Dim.Render(fmt.Sprintf("  → %s %s", skillgraph.StateOf(t, dep.ID).Icon(), dep.Data.Name)))
			b.WriteString("\n")
		}
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "\n"+b.String())
}

func renderNeighbour(t skillgraph.Tree, sk skillgraph.Skill, selected bool) string {
	state := skillgraph.StateOf(t, sk.ID)
	style := theme.Locked
	if state == skillgraph.StateUnlocked {
		style = theme.Unlocked
	}
	cursor := "  "
	if selected {
		cursor = "▸ "
		style = theme.Selected
	}
	return style.Render(fmt.Sprintf("  %s%s %s", cursor, state.Icon(), sk.Data.Name))
}

// KeyHints returns the key binding hints for the footer.
func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Prerequisite"},
		{Key: "x", Description: "Remove"},
		{Key: "Esc", Description: "Back"},
	}
}
