// Package treeview holds the interactive screens over a skill tree: the
// tree list with search, the add-skill form, and the skill detail view.
package treeview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltree/internal/router"
	"github.com/abhisek/skilltree/internal/screen"
	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/tree"
	"github.com/abhisek/skilltree/internal/ui/components"
	"github.com/abhisek/skilltree/internal/ui/layout"
	"github.com/abhisek/skilltree/internal/ui/theme"
)

// status is the one-line message under the list.
type status struct {
	text  string
	isErr bool
}

// TreeScreen lists every skill, prerequisites first, and drives the
// manager from key presses.
type TreeScreen struct {
	ctx   context.Context
	mgr   *tree.Manager
	notes *tree.Recorder

	rows         []skillgraph.Skill
	cursor       int
	scrollOffset int

	search    components.TextInput
	searching bool

	connectFrom  string
	confirmReset bool
	status       status
}

var _ screen.Screen = (*TreeScreen)(nil)
var _ screen.KeyHintProvider = (*TreeScreen)(nil)

// New creates the tree screen. notes must be the notifier mgr reports to.
func New(ctx context.Context, mgr *tree.Manager, notes *tree.Recorder) *TreeScreen {
	s := &TreeScreen{
		ctx:    ctx,
		mgr:    mgr,
		notes:  notes,
		search: components.NewTextInput("Search", "skill name", false, skillgraph.MaxNameLen),
	}
	s.search.Model.Prompt = "/ "
	s.refresh()
	return s
}

func (s *TreeScreen) Init() tea.Cmd {
	return nil
}

func (s *TreeScreen) Title() string {
	return "Skill Tree"
}

func (s *TreeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumedMsg:
		s.refresh()
		s.takeNotes()
		return s, nil

	case tea.KeyMsg:
		if s.searching {
			return s, s.updateSearch(msg)
		}
		if s.confirmReset {
			s.confirmReset = false
			if msg.String() == "y" {
				_ = s.mgr.Reset(s.ctx)
				s.connectFrom = ""
				s.refresh()
				s.takeNotes()
			} else {
				s.status = status{text: "Reset cancelled"}
			}
			return s, nil
		}
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *TreeScreen) handleKey(key string) tea.Cmd {
	switch key {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "/":
		s.searching = true
		return s.search.Focus()
	case "enter":
		s.unlockSelected()
	case "c":
		s.connect()
	case "a":
		form := NewAddForm(s.ctx, s.mgr, s.notes)
		return func() tea.Msg { return router.PushScreenMsg{Screen: form} }
	case "d":
		if sel, ok := s.selected(); ok {
			detail := NewDetail(s.ctx, s.mgr, s.notes, sel.ID)
			return func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
		}
	case "R":
		if len(s.rows) > 0 {
			s.confirmReset = true
			s.status = status{text: "Reset the whole tree? Press y to confirm", isErr: true}
		}
	case "esc":
		switch {
		case s.connectFrom != "":
			s.connectFrom = ""
			s.status = status{text: "Connect cancelled"}
		case s.search.Value() != "":
			s.search.SetValue("")
		}
	case "q":
		return tea.Quit
	}
	return nil
}

func (s *TreeScreen) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		s.searching = false
		s.search.Blur()
		return nil
	case "esc":
		s.searching = false
		s.search.SetValue("")
		s.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return cmd
}

func (s *TreeScreen) unlockSelected() {
	sel, ok := s.selected()
	if !ok {
		return
	}
	_, _ = s.mgr.Unlock(s.ctx, sel.ID)
	s.refresh()
	s.takeNotes()
}

// connect marks the selected skill as the source on the first press and
// links it to the selected target on the second.
func (s *TreeScreen) connect() {
	sel, ok := s.selected()
	if !ok {
		return
	}
	if s.connectFrom == "" {
		s.connectFrom = sel.ID
		s.status = status{text: fmt.Sprintf("Prerequisite: %s. Select the skill it unlocks and press c", sel.Data.Name)}
		return
	}

	source := s.connectFrom
	s.connectFrom = ""
	_, err := s.mgr.Connect(s.ctx, skillgraph.Connection{Source: source, Target: sel.ID})
	s.refresh()
	s.takeNotes()
	if err == nil {
		src, _ := skillgraph.Lookup(s.mgr.Tree().Skills, source)
		s.status = status{text: fmt.Sprintf("%s now requires %s", sel.Data.Name, src.Data.Name)}
	}
}

// takeNotes moves the newest manager notification into the status line.
func (s *TreeScreen) takeNotes() {
	notes := s.notes.Take()
	if len(notes) == 0 {
		return
	}
	last := notes[len(notes)-1]
	s.status = status{text: last.Message, isErr: last.IsError()}
}

// refresh reloads rows from the manager, keeping the cursor on the same
// skill when it still exists.
func (s *TreeScreen) refresh() {
	var keep string
	if sel, ok := s.selected(); ok {
		keep = sel.ID
	}
	s.rows = skillgraph.TopologicalOrder(s.mgr.Tree())
	for i, r := range s.rows {
		if r.ID == keep {
			s.cursor = i
			return
		}
	}
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *TreeScreen) selected() (skillgraph.Skill, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return skillgraph.Skill{}, false
	}
	return s.rows[s.cursor], true
}

func (s *TreeScreen) moveCursor(delta int) {
	next := s.cursor + delta
	if next >= 0 && next < len(s.rows) {
		s.cursor = next
	}
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *TreeScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *TreeScreen) View(width, height int) string {
	t := s.mgr.Tree()
	h := skillgraph.Search(t, s.search.Value())

	var lines []string
	lines = append(lines, s.renderSearch(h), "")

	listHeight := height - 4
	if len(s.rows) == 0 {
		lines = append(lines, theme.Hint.Render("  No skills yet. Press a to add one."))
	} else {
		s.adjustScroll(listHeight)
		for i := s.scrollOffset; i < len(s.rows) && i-s.scrollOffset < listHeight; i++ {
			lines = append(lines, s.renderRow(t, h, s.rows[i], i == s.cursor, width))
		}
	}

	body := strings.Join(lines, "\n")
	return lipgloss.Place(width, height-1, lipgloss.Left, lipgloss.Top, body) + "\n" + s.renderStatus(width)
}

func (s *TreeScreen) renderSearch(h skillgraph.Highlight) string {
	if !s.searching && s.search.Value() == "" {
		return theme.Hint.Render("  Press / to search")
	}
	line := "  " + s.search.Model.View()
	switch {
	case strings.TrimSpace(s.search.Value()) == "":
	case h.Active():
		line += theme.Dim.Render(fmt.Sprintf("   %d skills, %d links highlighted", len(h.Nodes), len(h.Edges)))
	default:
		line += theme.Dim.Render("   no matches")
	}
	return line
}

func (s *TreeScreen) renderRow(t skillgraph.Tree, h skillgraph.Highlight, sk skillgraph.Skill, selected bool, width int) string {
	state := skillgraph.StateOf(t, sk.ID)

	var style lipgloss.Style
	switch {
	case selected:
		style = theme.Selected
	case h.Active() && h.Nodes[sk.ID]:
		style = theme.Highlighted
	case h.Dimmed(sk.ID):
		style = theme.Faded
	case state == skillgraph.StateUnlocked:
		style = theme.Unlocked
	case state == skillgraph.StateAvailable:
		style = theme.Available
	default:
		style = theme.Locked
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	marker := " "
	switch {
	case sk.ID == s.connectFrom:
		marker = "⇢"
	case h.Active() && h.Nodes[sk.ID]:
		marker = "★"
	}

	level := ""
	if sk.Data.Level != nil {
		level = fmt.Sprintf("Lv %d", *sk.Data.Level)
	}
	prereqs := len(skillgraph.Prerequisites(t, sk.ID))
	needs := ""
	if prereqs > 0 {
		needs = fmt.Sprintf("needs %d", prereqs)
	}

	nameWidth := width - 40
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := fmt.Sprintf("%-*s", nameWidth, layout.Truncate(sk.Data.Name, nameWidth))

	return fmt.Sprintf("  %s%s %s %s  %-6s  %-8s  %s",
		cursor,
		marker,
		state.Icon(),
		style.Render(name),
		theme.Dim.Render(level),
		theme.Dim.Render(needs),
		style.Render(fmt.Sprintf("%9s", state.Label())),
	)
}

func (s *TreeScreen) renderStatus(width int) string {
	if s.status.text == "" {
		return ""
	}
	style := theme.SuccessText
	if s.status.isErr {
		style = theme.ErrorText
	}
	return "  " + style.Render(layout.Truncate(s.status.text, width-4))
}

// KeyHints returns the key binding hints for the footer.
func (s *TreeScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Unlock"},
		{Key: "c", Description: "Connect"},
		{Key: "a", Description: "Add"},
		{Key: "d", Description: "Details"},
		{Key: "/", Description: "Search"},
		{Key: "R", Description: "Reset"},
		{Key: "q", Description: "Quit"},
	}
}
