package treeview

import (
	"context"
	"errors"
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

const (
	fieldName = iota
	fieldDescription
	fieldLevel
)

// AddFormScreen collects a new skill's name, description and level.
type AddFormScreen struct {
	ctx   context.Context
	mgr   *tree.Manager
	notes *tree.Recorder

	inputs []components.TextInput
	focus  int
}

var _ screen.Screen = (*AddFormScreen)(nil)
var _ screen.KeyHintProvider = (*AddFormScreen)(nil)

// NewAddForm creates the form with the name field focused.
func NewAddForm(ctx context.Context, mgr *tree.Manager, notes *tree.Recorder) *AddFormScreen {
	f := &AddFormScreen{
		ctx:   ctx,
		mgr:   mgr,
		notes: notes,
		inputs: []components.TextInput{
			components.NewTextInput("Name *", "e.g. Fireball", false, skillgraph.MaxNameLen),
			components.NewTextInput("Description *", "What does this skill cover?", false, skillgraph.MaxDescriptionLen),
			components.NewTextInput("Level", "0-999 (optional)", true, 3),
		},
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f *AddFormScreen) Init() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f *AddFormScreen) Title() string {
	return "New Skill"
}

func (f *AddFormScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			return f, f.setFocus(f.focus + 1)
		case "shift+tab", "up":
			return f, f.setFocus(f.focus - 1)
		case "enter":
			if f.focus < len(f.inputs)-1 {
				return f, f.setFocus(f.focus + 1)
			}
			return f, f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *AddFormScreen) setFocus(i int) tea.Cmd {
	n := len(f.inputs)
	i = (i%n + n) % n
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

// submit validates the form. Field errors stay on the form; anything else
// returns to the tree screen.
func (f *AddFormScreen) submit() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Error = ""
	}

	s, err := f.mgr.AddSkill(f.ctx, tree.SkillInput{
		Name:        f.inputs[fieldName].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Level:       f.inputs[fieldLevel].Value(),
	})

	var fe tree.FieldErrors
	if errors.As(err, &fe) {
		f.inputs[fieldName].Error = fe[tree.FieldName]
		f.inputs[fieldDescription].Error = fe[tree.FieldDescription]
		f.inputs[fieldLevel].Error = fe[tree.FieldLevel]
		for i, in := range f.inputs {
			if in.Error != "" {
				return f.setFocus(i)
			}
		}
		return nil
	}
	if err == nil {
		f.notes.NotifySuccess(fmt.Sprintf("Added %s", s.Data.Name))
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (f *AddFormScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Add a skill"))
	b.WriteString("\n\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Hint.Render("Skills start locked. Connect prerequisites from the tree."))

	cardWidth := width - 8
	if cardWidth > 72 {
		cardWidth = 72
	}
	card := theme.Card.Width(cardWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, "\n"+card)
}

// KeyHints returns the key binding hints for the footer.
func (f *AddFormScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Cancel"},
	}
}
