package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/skilltree/internal/router"
	"github.com/abhisek/skilltree/internal/screen"
	"github.com/abhisek/skilltree/internal/screens/treeview"
	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/tree"
	"github.com/abhisek/skilltree/internal/ui/layout"
)

// Options holds the dependencies the TUI runs against.
type Options struct {
	Context context.Context
	Manager *tree.Manager
	// Notes must be the notifier Manager was built with; screens drain it
	// into their status lines.
	Notes *tree.Recorder
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	mgr    *tree.Manager
	width  int
	height int
}

// newAppModel creates a new AppModel rooted at the tree screen.
func newAppModel(opts Options) AppModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	notes := opts.Notes
	if notes == nil {
		notes = &tree.Recorder{}
	}
	return AppModel{
		router: router.New(treeview.New(ctx, opts.Manager, notes)),
		mgr:    opts.Manager,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// summary renders the unlock progress shown on the right of the header.
func (m AppModel) summary() string {
	st := skillgraph.Stats(m.mgr.Tree())
	if st.Skills == 0 {
		return ""
	}
	return fmt.Sprintf("✅ %d/%d unlocked", st.Unlocked, st.Skills)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render lays out header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.summary(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
