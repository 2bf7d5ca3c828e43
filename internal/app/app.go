// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/datadrill/internal/enrich"
	"github.com/abhisek/datadrill/internal/router"
	"github.com/abhisek/datadrill/internal/screen"
	"github.com/abhisek/datadrill/internal/screens/home"
	"github.com/abhisek/datadrill/internal/session"
	"github.com/abhisek/datadrill/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx     context.Context
	machine *session.Machine
	feed    *Feed
	router  *router.Router
	width   int
	height  int
}

// newAppModel creates a new AppModel with the selection screen.
func newAppModel(ctx context.Context, m *session.Machine, feed *Feed, opts ...home.Option) AppModel {
	return AppModel{
		ctx:     ctx,
		machine: m,
		feed:    feed,
		router:  router.New(home.New(ctx, m, opts...)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.feed.wait(m.ctx))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case enrich.Settled:
		return m, tea.Batch(m.router.Update(msg), m.feed.wait(m.ctx))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.machine.Close()
			return m, tea.Quit
		case "esc":
			// Leaving practice or results abandons the exercise.
			if m.router.Depth() > 1 {
				m.machine.Reset()
				return m, func() tea.Msg { return router.PopToRootMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the terminal UI on m until the user quits or ctx is done. feed
// must be the feed whose Hook m reports settlements to. opts configure the
// selection screen.
func Run(ctx context.Context, m *session.Machine, feed *Feed, opts ...home.Option) error {
	p := tea.NewProgram(newAppModel(ctx, m, feed, opts...), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
