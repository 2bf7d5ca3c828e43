// Package home is the selection screen: pick a task category and a
// difficulty, then generate a problem.
package home

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/datadrill/internal/problem"
	"github.com/abhisek/datadrill/internal/router"
	"github.com/abhisek/datadrill/internal/screen"
	"github.com/abhisek/datadrill/internal/screens/practice"
	"github.com/abhisek/datadrill/internal/session"
	"github.com/abhisek/datadrill/internal/ui/components"
	"github.com/abhisek/datadrill/internal/ui/layout"
)

// HomeScreen is the problem selection screen.
type HomeScreen struct {
	ctx     context.Context
	machine *session.Machine

	categories   components.Menu
	difficulties components.Menu
	spinner      spinner.Model

	generating bool
	cancel     context.CancelFunc
	autostart  bool
	errMsg     string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

type Option func(*HomeScreen)

// WithSelection preselects c and d and generates as soon as the screen is
// first shown.
func WithSelection(c problem.Category, d problem.Difficulty) Option {
	return func(h *HomeScreen) {
		for i, cat := range problem.Categories {
			if cat == c {
				h.categories.Selected = i
			}
		}
		for i, diff := range problem.Difficulties {
			if diff == d {
				h.difficulties.Selected = i
			}
		}
		h.autostart = true
	}
}

// New creates a new HomeScreen driving m.
func New(ctx context.Context, m *session.Machine, opts ...Option) *HomeScreen {
	h := &HomeScreen{
		ctx:     ctx,
		machine: m,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	var cats []components.MenuItem
	for _, c := range problem.Categories {
		cats = append(cats, components.MenuItem{Label: c.Label(), Action: func() tea.Cmd {
			return func() tea.Msg { return focusDifficultyMsg{} }
		}})
	}
	var diffs []components.MenuItem
	for _, d := range problem.Difficulties {
		diffs = append(diffs, components.MenuItem{Label: d.Label(), Action: func() tea.Cmd {
			return func() tea.Msg { return generateMsg{} }
		}})
	}
	h.categories = components.NewMenu(cats)
	h.difficulties = components.NewMenu(diffs)
	h.difficulties.Blurred = true

	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	h.errMsg = h.machine.Snapshot().Error
	if h.autostart {
		h.autostart = false
		return h.generate()
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return "問題を選ぶ"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.generating {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Tab", Description: "Switch"},
		{Key: "Enter", Description: "Next / Generate"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case focusDifficultyMsg:
		h.setFocus(true)
		return h, nil

	case generateMsg:
		return h, h.generate()

	case generatedMsg:
		return h.handleGenerated(msg)

	case spinner.TickMsg:
		if !h.generating {
			return h, nil
		}
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd

	case tea.KeyMsg:
		if h.generating {
			if msg.String() == "esc" {
				h.cancelGeneration()
			}
			return h, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			h.setFocus(h.difficulties.Blurred)
			return h, nil
		case "right", "l":
			h.setFocus(true)
			return h, nil
		case "left", "h", "esc":
			h.setFocus(false)
			return h, nil
		}
	}

	var cmd1, cmd2 tea.Cmd
	h.categories, cmd1 = h.categories.Update(msg)
	h.difficulties, cmd2 = h.difficulties.Update(msg)
	return h, tea.Batch(cmd1, cmd2)
}

// setFocus focuses the difficulty menu when difficulty is true, else the
// category menu.
func (h *HomeScreen) setFocus(difficulty bool) {
	h.categories.Blurred = difficulty
	h.difficulties.Blurred = !difficulty
}

func (h *HomeScreen) selection() (problem.Category, problem.Difficulty) {
	return problem.Categories[h.categories.Selected], problem.Difficulties[h.difficulties.Selected]
}

// generate starts a generation for the highlighted selection. The request
// itself runs in the returned command.
func (h *HomeScreen) generate() tea.Cmd {
	c, d := h.selection()
	if err := h.machine.Select(c, d); err != nil {
		h.errMsg = err.Error()
		return nil
	}
	t, err := h.machine.BeginGeneration()
	if err != nil {
		h.errMsg = err.Error()
		return nil
	}

	ctx, cancel := context.WithCancel(h.ctx)
	h.cancel = cancel
	h.generating = true
	h.errMsg = ""

	m := h.machine
	return tea.Batch(h.spinner.Tick, func() tea.Msg {
		defer cancel()
		return generatedMsg{err: m.RunGeneration(ctx, t)}
	})
}

func (h *HomeScreen) cancelGeneration() {
	if h.cancel != nil {
		h.cancel()
	}
	h.machine.Reset()
	h.generating = false
}

func (h *HomeScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	// Cancelled or superseded generations are dropped.
	if !h.generating || errors.Is(msg.err, session.ErrStaleTicket) {
		return h, nil
	}
	h.generating = false
	if msg.err != nil {
		if errors.Is(msg.err, problem.ErrGenerationFailed) {
			h.errMsg = problem.GenerationFailedMessage
		} else {
			h.errMsg = msg.err.Error()
		}
		return h, nil
	}
	next := practice.New(h.ctx, h.machine)
	return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}
