// Package practice is the typing screen: source text on one side, the
// answer grid on the other.
package practice

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/abhisek/datadrill/internal/grid"
	"github.com/abhisek/datadrill/internal/problem"
	"github.com/abhisek/datadrill/internal/report"
	"github.com/abhisek/datadrill/internal/router"
	"github.com/abhisek/datadrill/internal/screen"
	"github.com/abhisek/datadrill/internal/screens/results"
	"github.com/abhisek/datadrill/internal/session"
	"github.com/abhisek/datadrill/internal/ui/components"
	"github.com/abhisek/datadrill/internal/ui/layout"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

const defaultCellWidth = 14

// PracticeScreen implements screen.Screen for the typing phase.
type PracticeScreen struct {
	ctx     context.Context
	machine *session.Machine
	set     *problem.ProblemSet
	title   string

	inputs [][]textinput.Model
	focus  grid.Focus
	offset int // first visible row
	width  int // current cell width

	// replaceOnType emulates a select-all on the freshly focused cell: the
	// next character replaces the whole value.
	replaceOnType bool

	showSource bool
	showTimer  bool
	start      components.Button
	notice     string
	errMsg     string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New builds the screen for the problem currently loaded in m.
func New(ctx context.Context, m *session.Machine) *PracticeScreen {
	snap := m.Snapshot()
	s := &PracticeScreen{
		ctx:        ctx,
		machine:    m,
		set:        snap.Problem,
		title:      snap.Category.Label() + " · " + snap.Difficulty.Label(),
		showSource: true,
		showTimer:  true,
	}
	if s.set != nil {
		s.inputs = make([][]textinput.Model, s.set.RowCount())
		for r := range s.inputs {
			row := make([]textinput.Model, len(s.set.Fields))
			for c := range row {
				ti := textinput.New()
				ti.Prompt = ""
				row[c] = ti
			}
			s.inputs[r] = row
		}
		s.resize(defaultCellWidth)
	}
	s.start = components.NewButton("開始 (Start)", true, s.startTyping)
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (s *PracticeScreen) Title() string {
	return s.title
}

// Status shows the clock in the header unless it is hidden.
func (s *PracticeScreen) Status() string {
	if !s.showTimer {
		return ""
	}
	return report.FormatClock(s.machine.Elapsed())
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if !s.machine.Running() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "Ctrl+O", Description: "Source"},
			{Key: "Ctrl+Y", Description: "Copy source"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓←→ Enter", Description: "Move"},
		{Key: "Ctrl+D", Description: "Grade"},
		{Key: "Ctrl+T", Description: "Timer"},
		{Key: "Ctrl+O", Description: "Source"},
		{Key: "Ctrl+Y/E", Description: "Copy source/TSV"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.set == nil {
		return s, nil
	}

	switch msg := msg.(type) {
	case clockTickMsg:
		if s.machine.Running() {
			return s, tickClock()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Paste and cursor blink go to the focused cell.
	if s.machine.Running() {
		return s.forward(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		s.showSource = !s.showSource
		return s, nil
	case "ctrl+t":
		s.showTimer = !s.showTimer
		return s, nil
	case "ctrl+y":
		s.copy("入力元データ", s.set.DisplayText)
		return s, nil
	case "ctrl+e":
		s.copy("入力データ (TSV)", report.InputTSV(s.set.Fields, s.machine.Snapshot().Rows))
		return s, nil
	case "ctrl+s":
		if !s.machine.Running() {
			return s, s.startTyping()
		}
		return s, nil
	case "ctrl+d":
		return s, s.submit()
	}

	if !s.machine.Running() {
		var cmd tea.Cmd
		s.start, cmd = s.start.Update(msg)
		return s, cmd
	}

	if key := grid.ParseKey(msg.String()); key != grid.KeyOther {
		return s.navigate(key, msg)
	}

	if s.replaceOnType {
		s.replaceOnType = false
		switch {
		case msg.String() == "backspace" || msg.String() == "delete":
			s.focused().SetValue("")
			s.sync()
			return s, nil
		case msg.Key().Text != "":
			s.focused().SetValue("")
		}
	}
	return s.forward(msg)
}

// navigate resolves a navigation key against the focused cell. Keys the
// grid does not consume fall through to the cell.
func (s *PracticeScreen) navigate(key grid.Key, msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	in := s.focused()
	pos := in.Position()
	if s.replaceOnType {
		pos = 0
	}
	out, err := s.machine.Navigate(key, pos, utf8.RuneCountInString(in.Value()))
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if out.Moved {
		return s, s.moveTo(out.Next)
	}
	if out.Consume {
		return s, nil
	}
	if s.replaceOnType {
		// A selection collapses towards the arrow without moving the caret
		// further.
		s.replaceOnType = false
		if key == grid.KeyRight {
			in.CursorEnd()
		} else {
			in.CursorStart()
		}
		return s, nil
	}
	return s.forward(msg)
}

func (s *PracticeScreen) focused() *textinput.Model {
	return &s.inputs[s.focus.Row][s.focus.Col]
}

func (s *PracticeScreen) moveTo(f grid.Focus) tea.Cmd {
	s.focused().Blur()
	s.focus = f
	in := s.focused()
	in.CursorEnd()
	s.replaceOnType = in.Value() != ""
	return in.Focus()
}

// forward hands msg to the focused cell and records any change of value.
func (s *PracticeScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	in := s.focused()
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != before {
		s.sync()
	}
	return s, cmd
}

func (s *PracticeScreen) sync() {
	if err := s.machine.SetCellAt(s.focus.Row, s.focus.Col, s.focused().Value()); err != nil {
		s.errMsg = err.Error()
	}
}

func (s *PracticeScreen) startTyping() tea.Cmd {
	if err := s.machine.Start(); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.errMsg = ""
	s.start.Active = false
	s.focus = grid.Focus{}
	if _, err := s.machine.FocusCell(s.focus); err != nil {
		s.errMsg = err.Error()
	}
	return tea.Batch(s.focused().Focus(), tickClock())
}

func (s *PracticeScreen) submit() tea.Cmd {
	res, err := s.machine.Submit(s.ctx)
	if err != nil {
		if errors.Is(err, session.ErrClockStopped) {
			s.errMsg = "開始してから採点してください。"
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}
	s.focused().Blur()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: results.New(s.machine, res)}
	}
}

func (s *PracticeScreen) copy(label, text string) {
	if err := clipboardWriteAll(text); err != nil {
		s.notice = ""
		s.errMsg = "クリップボードにコピーできませんでした: " + err.Error()
		return
	}
	s.errMsg = ""
	s.notice = label + "をコピーしました。"
}

func (s *PracticeScreen) resize(width int) {
	if width == s.width {
		return
	}
	s.width = width
	for r := range s.inputs {
		for c := range s.inputs[r] {
			s.inputs[r][c].SetWidth(width)
		}
	}
}

func tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}
