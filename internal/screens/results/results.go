// Package results shows a graded submission while its commentary arrives.
package results

import (
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"

	"github.com/abhisek/datadrill/internal/enrich"
	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/report"
	"github.com/abhisek/datadrill/internal/router"
	"github.com/abhisek/datadrill/internal/screen"
	"github.com/abhisek/datadrill/internal/session"
	"github.com/abhisek/datadrill/internal/ui/layout"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// ResultsScreen displays one graded result.
type ResultsScreen struct {
	machine *session.Machine
	result  *grading.Result
	spinner spinner.Model
	scroll  int

	// analysis caches the rendered mistake analysis for analysisWidth.
	analysis      string
	analysisWidth int

	notice string
	errMsg string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for res, which must be m's current result.
func New(m *session.Machine, res *grading.Result) *ResultsScreen {
	return &ResultsScreen{
		machine: m,
		result:  res,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	if s.result.Settled() {
		return nil
	}
	return s.spinner.Tick
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "C", Description: "Copy report"},
		{Key: "Enter", Description: "New problem"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case enrich.Settled:
		// Commentary for a result we no longer show is dropped.
		if msg.Result != s.result {
			return s, nil
		}
		if msg.Part == grading.PartMistakeAnalysis {
			s.analysis = ""
		}
		return s, nil

	case spinner.TickMsg:
		if s.result.Settled() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "c", "y":
			s.copyReport()
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		case "enter":
			s.machine.Reset()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *ResultsScreen) copyReport() {
	if err := clipboardWriteAll(report.Text(s.result)); err != nil {
		s.notice = ""
		s.errMsg = "クリップボードにコピーできませんでした: " + err.Error()
		return
	}
	s.errMsg = ""
	s.notice = "結果をコピーしました。"
}
