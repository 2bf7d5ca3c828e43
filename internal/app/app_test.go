package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/datadrill/internal/enrich"
	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/problem"
	"github.com/abhisek/datadrill/internal/router"
	"github.com/abhisek/datadrill/internal/screen"
	"github.com/abhisek/datadrill/internal/session"
)

type stubGenerator struct{}

func (stubGenerator) Generate(context.Context, problem.Category, problem.Difficulty) (*problem.ProblemSet, error) {
	return &problem.ProblemSet{
		Instructions: "入力してください。",
		Fields:       []string{"Name"},
		Records:      [][]string{{"A"}},
		DisplayText:  "1. A",
	}, nil
}

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func newTestModel(t *testing.T) (AppModel, *session.Machine) {
	t.Helper()
	feed := NewFeed()
	m := session.New(stubGenerator{}, nil,
		session.WithClock(session.NewClock(time.Hour)),
		session.WithSettleHook(feed.Hook))
	t.Cleanup(m.Close)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newAppModel(ctx, m, feed), m
}

func TestCtrlCClosesSession(t *testing.T) {
	model, m := newTestModel(t)

	_, cmd := model.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if err := m.Select(problem.CustomerList, problem.Easy); err != session.ErrClosed {
		t.Errorf("Select after quit = %v, want ErrClosed", err)
	}
}

func TestEscAtRootKeepsSession(t *testing.T) {
	model, m := newTestModel(t)
	if err := m.Select(problem.CustomerList, problem.Easy); err != nil {
		t.Fatal(err)
	}
	id := m.ID()

	model.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.ID() != id {
		t.Error("esc on the selection screen reset the session")
	}
}

func TestEscFromPracticeResets(t *testing.T) {
	model, m := newTestModel(t)
	if err := m.Select(problem.CustomerList, problem.Easy); err != nil {
		t.Fatal(err)
	}
	if err := m.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}
	model.router.Push(&stubScreen{title: "practice"})

	_, cmd := model.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.Phase() != session.PhaseSelecting {
		t.Errorf("phase = %v, want selecting", m.Phase())
	}
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected router.PopToRootMsg")
	}
}

func TestSettledRearmsFeed(t *testing.T) {
	model, _ := newTestModel(t)
	res := grading.Grade([][]string{{"a"}}, []string{"x"}, nil, 1)

	_, cmd := model.Update(enrich.Settled{Result: res, Part: grading.PartFeedback, Text: "ok"})
	if cmd == nil {
		t.Fatal("expected a command waiting for the next settlement")
	}

	model.feed.Hook(enrich.Settled{Result: res, Part: grading.PartMistakeAnalysis, Text: "done"})
	got, ok := cmd().(enrich.Settled)
	if !ok {
		t.Fatal("expected enrich.Settled from the feed")
	}
	if got.Part != grading.PartMistakeAnalysis {
		t.Errorf("Part = %v, want mistake analysis", got.Part)
	}
}

func TestFeedHookNeverBlocks(t *testing.T) {
	f := NewFeed()
	done := make(chan struct{})
	go func() {
		for range feedBuffer * 2 {
			f.Hook(enrich.Settled{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Hook blocked on a full feed")
	}
}

func TestFeedWaitStopsOnCancel(t *testing.T) {
	f := NewFeed()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if msg := f.wait(ctx)(); msg != nil {
		t.Errorf("wait after cancel = %v, want nil", msg)
	}
}

func TestView(t *testing.T) {
	model, _ := newTestModel(t)

	if v := model.View(); !v.AltScreen {
		t.Error("expected alt screen before the first window size")
	}

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app := updated.(AppModel)
	if app.width != 120 || app.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", app.width, app.height)
	}
	if v := app.View(); !v.AltScreen {
		t.Error("expected alt screen")
	}
}
