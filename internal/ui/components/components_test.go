package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

type pressedMsg string

func testMenu() Menu {
	act := func(s string) func() tea.Cmd {
		return func() tea.Cmd { return func() tea.Msg { return pressedMsg(s) } }
	}
	return NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two", Action: act("two")},
		{Label: "three", Action: act("three")},
	})
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := testMenu()
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(keyPress("up"))
	if m.Selected != 1 {
		t.Errorf("up onto disabled item moved selection to %d", m.Selected)
	}
	m, _ = m.Update(keyPress("j"))
	if m.Selected != 2 {
		t.Errorf("Selected = %d after j, want 2", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	m := testMenu()
	_, cmd := m.Update(keyPress("enter"))
	if cmd == nil {
		t.Fatal("expected command on enter")
	}
	if got := cmd(); got != pressedMsg("two") {
		t.Errorf("cmd() = %v, want two", got)
	}
}

func TestMenu_BlurredIgnoresKeys(t *testing.T) {
	m := testMenu()
	m.Blurred = true
	m, cmd := m.Update(keyPress("down"))
	if m.Selected != 1 || cmd != nil {
		t.Errorf("blurred menu reacted: selected=%d cmd=%v", m.Selected, cmd != nil)
	}
}

func TestMenu_View(t *testing.T) {
	v := testMenu().View()
	if !strings.Contains(v, "▸ two") {
		t.Errorf("expected marker on selected item, got %q", v)
	}
	if strings.Count(v, "\n") != 3 {
		t.Errorf("expected one line per item")
	}
}

func TestButton(t *testing.T) {
	pressed := false
	b := NewButton("Start", true, func() tea.Cmd { pressed = true; return nil })
	b.Update(keyPress("x"))
	if pressed {
		t.Error("button pressed by non-enter key")
	}
	b.Update(keyPress("enter"))
	if !pressed {
		t.Error("expected enter to press button")
	}

	pressed = false
	b.Active = false
	b.Update(keyPress("enter"))
	if pressed {
		t.Error("inactive button pressed")
	}
}

func TestProgressBar_Width(t *testing.T) {
	for _, pct := range []float64{0, 0.5, 1, 1.5, -1} {
		bar := NewProgressBar("", pct, false, 20).View()
		if got := lipgloss.Width(bar); got != 20 {
			t.Errorf("width at %.1f = %d, want 20", pct, got)
		}
	}
}

func TestProgressBar_Percent(t *testing.T) {
	bar := NewProgressBar("Accuracy", 0.875, true, 40).View()
	if !strings.Contains(bar, "87.5%") {
		t.Errorf("expected percent label, got %q", bar)
	}
}
