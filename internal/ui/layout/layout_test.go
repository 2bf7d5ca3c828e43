package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{120, 40, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestContentHeight(t *testing.T) {
	if got := ContentHeight(30); got != 24 {
		t.Errorf("ContentHeight(30) = %d, want 24", got)
	}
	if got := ContentHeight(4); got != 0 {
		t.Errorf("ContentHeight(4) = %d, want 0", got)
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Practice", "01:05", 100)
	if !strings.Contains(h, "DataDrill") {
		t.Error("expected app name in header")
	}
	if !strings.Contains(h, "Practice") {
		t.Error("expected title in header")
	}
	if !strings.Contains(h, "01:05") {
		t.Error("expected status in header")
	}
	if lipgloss.Height(h) != HeaderHeight {
		t.Errorf("header height = %d, want %d", lipgloss.Height(h), HeaderHeight)
	}
}

func TestRenderHeader_NoStatus(t *testing.T) {
	h := RenderHeader("Select", "", 100)
	if strings.Contains(h, "⏱") {
		t.Error("expected no clock without status")
	}
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Select"}, {Key: "Esc", Description: "Back"}}, 100)
	for _, want := range []string{"Enter", "Select", "Esc", "Back"} {
		if !strings.Contains(f, want) {
			t.Errorf("expected %q in footer", want)
		}
	}
}

func TestRenderFrame_Height(t *testing.T) {
	header := RenderHeader("t", "", 80)
	footer := RenderFooter(nil, 80)
	frame := RenderFrame(header, "body", footer, 80, 24)
	if got := lipgloss.Height(frame); got != 24 {
		t.Errorf("frame height = %d, want 24", got)
	}
}

func TestRenderMinSizeMessage(t *testing.T) {
	msg := RenderMinSizeMessage(60, 20)
	has := func(want string) {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message", want)
		}
	}
	has("Terminal too small!")
	has("80 x 24")
	has("Current: 60 x 20")
	if got := lipgloss.Height(msg); got != 20 {
		t.Errorf("message height = %d, want 20", got)
	}
}

func TestCompactThresholds(t *testing.T) {
	if !IsCompactWidth(99) || IsCompactWidth(100) {
		t.Error("compact width threshold should be 100")
	}
	if !IsCompactHeight(29) || IsCompactHeight(30) {
		t.Error("compact height threshold should be 30")
	}
}
