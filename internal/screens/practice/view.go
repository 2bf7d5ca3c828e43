package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/datadrill/internal/ui/theme"
)

const (
	minCellWidth = 6
	maxCellWidth = 24
	rowNumWidth  = 4

	// sideBySideWidth is the narrowest terminal that shows source and grid
	// next to each other.
	sideBySideWidth = 110
)

func (s *PracticeScreen) View(width, height int) string {
	if s.set == nil {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No problem loaded.")
	}

	inner := max(width-4, 20)
	instructions := lipgloss.NewStyle().
		Width(inner).
		Foreground(theme.Text).
		Render(s.set.Instructions)

	side := s.showSource && width >= sideBySideWidth
	gridWidth := inner
	source := ""
	if s.showSource {
		sw := inner
		if side {
			sw = inner / 3
			gridWidth = inner - sw - 2
		}
		source = s.renderSource(sw, max(height/3, 5), side, height)
	}

	cw := cellWidth(gridWidth, len(s.set.Fields))
	s.resize(cw)

	status := s.renderStatus(inner)
	used := lipgloss.Height(instructions) + 1 + lipgloss.Height(status) + 2
	if s.showSource && !side {
		used += lipgloss.Height(source) + 1
	}
	visible := max(height-used, 1)
	s.scrollTo(visible)
	table := s.renderGrid(cw, visible)

	var body string
	switch {
	case side:
		body = lipgloss.JoinHorizontal(lipgloss.Top, source, "  ", table)
	case s.showSource:
		body = source + "\n" + table
	default:
		body = table
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(
		instructions + "\n\n" + body + "\n" + status)
}

func (s *PracticeScreen) renderSource(width, maxLines int, side bool, height int) string {
	if side {
		maxLines = max(height-6, 5)
	}
	lines := strings.Split(s.set.DisplayText, "\n")
	if len(lines) > maxLines {
		hidden := len(lines) - maxLines + 1
		lines = append(lines[:maxLines-1], fmt.Sprintf("… %d more (Ctrl+Y to copy)", hidden))
	}
	title := theme.Heading.Render("入力元データ (Source)")
	return theme.Card.
		Width(width).
		Render(title + "\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(lines, "\n")))
}

// cellWidth splits width evenly across cols, within sane bounds.
func cellWidth(width, cols int) int {
	if cols <= 0 {
		return maxCellWidth
	}
	w := (width-rowNumWidth)/cols - 2 // cell padding
	return min(max(w, minCellWidth), maxCellWidth)
}

// scrollTo keeps the focused row inside a window of visible rows.
func (s *PracticeScreen) scrollTo(visible int) {
	if s.focus.Row < s.offset {
		s.offset = s.focus.Row
	}
	if s.focus.Row >= s.offset+visible {
		s.offset = s.focus.Row - visible + 1
	}
	s.offset = max(0, min(s.offset, len(s.inputs)-visible))
}

func (s *PracticeScreen) renderGrid(cw, visible int) string {
	running := s.machine.Running()
	cell := func(style lipgloss.Style) lipgloss.Style {
		return style.Width(cw + 2).MaxWidth(cw + 2)
	}

	header := []string{theme.RowNumber.Width(rowNumWidth).Render("#")}
	for _, f := range s.set.Fields {
		header = append(header, cell(theme.ColumnHeader).Render(f))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	end := min(s.offset+visible, len(s.inputs))
	for r := s.offset; r < end; r++ {
		row := []string{theme.RowNumber.Width(rowNumWidth).Render(fmt.Sprintf("%d", r+1))}
		for c := range s.inputs[r] {
			style := cell(theme.Cell)
			if running && r == s.focus.Row && c == s.focus.Col {
				style = cell(theme.CellFocused)
			}
			row = append(row, style.Render(s.inputs[r][c].View()))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	if s.offset > 0 || end < len(s.inputs) {
		lines = append(lines, theme.Hint.Render(
			fmt.Sprintf("rows %d-%d of %d", s.offset+1, end, len(s.inputs))))
	}
	return strings.Join(lines, "\n")
}

func (s *PracticeScreen) renderStatus(width int) string {
	var parts []string
	if !s.machine.Running() {
		parts = append(parts, s.start.View()+"  "+
			theme.Hint.Render("Enter / Ctrl+S でタイマーを開始して入力を始めます"))
	}
	if s.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	if s.errMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(parts, "\n"))
}
