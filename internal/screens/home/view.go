package home

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/datadrill/internal/ui/layout"
	"github.com/abhisek/datadrill/internal/ui/theme"
)

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 40), 96)
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := contentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("データ入力 練習ドリル"))

	if !compact {
		guide := theme.Hint.Render(guideIntro) + "\n" +
			lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(guideSteps, "\n"))
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(guide))
	}

	half := (cw - 2) / 2
	menus := lipgloss.JoinHorizontal(lipgloss.Top,
		renderMenuCard("業務の種類", h.categories.View(), !h.categories.Blurred, half),
		"  ",
		renderMenuCard("難易度", h.difficulties.View(), !h.difficulties.Blurred, half),
	)
	sections = append(sections, menus)

	c, d := h.selection()
	help := lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(
		c.Label() + ": " + categoryHelp[c] + "\n" + d.Label() + ": " + difficultyHelp[d])
	sections = append(sections, help)

	switch {
	case h.generating:
		sections = append(sections, h.spinner.View()+" "+
			lipgloss.NewStyle().Foreground(theme.Accent).Render("AIが問題を作成しています..."))
	case h.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).Foreground(theme.Error).Bold(true).Render(h.errMsg))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderMenuCard(title, body string, focused bool, width int) string {
	border := theme.Border
	if focused {
		border = theme.Primary
	}
	return theme.Card.
		BorderForeground(border).
		Width(width).
		Render(theme.Heading.Render(title) + "\n" + strings.TrimRight(body, "\n"))
}
