package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/report"
	"github.com/abhisek/datadrill/internal/ui/components"
	"github.com/abhisek/datadrill/internal/ui/theme"
)

func (s *ResultsScreen) View(width, height int) string {
	res := s.result
	inner := max(min(width-6, 100), 20)

	var b strings.Builder

	band := report.BandFor(res.Accuracy)
	b.WriteString(theme.Title.Width(inner).Render("採点結果 (Results)"))
	b.WriteString("\n\n")

	accuracy := lipgloss.NewStyle().
		Foreground(theme.BandColor(band)).
		Bold(true).
		Render(fmt.Sprintf("%.2f%%", res.Accuracy))
	b.WriteString(fmt.Sprintf("正答率 %s  (%d / %d)    入力時間 %s    ミスした箇所 %d件\n",
		accuracy, res.CorrectCells, res.TotalCells,
		report.FormatDuration(res.ElapsedSeconds), len(res.Errors)))

	bar := components.NewProgressBar("", res.Accuracy/100, false, inner)
	bar.Fill = theme.BandColor(band)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Heading.Render("AIからのフィードバック"))
	b.WriteString("\n")
	if text, ok := res.Feedback(); ok {
		b.WriteString(lipgloss.NewStyle().Width(inner).Foreground(theme.Text).Render(text))
	} else {
		b.WriteString(s.pending("フィードバックを生成中..."))
	}
	b.WriteString("\n\n")

	if len(res.Errors) > 0 {
		b.WriteString(theme.Heading.Render("ケアレスミス分析"))
		b.WriteString("\n")
		if text, ok := res.MistakeAnalysis(); ok {
			b.WriteString(s.renderAnalysis(text, inner))
		} else {
			b.WriteString(s.pending("ミスの傾向を分析中..."))
		}
		b.WriteString("\n\n")

		b.WriteString(theme.Heading.Render("ミスの詳細"))
		b.WriteString("\n")
		b.WriteString(renderErrors(res.Errors, inner))
		b.WriteString("\n")
	} else {
		b.WriteString(theme.Correct.Render("全問正解です！"))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	lines := strings.Split(b.String(), "\n")
	s.scroll = max(0, min(s.scroll, len(lines)-height))
	lines = lines[s.scroll:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n")))
}

func (s *ResultsScreen) pending(label string) string {
	return s.spinner.View() + " " + theme.Hint.Render(label)
}

// renderAnalysis renders analysis text with its "**...**" lines as
// headings, through glamour when possible.
func (s *ResultsScreen) renderAnalysis(text string, width int) string {
	if s.analysis != "" && s.analysisWidth == width {
		return s.analysis
	}
	sections := report.AnalysisSections(text)

	var md strings.Builder
	for _, l := range sections {
		if l.Heading {
			md.WriteString("### " + l.Text + "\n\n")
		} else {
			md.WriteString(l.Text + "\n\n")
		}
	}

	out := ""
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		out, err = r.Render(md.String())
	}
	if err != nil {
		out = plainAnalysis(sections, width)
	}
	s.analysis = strings.Trim(out, "\n")
	s.analysisWidth = width
	return s.analysis
}

func plainAnalysis(sections []report.Line, width int) string {
	var b strings.Builder
	for i, l := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		if l.Heading {
			b.WriteString(theme.Heading.Render(l.Text))
		} else {
			b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(l.Text))
		}
	}
	return b.String()
}

func renderErrors(errs []grading.CellError, width int) string {
	head := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true)
	lines := []string{head.Render(fmt.Sprintf("%-4s %-16s %-20s %s", "行", "項目", "入力", "正解"))}
	for _, e := range errs {
		user := e.UserValue
		if user == "" {
			user = `""`
		}
		line := fmt.Sprintf("%-4d %-16s %s %s",
			e.Row+1, e.Field,
			theme.Incorrect.Render(fmt.Sprintf("%-20s", user)),
			theme.Correct.Render(e.CorrectValue))
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width).Render(line))
	}
	return strings.Join(lines, "\n")
}
