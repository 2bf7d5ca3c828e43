package report

import (
	"fmt"
	"strings"
)

// Band classifies an accuracy percentage for display.
type Band int

const (
	BandPoor Band = iota // below 80
	BandFair             // 80 up to 95
	BandGood             // 95 and above
)

func (b Band) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	}
	return "poor"
}

// BandFor returns the band of an accuracy percentage.
func BandFor(accuracy float64) Band {
	switch {
	case accuracy >= 95:
		return BandGood
	case accuracy >= 80:
		return BandFair
	}
	return BandPoor
}

// FormatClock renders seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds as "m分 s秒".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d分 %d秒", seconds/60, seconds%60)
}

// Line is one non-empty line of analysis text.
type Line struct {
	Text    string
	Heading bool
}

// AnalysisSections splits analysis text into non-blank lines. A line that
// starts and ends with "**" is a heading; its markers are removed.
func AnalysisSections(text string) []Line {
	var out []Line
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if len(l) >= 4 && strings.HasPrefix(l, "**") && strings.HasSuffix(l, "**") {
			out = append(out, Line{Text: l[2 : len(l)-2], Heading: true})
			continue
		}
		out = append(out, Line{Text: l})
	}
	return out
}
