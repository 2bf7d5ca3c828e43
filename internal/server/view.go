package server

import (
	"time"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/report"
	"github.com/abhisek/datadrill/internal/session"
)

type OptionView struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	MinRecords int    `json:"minRecords,omitempty"`
	MaxRecords int    `json:"maxRecords,omitempty"`
}

type FocusView struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type NavigateView struct {
	Next    FocusView `json:"next"`
	Moved   bool      `json:"moved"`
	Consume bool      `json:"consume"`
}

type ProblemView struct {
	Instructions string   `json:"instructions"`
	Fields       []string `json:"fields"`
	DisplayText  string   `json:"displayText"`
	RowCount     int      `json:"rowCount"`
}

type SessionView struct {
	ID         string              `json:"id"`
	Phase      session.Phase       `json:"phase"`
	Category   string              `json:"category,omitempty"`
	Difficulty string              `json:"difficulty,omitempty"`
	Problem    *ProblemView        `json:"problem"`
	Rows       []map[string]string `json:"rows"`
	Focus      FocusView           `json:"focus"`
	Elapsed    int                 `json:"elapsedSeconds"`
	Clock      string              `json:"clock"`
	Running    bool                `json:"running"`
	Result     *ResultView         `json:"result"`
	Error      string              `json:"error,omitempty"`
}

// ResultView is a graded result. Feedback and MistakeAnalysis are null
// while pending.
type ResultView struct {
	Accuracy        float64             `json:"accuracy"`
	Band            string              `json:"band"`
	ElapsedSeconds  int                 `json:"elapsedSeconds"`
	Duration        string              `json:"duration"`
	Errors          []grading.CellError `json:"errors"`
	TotalCells      int                 `json:"totalCells"`
	CorrectCells    int                 `json:"correctCells"`
	Timestamp       time.Time           `json:"timestamp"`
	Feedback        *string             `json:"feedback"`
	MistakeAnalysis *string             `json:"mistakeAnalysis"`
	Settled         bool                `json:"settled"`
}

func optional(text string, ok bool) *string {
	if !ok {
		return nil
	}
	return &text
}

// NewResultView renders res for JSON clients.
func NewResultView(res *grading.Result) *ResultView {
	errs := res.Errors
	if errs == nil {
		errs = []grading.CellError{}
	}
	return &ResultView{
		Accuracy:        res.Accuracy,
		Band:            report.BandFor(res.Accuracy).String(),
		ElapsedSeconds:  res.ElapsedSeconds,
		Duration:        report.FormatDuration(res.ElapsedSeconds),
		Errors:          errs,
		TotalCells:      res.TotalCells,
		CorrectCells:    res.CorrectCells,
		Timestamp:       res.Timestamp,
		Feedback:        optional(res.Feedback()),
		MistakeAnalysis: optional(res.MistakeAnalysis()),
		Settled:         res.Settled(),
	}
}

func snapshotView(s session.Snapshot) SessionView {
	v := SessionView{
		ID:         s.ID,
		Phase:      s.Phase,
		Category:   string(s.Category),
		Difficulty: string(s.Difficulty),
		Rows:       s.Rows,
		Focus:      FocusView{Row: s.Focus.Row, Col: s.Focus.Col},
		Elapsed:    s.Elapsed,
		Clock:      report.FormatClock(s.Elapsed),
		Running:    s.Running,
		Error:      s.Error,
	}
	if s.Problem != nil {
		v.Problem = &ProblemView{
			Instructions: s.Problem.Instructions,
			Fields:       s.Problem.Fields,
			DisplayText:  s.Problem.DisplayText,
			RowCount:     s.Problem.RowCount(),
		}
	}
	if s.Result != nil {
		v.Result = NewResultView(s.Result)
	}
	return v
}
