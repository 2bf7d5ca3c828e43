package grading

import (
	"sync"
	"time"
)

// CellError is one mismatching cell. Values are the raw, untrimmed text.
type CellError struct {
	Row          int    `json:"rowIndex"`
	Col          int    `json:"colIndex"`
	Field        string `json:"field"`
	UserValue    string `json:"userValue"`
	CorrectValue string `json:"correctValue"`
}

// Part names one of the two enrichment fields of a Result.
type Part string

const (
	PartFeedback        Part = "feedback"
	PartMistakeAnalysis Part = "mistake_analysis"
)

// Result is the outcome of grading one submission.
//
// The scored fields are fixed at creation. Feedback and MistakeAnalysis
// start absent and are each filled at most once, possibly from another
// goroutine, so a holder of the pointer sees them appear in place.
type Result struct {
	Accuracy       float64
	ElapsedSeconds int
	Errors         []CellError
	TotalCells     int
	CorrectCells   int
	Timestamp      time.Time

	mu              sync.RWMutex
	feedback        *string
	mistakeAnalysis *string
}

// Feedback returns the feedback text and whether it has settled.
func (r *Result) Feedback() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.feedback == nil {
		return "", false
	}
	return *r.feedback, true
}

// MistakeAnalysis returns the analysis text and whether it has settled.
func (r *Result) MistakeAnalysis() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.mistakeAnalysis == nil {
		return "", false
	}
	return *r.mistakeAnalysis, true
}

// SetFeedback fills the feedback field. Only the first call has effect;
// it reports whether this call was the one that set it.
func (r *Result) SetFeedback(text string) bool {
	return r.set(&r.feedback, text)
}

// SetMistakeAnalysis fills the analysis field. Only the first call has
// effect; it reports whether this call was the one that set it.
func (r *Result) SetMistakeAnalysis(text string) bool {
	return r.set(&r.mistakeAnalysis, text)
}

// Set fills the field named by p.
func (r *Result) Set(p Part, text string) bool {
	switch p {
	case PartFeedback:
		return r.SetFeedback(text)
	case PartMistakeAnalysis:
		return r.SetMistakeAnalysis(text)
	}
	return false
}

// Get reads the field named by p.
func (r *Result) Get(p Part) (string, bool) {
	switch p {
	case PartFeedback:
		return r.Feedback()
	case PartMistakeAnalysis:
		return r.MistakeAnalysis()
	}
	return "", false
}

// Settled reports whether both enrichment fields are present.
func (r *Result) Settled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.feedback != nil && r.mistakeAnalysis != nil
}

func (r *Result) set(slot **string, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if *slot != nil {
		return false
	}
	*slot = &text
	return true
}
