package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/grid"
	"github.com/abhisek/datadrill/internal/problem"
)

// Phase is the current phase of a practice session.
type Phase int

const (
	PhaseSelecting  Phase = iota // Choosing category and difficulty
	PhaseGenerating              // Waiting for a problem set
	PhaseTyping                  // Problem loaded, grid editable once started
	PhaseResults                 // Graded; commentary may still be arriving
)

var phaseNames = [...]string{"selecting", "generating", "typing", "results"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

var (
	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrClockStopped is returned when the grid is edited or submitted
	// before the clock has been started.
	ErrClockStopped = errors.New("clock is not running")

	// ErrStaleTicket is returned when a generation finishes after the
	// session it was started for has moved on. Callers drop it silently.
	ErrStaleTicket = errors.New("stale generation")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("session closed")
)

func invalid(op string, p Phase) error {
	return fmt.Errorf("%w: %s during %s", ErrInvalidTransition, op, p)
}

// Ticket identifies one generation request.
type Ticket struct {
	seq        uint64
	Category   problem.Category
	Difficulty problem.Difficulty
}

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	// ID changes on every reset.
	ID string

	Phase Phase

	// Category and Difficulty are the current selection. Zero until Select.
	Category   problem.Category
	Difficulty problem.Difficulty

	// Problem is the loaded problem set (nil outside typing and results).
	Problem *problem.ProblemSet

	// Rows is a copy of the user grid, one map per row.
	Rows []map[string]string

	// Focus is the focused cell while typing.
	Focus grid.Focus

	// Elapsed is the clock reading in seconds.
	Elapsed int

	// Running is true while the clock ticks.
	Running bool

	// Result is the graded result. Its commentary fields may still fill in
	// after the snapshot is taken.
	Result *grading.Result

	// Error is the message of the last generation failure, cleared by the
	// next generation or a reset.
	Error string
}
