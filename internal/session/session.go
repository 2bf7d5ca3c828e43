// Package session drives one practice exercise from selection to results.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/datadrill/internal/enrich"
	"github.com/abhisek/datadrill/internal/grading"
	"github.com/abhisek/datadrill/internal/grid"
	"github.com/abhisek/datadrill/internal/problem"
)

// Machine is the session state machine. It owns the problem set, the user
// grid, the clock and the graded result of the current exercise.
//
// All methods are safe for concurrent use. Generation and enrichment run
// outside the lock.
type Machine struct {
	gen      problem.Generator
	orch     *enrich.Orchestrator
	clock    *Clock
	logger   *zap.Logger
	onSettle func(enrich.Settled)

	mu         sync.Mutex
	id         string
	phase      Phase
	closed     bool
	seq        uint64
	category   problem.Category
	difficulty problem.Difficulty
	problem    *problem.ProblemSet
	cells      *grid.Store
	nav        *grid.Navigator
	result     *grading.Result
	lastErr    string
}

type Option func(*Machine)

func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithClock replaces the default one-second clock.
func WithClock(c *Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithSettleHook registers fn to be called, from the enrichment goroutine,
// each time a commentary field of a submitted result settles.
func WithSettleHook(fn func(enrich.Settled)) Option {
	return func(m *Machine) { m.onSettle = fn }
}

// New returns a machine in the selecting phase. orch may be nil, in which
// case results are never enriched.
func New(gen problem.Generator, orch *enrich.Orchestrator, opts ...Option) *Machine {
	m := &Machine{
		gen:    gen,
		orch:   orch,
		logger: zap.NewNop(),
		id:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.clock == nil {
		m.clock = NewClock(DefaultTick)
	}
	return m
}

// ID returns the current session ID.
func (m *Machine) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Elapsed returns the clock reading in seconds.
func (m *Machine) Elapsed() int {
	return m.clock.Elapsed()
}

// Running reports whether the clock is ticking.
func (m *Machine) Running() bool {
	return m.clock.Running()
}

func (m *Machine) transition(to Phase) {
	m.logger.Debug("session transition",
		zap.String("session_id", m.id),
		zap.Stringer("from", m.phase),
		zap.Stringer("to", to))
	m.phase = to
}

// check returns an error unless the machine is open and in one of phases.
func (m *Machine) check(op string, phases ...Phase) error {
	if m.closed {
		return ErrClosed
	}
	for _, p := range phases {
		if m.phase == p {
			return nil
		}
	}
	return invalid(op, m.phase)
}

// Select records the category and difficulty for the next generation.
func (m *Machine) Select(c problem.Category, d problem.Difficulty) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("select", PhaseSelecting); err != nil {
		return err
	}
	if !c.Valid() {
		return errors.New("unknown category " + string(c))
	}
	if !d.Valid() {
		return errors.New("unknown difficulty " + string(d))
	}
	m.category, m.difficulty = c, d
	return nil
}

// BeginGeneration moves to generating and returns the ticket that
// CompleteGeneration must present. A selection is required.
func (m *Machine) BeginGeneration() (Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("generate", PhaseSelecting); err != nil {
		return Ticket{}, err
	}
	if m.category == "" || m.difficulty == "" {
		return Ticket{}, invalid("generate without a selection", m.phase)
	}
	m.seq++
	m.lastErr = ""
	m.transition(PhaseGenerating)
	return Ticket{seq: m.seq, Category: m.category, Difficulty: m.difficulty}, nil
}

// CompleteGeneration applies the outcome of the generation behind t.
//
// On success the machine moves to typing with an empty grid. On failure, or
// when set is incomplete, it returns to selecting and the returned error
// matches problem.ErrGenerationFailed. A ticket from before a reset yields
// ErrStaleTicket and changes nothing.
func (m *Machine) CompleteGeneration(t Ticket, set *problem.ProblemSet, genErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if t.seq != m.seq || m.phase != PhaseGenerating {
		m.logger.Debug("discarding stale generation", zap.String("session_id", m.id))
		return ErrStaleTicket
	}

	if genErr == nil {
		if set == nil {
			genErr = errors.New("no problem set")
		} else if verr := (&problem.StructuralValidator{}).Validate(set); verr != nil {
			genErr = verr
		}
	}
	if genErr != nil {
		if !errors.Is(genErr, problem.ErrGenerationFailed) {
			genErr = &problem.GenerationError{Err: genErr}
		}
		m.logger.Warn("generation failed",
			zap.String("session_id", m.id),
			zap.String("category", string(t.Category)),
			zap.String("difficulty", string(t.Difficulty)),
			zap.Error(errors.Unwrap(genErr)))
		m.lastErr = problem.GenerationFailedMessage
		m.transition(PhaseSelecting)
		return genErr
	}

	m.problem = set
	m.cells = grid.NewStore(set.Fields, set.RowCount())
	m.nav = grid.NewNavigator(m.cells.Shape())
	m.clock.Reset()
	m.transition(PhaseTyping)
	return nil
}

// Generate runs a whole generation with the configured generator.
func (m *Machine) Generate(ctx context.Context) error {
	t, err := m.BeginGeneration()
	if err != nil {
		return err
	}
	return m.RunGeneration(ctx, t)
}

// RunGeneration asks the configured generator for the problem behind t and
// completes it. It blocks for the duration of the request.
func (m *Machine) RunGeneration(ctx context.Context, t Ticket) error {
	set, genErr := m.gen.Generate(ctx, t.Category, t.Difficulty)
	return m.CompleteGeneration(t, set, genErr)
}

// Start begins the clock. Editing and submitting are possible only after
// Start.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("start", PhaseTyping); err != nil {
		return err
	}
	if m.clock.Running() {
		return invalid("start while running", m.phase)
	}
	m.clock.Start()
	m.logger.Debug("clock started", zap.String("session_id", m.id))
	return nil
}

func (m *Machine) editable(op string) error {
	if err := m.check(op, PhaseTyping); err != nil {
		return err
	}
	if !m.clock.Running() {
		return ErrClockStopped
	}
	return nil
}

// SetCell writes value into the cell at (row, field).
func (m *Machine) SetCell(row int, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.editable("edit"); err != nil {
		return err
	}
	return m.cells.Set(row, field, value)
}

// SetCellAt writes value into the cell at (row, col).
func (m *Machine) SetCellAt(row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.editable("edit"); err != nil {
		return err
	}
	return m.cells.SetAt(row, col, value)
}

// Cell returns the value at (row, col), or "" when there is no grid.
func (m *Machine) Cell(row, col int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cells == nil {
		return ""
	}
	return m.cells.At(row, col)
}

// Navigate resolves a navigation key against the focused cell, whose caret
// sits at pos within text of the given rune length.
func (m *Machine) Navigate(key grid.Key, pos, length int) (grid.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("navigate", PhaseTyping); err != nil {
		return grid.Outcome{}, err
	}
	return m.nav.Handle(key, pos, length), nil
}

// FocusCell moves focus directly. It reports false for cells outside the
// grid.
func (m *Machine) FocusCell(f grid.Focus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("focus", PhaseTyping); err != nil {
		return false, err
	}
	return m.nav.FocusCell(f), nil
}

// SetComposing marks input-method composition in the focused cell. While
// set, Navigate never moves focus.
func (m *Machine) SetComposing(v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check("compose", PhaseTyping); err != nil {
		return err
	}
	m.nav.SetComposing(v)
	return nil
}

// Submit stops the clock, grades the grid and moves to results. Enrichment
// of the new result starts before Submit returns and is not tied to ctx's
// cancellation.
func (m *Machine) Submit(ctx context.Context) (*grading.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.editable("submit"); err != nil {
		return nil, err
	}
	m.clock.Stop()
	elapsed := m.clock.Elapsed()

	res := grading.Grade(m.problem.Records, m.problem.Fields, m.cells.Rows(), elapsed)
	m.result = res
	m.transition(PhaseResults)
	m.logger.Debug("graded",
		zap.String("session_id", m.id),
		zap.Float64("accuracy", res.Accuracy),
		zap.Int("errors", len(res.Errors)),
		zap.Int("elapsed_seconds", elapsed))

	if m.orch != nil {
		info := enrich.Info{Category: m.category, Difficulty: m.difficulty}
		m.orch.Enrich(context.WithoutCancel(ctx), res, info, m.onSettle)
	}
	return res, nil
}

// Result returns the graded result, or nil before submit.
func (m *Machine) Result() *grading.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Reset returns to selecting, dropping the selection, problem, grid, clock
// reading, result and error together. A generation still in
// flight becomes stale; enrichment still in flight keeps writing only to
// the dropped result.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock.Reset()
	m.category, m.difficulty = "", ""
	m.problem = nil
	m.cells = nil
	m.nav = nil
	m.result = nil
	m.lastErr = ""
	m.seq++
	if m.phase != PhaseSelecting {
		m.transition(PhaseSelecting)
	}
	m.id = uuid.NewString()
}

// Close stops the clock. Later operations return ErrClosed.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clock.Stop()
	m.closed = true
}

// Snapshot copies the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		ID:         m.id,
		Phase:      m.phase,
		Category:   m.category,
		Difficulty: m.difficulty,
		Problem:    m.problem,
		Elapsed:    m.clock.Elapsed(),
		Running:    m.clock.Running(),
		Result:     m.result,
		Error:      m.lastErr,
	}
	if m.cells != nil {
		s.Rows = m.cells.Rows()
	}
	if m.nav != nil {
		s.Focus = m.nav.Focus()
	}
	return s
}
