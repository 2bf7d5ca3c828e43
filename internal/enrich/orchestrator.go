// Package enrich attaches model-written commentary to graded results.
package enrich

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/datadrill/internal/grading"
)

// Texts stored when a task fails, and when there is nothing to analyse.
const (
	FeedbackFailed = "AIからのフィードバックの読み込みに失敗しました。"
	AnalysisFailed = "ミスの傾向分析に失敗しました。"
	NoMistakes     = "素晴らしいです！ミスはありませんでした。この調子で頑張りましょう。"
)

// Settled reports one enrichment field landing on its result.
type Settled struct {
	Result *grading.Result
	Part   grading.Part
	Text   string
	Failed bool // Text is the failure placeholder
}

// Orchestrator runs the feedback and mistake-analysis tasks for results.
// Tasks are never retried, and each one writes only to the result it was
// started for. Close cancels whatever is still running.
type Orchestrator struct {
	collab  Collaborator
	logger  *zap.Logger
	timeout time.Duration

	// done is cancelled by Close and bounds every task.
	done     context.Context
	shutdown context.CancelFunc
	inflight sync.WaitGroup
}

type Option func(*Orchestrator)

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithTimeout bounds each task. A task that runs out of time settles with
// its placeholder.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func New(collab Collaborator, opts ...Option) *Orchestrator {
	o := &Orchestrator{collab: collab, logger: zap.NewNop()}
	o.done, o.shutdown = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run is one Enrich call.
type Run struct {
	g errgroup.Group
}

// Wait blocks until both fields of the run's result are settled.
func (r *Run) Wait() {
	_ = r.g.Wait()
}

// Enrich starts both tasks for res and returns immediately. onSettle, if
// non-nil, is called from the task goroutine after a field is written.
//
// When res has no errors the analysis is written before Enrich returns and
// only feedback is reported through onSettle.
func (o *Orchestrator) Enrich(ctx context.Context, res *grading.Result, info Info, onSettle func(Settled)) *Run {
	run := &Run{}

	o.start(run, func() {
		text, err := o.call(ctx, func(ctx context.Context) (string, error) {
			return o.collab.Feedback(ctx, res, info)
		})
		o.settle(res, grading.PartFeedback, text, err, FeedbackFailed, onSettle)
	})

	if len(res.Errors) == 0 {
		res.SetMistakeAnalysis(NoMistakes)
		return run
	}
	o.start(run, func() {
		text, err := o.call(ctx, func(ctx context.Context) (string, error) {
			return o.collab.AnalyzeMistakes(ctx, res)
		})
		o.settle(res, grading.PartMistakeAnalysis, text, err, AnalysisFailed, onSettle)
	})
	return run
}

// Wait blocks until every task started so far has settled.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// Close cancels running tasks and waits for them to settle. Cancelled
// fields get their placeholder. Tasks started after Close fail at once.
func (o *Orchestrator) Close() {
	o.shutdown()
	o.inflight.Wait()
}

func (o *Orchestrator) start(run *Run, task func()) {
	o.inflight.Add(1)
	run.g.Go(func() error {
		defer o.inflight.Done()
		task()
		// Tasks never fail each other.
		return nil
	})
}

func (o *Orchestrator) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(o.done, cancel)
	defer stop()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return fn(ctx)
}

func (o *Orchestrator) settle(res *grading.Result, part grading.Part, text string, err error, placeholder string, onSettle func(Settled)) {
	failed := err != nil
	if failed {
		text = placeholder
		o.logger.Warn("enrichment failed", zap.String("part", string(part)), zap.Error(err))
	}
	if !res.Set(part, text) {
		return
	}
	o.logger.Debug("enrichment settled", zap.String("part", string(part)), zap.Bool("failed", failed))
	if onSettle != nil {
		onSettle(Settled{Result: res, Part: part, Text: text, Failed: failed})
	}
}
