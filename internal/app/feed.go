package app

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/datadrill/internal/enrich"
)

const feedBuffer = 8

// Feed carries enrichment completions from orchestrator goroutines into the
// program. Register Hook with session.WithSettleHook.
type Feed struct {
	ch chan enrich.Settled
}

func NewFeed() *Feed {
	return &Feed{ch: make(chan enrich.Settled, feedBuffer)}
}

// Hook never blocks. A completion is dropped when the buffer is full; the
// result itself is already updated, so the next redraw shows it.
func (f *Feed) Hook(s enrich.Settled) {
	select {
	case f.ch <- s:
	default:
	}
}

// wait delivers the next completion as a message.
func (f *Feed) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-f.ch:
			return s
		case <-ctx.Done():
			return nil
		}
	}
}
