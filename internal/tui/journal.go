package tui

import (
	"context"
	"time"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/session"
)

// recordTimeout bounds a single journal write.
const recordTimeout = 5 * time.Second

// journalQueueSize is how many writes may be pending before record blocks.
const journalQueueSize = 64

type journalJob struct {
	what string
	fn   func(ctx context.Context, s *session.Store) error
	done chan struct{} // Closed once every earlier job has run
}

// journalWriter publishes journal events one at a time, in the order they
// were queued. Replay depends on that order: navigation is last-write-wins
// and removals refer to list indexes.
type journalWriter struct {
	ctx   context.Context
	store *session.Store
	jobs  chan journalJob
}

func newJournalWriter(ctx context.Context, store *session.Store) *journalWriter {
	w := &journalWriter{
		ctx:   ctx,
		store: store,
		jobs:  make(chan journalJob, journalQueueSize),
	}
	go w.run()
	return w
}

func (w *journalWriter) run() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.jobs:
			if job.fn != nil {
				w.publish(job)
			}
			if job.done != nil {
				close(job.done)
			}
		}
	}
}

func (w *journalWriter) publish(job journalJob) {
	ctx, cancel := context.WithTimeout(w.ctx, recordTimeout)
	defer cancel()
	if err := job.fn(ctx, w.store); err != nil {
		logger.Warn("failed to journal %s: %v", job.what, err)
	}
}

// enqueue adds a write behind all earlier ones.
func (w *journalWriter) enqueue(what string, fn func(ctx context.Context, s *session.Store) error) {
	select {
	case w.jobs <- journalJob{what: what, fn: fn}:
	case <-w.ctx.Done():
	}
}

// flush waits until every write queued so far has been published.
func (w *journalWriter) flush(ctx context.Context) error {
	done := make(chan struct{})
	select {
	case w.jobs <- journalJob{done: done}:
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ctx.Done():
		return w.ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ctx.Done():
		return w.ctx.Err()
	}
}
