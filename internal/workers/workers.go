package workers

import (
	"context"
	"time"

	"github.com/ldapmirror/ldapmirror/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates the given workers into a single runnable unit.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}

// PollWorker drives a [Poller] until it stops or fails. Run blocks for
// the lifetime of the session; the session's own RequestStop is the way
// to end it.
type PollWorker struct {
	poller  Poller
	timeout time.Duration
	log     *logger.Logger

	err error
}

// NewPollWorker constructs a [PollWorker] polling with the given
// per-call timeout. A zero timeout blocks each poll until a record
// arrives, which is only sensible for cancel-driven shutdown.
func NewPollWorker(p Poller, timeout time.Duration, log *logger.Logger) *PollWorker {
	return &PollWorker{poller: p, timeout: timeout, log: log}
}

func (w *PollWorker) Run() {
	ctx := context.Background()
	for {
		active, err := w.poller.Poll(ctx, w.timeout)
		if err != nil {
			w.err = err
			w.log.Err(err).Str("func", "PollWorker.Run").Msg("poll loop ended")
			return
		}
		if !active {
			w.log.Info().Str("func", "PollWorker.Run").Msg("session stopped")
			return
		}
	}
}

// Err reports the error that ended the loop, if any. Valid after Run
// returns.
func (w *PollWorker) Err() error {
	return w.err
}
