package queue

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler processes one job. A returned error makes the pool retry the job.
type Handler func(ctx context.Context, job Job) error

type Worker struct {
	ID      int        // worker id
	JobChan <-chan Job // job queue
	Wg      *sync.WaitGroup
	Handle  Handler
	Retry   func(job Job)
	Log     *zap.Logger
}

// Start runs the worker until JobChan is closed. Jobs still buffered when ctx
// is cancelled are handled with the cancelled ctx, so failures go back to the
// source instead of being lost.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for job := range w.JobChan {
			w.processJob(ctx, job)
		}
		w.Log.Debug("worker stopping", zap.Int("worker", w.ID))
	}()
}

func (w *Worker) processJob(ctx context.Context, job Job) {
	err := w.Handle(ctx, job)
	if err == nil {
		w.Log.Info("job done", zap.Int("worker", w.ID), zap.String("type", string(job.Type)), zap.String("url", job.URL))
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAttempts || w.Retry == nil {
		w.Log.Error("job dropped", zap.String("url", job.URL), zap.Int("attempts", job.Attempts), zap.Error(err))
		return
	}
	w.Log.Warn("job failed, retrying", zap.String("url", job.URL), zap.Int("attempts", job.Attempts), zap.Error(err))
	w.Retry(job)
}
