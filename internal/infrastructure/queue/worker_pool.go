package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Source is where the pool pulls jobs from.
type Source interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)
}

type WorkerPool struct {
	JobChan chan Job
	source  Source
	log     *zap.Logger
	wg      sync.WaitGroup
	pumpWg  sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWorkerPool starts workerCount workers running handle and a pump moving
// jobs from source into them. Failed jobs go back to source.
func NewWorkerPool(workerCount int, source Source, handle Handler, log *zap.Logger) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		JobChan: make(chan Job, workerCount),
		source:  source,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workerCount; i++ {
		worker := &Worker{
			ID:      i,
			JobChan: pool.JobChan,
			Wg:      &pool.wg,
			Handle:  handle,
			Retry:   pool.retry,
			Log:     log,
		}
		pool.wg.Add(1)
		worker.Start(pool.ctx)
	}
	pool.pumpWg.Add(1)
	go pool.pump()
	return pool
}

func (p *WorkerPool) pump() {
	defer p.pumpWg.Done()
	for p.ctx.Err() == nil {
		job, err := p.source.Dequeue(p.ctx, time.Second)
		if err != nil {
			if p.ctx.Err() != nil {
				return
			}
			p.log.Warn("dequeue failed", zap.Error(err))
			select {
			case <-time.After(time.Second):
			case <-p.ctx.Done():
			}
			continue
		}
		if job == nil {
			continue
		}
		select {
		case p.JobChan <- *job:
		case <-p.ctx.Done():
			p.retry(*job)
			return
		}
	}
}

func (p *WorkerPool) retry(job Job) {
	if err := p.source.Enqueue(context.Background(), job); err != nil {
		p.log.Error("could not requeue job", zap.String("url", job.URL), zap.Error(err))
	}
}

// Shutdown stops pulling new jobs and waits for running ones.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.pumpWg.Wait()
	close(p.JobChan)
	p.wg.Wait()
}
