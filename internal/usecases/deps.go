package usecases

import (
	"context"
	"errors"

	"artfolio/internal/domain/repositories"
	"artfolio/internal/infrastructure/processor"

	"go.uber.org/zap"
)

// Deps are the collaborators shared by the admin use cases.
type Deps struct {
	Portfolios repositories.PortfolioRepository
	Works      repositories.WorkRepository
	Storage    repositories.ObjectStorage
	Compressor processor.Compressor
	// Retry is optional. When set, deletions that fail after their document
	// is gone are queued instead of only logged.
	Retry repositories.RetryQueue
	Log   *zap.Logger
}

// deleteObject removes url from storage. A missing object is logged and
// treated as already deleted.
func deleteObject(ctx context.Context, d Deps, url string) error {
	if url == "" {
		return nil
	}
	err := d.Storage.Delete(ctx, url)
	if errors.Is(err, repositories.ErrObjectNotFound) {
		d.Log.Warn("object already gone", zap.String("url", url))
		return nil
	}
	return err
}

// discard deletes objects uploaded by a write that did not complete. Failures
// are queued for retry; the orphan sweeper reclaims anything still left.
func discard(ctx context.Context, d Deps, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := deleteObject(ctx, d, url); err != nil {
			d.Log.Warn("could not discard uploaded object", zap.String("url", url), zap.Error(err))
			requeue(ctx, d, url)
		}
	}
}

func requeue(ctx context.Context, d Deps, urls ...string) {
	if d.Retry == nil {
		return
	}
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := d.Retry.EnqueueDelete(ctx, url); err != nil {
			d.Log.Warn("could not queue object deletion", zap.String("url", url), zap.Error(err))
		}
	}
}
