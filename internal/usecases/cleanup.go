package usecases

import (
	"context"
	"time"

	"artfolio/internal/domain/repositories"
	"artfolio/pkg/constants"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type CleanupService interface {
	// SweepOrphans deletes stored images no document references and that are
	// older than minAge, returning how many were removed.
	SweepOrphans(ctx context.Context, minAge time.Duration) (int, error)
	// DeleteQueued removes one object queued for retry, unless a document
	// references it again.
	DeleteQueued(ctx context.Context, url string) error
}

type cleanupService struct {
	portfolios repositories.PortfolioRepository
	works      repositories.WorkRepository
	storage    repositories.ObjectStorage
	log        *zap.Logger
	now        func() time.Time
}

func NewCleanupService(deps Deps) CleanupService {
	return &cleanupService{
		portfolios: deps.Portfolios,
		works:      deps.Works,
		storage:    deps.Storage,
		log:        deps.Log,
		now:        time.Now,
	}
}

func (s *cleanupService) SweepOrphans(ctx context.Context, minAge time.Duration) (int, error) {
	referenced, err := s.referencedURLs(ctx)
	if err != nil {
		return 0, err
	}

	var objects []repositories.StoredObject
	for _, prefix := range []string{constants.CoversFolder + "/", constants.PortfoliosFolder + "/"} {
		listed, err := s.storage.List(ctx, prefix)
		if err != nil {
			return 0, err
		}
		objects = append(objects, listed...)
	}

	// objects younger than minAge may belong to a write still in flight
	cutoff := s.now().Add(-minAge)
	removed := 0
	var errs error
	for _, obj := range objects {
		if referenced[obj.URL] || obj.LastModified.After(cutoff) {
			continue
		}
		if err := deleteObject(ctx, Deps{Storage: s.storage, Log: s.log}, obj.URL); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
		s.log.Info("removed orphaned object", zap.String("key", obj.Key))
	}
	return removed, errs
}

func (s *cleanupService) DeleteQueued(ctx context.Context, url string) error {
	referenced, err := s.referencedURLs(ctx)
	if err != nil {
		return err
	}
	if referenced[url] {
		s.log.Info("queued object is referenced, keeping it", zap.String("url", url))
		return nil
	}
	return deleteObject(ctx, Deps{Storage: s.storage, Log: s.log}, url)
}

func (s *cleanupService) referencedURLs(ctx context.Context) (map[string]bool, error) {
	portfolios, err := s.portfolios.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]bool)
	for _, p := range portfolios {
		refs[p.CoverImageURL] = true
		works, err := s.works.ListWorks(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for _, w := range works {
			refs[w.ImageURL] = true
			refs[w.ThumbnailURL] = true
		}
	}
	return refs, nil
}
