// Package app assembles the infrastructure selected by configuration into the
// collaborators the server and the worker share.
package app

import (
	"context"
	"fmt"

	"artfolio/internal/auth"
	"artfolio/internal/domain/repositories"
	"artfolio/internal/infrastructure/db"
	"artfolio/internal/infrastructure/processor"
	"artfolio/internal/infrastructure/queue"
	infra_repo "artfolio/internal/infrastructure/repositories"
	"artfolio/internal/infrastructure/storage"
	"artfolio/internal/usecases"
	"artfolio/pkg/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const memoryQueueSize = 256

type Stack struct {
	Deps     usecases.Deps
	Sessions auth.SessionStore
	// Queue carries object deletions to retry. It is shared between
	// processes only when Shared is true (redis); otherwise the process that
	// built the stack has to consume it.
	Queue   queue.Source
	Shared  bool
	closers []func() error
}

func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stack, error) {
	s := &Stack{}
	s.Deps.Log = log
	s.Deps.Compressor = processor.NewImageCompressor()

	if err := s.openRepositories(cfg, log); err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	store, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	s.Deps.Storage = store

	if err := s.openRedis(ctx, cfg.Redis, log); err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	return s, nil
}

func (s *Stack) openRepositories(cfg *config.Config, log *zap.Logger) error {
	if cfg.Database.Driver == "memory" {
		repo := infra_repo.NewInMemoryRepository()
		s.Deps.Portfolios, s.Deps.Works = repo, repo
		log.Warn("using in-memory document store, data is lost on restart")
		return nil
	}

	database, err := db.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("sql.DB: %w", err)
	}
	s.closers = append(s.closers, sqlDB.Close)

	if cfg.Database.AutoMigration {
		if err := db.Migrate(database, cfg.Database.Driver); err != nil {
			return err
		}
		log.Info("database migrated", zap.String("driver", cfg.Database.Driver))
	}
	s.Deps.Portfolios = infra_repo.NewPortfolioRepository(database)
	s.Deps.Works = infra_repo.NewWorkRepository(database)
	return nil
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (repositories.ObjectStorage, error) {
	switch cfg.Driver {
	case "local":
		return storage.NewLocalStorage(cfg.LocalDir, cfg.PublicURL), nil
	case "s3":
		return storage.NewS3Storage(ctx, cfg.Bucket, cfg.Region, cfg.Endpoint, cfg.PublicURL)
	case "memory":
		return storage.NewMemoryStorage(cfg.PublicURL), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}

// openRedis backs sessions and the retry queue with redis when configured,
// and with process memory otherwise.
func (s *Stack) openRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) error {
	if !cfg.Enabled() {
		s.Sessions = auth.NewMemorySessionStore()
		mq := queue.NewMemoryQueue(memoryQueueSize)
		s.Queue, s.Deps.Retry = mq, mq
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis %s: %w", cfg.Addr(), err)
	}
	s.closers = append(s.closers, rdb.Close)
	s.Sessions = auth.NewRedisSessionStore(rdb)
	rq := queue.NewRedisQueue(rdb, queue.DefaultKey)
	s.Queue, s.Deps.Retry, s.Shared = rq, rq, true
	log.Info("sessions and retry queue stored in redis", zap.String("addr", cfg.Addr()))
	return nil
}

// Close releases every connection Build opened.
func (s *Stack) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i]())
	}
	s.closers = nil
	return err
}

// StartRetryPool consumes the retry queue with cleanupUC until Shutdown.
func (s *Stack) StartRetryPool(workers int, cleanupUC usecases.CleanupService) *queue.WorkerPool {
	return queue.NewWorkerPool(workers, s.Queue, func(ctx context.Context, job queue.Job) error {
		switch job.Type {
		case queue.JobDeleteObject:
			return cleanupUC.DeleteQueued(ctx, job.URL)
		}
		s.Deps.Log.Warn("unknown job type", zap.String("type", string(job.Type)))
		return nil
	}, s.Deps.Log)
}
