package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"artfolio/internal/auth"
	"artfolio/internal/infrastructure/queue"
	infra_repo "artfolio/internal/infrastructure/repositories"
	"artfolio/internal/infrastructure/storage"
	"artfolio/internal/usecases"
	"artfolio/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Driver = "memory"
	cfg.Storage.Driver = "memory"
	cfg.Redis.Host = ""
	return cfg
}

func TestBuild_MemoryDrivers(t *testing.T) {
	s, err := Build(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &infra_repo.InMemoryRepository{}, s.Deps.Portfolios)
	assert.IsType(t, &storage.MemoryStorage{}, s.Deps.Storage)
	assert.IsType(t, &auth.MemorySessionStore{}, s.Sessions)
	assert.NotNil(t, s.Deps.Compressor)
	assert.IsType(t, &queue.MemoryQueue{}, s.Queue)
	assert.Same(t, s.Queue, s.Deps.Retry)
	assert.False(t, s.Shared)
}

func TestBuild_LocalStorage(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "local"
	cfg.Storage.LocalDir = t.TempDir()

	s, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &storage.LocalStorage{}, s.Deps.Storage)
}

func TestBuild_UnknownDrivers(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.Driver = "ftp"
	_, err := Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "ftp")

	cfg = memoryConfig()
	cfg.Database.Driver = "oracle"
	_, err = Build(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "oracle")
}

func TestStartRetryPool_DeletesQueuedObjects(t *testing.T) {
	s, err := Build(context.Background(), memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	url, err := s.Deps.Storage.Upload(ctx, "covers/gone/orphan.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)

	pool := s.StartRetryPool(1, usecases.NewCleanupService(s.Deps))
	require.NoError(t, s.Deps.Retry.EnqueueDelete(ctx, url))

	store := s.Deps.Storage.(*storage.MemoryStorage)
	assert.Eventually(t, func() bool { return store.Len() == 0 }, 5*time.Second, 10*time.Millisecond)
	pool.Shutdown()
}
