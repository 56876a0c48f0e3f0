package usecases

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"artfolio/internal/domain/entities"
	"artfolio/internal/forms"
	"artfolio/internal/infrastructure/processor"
	memrepo "artfolio/internal/infrastructure/repositories"
	"artfolio/internal/infrastructure/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const mediaURL = "http://media.test"

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A rest of image")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubCompressor tags the input with the quality instead of decoding it.
type stubCompressor struct{}

func (stubCompressor) Compress(src []byte, q processor.Quality) ([]byte, error) {
	if string(src) == "not an image" {
		return nil, errors.New("decode: unknown format")
	}
	return append([]byte(string(q)+":"), src...), nil
}

// flakyStorage fails deletes for any URL containing failOn.
type flakyStorage struct {
	*storage.MemoryStorage
	failOn string
}

func (f *flakyStorage) Delete(ctx context.Context, url string) error {
	if f.failOn != "" && strings.Contains(url, f.failOn) {
		return errors.New("storage unavailable")
	}
	return f.MemoryStorage.Delete(ctx, url)
}

// flakyWorks fails document deletes for one work id and creates when failCreate is set.
type flakyWorks struct {
	*memrepo.InMemoryRepository
	failDelete string
	failCreate bool
}

func (f *flakyWorks) DeleteWork(ctx context.Context, portfolioID, id string) error {
	if id == f.failDelete {
		return errors.New("database unavailable")
	}
	return f.InMemoryRepository.DeleteWork(ctx, portfolioID, id)
}

func (f *flakyWorks) CreateWork(ctx context.Context, w *entities.Work) error {
	if f.failCreate {
		return errors.New("database unavailable")
	}
	return f.InMemoryRepository.CreateWork(ctx, w)
}

type fixture struct {
	repo  *memrepo.InMemoryRepository
	works *flakyWorks
	store *flakyStorage
	deps  Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memrepo.NewInMemoryRepository()
	f := &fixture{
		repo:  repo,
		works: &flakyWorks{InMemoryRepository: repo},
		store: &flakyStorage{MemoryStorage: storage.NewMemoryStorage(mediaURL)},
	}
	f.deps = Deps{
		Portfolios: repo,
		Works:      f.works,
		Storage:    f.store,
		Compressor: stubCompressor{},
		Log:        zap.NewNop(),
	}
	return f
}

// seedPortfolio stores a portfolio with a cover object.
func (f *fixture) seedPortfolio(t *testing.T, id, title string, params ...string) *entities.Portfolio {
	t.Helper()
	ctx := context.Background()
	coverURL, err := f.store.Upload(ctx, "covers/"+id+"/cover.jpg", strings.NewReader("cover"), "image/jpeg")
	require.NoError(t, err)
	p := &entities.Portfolio{
		ID:            id,
		Title:         title,
		CoverImageURL: coverURL,
		Parameters:    datatypes.NewJSONType(params),
	}
	require.NoError(t, f.repo.CreatePortfolio(ctx, p))
	return p
}

func newImage() *forms.Upload {
	return &forms.Upload{Filename: "work.png", ContentType: "image/png", Data: pngHeader}
}

type recordingQueue struct {
	mu   sync.Mutex
	urls []string
}

func (q *recordingQueue) EnqueueDelete(_ context.Context, url string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.urls = append(q.urls, url)
	return nil
}

func (q *recordingQueue) queued() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.urls...)
}
