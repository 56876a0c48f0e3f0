package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"artfolio/internal/domain/entities"
	"artfolio/internal/domain/repositories"

	"gorm.io/datatypes"
)

// InMemoryRepository implements both PortfolioRepository and WorkRepository
// on plain maps. It backs the dev profile (DB_DRIVER=memory) and tests.
type InMemoryRepository struct {
	mu         sync.RWMutex
	portfolios map[string]*entities.Portfolio
	works      map[string]map[string]*entities.Work // portfolioID -> workID -> work
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		portfolios: make(map[string]*entities.Portfolio),
		works:      make(map[string]map[string]*entities.Work),
	}
}

func (r *InMemoryRepository) ListPortfolios(_ context.Context) ([]entities.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Portfolio, 0, len(r.portfolios))
	for _, p := range r.portfolios {
		result = append(result, clonePortfolio(p))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (r *InMemoryRepository) GetPortfolio(_ context.Context, id string) (*entities.Portfolio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.portfolios[id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	c := clonePortfolio(p)
	return &c, nil
}

func (r *InMemoryRepository) CreatePortfolio(_ context.Context, p *entities.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.portfolios[p.ID]; exists {
		return repositories.ErrDuplicateKey
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	c := clonePortfolio(p)
	r.portfolios[p.ID] = &c
	return nil
}

func (r *InMemoryRepository) DeletePortfolio(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.portfolios[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(r.portfolios, id)
	return nil
}

func (r *InMemoryRepository) ListWorks(_ context.Context, portfolioID string) ([]entities.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.works[portfolioID]
	result := make([]entities.Work, 0, len(bucket))
	for _, w := range bucket {
		result = append(result, cloneWork(w))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *InMemoryRepository) GetWork(_ context.Context, portfolioID, id string) (*entities.Work, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.works[portfolioID][id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	c := cloneWork(w)
	return &c, nil
}

func (r *InMemoryRepository) CreateWork(_ context.Context, w *entities.Work) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket, ok := r.works[w.PortfolioID]
	if !ok {
		bucket = make(map[string]*entities.Work)
		r.works[w.PortfolioID] = bucket
	}
	if _, exists := bucket[w.ID]; exists {
		return repositories.ErrDuplicateKey
	}
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now
	c := cloneWork(w)
	bucket[w.ID] = &c
	return nil
}

func (r *InMemoryRepository) UpdateWorkFields(_ context.Context, portfolioID, id string, fields map[string]string) (*entities.Work, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.works[portfolioID][id]
	if !ok {
		return nil, repositories.ErrRecordNotFound
	}
	merged := copyFields(w.FieldMap())
	for k, v := range fields {
		merged[k] = v
	}
	w.Fields = datatypes.NewJSONType(merged)
	w.UpdatedAt = time.Now()
	c := cloneWork(w)
	return &c, nil
}

func (r *InMemoryRepository) DeleteWork(_ context.Context, portfolioID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bucket := r.works[portfolioID]
	if _, ok := bucket[id]; !ok {
		return repositories.ErrRecordNotFound
	}
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(r.works, portfolioID)
	}
	return nil
}

func clonePortfolio(p *entities.Portfolio) entities.Portfolio {
	c := *p
	params := p.ParameterList()
	cp := make([]string, len(params))
	copy(cp, params)
	c.Parameters = datatypes.NewJSONType(cp)
	return c
}

func cloneWork(w *entities.Work) entities.Work {
	c := *w
	c.Fields = datatypes.NewJSONType(copyFields(w.FieldMap()))
	return c
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
