package usecases

import (
	"context"
	"sort"
	"strings"
	"sync"

	"artfolio/internal/domain/dto"
	"artfolio/internal/domain/mapper"
	"artfolio/internal/forms"
	apperrors "artfolio/pkg/errors"
)

// Dashboard is the admin overview: the portfolio list, the current selection
// and one PortfolioManager per portfolio that has been opened. Created and
// deleted portfolios are relayed into the list so it stays consistent with
// what the dialog and the managers wrote.
type Dashboard struct {
	deps    Deps
	creator *PortfolioCreator

	mu         sync.RWMutex
	loaded     bool
	portfolios []dto.Portfolio
	selected   string
	managers   map[string]*PortfolioManager
}

func NewDashboard(deps Deps) *Dashboard {
	return &Dashboard{
		deps:     deps,
		creator:  NewPortfolioCreator(deps),
		managers: make(map[string]*PortfolioManager),
	}
}

// Load fetches the portfolio list, replacing the local one.
func (d *Dashboard) Load(ctx context.Context) error {
	list, err := d.deps.Portfolios.ListPortfolios(ctx)
	if err != nil {
		return apperrors.ErrDatabase(err)
	}
	out := make([]dto.Portfolio, 0, len(list))
	for i := range list {
		out = append(out, mapper.PortfolioToDTO(&list[i]))
	}
	sortPortfolios(out)

	d.mu.Lock()
	d.portfolios = out
	d.loaded = true
	d.managers = make(map[string]*PortfolioManager)
	if !containsPortfolio(out, d.selected) {
		d.selected = ""
	}
	d.mu.Unlock()
	return nil
}

func (d *Dashboard) ensureLoaded(ctx context.Context) error {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return nil
	}
	return d.Load(ctx)
}

func (d *Dashboard) Portfolios(ctx context.Context) ([]dto.Portfolio, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]dto.Portfolio(nil), d.portfolios...), nil
}

func (d *Dashboard) Selected() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.selected
}

// Select makes id the single selected portfolio and returns its manager,
// loaded.
func (d *Dashboard) Select(ctx context.Context, id string) (*PortfolioManager, error) {
	id = strings.Clone(id)
	m, err := d.Manager(ctx, id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.selected = id
	d.mu.Unlock()
	return m, nil
}

// Manager returns the loaded manager for id without changing the selection.
// id is cloned before it is kept.
func (d *Dashboard) Manager(ctx context.Context, id string) (*PortfolioManager, error) {
	id = strings.Clone(id)
	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if !containsPortfolio(d.portfolios, id) {
		d.mu.Unlock()
		return nil, apperrors.ErrNotFound("portfolio "+id, nil)
	}
	m, ok := d.managers[id]
	if !ok {
		m = NewPortfolioManager(id, d.deps, d.portfolioDeleted)
		d.managers[id] = m
	}
	d.mu.Unlock()

	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// CreatePortfolio submits the dialog and adds the new portfolio to the list.
func (d *Dashboard) CreatePortfolio(ctx context.Context, dialog *forms.PortfolioDialog) (*dto.Portfolio, error) {
	if err := d.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	created, err := dialog.Submit(ctx, d.creator.Create)
	if err != nil {
		return nil, err
	}
	d.portfolioCreated(*created)
	return created, nil
}

// DeletePortfolio cascades through the portfolio's manager. On success the
// manager's callback drops the id from the list and the selection.
func (d *Dashboard) DeletePortfolio(ctx context.Context, id string) (*DeleteReport, error) {
	m, err := d.Manager(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.DeletePortfolio(ctx)
}

func (d *Dashboard) portfolioCreated(p dto.Portfolio) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if containsPortfolio(d.portfolios, p.ID) {
		return
	}
	d.portfolios = append(d.portfolios, p)
	sortPortfolios(d.portfolios)
}

func (d *Dashboard) portfolioDeleted(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.portfolios {
		if d.portfolios[i].ID == id {
			d.portfolios = append(d.portfolios[:i], d.portfolios[i+1:]...)
			break
		}
	}
	delete(d.managers, id)
	if d.selected == id {
		d.selected = ""
	}
}

func containsPortfolio(list []dto.Portfolio, id string) bool {
	for i := range list {
		if list[i].ID == id {
			return true
		}
	}
	return false
}

func sortPortfolios(list []dto.Portfolio) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Title < list[j].Title })
}
