package repositories

import (
	"context"
	"errors"

	"artfolio/internal/domain/entities"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// PortfolioRepository stores portfolio documents keyed by slug.
type PortfolioRepository interface {
	ListPortfolios(ctx context.Context) ([]entities.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (*entities.Portfolio, error)
	// CreatePortfolio fails with ErrDuplicateKey when the id is taken.
	CreatePortfolio(ctx context.Context, p *entities.Portfolio) error
	DeletePortfolio(ctx context.Context, id string) error
}

// WorkRepository stores the works subcollection of each portfolio.
type WorkRepository interface {
	ListWorks(ctx context.Context, portfolioID string) ([]entities.Work, error)
	GetWork(ctx context.Context, portfolioID, id string) (*entities.Work, error)
	// CreateWork fails with ErrDuplicateKey when the id is taken.
	CreateWork(ctx context.Context, w *entities.Work) error
	// UpdateWorkFields merges fields into the stored map.
	UpdateWorkFields(ctx context.Context, portfolioID, id string, fields map[string]string) (*entities.Work, error)
	DeleteWork(ctx context.Context, portfolioID, id string) error
}
