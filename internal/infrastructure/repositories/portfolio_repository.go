package repositories

import (
	"context"
	"errors"
	"fmt"

	"artfolio/internal/domain/entities"
	"artfolio/internal/domain/repositories"

	"gorm.io/gorm"
)

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) repositories.PortfolioRepository {
	return &portfolioRepository{
		db: db,
	}
}

func (r *portfolioRepository) ListPortfolios(ctx context.Context) ([]entities.Portfolio, error) {
	var portfolios []entities.Portfolio
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&portfolios).Error; err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	return portfolios, nil
}

func (r *portfolioRepository) GetPortfolio(ctx context.Context, id string) (*entities.Portfolio, error) {
	var p entities.Portfolio
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *portfolioRepository) CreatePortfolio(ctx context.Context, p *entities.Portfolio) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *portfolioRepository) DeletePortfolio(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Portfolio{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}

// translate maps gorm sentinel errors onto the repository ones. The DB must be
// opened with TranslateError so driver duplicate errors become ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicateKey
	default:
		return err
	}
}
