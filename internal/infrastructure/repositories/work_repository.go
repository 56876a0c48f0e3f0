package repositories

import (
	"context"
	"fmt"

	"artfolio/internal/domain/entities"
	"artfolio/internal/domain/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type workRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) repositories.WorkRepository {
	return &workRepository{
		db: db,
	}
}

func (r *workRepository) ListWorks(ctx context.Context, portfolioID string) ([]entities.Work, error) {
	var works []entities.Work
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("id ASC").
		Find(&works).Error
	if err != nil {
		return nil, fmt.Errorf("list works of %s: %w", portfolioID, err)
	}
	return works, nil
}

func (r *workRepository) GetWork(ctx context.Context, portfolioID, id string) (*entities.Work, error) {
	var w entities.Work
	if err := r.db.WithContext(ctx).First(&w, "portfolio_id = ? AND id = ?", portfolioID, id).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

func (r *workRepository) CreateWork(ctx context.Context, w *entities.Work) error {
	return translate(r.db.WithContext(ctx).Create(w).Error)
}

func (r *workRepository) UpdateWorkFields(ctx context.Context, portfolioID, id string, fields map[string]string) (*entities.Work, error) {
	var updated entities.Work
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, "portfolio_id = ? AND id = ?", portfolioID, id).Error; err != nil {
			return err
		}
		merged := updated.FieldMap()
		for k, v := range fields {
			merged[k] = v
		}
		updated.Fields = datatypes.NewJSONType(merged)
		return tx.Model(&entities.Work{}).
			Where("portfolio_id = ? AND id = ?", portfolioID, id).
			Update("fields", updated.Fields).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

func (r *workRepository) DeleteWork(ctx context.Context, portfolioID, id string) error {
	res := r.db.WithContext(ctx).Delete(&entities.Work{}, "portfolio_id = ? AND id = ?", portfolioID, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrRecordNotFound
	}
	return nil
}
