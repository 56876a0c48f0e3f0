package usecases

import (
	"bytes"
	"context"
	"errors"

	"artfolio/internal/domain/dto"
	"artfolio/internal/domain/entities"
	"artfolio/internal/domain/mapper"
	"artfolio/internal/domain/repositories"
	"artfolio/internal/forms"
	"artfolio/internal/infrastructure/processor"
	apperrors "artfolio/pkg/errors"
	"artfolio/pkg/file"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// PortfolioCreator persists a validated portfolio draft: cover upload first,
// then the portfolio document.
type PortfolioCreator struct {
	deps Deps
}

func NewPortfolioCreator(deps Deps) *PortfolioCreator {
	return &PortfolioCreator{deps: deps}
}

func (c *PortfolioCreator) Create(ctx context.Context, draft forms.PortfolioDraft) (*dto.Portfolio, error) {
	if draft.Cover == nil {
		return nil, apperrors.ErrValidation(map[string]string{forms.CoverField: "Cover image is required"})
	}
	if _, err := c.deps.Portfolios.GetPortfolio(ctx, draft.ID); err == nil {
		return nil, apperrors.ErrConflict("portfolio "+draft.ID, nil)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, apperrors.ErrDatabase(err)
	}

	cover, err := c.deps.Compressor.Compress(draft.Cover.Data, processor.QualityGood)
	if err != nil {
		return nil, apperrors.ErrInvalidImage(err)
	}
	coverURL, err := c.deps.Storage.Upload(ctx, file.CoverKey(draft.ID), bytes.NewReader(cover), "image/jpeg")
	if err != nil {
		return nil, apperrors.ErrStorage(err)
	}

	p := &entities.Portfolio{
		ID:            draft.ID,
		Title:         draft.Title,
		CoverImageURL: coverURL,
		Parameters:    datatypes.NewJSONType(draft.Parameters),
	}
	if err := c.deps.Portfolios.CreatePortfolio(ctx, p); err != nil {
		discard(ctx, c.deps, coverURL)
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrors.ErrConflict("portfolio "+draft.ID, err)
		}
		return nil, apperrors.ErrDatabase(err)
	}

	c.deps.Log.Info("portfolio created", zap.String("portfolio", p.ID), zap.Strings("parameters", draft.Parameters))
	out := mapper.PortfolioToDTO(p)
	return &out, nil
}
