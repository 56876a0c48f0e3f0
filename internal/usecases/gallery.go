package usecases

import (
	"context"

	"artfolio/internal/domain/dto"
	"artfolio/internal/domain/mapper"
	"artfolio/internal/domain/repositories"
	"artfolio/pkg/constants"
	apperrors "artfolio/pkg/errors"
	"artfolio/pkg/helper"
)

// GalleryService serves the public read-only views straight from the store.
type GalleryService struct {
	portfolios repositories.PortfolioRepository
	works      repositories.WorkRepository
}

func NewGalleryService(portfolios repositories.PortfolioRepository, works repositories.WorkRepository) *GalleryService {
	return &GalleryService{portfolios: portfolios, works: works}
}

func (s *GalleryService) Covers(ctx context.Context) ([]dto.PortfolioCover, error) {
	list, err := s.portfolios.ListPortfolios(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	covers := make([]dto.PortfolioCover, 0, len(list))
	for _, p := range list {
		covers = append(covers, dto.PortfolioCover{
			ID:       p.ID,
			Title:    p.Title,
			ImageURL: p.CoverImageURL,
			Link:     "/portfolio/" + p.ID,
		})
	}
	return covers, nil
}

// Detail returns a portfolio with its works as cards.
func (s *GalleryService) Detail(ctx context.Context, id string) (*dto.PortfolioDetail, error) {
	p, err := s.portfolios.GetPortfolio(ctx, id)
	if err != nil {
		return nil, lookupError("portfolio "+id, err)
	}
	works, err := s.works.ListWorks(ctx, id)
	if err != nil {
		return nil, apperrors.ErrDatabase(err)
	}
	params := p.ParameterList()
	cards := make([]dto.WorkCard, 0, len(works))
	for _, w := range mapper.ProjectWorks(works, params) {
		cards = append(cards, Card(w, params))
	}
	return &dto.PortfolioDetail{
		Portfolio: mapper.PortfolioToDTO(p),
		Works:     cards,
	}, nil
}

// Inspect returns a single work for the magnified detail view.
func (s *GalleryService) Inspect(ctx context.Context, portfolioID, workID string) (*dto.WorkCard, error) {
	p, err := s.portfolios.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, lookupError("portfolio "+portfolioID, err)
	}
	w, err := s.works.GetWork(ctx, portfolioID, workID)
	if err != nil {
		return nil, lookupError("work "+workID, err)
	}
	params := p.ParameterList()
	card := Card(mapper.ProjectWork(w, params), params)
	return &card, nil
}

// Card lays out a work for display: the title on top, then every other
// declared parameter in declared order with a readable label.
func Card(w dto.Work, params []string) dto.WorkCard {
	title := w.Fields[constants.TitleParameter]
	if title == "" {
		title = w.ID
	}
	fields := make([]dto.CardField, 0, len(params))
	for _, p := range params {
		if p == constants.TitleParameter {
			continue
		}
		fields = append(fields, dto.CardField{Name: p, Label: helper.Label(p), Value: w.Fields[p]})
	}
	return dto.WorkCard{
		ID:           w.ID,
		Title:        title,
		ImageURL:     w.ImageURL,
		ThumbnailURL: w.ThumbnailURL,
		Fields:       fields,
	}
}
