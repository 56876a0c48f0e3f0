package mapper

import (
	"artfolio/internal/domain/dto"
	"artfolio/internal/domain/entities"
)

func PortfolioToDTO(p *entities.Portfolio) dto.Portfolio {
	params := p.ParameterList()
	out := make([]string, len(params))
	copy(out, params)
	return dto.Portfolio{
		ID:            p.ID,
		Title:         p.Title,
		CoverImageURL: p.CoverImageURL,
		Parameters:    out,
	}
}

// ProjectWork reduces a stored work to exactly the given parameters.
// Parameters the record lacks come back as empty strings; extra stored keys
// are dropped.
func ProjectWork(w *entities.Work, parameters []string) dto.Work {
	raw := w.FieldMap()
	fields := make(map[string]string, len(parameters))
	for _, p := range parameters {
		fields[p] = raw[p]
	}
	return dto.Work{
		ID:           w.ID,
		ImageURL:     w.ImageURL,
		ThumbnailURL: w.ThumbnailURL,
		Fields:       fields,
	}
}

func ProjectWorks(works []entities.Work, parameters []string) []dto.Work {
	out := make([]dto.Work, 0, len(works))
	for i := range works {
		out = append(out, ProjectWork(&works[i], parameters))
	}
	return out
}
