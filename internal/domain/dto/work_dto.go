package dto

// Work is a work projected onto its portfolio's declared parameters.
// Fields holds exactly one entry per parameter.
type Work struct {
	ID           string            `json:"id"`
	ImageURL     string            `json:"image_url"`
	ThumbnailURL string            `json:"thumbnail_url"`
	Fields       map[string]string `json:"fields"`
}

// Flatten returns the record as a single map, the way gallery cards consume it.
func (w Work) Flatten() map[string]string {
	out := make(map[string]string, len(w.Fields)+3)
	for k, v := range w.Fields {
		out[k] = v
	}
	out["id"] = w.ID
	out["image_url"] = w.ImageURL
	out["thumbnail_url"] = w.ThumbnailURL
	return out
}

type CardField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// WorkCard is a read-only rendering of a work with fields in declared order.
type WorkCard struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	ImageURL     string      `json:"image_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Fields       []CardField `json:"fields"`
}

type PortfolioDetail struct {
	Portfolio Portfolio  `json:"portfolio"`
	Works     []WorkCard `json:"works"`
}

type WorkListResponse struct {
	PortfolioID string   `json:"portfolio_id"`
	Parameters  []string `json:"parameters"`
	Works       []Work   `json:"works"`
	Count       int      `json:"count"`
}

type UpdateWorkRequest struct {
	Fields map[string]string `json:"fields"`
}
