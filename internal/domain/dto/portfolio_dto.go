package dto

// Portfolio is the wire shape of a portfolio record.
type Portfolio struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	CoverImageURL string   `json:"image_url"`
	Parameters    []string `json:"parameters"`
}

// PortfolioCover is what the gallery list shows for a portfolio.
type PortfolioCover struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
}

type DeletePortfolioResponse struct {
	Status   string   `json:"status"`
	ID       string   `json:"id"`
	Warnings []string `json:"warnings,omitempty"`
}

type PortfolioListResponse struct {
	Portfolios []Portfolio `json:"portfolios"`
	Count      int         `json:"count"`
}
