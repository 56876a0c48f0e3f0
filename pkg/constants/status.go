package constants

const (
	StatusOK      = "ok"
	StatusDeleted = "deleted"
	StatusPartial = "partial"
)

// Object storage folders.
const (
	CoversFolder     = "covers"
	PortfoliosFolder = "portfolios"
	ThumbnailsFolder = "thumbnails"
)

const (
	// MaxParameters caps the user-defined parameters of a portfolio.
	MaxParameters = 10
	// MinTitleLength applies to portfolio titles.
	MinTitleLength = 3
	// TitleParameter is always the first declared parameter.
	TitleParameter = "title"
)

// ReservedParameters are work keys a portfolio parameter may not shadow.
var ReservedParameters = map[string]bool{
	"id":            true,
	"image":         true,
	"image_url":     true,
	"thumbnail_url": true,
}
