package file

import (
	"path"

	"artfolio/pkg/constants"

	"github.com/google/uuid"
)

// CoverKey is where a portfolio cover image lives.
func CoverKey(portfolioID string) string {
	return path.Join(constants.CoversFolder, portfolioID, uuid.NewString()+".jpg")
}

// WorkKeys returns the image and thumbnail keys for a new work. Both share one
// random name so the pair is easy to spot in a bucket listing.
func WorkKeys(portfolioID string) (image, thumbnail string) {
	name := uuid.NewString() + ".jpg"
	image = path.Join(constants.PortfoliosFolder, portfolioID, name)
	thumbnail = path.Join(constants.PortfoliosFolder, portfolioID, constants.ThumbnailsFolder, name)
	return image, thumbnail
}
