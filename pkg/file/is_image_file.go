package file

import (
	"net/http"
	"path/filepath"
	"strings"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsImageFile checks the extension only.
func IsImageFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// SniffImageType returns the content type of data and whether it is one of
// the accepted image formats (JPEG, PNG, GIF, WebP).
func SniffImageType(data []byte) (string, bool) {
	ct := http.DetectContentType(data)
	return ct, imageTypes[ct]
}
