package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeParameter(t *testing.T) {
	cases := map[string]string{
		"Technique":          "technique",
		"  Date of  Work ":   "date_of_work",
		"size\tin\ncm":       "size_in_cm",
		"already_normalized": "already_normalized",
		"   ":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeParameter(in), in)
	}
}

func TestNormalizeParameter_Idempotent(t *testing.T) {
	for _, in := range []string{"Technique", " Date  Of Work", "a_b c", "ÉPOCA Final", "x"} {
		once := NormalizeParameter(in)
		assert.Equal(t, once, NormalizeParameter(once), in)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "studio-works", Slugify("Studio Works"))
	assert.Equal(t, "studio-works", Slugify("  studio-works "))
	assert.Equal(t, "oil-on-canvas-2024", Slugify("Oil on Canvas (2024)!"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Date Of Creation", Label("date_of_creation"))
	assert.Equal(t, "Title", Label("title"))
	assert.Equal(t, "", Label(""))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Technique", Capitalize("technique"))
	assert.Equal(t, "Época", Capitalize("época"))
	assert.Equal(t, "", Capitalize(""))
}
