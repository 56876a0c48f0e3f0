package usecases

import (
	"context"
	"testing"

	"artfolio/internal/domain/dto"
	apperrors "artfolio/pkg/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGallery_Covers(t *testing.T) {
	f := newFixture(t)
	p := f.seedPortfolio(t, "studio-works", "Studio Works", "title")
	g := NewGalleryService(f.repo, f.repo)

	covers, err := g.Covers(context.Background())
	require.NoError(t, err)

	want := []dto.PortfolioCover{{
		ID:       "studio-works",
		Title:    "Studio Works",
		ImageURL: p.CoverImageURL,
		Link:     "/portfolio/studio-works",
	}}
	assert.Equal(t, want, covers)
}

func TestGallery_DetailOrdersFieldsByParameters(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "studio-works", "Studio Works", "title", "date_of_work", "technique")
	m := NewPortfolioManager("studio-works", f.deps, nil)
	ctx := context.Background()
	added, err := m.AddWork(ctx, map[string]string{"title": "Sunset", "technique": "oil", "date_of_work": "2021"}, newImage())
	require.NoError(t, err)

	g := NewGalleryService(f.repo, f.repo)
	detail, err := g.Detail(ctx, "studio-works")
	require.NoError(t, err)

	want := []dto.WorkCard{{
		ID:           "Sunset",
		Title:        "Sunset",
		ImageURL:     added.ImageURL,
		ThumbnailURL: added.ThumbnailURL,
		Fields: []dto.CardField{
			{Name: "date_of_work", Label: "Date Of Work", Value: "2021"},
			{Name: "technique", Label: "Technique", Value: "oil"},
		},
	}}
	if diff := cmp.Diff(want, detail.Works); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Studio Works", detail.Portfolio.Title)
}

func TestGallery_Inspect(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "studio-works", "Studio Works", "title")
	m := NewPortfolioManager("studio-works", f.deps, nil)
	ctx := context.Background()
	_, err := m.AddWork(ctx, map[string]string{"title": "Sunset"}, newImage())
	require.NoError(t, err)

	g := NewGalleryService(f.repo, f.repo)
	card, err := g.Inspect(ctx, "studio-works", "Sunset")
	require.NoError(t, err)
	assert.Equal(t, "Sunset", card.Title)
	assert.Empty(t, card.Fields)

	_, err = g.Inspect(ctx, "studio-works", "Ghost")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	_, err = g.Detail(ctx, "nope")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestCard_MissingTitleFallsBackToID(t *testing.T) {
	card := Card(dto.Work{ID: "w1", Fields: map[string]string{"title": ""}}, []string{"title"})
	assert.Equal(t, "w1", card.Title)
}
