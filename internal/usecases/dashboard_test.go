package usecases

import (
	"context"
	"testing"
	"unsafe"

	"artfolio/internal/forms"
	apperrors "artfolio/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPortfolioDialog(title string, params ...string) *forms.PortfolioDialog {
	d := forms.NewPortfolioDialog()
	d.Open()
	d.SetTitle(title)
	d.SetCover("cover.png", pngHeader)
	for i, p := range params {
		_ = d.AddParameter()
		_ = d.SetParameter(i, p)
	}
	return d
}

func portfolioIDs(t *testing.T, d *Dashboard) []string {
	t.Helper()
	list, err := d.Portfolios(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestDashboard_CreatePortfolioAddsToList(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "zen-garden", "Zen Garden", "title")
	d := NewDashboard(f.deps)
	ctx := context.Background()

	dialog := openPortfolioDialog("Sunset Studies", "Technique", "Year")
	created, err := d.CreatePortfolio(ctx, dialog)
	require.NoError(t, err)

	assert.Equal(t, "sunset-studies", created.ID)
	assert.Equal(t, []string{"title", "technique", "year"}, created.Parameters)
	assert.Equal(t, forms.StateClosed, dialog.State())
	assert.Equal(t, []string{"sunset-studies", "zen-garden"}, portfolioIDs(t, d))

	stored, err := f.repo.GetPortfolio(ctx, "sunset-studies")
	require.NoError(t, err)
	assert.Equal(t, created.CoverImageURL, stored.CoverImageURL)
	assert.Contains(t, stored.CoverImageURL, "/covers/sunset-studies/")
}

func TestDashboard_ShortTitleWritesNothing(t *testing.T) {
	f := newFixture(t)
	d := NewDashboard(f.deps)

	dialog := openPortfolioDialog("ab")
	_, err := d.CreatePortfolio(context.Background(), dialog)

	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.Equal(t, forms.StateOpen, dialog.State())
	assert.Empty(t, portfolioIDs(t, d))
	assert.Zero(t, f.store.Len())
}

func TestDashboard_DuplicateTitleConflicts(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "studio-works", "Studio Works", "title")
	d := NewDashboard(f.deps)

	dialog := openPortfolioDialog("Studio  Works")
	_, err := d.CreatePortfolio(context.Background(), dialog)

	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	assert.NotEmpty(t, dialog.Notice())
	assert.Equal(t, 1, f.store.Len())
}

func TestDashboard_SelectIsSingle(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "a-side", "A Side", "title")
	f.seedPortfolio(t, "b-side", "B Side", "title")
	d := NewDashboard(f.deps)
	ctx := context.Background()

	m, err := d.Select(ctx, "a-side")
	require.NoError(t, err)
	assert.True(t, m.Loaded())
	assert.Equal(t, "a-side", d.Selected())

	_, err = d.Select(ctx, "b-side")
	require.NoError(t, err)
	assert.Equal(t, "b-side", d.Selected())

	_, err = d.Select(ctx, "c-side")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.Equal(t, "b-side", d.Selected())
}

func TestDashboard_ManagerIsReused(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "studio-works", "Studio Works", "title")
	d := NewDashboard(f.deps)
	ctx := context.Background()

	first, err := d.Manager(ctx, "studio-works")
	require.NoError(t, err)
	second, err := d.Manager(ctx, "studio-works")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Empty(t, d.Selected())
}

func TestDashboard_DeletePortfolioDropsSelection(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "studio-works", "Studio Works", "title")
	f.seedPortfolio(t, "zen-garden", "Zen Garden", "title")
	d := NewDashboard(f.deps)
	ctx := context.Background()

	m, err := d.Select(ctx, "studio-works")
	require.NoError(t, err)
	_, err = m.AddWork(ctx, map[string]string{"title": "Sunset"}, newImage())
	require.NoError(t, err)
	f.store.failOn = "/thumbnails/"

	report, err := d.DeletePortfolio(ctx, "studio-works")
	require.NoError(t, err)

	assert.Len(t, report.Warnings, 1)
	assert.Empty(t, d.Selected())
	assert.Equal(t, []string{"zen-garden"}, portfolioIDs(t, d))
	_, err = d.Manager(ctx, "studio-works")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

// borrowed returns a string sharing b's memory, like a route parameter read
// from a reusable request buffer.
func borrowed(b []byte) string {
	return unsafe.String(&b[0], len(b))
}

func TestDashboard_KeepsIdsIndependentOfCallerMemory(t *testing.T) {
	f := newFixture(t)
	f.seedPortfolio(t, "studio-works", "Studio Works", "title")
	f.seedPortfolio(t, "zen-garden", "Zen Garden", "title")
	d := NewDashboard(f.deps)
	ctx := context.Background()

	buf := []byte("studio-works")
	m, err := d.Select(ctx, borrowed(buf))
	require.NoError(t, err)
	copy(buf, "zen-garden!!")

	assert.Equal(t, "studio-works", m.PortfolioID())
	assert.Equal(t, "studio-works", d.Selected())

	again, err := d.Manager(ctx, "studio-works")
	require.NoError(t, err)
	assert.Same(t, m, again)

	report, err := d.DeletePortfolio(ctx, "studio-works")
	require.NoError(t, err)
	assert.Equal(t, "studio-works", report.PortfolioID)
	assert.Equal(t, []string{"zen-garden"}, portfolioIDs(t, d))
}
