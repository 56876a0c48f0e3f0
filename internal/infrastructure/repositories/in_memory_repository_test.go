package repositories

import (
	"context"
	"testing"

	"artfolio/internal/domain/entities"
	"artfolio/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestInMemoryRepository_Portfolios(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	require.NoError(t, r.CreatePortfolio(ctx, &entities.Portfolio{ID: "zen", Title: "Zen", Parameters: datatypes.NewJSONType([]string{"title"})}))
	require.NoError(t, r.CreatePortfolio(ctx, &entities.Portfolio{ID: "abc", Title: "Abc"}))
	assert.ErrorIs(t, r.CreatePortfolio(ctx, &entities.Portfolio{ID: "zen", Title: "Zen"}), repositories.ErrDuplicateKey)

	list, err := r.ListPortfolios(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "abc", list[0].ID)
	assert.Equal(t, []string{}, list[0].ParameterList())

	got, err := r.GetPortfolio(ctx, "zen")
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
	got.ParameterList()[0] = "mutated"

	again, err := r.GetPortfolio(ctx, "zen")
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, again.ParameterList())

	require.NoError(t, r.DeletePortfolio(ctx, "zen"))
	_, err = r.GetPortfolio(ctx, "zen")
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)
	assert.ErrorIs(t, r.DeletePortfolio(ctx, "zen"), repositories.ErrRecordNotFound)
}

func TestInMemoryRepository_Works(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryRepository()

	w := &entities.Work{PortfolioID: "p", ID: "Sunset", Fields: datatypes.NewJSONType(map[string]string{"title": "Sunset", "year": "2020"})}
	require.NoError(t, r.CreateWork(ctx, w))
	require.NoError(t, r.CreateWork(ctx, &entities.Work{PortfolioID: "p", ID: "Dawn"}))
	assert.ErrorIs(t, r.CreateWork(ctx, &entities.Work{PortfolioID: "p", ID: "Sunset"}), repositories.ErrDuplicateKey)
	require.NoError(t, r.CreateWork(ctx, &entities.Work{PortfolioID: "other", ID: "Sunset"}))

	list, err := r.ListWorks(ctx, "p")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Dawn", list[0].ID)

	updated, err := r.UpdateWorkFields(ctx, "p", "Sunset", map[string]string{"year": "2021"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Sunset", "year": "2021"}, updated.FieldMap())

	_, err = r.UpdateWorkFields(ctx, "p", "Nope", map[string]string{"year": "1"})
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	require.NoError(t, r.DeleteWork(ctx, "p", "Sunset"))
	require.NoError(t, r.DeleteWork(ctx, "p", "Dawn"))
	list, err = r.ListWorks(ctx, "p")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, r.DeleteWork(ctx, "p", "Dawn"), repositories.ErrRecordNotFound)

	_, err = r.GetWork(ctx, "other", "Sunset")
	assert.NoError(t, err)
}
