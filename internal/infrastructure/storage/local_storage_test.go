package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"artfolio/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadListDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:3000/media/")

	url, err := s.Upload(ctx, "portfolios/studio-works/a.jpg", strings.NewReader("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/media/portfolios/studio-works/a.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "portfolios", "studio-works", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	objects, err := s.List(ctx, "portfolios/studio-works")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "portfolios/studio-works/a.jpg", objects[0].Key)
	assert.Equal(t, url, objects[0].URL)

	require.NoError(t, s.Delete(ctx, url))
	err = s.Delete(ctx, url)
	assert.ErrorIs(t, err, repositories.ErrObjectNotFound)
}

func TestLocalStorage_ForeignURLIsNotFound(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "http://localhost:3000/media")
	err := s.Delete(context.Background(), "https://elsewhere.example/x.jpg")
	assert.ErrorIs(t, err, repositories.ErrObjectNotFound)
}

func TestLocalStorage_KeyCannotEscapeBase(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(filepath.Join(dir, "base"), "http://h/media")

	_, err := s.Upload(context.Background(), "../../escape.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "escape.jpg"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(dir, "base", "escape.jpg"))
	assert.NoError(t, statErr)
}

func TestLocalStorage_ListMissingPrefix(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "http://h/media")
	objects, err := s.List(context.Background(), "nothing/here")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestMemoryStorage_DeleteMissing(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage("memory://objects")
	url, err := m.Upload(ctx, "covers/a/1.jpg", strings.NewReader("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, url))
	assert.ErrorIs(t, m.Delete(ctx, url), repositories.ErrObjectNotFound)
	assert.Equal(t, 0, m.Len())
}
