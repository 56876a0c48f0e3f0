package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"artfolio/internal/domain/repositories"
	"artfolio/internal/pkg/fileutils"
)

// LocalStorage keeps objects on disk under BasePath. The server exposes
// BasePath as static files under BaseURL.
type LocalStorage struct {
	BasePath string
	BaseURL  string
}

func NewLocalStorage(basePath, baseURL string) *LocalStorage {
	return &LocalStorage{
		BasePath: basePath,
		BaseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (l *LocalStorage) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	fullPath, err := l.path(key)
	if err != nil {
		return "", err
	}

	if err := fileutils.WriteAtomic(fullPath, body); err != nil {
		return "", err
	}

	return l.BaseURL + "/" + key, nil
}

func (l *LocalStorage) Delete(_ context.Context, url string) error {
	key, ok := keyFromURL(l.BaseURL, url)
	if !ok {
		return fmt.Errorf("%w: %s is not served by this storage", repositories.ErrObjectNotFound, url)
	}
	fullPath, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", repositories.ErrObjectNotFound, key)
		}
		return err
	}
	return nil
}

func (l *LocalStorage) List(_ context.Context, prefix string) ([]repositories.StoredObject, error) {
	root := filepath.Join(l.BasePath, filepath.FromSlash(prefix))
	var objects []repositories.StoredObject
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".part") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(l.BasePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		objects = append(objects, repositories.StoredObject{
			Key:          key,
			URL:          l.BaseURL + "/" + key,
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	return objects, nil
}

// path resolves key inside BasePath and refuses keys that escape it.
func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.BasePath, clean), nil
}

func keyFromURL(baseURL, url string) (string, bool) {
	prefix := baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
