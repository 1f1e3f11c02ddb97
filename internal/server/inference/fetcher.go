package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/clinicportal/internal/filex"
	"github.com/dmitrijs2005/clinicportal/internal/netx"
	"github.com/dmitrijs2005/clinicportal/internal/server/storage"
)

// Fetcher retrieves a model artifact by its repository-relative filename.
type Fetcher interface {
	Fetch(ctx context.Context, filename string) (io.ReadCloser, error)
}

// HubFetcher downloads artifacts from a model hub and keeps a copy under
// CacheDir so restarts do not download again.
type HubFetcher struct {
	BaseURL  string
	RepoID   string
	CacheDir string
	Client   *http.Client
}

func (f *HubFetcher) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	local := filepath.Join(f.CacheDir, f.RepoID, filepath.FromSlash(filename))
	if file, err := os.Open(local); err == nil {
		return file, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open cached %s: %w", local, err)
	}

	data, err := netx.Download(ctx, f.Client, f.URL(filename), 0)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", filename, err)
	}

	if _, err := filex.EnsureDir(filepath.Dir(local)); err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(local, data); err != nil {
		return nil, err
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// URL returns <base>/<repo>/resolve/main/<filename>.
func (f *HubFetcher) URL(filename string) string {
	return strings.TrimRight(f.BaseURL, "/") + "/" + f.RepoID + "/resolve/main/" + strings.TrimLeft(filename, "/")
}

// StoreFetcher reads artifacts from an object store bucket.
type StoreFetcher struct {
	Store storage.Store
}

func (f *StoreFetcher) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	data, err := f.Store.Get(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", filename, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
