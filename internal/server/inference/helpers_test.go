package inference

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type mapFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls []string
}

func (f *mapFetcher) Fetch(ctx context.Context, filename string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, filename)
	b, ok := f.files[filename]
	if !ok {
		return nil, errors.Join(os.ErrNotExist, errors.New(filename))
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
