package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	payload := []byte("fake image bytes")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotMethod string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			_, _ = w.Write(payload)
		}))
		defer ts.Close()

		got, err := Download(context.Background(), ts.Client(), ts.URL+"/x.png", 1<<20)
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, gotMethod)
		assert.Equal(t, payload, got)
	})

	t.Run("non-2xx -> StatusError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		_, err := Download(context.Background(), nil, ts.URL, 0)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("body over limit", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(payload)
		}))
		defer ts.Close()

		_, err := Download(context.Background(), ts.Client(), ts.URL, 4)
		assert.ErrorIs(t, err, ErrTooLarge)

		got, err := Download(context.Background(), ts.Client(), ts.URL, int64(len(payload)))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		_, err := Download(context.Background(), nil, ts.URL, 0)
		require.Error(t, err)
		var se *StatusError
		assert.False(t, errors.As(err, &se))
	})

	t.Run("context deadline", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := Download(ctx, ts.Client(), ts.URL, 0)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := Download(context.Background(), nil, "://nope", 0)
		assert.Error(t, err)
	})
}
