package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore("http://mem")
	ctx := context.Background()

	url, err := st.Put(ctx, "a/b.jpg", []byte("jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://mem/a/b.jpg", url)

	key, ok := st.Key(url)
	require.True(t, ok)
	assert.Equal(t, "a/b.jpg", key)

	data, err := st.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpg"), data)

	_, err = st.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoObject)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore("").Put(ctx, "k", nil, "")
	assert.ErrorIs(t, err, context.Canceled)
}
