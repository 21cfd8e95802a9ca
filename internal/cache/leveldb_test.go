package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePutGet(t *testing.T) {
	s, err := NewInMemory()
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put("job:abc", []byte(`{"education":""}`)))

	data, ok, err := s.Get("job:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"education":""}`, string(data))

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoragePersistsOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put("resume:1", []byte("value")))
	require.NoError(t, s.Close())

	reopened, err := New(dir)
	require.NoError(t, err)
	defer reopened.Close()

	data, ok, err := reopened.Get("resume:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", string(data))
}
