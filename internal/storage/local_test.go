package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Put(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := s.Put(context.Background(), "images/abc", Object{
		Body:        strings.NewReader("png-bytes"),
		Size:        9,
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/images/abc", url)

	data, err := os.ReadFile(filepath.Join(dir, "images", "abc"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStorage_PutCancelled(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, "images/x", Object{Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, context.Canceled)
}
