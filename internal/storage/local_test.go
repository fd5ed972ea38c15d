package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Get(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "invoices"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoices", "42.pdf"), []byte("%PDF-1.4"), 0o644))

	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("existing object", func(t *testing.T) {
		rc, err := s.Get(ctx, "invoices/42.pdf")
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4", string(body))
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := s.Get(ctx, "invoices/43.pdf")
		require.Error(t, err)
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("key escaping the root", func(t *testing.T) {
		_, err := s.Get(ctx, "../etc/passwd")
		require.Error(t, err)
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})
}

func TestNewLocalStorage_RequiresDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewLocalStorage(file)
	assert.Error(t, err)

	_, err = NewLocalStorage(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
