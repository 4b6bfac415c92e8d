// internal/services/storage_service_test.go
package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procurehub/orders-backend/internal/config"
)

func TestArchiveFeedLocal(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{LocalPath: dir},
	})
	require.NoError(t, err)

	raw := []byte("shop: Tech Depot\n")
	key, err := storage.ArchiveFeed("Tech Depot", raw)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "feeds/tech-depot/"), key)
	assert.True(t, strings.HasSuffix(key, ".yaml"), key)

	stored, err := os.ReadFile(filepath.Join(dir, key))
	require.NoError(t, err)
	assert.Equal(t, raw, stored)
}

func TestArchiveFeedKeysAreUnique(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorageService(&config.Config{
		Storage: config.StorageConfig{LocalPath: dir},
	})
	require.NoError(t, err)

	first, err := storage.ArchiveFeed("TechDepot", []byte("a"))
	require.NoError(t, err)
	second, err := storage.ArchiveFeed("TechDepot", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
