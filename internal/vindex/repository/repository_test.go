package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jimyag/vindex/internal/vindex/repository/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	require.NoError(t, err)

	// 使用 t.Cleanup 确保在测试真正结束时清理，支持并发测试
	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return repo
}

func TestRepository_SchemaVersion(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "index.db")

	repo, err := New(dbPath)
	require.NoError(t, err)

	version, err := repo.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CurrentSchemaVersion, version)
	require.NoError(t, repo.Close())

	// 重新打开已存在的数据库不应失败，也不应重复记录版本
	repo, err = New(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	var count int64
	require.NoError(t, repo.DB().Model(&model.SchemaVersion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepository_CloseNil(t *testing.T) {
	t.Parallel()

	repo := &Repository{}
	assert.NoError(t, repo.Close())
}
