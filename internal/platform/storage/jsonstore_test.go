package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xxz807/bankcore/internal/platform/storage"
)

type payload struct {
	Meta  storage.Meta `json:"_meta"`
	Items []string     `json:"items"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	fs := storage.NewFileStore(path, zap.NewNop())

	in := payload{Meta: storage.NewMeta(), Items: []string{"a", "b", "c"}}
	require.NoError(t, fs.Save(in))

	var out payload
	found, err := fs.Load(&out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in.Items, out.Items)
	assert.Equal(t, "json_snapshot", out.Meta.Storage)

	// 原子写入不留临时文件
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadMissingFileStartsFresh(t *testing.T) {
	fs := storage.NewFileStore(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())

	var out payload
	found, err := fs.Load(&out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	fs := storage.NewFileStore(path, zap.NewNop())
	var out payload
	_, err := fs.Load(&out)
	assert.Error(t, err)
}

func TestSaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	fs := storage.NewFileStore(path, zap.NewNop())

	require.NoError(t, fs.Save(payload{Items: []string{"old"}}))
	require.NoError(t, fs.Save(payload{Items: []string{"new"}}))

	var out payload
	found, err := fs.Load(&out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"new"}, out.Items)
}
