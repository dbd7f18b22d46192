package screenshot

import (
	"os"
	"path/filepath"
	"testing"

	"onboarding-audit/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Save(t *testing.T) {
	root := filepath.Join(t.TempDir(), "screenshots")
	store := NewFileStore(root)
	shot := &entity.Screenshot{Data: []byte{0xff, 0xd8, 0xff}, Format: "jpeg", Width: 1024, Height: 768}

	path, err := store.Save("run-1", "step_001", shot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "run-1", "step_001.jpg"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, shot.Data, data)
}

func TestFileStore_Extension(t *testing.T) {
	store := NewFileStore(t.TempDir())

	path, err := store.Save("run-1", "manual_001", &entity.Screenshot{Data: []byte{1}, Format: "png"})
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestFileStore_RejectsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Save("run-1", "step_001", &entity.Screenshot{})
	assert.ErrorIs(t, err, ErrEmptyScreenshot)

	_, err = store.Save("run-1", "step_001", nil)
	assert.ErrorIs(t, err, ErrEmptyScreenshot)
}

func TestFileStore_NamesStayInsideRoot(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	path, err := store.Save("../../etc", "../passwd", &entity.Screenshot{Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "passwd.jpg"), path)
}
