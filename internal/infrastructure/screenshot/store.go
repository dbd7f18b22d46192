package screenshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"onboarding-audit/internal/application/port/output"
	"onboarding-audit/internal/domain/entity"
)

var _ output.ScreenshotStore = (*FileStore)(nil)

var ErrEmptyScreenshot = errors.New("screenshot has no data")

// FileStore keeps screenshots under <root>/<run-id>/.
type FileStore struct {
	root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) Save(runID, name string, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", ErrEmptyScreenshot
	}
	if runID == "" {
		runID = "unknown"
	}

	dir := filepath.Join(s.root, filepath.Base(runID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(name)+extension(shot.Format))
	if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path, nil
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return ".png"
	case "webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
