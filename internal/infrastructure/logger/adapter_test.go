package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestLoggerAdapter_FieldsAreCarried(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	runLog := log.WithFields(map[string]any{"run_id": "abc", "kind": "ux"})
	runLog.WithField("step", 3).Info("Step finished", "actions", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "Step finished", entries[0].Message)
	assert.Equal(t, "abc", ctx["run_id"])
	assert.Equal(t, "ux", ctx["kind"])
	assert.EqualValues(t, 3, ctx["step"])
	assert.EqualValues(t, 2, ctx["actions"])
}

func TestLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := NewFromZap(zap.New(core))

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept too", "error", "boom")

	assert.Equal(t, 2, logs.Len())
}

func TestNewLoggerAdapter_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dir = dir

	log, err := NewLoggerAdapter(cfg)
	require.NoError(t, err)
	log.Info("hello", "kind", "functional")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(filepath.Join(dir, cfg.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"kind":"functional"`)
}

type closeCounter struct{ closed int }

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestLoggerAdapter_CloseReleasesFileOfDerivedLogger(t *testing.T) {
	file := &closeCounter{}
	base := zap.NewNop()
	log := &LoggerAdapter{base: base, sugar: base.Sugar(), file: file}

	runLog := log.WithFields(map[string]any{"run_id": "abc"}).WithField("kind", "ux")
	require.NoError(t, runLog.Close())
	assert.Equal(t, 1, file.closed)
}

func TestNewLoggerAdapter_FileHandle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	log, err := NewLoggerAdapter(cfg)
	require.NoError(t, err)
	assert.IsType(t, &lumberjack.Logger{}, log.file)
	require.NoError(t, log.Close())

	cfg.Dir = ""
	log, err = NewLoggerAdapter(cfg)
	require.NoError(t, err)
	assert.Nil(t, log.file)
}
