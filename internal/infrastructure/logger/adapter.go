package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"onboarding-audit/internal/application/port/output"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ output.LoggerPort = (*LoggerAdapter)(nil)

type LoggerAdapter struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
	// file is shared by every logger derived with WithField(s).
	file io.Closer
}

func NewLoggerAdapter(cfg Config) (*LoggerAdapter, error) {
	base, file, err := newZapLogger(cfg, zapcore.Lock(os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &LoggerAdapter{base: base, sugar: base.Sugar(), file: file}, nil
}

// NewFromZap wraps an existing zap logger. Tests use it with zaptest/observer.
func NewFromZap(base *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{base: base, sugar: base.Sugar()}
}

// NewNop returns a logger that discards everything.
func NewNop() *LoggerAdapter {
	return NewFromZap(zap.NewNop())
}

func (l *LoggerAdapter) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, args...)
}

func (l *LoggerAdapter) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *LoggerAdapter) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *LoggerAdapter) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}

func (l *LoggerAdapter) WithField(key string, value any) output.LoggerPort {
	return &LoggerAdapter{base: l.base, sugar: l.sugar.With(key, value), file: l.file}
}

func (l *LoggerAdapter) WithFields(fields map[string]any) output.LoggerPort {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &LoggerAdapter{base: l.base, sugar: l.sugar.With(args...), file: l.file}
}

// Close flushes buffered entries and closes the log file.
func (l *LoggerAdapter) Close() error {
	err := l.base.Sync()
	// Sync on a terminal stderr fails with EINVAL/ENOTTY on Linux.
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		err = nil
	}
	if l.file != nil {
		if cerr := l.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
