// Package runlog persists every stage's informational, warning, and error
// lines to a timestamped per-run log file. Console output is mirrored here
// verbatim, without color codes, so a failed run can always be reconstructed.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeFmt = "2006-01-02 15:04:05.000"

// Log is a per-run log file. The zero value is a no-op sink, so components
// can log unconditionally before the CLI has opened the real file.
type Log struct {
	logger *zap.Logger
	path   string
}

// Open creates the log directory if needed and opens a new timestamped run
// log inside it, e.g. logs/run-20240101-120000.log.
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeFmt)
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(f)),
		zapcore.InfoLevel,
	)

	return &Log{
		logger: zap.New(core),
		path:   path,
	}, nil
}

// Path returns the on-disk path of the run log, empty for the no-op log.
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Info writes an informational line to the run log.
func (l *Log) Info(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info(msg, fields...)
}

// Warn writes a warning line to the run log.
func (l *Log) Warn(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn(msg, fields...)
}

// Error writes an error line to the run log.
func (l *Log) Error(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Error(msg, fields...)
}

// Sync flushes buffered log entries to disk.
func (l *Log) Sync() {
	if l == nil || l.logger == nil {
		return
	}
	_ = l.logger.Sync()
}
