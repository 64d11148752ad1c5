package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Info(msg string, keyvals ...interface{})

	Warn(msg string, keyvals ...interface{})

	Error(msg string, keyvals ...interface{})

	Debug(msg string, keyvals ...interface{})
}

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 5
	logFileMaxAgeDays = 30
)

func New() Logger {
	return newWithWriter(os.Stderr)
}

// NewWithFile logs to stderr and, when filePath is set, to a rotated file as well.
func NewWithFile(filePath string) Logger {
	if len(filePath) == 0 {
		return New()
	}
	rotator := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}

	return newWithWriter(io.MultiWriter(os.Stderr, rotator))
}

func newWithWriter(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo, // minimum log level
		AddSource: true,           // include file + line number
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler)
}

// Discard drops every record. Useful where a Logger is required but output is not.
func Discard() Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
