// Package logging configures the process-wide zap logger.
//
// The library packages log through L() so that callers (the CLI, tests)
// decide where output goes. Before Init is called, L() returns a logger
// that writes warnings and errors to stderr only.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls log level and optional file output.
type Config struct {
	Level      string // "debug", "info", "warn", "error"
	File       string // empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	global *zap.Logger
	mu     sync.Mutex
)

// Init builds the global logger from cfg. Calling it twice replaces the
// previous logger; the old one is not flushed.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	global = build(cfg)
}

// L returns the global logger, initializing a stderr-only default if
// Init has not been called yet.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global = build(Config{Level: "warn"})
	}
	return global
}

// Sync flushes buffered log entries. Errors are ignored; syncing stderr
// fails on some platforms and there is nothing useful to do about it.
func Sync() {
	mu.Lock()
	l := global
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}

func build(cfg Config) *zap.Logger {
	level := parseLevel(cfg.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stderr),
			level,
		),
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 28),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(rotator),
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "", "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
