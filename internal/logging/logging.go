// Package logging provides the diagnostic logger used across the dashboard
// and the simulated controller. The dashboard owns the terminal, so its
// logger writes to a file; novasimd logs to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Logger is the log interface the rest of the repository depends on.
type Logger interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})

	Warn(args ...interface{})
	Warnf(format string, args ...interface{})

	Info(args ...interface{})
	Infof(format string, args ...interface{})

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
}

// NullLogger ignores all messages. Used in tests and when logging is disabled.
type NullLogger struct{}

func (l *NullLogger) Error(args ...interface{}) {}

func (l *NullLogger) Errorf(format string, args ...interface{}) {}

func (l *NullLogger) Warn(args ...interface{}) {}

func (l *NullLogger) Warnf(format string, args ...interface{}) {}

func (l *NullLogger) Info(args ...interface{}) {}

func (l *NullLogger) Infof(format string, args ...interface{}) {}

func (l *NullLogger) Debug(args ...interface{}) {}

func (l *NullLogger) Debugf(format string, args ...interface{}) {}

// NewStderrLogger instantiates a development logger writing to stderr.
func NewStderrLogger(debug bool) *zap.SugaredLogger {
	logCfg := developmentConfig(debug)
	zapLogger, err := logCfg.Build()
	if err != nil {
		fmt.Printf("failed to instantiate logger: %s\n", err)
		os.Exit(1)
	}
	return zapLogger.Sugar()
}

// NewFileLogger instantiates a logger appending to the given path, creating
// parent directories as needed.
func NewFileLogger(path string, debug bool) (*zap.SugaredLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}

	logCfg := developmentConfig(debug)
	logCfg.OutputPaths = []string{path}
	logCfg.ErrorOutputPaths = []string{path}
	zapLogger, err := logCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build file logger: %w", err)
	}
	return zapLogger.Sugar(), nil
}

func developmentConfig(debug bool) zap.Config {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	logCfg := zap.NewDevelopmentConfig()
	logCfg.DisableStacktrace = true
	logCfg.DisableCaller = level > zap.DebugLevel
	logCfg.Level.SetLevel(level)
	return logCfg
}
