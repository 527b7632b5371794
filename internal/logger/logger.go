// Package logger wraps charmbracelet/log for gen-demo's progress and warnings.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the structured logger handed to every layer.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// Config configures a logger.
type Config struct {
	Level  string
	Output io.Writer
}

// DefaultConfig logs warnings and errors to stderr.
func DefaultConfig() Config {
	return Config{Level: "warn", Output: os.Stderr}
}

type loggerImpl struct {
	charmLogger *charmlog.Logger
}

// New returns a text logger prefixed with the tool name.
func New(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	charmLogger := charmlog.NewWithOptions(out, charmlog.Options{
		Prefix: "gen-demo",
		Level:  level,
	})
	charmLogger.SetFormatter(charmlog.TextFormatter)
	return &loggerImpl{charmLogger: charmLogger}, nil
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return &loggerImpl{charmLogger: charmlog.NewWithOptions(io.Discard, charmlog.Options{Level: charmlog.FatalLevel})}
}

// ParseLevel maps a level name to a charm log level. The empty name means warn.
func ParseLevel(name string) (charmlog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return charmlog.WarnLevel, nil
	}
	level, err := charmlog.ParseLevel(name)
	if err != nil {
		return charmlog.WarnLevel, fmt.Errorf("log level %q: %w", name, err)
	}
	return level, nil
}

func (l *loggerImpl) Debug(msg string, keyvals ...any) {
	l.charmLogger.Debug(msg, keyvals...)
}

func (l *loggerImpl) Info(msg string, keyvals ...any) {
	l.charmLogger.Info(msg, keyvals...)
}

func (l *loggerImpl) Warn(msg string, keyvals ...any) {
	l.charmLogger.Warn(msg, keyvals...)
}

func (l *loggerImpl) Error(msg string, keyvals ...any) {
	l.charmLogger.Error(msg, keyvals...)
}
