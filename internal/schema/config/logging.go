package config

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/Salehmangrio/postbase/internal/pblog"
)

type LoggingConfigType string

const (
	LoggingConfigTypeText LoggingConfigType = "text"
	LoggingConfigTypeJson LoggingConfigType = "json"
	LoggingConfigTypeTint LoggingConfigType = "tint"
	LoggingConfigTypeNone LoggingConfigType = "none"
)

type LoggingConfigLevel string

const (
	LevelDebug LoggingConfigLevel = "debug"
	LevelInfo  LoggingConfigLevel = "info"
	LevelWarn  LoggingConfigLevel = "warn"
	LevelError LoggingConfigLevel = "error"
)

func (l LoggingConfigLevel) Level() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LoggingConfigOutput string

const (
	OutputStdout LoggingConfigOutput = "stdout"
	OutputStderr LoggingConfigOutput = "stderr"
)

func (l LoggingConfigOutput) Output() io.Writer {
	if l == OutputStdout {
		return os.Stdout
	}
	return os.Stderr
}

// LoggingImpl is the interface implemented by concrete logging configurations.
type LoggingImpl interface {
	GetRootLogger() *slog.Logger
	GetType() LoggingConfigType
}

// LoggingConfig is the holder for a LoggingImpl instance.
type LoggingConfig struct {
	InnerVal LoggingImpl `json:"-" yaml:"-"`
}

func (l *LoggingConfig) GetRootLogger() *slog.Logger {
	if l == nil || l.InnerVal == nil {
		return pblog.NewNoopLogger()
	}
	return l.InnerVal.GetRootLogger()
}

func (l *LoggingConfig) GetType() LoggingConfigType {
	if l == nil || l.InnerVal == nil {
		return LoggingConfigTypeNone
	}
	return l.InnerVal.GetType()
}

type LoggingConfigText struct {
	Type   LoggingConfigType   `json:"type" yaml:"type"`
	To     LoggingConfigOutput `json:"to,omitempty" yaml:"to,omitempty"`
	Level  LoggingConfigLevel  `json:"level,omitempty" yaml:"level,omitempty"`
	Source bool                `json:"source,omitempty" yaml:"source,omitempty"`
}

func (l *LoggingConfigText) GetType() LoggingConfigType {
	return LoggingConfigTypeText
}

func (l *LoggingConfigText) GetRootLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(l.To.Output(), &slog.HandlerOptions{
		Level:     l.Level.Level(),
		AddSource: l.Source,
	}))
}

type LoggingConfigJson struct {
	Type   LoggingConfigType   `json:"type" yaml:"type"`
	To     LoggingConfigOutput `json:"to,omitempty" yaml:"to,omitempty"`
	Level  LoggingConfigLevel  `json:"level,omitempty" yaml:"level,omitempty"`
	Source bool                `json:"source,omitempty" yaml:"source,omitempty"`
}

func (l *LoggingConfigJson) GetType() LoggingConfigType {
	return LoggingConfigTypeJson
}

func (l *LoggingConfigJson) GetRootLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(l.To.Output(), &slog.HandlerOptions{
		Level:     l.Level.Level(),
		AddSource: l.Source,
	}))
}

type LoggingConfigTint struct {
	Type       LoggingConfigType   `json:"type" yaml:"type"`
	To         LoggingConfigOutput `json:"to,omitempty" yaml:"to,omitempty"`
	Level      LoggingConfigLevel  `json:"level,omitempty" yaml:"level,omitempty"`
	Source     bool                `json:"source,omitempty" yaml:"source,omitempty"`
	NoColor    *bool               `json:"no_color,omitempty" yaml:"no_color,omitempty"`
	TimeFormat *string             `json:"time_format,omitempty" yaml:"time_format,omitempty"`
}

func (l *LoggingConfigTint) GetType() LoggingConfigType {
	return LoggingConfigTypeTint
}

func (l *LoggingConfigTint) GetRootLogger() *slog.Logger {
	noColor := false
	if l.NoColor != nil {
		noColor = *l.NoColor
	}

	timeFormat := time.Kitchen
	if l.TimeFormat != nil {
		timeFormat = *l.TimeFormat
	}

	return slog.New(tint.NewHandler(l.To.Output(), &tint.Options{
		Level:      l.Level.Level(),
		AddSource:  l.Source,
		NoColor:    noColor,
		TimeFormat: timeFormat,
	}))
}

type LoggingConfigNone struct {
	Type LoggingConfigType `json:"type" yaml:"type"`
}

func (l *LoggingConfigNone) GetType() LoggingConfigType {
	return LoggingConfigTypeNone
}

func (l *LoggingConfigNone) GetRootLogger() *slog.Logger {
	return pblog.NewNoopLogger()
}

var _ LoggingImpl = (*LoggingConfig)(nil)
var _ LoggingImpl = (*LoggingConfigText)(nil)
var _ LoggingImpl = (*LoggingConfigJson)(nil)
var _ LoggingImpl = (*LoggingConfigTint)(nil)
var _ LoggingImpl = (*LoggingConfigNone)(nil)
