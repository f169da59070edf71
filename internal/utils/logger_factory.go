package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unknownLogLevelTemplateConstant  = "unknown log level %q"
	unknownLogFormatTemplateConstant = "unknown log format %q"
	jsonEncodingNameConstant         = "json"
	consoleEncodingNameConstant      = "console"
)

// LogLevel selects the minimum severity emitted by created loggers.
type LogLevel string

// LogFormat selects the encoding of created loggers.
type LogFormat string

// Supported logging levels and formats.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

// LoggerFactory builds zap loggers from configured level and format names.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger builds a production zap logger honoring the requested level
// and format. Names are matched case-insensitively after trimming.
func (factory *LoggerFactory) CreateLogger(requestedLevel LogLevel, requestedFormat LogFormat) (*zap.Logger, error) {
	zapLevel, levelError := resolveLogLevel(requestedLevel)
	if levelError != nil {
		return nil, levelError
	}

	encoding, formatError := resolveLogEncoding(requestedFormat)
	if formatError != nil {
		return nil, formatError
	}

	loggerConfiguration := zap.NewProductionConfig()
	loggerConfiguration.Level = zap.NewAtomicLevelAt(zapLevel)
	loggerConfiguration.Encoding = encoding

	return loggerConfiguration.Build()
}

func resolveLogLevel(requestedLevel LogLevel) (zapcore.Level, error) {
	switch normalizeConfigurationName(string(requestedLevel)) {
	case string(LogLevelDebug):
		return zapcore.DebugLevel, nil
	case string(LogLevelInfo):
		return zapcore.InfoLevel, nil
	case string(LogLevelWarn):
		return zapcore.WarnLevel, nil
	case string(LogLevelError):
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unknownLogLevelTemplateConstant, requestedLevel)
	}
}

func resolveLogEncoding(requestedFormat LogFormat) (string, error) {
	switch normalizeConfigurationName(string(requestedFormat)) {
	case string(LogFormatStructured):
		return jsonEncodingNameConstant, nil
	case string(LogFormatConsole):
		return consoleEncodingNameConstant, nil
	default:
		return "", fmt.Errorf(unknownLogFormatTemplateConstant, requestedFormat)
	}
}

func normalizeConfigurationName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
