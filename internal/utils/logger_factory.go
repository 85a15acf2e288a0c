package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	jsonZapEncodingConstant              = "json"
	consoleZapEncodingConstant           = "console"
	standardErrorSinkConstant            = "stderr"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingConstant,
	LogFormatConsole:    consoleZapEncodingConstant,
}

// LoggerFactory builds zap.Logger instances that write diagnostics to standard error,
// leaving standard output to the synthesized CLI.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	configuration, configurationError := factory.Configuration(requestedLogLevel, requestedLogFormat)
	if configurationError != nil {
		return nil, configurationError
	}
	return configuration.Build()
}

// Configuration resolves the zap configuration for a level and format. Names are
// matched case-insensitively. Both outputs point at standard error, and the
// console encoding uses capitalized levels with ISO8601 timestamps.
func (factory *LoggerFactory) Configuration(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (zap.Config, error) {
	zapLogLevel, levelExists := logLevelMapping[LogLevel(normalizeLoggerSetting(string(requestedLogLevel)))]
	if !levelExists {
		return zap.Config{}, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoding, formatExists := logFormatEncodingMapping[LogFormat(normalizeLoggerSetting(string(requestedLogFormat)))]
	if !formatExists {
		return zap.Config{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding
	configuration.OutputPaths = []string{standardErrorSinkConstant}
	configuration.ErrorOutputPaths = []string{standardErrorSinkConstant}
	if encoding == consoleZapEncodingConstant {
		configuration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		configuration.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	return configuration, nil
}

func normalizeLoggerSetting(setting string) string {
	return strings.ToLower(strings.TrimSpace(setting))
}
