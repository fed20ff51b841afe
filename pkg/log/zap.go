package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	Logger *zap.SugaredLogger
	level  = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.MessageKey = "msg"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.CallerKey = "logger_name"

	level.SetLevel(parseLevel(os.Getenv("LOG_LEVEL")))

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	logger = zap.New(core,
		zap.AddCaller(),
		zap.Fields(zap.String("logName", os.Getenv("APPLICATION_NAME"))),
		zap.AddCallerSkip(1))

	Logger = logger.Sugar()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zap.DebugLevel
	case "WARN":
		return zap.WarnLevel
	case "ERROR":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// SetLevel changes the minimum enabled level at runtime, e.g. "debug" or "warn".
func SetLevel(s string) {
	level.SetLevel(parseLevel(s))
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = logger.Sync()
}

// Info logs a message at InfoLevel. The message includes any fields passed at the log site, as well as any fields accumulated on the logger.
func Info(message string, fields ...zap.Field) {
	logger.Info(message, fields...)
}

// Infow logs a message with some additional context. The variadic key-value pairs are treated as they are in With.
func Infow(message string, keysAndValues ...interface{}) {
	Logger.Infow(message, keysAndValues...)
}

// Infof formats the message according to the format specifier and logs it at InfoLevel.
func Infof(message string, args ...interface{}) {
	Logger.Infof(message, args...)
}

// Debug logs a message at DebugLevel. The message includes any fields passed at the log site, as well as any fields accumulated on the logger.
func Debug(message string, fields ...zap.Field) {
	logger.Debug(message, fields...)
}

// Debugw logs a message with some additional context. The variadic key-value pairs are treated as they are in With.
func Debugw(message string, keysAndValues ...interface{}) {
	Logger.Debugw(message, keysAndValues...)
}

// Debugf formats the message according to the format specifier and logs it at DebugLevel.
func Debugf(message string, args ...interface{}) {
	Logger.Debugf(message, args...)
}

// Warn logs a message at WarnLevel.
func Warn(message string, fields ...zap.Field) {
	logger.Warn(message, fields...)
}

// Warnw logs a message at WarnLevel with additional key-value context.
func Warnw(message string, keysAndValues ...interface{}) {
	Logger.Warnw(message, keysAndValues...)
}

// Warnf formats the message according to the format specifier and logs it at WarnLevel.
func Warnf(message string, args ...interface{}) {
	Logger.Warnf(message, args...)
}

// Error logs a message at ErrorLevel. The message includes any fields passed at the log site, as well as any fields accumulated on the logger.
func Error(message string, fields ...zap.Field) {
	logger.Error(message, fields...)
}

// Errorw logs a message with some additional context. The variadic key-value pairs are treated as they are in With.
func Errorw(message string, keysAndValues ...interface{}) {
	Logger.Errorw(message, keysAndValues...)
}

// Errorf formats the message according to the format specifier and logs it at ErrorLevel.
func Errorf(message string, args ...interface{}) {
	Logger.Errorf(message, args...)
}

// Fatal logs a message at FatalLevel, then calls os.Exit.
func Fatal(message string, fields ...zap.Field) {
	logger.Fatal(message, fields...)
}

// Fatalf formats the message according to the format specifier and calls os.Exit.
func Fatalf(message string, args ...interface{}) {
	Logger.Fatalf(message, args...)
}
