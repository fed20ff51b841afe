package http

import (
	"go-weather/pkg/log"

	"go.uber.org/zap"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string, body string)

	// LogResponseSuccess is called immediately after receiving a successful response (non-error HTTP status)
	LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called after an error response or a transport failure (httpStatus 0)
	LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error)
}

type zapLogger struct{}

// NewZapLogger returns an HTTPLogger writing through pkg/log. Requests and
// successes are logged at debug, failures at warn.
func NewZapLogger() HTTPLogger {
	return zapLogger{}
}

func (zapLogger) LogRequest(method, url string, _ map[string]string, _ string) {
	log.Debug("http request", zap.String("method", method), zap.String("url", url))
}

func (zapLogger) LogResponseSuccess(method, url string, _ map[string]string, _ string, httpStatus int, _ string, latency int64) {
	log.Debug("http response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency))
}

func (zapLogger) LogResponseError(method, url string, _ map[string]string, _ string, httpStatus int, responseBody string, latency int64, err error) {
	log.Warn("http request failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.String("response", truncate(responseBody, 512)),
		zap.Int64("latency_ms", latency),
		zap.Error(err))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
