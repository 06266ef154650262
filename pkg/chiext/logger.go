package chiext

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger logs each request through slog once it completes.
func Logger() func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&LogFormatter{Logger: slog.Default()})
}

type LogFormatter struct {
	Logger *slog.Logger
}

func (l *LogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("from", r.RemoteAddr),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, slog.String("request", reqID))
	}

	return &logEntry{
		logger: l.Logger,
		attrs:  attrs,
	}
}

type logEntry struct {
	logger *slog.Logger
	attrs  []any
}

func (l *logEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	attrs := append(l.attrs,
		slog.Int("status", status),
		slog.Int("bytes", bytes),
		slog.Duration("elapsed", elapsed),
	)

	switch {
	case status >= 500:
		l.logger.Error("HTTP request", attrs...)
	case status >= 400:
		l.logger.Warn("HTTP request", attrs...)
	default:
		l.logger.Debug("HTTP request", attrs...)
	}
}

func (l *logEntry) Panic(v interface{}, stack []byte) {
	l.logger.Error("HTTP handler panic", append(l.attrs, slog.Any("panic", v), slog.String("stack", string(stack)))...)
}
