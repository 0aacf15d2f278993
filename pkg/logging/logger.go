// Package logging provides structured logging for the OneKit site.
//
// The Logger interface keeps call sites independent of the backend. The
// backend is zerolog, configured once per process with Configure.
package logging

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logger is the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	WithContext(ctx context.Context) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// Common field constructors

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Event is the stable event name attached to notable log lines.
func Event(name string) Field {
	return Field{Key: "event", Value: name}
}

// Config captures options for configuring the process logger.
type Config struct {
	Level   string    // "debug", "info", "warn", "error"
	Format  string    // "json" (default) or "console"
	Output  io.Writer // defaults to os.Stderr
	Service string
	Version string
}

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Configure replaces the process logger and DefaultLogger.
func Configure(cfg Config) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil {
			level = parsed
		}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	service := cfg.Service
	if service == "" {
		service = "onekit-site"
	}

	zctx := zerolog.New(writer).Level(level).With().Timestamp().Str("service", service)
	if cfg.Version != "" {
		zctx = zctx.Str("version", cfg.Version)
	}

	mu.Lock()
	base = zctx.Logger()
	mu.Unlock()

	SetDefault(New(Base()))
}

// Base returns the configured zerolog logger.
func Base() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// WithComponent returns a child logger annotated with the component name.
func WithComponent(component string) Logger {
	return New(Base().With().Str("component", component).Logger())
}

// ZerologLogger implements Logger using zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// New wraps a zerolog logger.
func New(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

// Zerolog exposes the underlying logger.
func (l *ZerologLogger) Zerolog() zerolog.Logger {
	return l.zl
}

func toKV(fields []Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// Debug logs a debug message.
func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	l.zl.Debug().Fields(toKV(fields)).Msg(msg)
}

// Info logs an info message.
func (l *ZerologLogger) Info(msg string, fields ...Field) {
	l.zl.Info().Fields(toKV(fields)).Msg(msg)
}

// Warn logs a warning message.
func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	l.zl.Warn().Fields(toKV(fields)).Msg(msg)
}

// Error logs an error message.
func (l *ZerologLogger) Error(msg string, fields ...Field) {
	l.zl.Error().Fields(toKV(fields)).Msg(msg)
}

// With returns a logger with additional fields.
func (l *ZerologLogger) With(fields ...Field) Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(toKV(fields)).Logger()}
}

// WithContext returns a logger carrying the request id found in ctx, if any.
func (l *ZerologLogger) WithContext(ctx context.Context) Logger {
	if id := middleware.GetReqID(ctx); id != "" {
		return &ZerologLogger{zl: l.zl.With().Str("request_id", id).Logger()}
	}
	return l
}

// Context helpers

type loggerContextKey struct{}

// ContextWithLogger adds a logger to the context.
func ContextWithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// LoggerFromContext retrieves a logger from context.
func LoggerFromContext(ctx context.Context) Logger {
	logger, _ := ctx.Value(loggerContextKey{}).(Logger)
	return logger
}

// L is a shorthand for LoggerFromContext with a DefaultLogger fallback.
func L(ctx context.Context) Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		return Default()
	}
	return logger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = New(base)
)

// Default returns the process-wide logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// NopLogger is a logger that does nothing.
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field) {}
func (NopLogger) Warn(msg string, fields ...Field) {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (l NopLogger) With(fields ...Field) Logger { return l }
func (l NopLogger) WithContext(ctx context.Context) Logger { return l }

// RequestLogger logs one line per HTTP request and stores a request-scoped
// logger in the request context. It expects chi's RequestID middleware to
// run first.
func RequestLogger(logger Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.WithContext(r.Context()).With(
				String("method", r.Method),
				String("path", r.URL.Path),
			)
			ctx := ContextWithLogger(r.Context(), reqLogger)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []Field{
				Event("http.request"),
				Int("status", status),
				Int("bytes", ww.BytesWritten()),
				Duration("duration", time.Since(start)),
			}
			if status >= http.StatusInternalServerError {
				reqLogger.Error("request failed", fields...)
				return
			}
			reqLogger.Debug("request completed", fields...)
		})
	}
}
