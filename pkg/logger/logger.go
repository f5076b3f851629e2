package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

var log = slog.New(slog.NewTextHandler(os.Stdout, nil))

// Init configures the package logger for the given environment.
// Production emits JSON at info level, everything else text at debug level.
func Init(environment string) {
	SetOutput(os.Stdout, environment)
}

// SetOutput is Init writing to w.
func SetOutput(w io.Writer, environment string) {
	log = slog.New(newHandler(w, environment))
	slog.SetDefault(log)
}

func newHandler(w io.Writer, environment string) slog.Handler {
	if environment == EnvProduction {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Get returns the underlying logger.
func Get() *slog.Logger {
	return log
}

// With returns a child logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	return log.With(args...)
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}

type ctxKey struct{}

// IntoContext stores a request scoped logger.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request scoped logger or the package logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return log
}
