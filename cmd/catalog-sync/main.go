// Package main is the entry point for the catalog sync service.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zigwheels/catalog-sync/cmd/catalog-sync/app"
	"github.com/zigwheels/catalog-sync/internal/config"
)

// getLogLevel parses the CATALOG_SYNC_LOG_LEVEL environment variable and returns the corresponding slog.Level.
// Falls back to LOG_LEVEL. Defaults to slog.LevelInfo if neither is set or if the value is invalid.
func getLogLevel() slog.Level {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	levelStr := v.GetString("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}

	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("Invalid LOG_LEVEL, using INFO", "value", levelStr)
		return slog.LevelInfo
	}
}

// zapLevel converts a slog level to the zap threshold. logr maps slog debug
// to V(4), which zapr emits at zap level -4, so the threshold follows the slog
// level below info and stays at info above it.
func zapLevel(level slog.Level) zapcore.Level {
	return zapcore.Level(min(int(level), 0))
}

// newZapLogger builds a JSON production logger writing to stderr
func newZapLogger(level zap.AtomicLevel) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.OutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// traceHandler wraps an slog.Handler to automatically inject OpenTelemetry
// trace_id and span_id into every log record, enabling log-trace correlation.
// It also drops records below level, since warn and info share a logr verbosity.
type traceHandler struct {
	slog.Handler
	level slog.Leveler
}

func (h *traceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.Handler.Enabled(ctx, level)
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}

func main() {
	// Logs go to stderr to keep stdout clean for commands that print data
	// (version --format json, probe).
	var level slog.LevelVar
	level.Set(getLogLevel())
	atomicLevel := zap.NewAtomicLevelAt(zapLevel(level.Level()))

	zapLogger, err := newZapLogger(atomicLevel)
	if err != nil {
		slog.Error("Failed to build logger", "error", err)
		os.Exit(1)
	}

	handler := &traceHandler{Handler: logr.ToSlogHandler(zapr.NewLogger(zapLogger)), level: &level}
	slog.SetDefault(slog.New(handler))

	enableDebug := func() {
		level.Set(slog.LevelDebug)
		atomicLevel.SetLevel(zapLevel(slog.LevelDebug))
	}

	err = app.NewRootCmd(enableDebug).Execute()
	_ = zapLogger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
