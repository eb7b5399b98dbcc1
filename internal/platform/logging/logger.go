package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

const redacted = "[redacted]"

// Credentials pass through the account client and the auth middleware; their
// values never reach the log sink.
var secretKeys = map[string]struct{}{
	"token":         {},
	"access_token":  {},
	"authorization": {},
	"admin_key":     {},
	"password":      {},
}

// Logger takes slog-style key/value pairs on top of zap. The *Context
// variants add trace_id and span_id from the active span.
type Logger struct {
	zap *zap.Logger
	// synced is shared with every logger derived through With or Named.
	synced *atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// ParseLevel maps APP_LOG_LEVEL values to a level, defaulting to info.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func NewJSON(level Level) *Logger {
	return NewJSONWriter(os.Stdout, level)
}

// NewJSONWriter writes one JSON object per line to w.
func NewJSONWriter(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stdout
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return FromZap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zapcore.ErrorLevel)))
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zap: z, synced: new(atomic.Bool)}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

// Sync flushes the underlying core once, however many derived loggers call it.
func (l *Logger) Sync() error {
	if l == nil || !l.synced.CompareAndSwap(false, true) {
		return nil
	}
	return l.zap.Sync()
}

// Named scopes the logger to a component, e.g. "migration".
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return Default().Named(name)
	}
	return &Logger{zap: l.zap.Named(name), synced: l.synced}
}

func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return Default().With(args...)
	}
	return &Logger{zap: l.zap.With(fields(args)...), synced: l.synced}
}

func (l *Logger) Debug(msg string, args ...any) { l.write(context.Background(), LevelDebug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.write(context.Background(), LevelInfo, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(context.Background(), LevelWarn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.write(context.Background(), LevelError, msg, args) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, msg, args)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, msg, args)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, msg, args)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, msg, args)
}

func (l *Logger) write(ctx context.Context, level Level, msg string, args []any) {
	if l == nil {
		l = Default()
	}
	ce := l.zap.Check(level, msg)
	if ce == nil {
		return
	}

	out := fields(args)
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			out = append(out,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
	}
	ce.Write(out...)
}

// fields turns key/value pairs into zap fields. A dangling key logs as null
// and a non-string key becomes "arg".
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(args)/2+3)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = "arg"
		}
		if i+1 >= len(args) {
			out = append(out, zap.Any(key, nil))
			break
		}

		switch value := args[i+1].(type) {
		case nil:
			out = append(out, zap.Any(key, nil))
		case error:
			out = append(out, zap.NamedError(key, value))
		default:
			if _, secret := secretKeys[strings.ToLower(key)]; secret {
				out = append(out, zap.String(key, redacted))
				continue
			}
			out = append(out, zap.Any(key, value))
		}
	}
	return out
}
