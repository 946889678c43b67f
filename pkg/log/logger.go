package log

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	// Debug level message with alternating key/value pairs
	Debug(ctx context.Context, msg string, args ...interface{})
	// Info level message with alternating key/value pairs
	Info(ctx context.Context, msg string, args ...interface{})
	// Warn level message with alternating key/value pairs
	Warn(ctx context.Context, msg string, args ...interface{})
	// Error level message with alternating key/value pairs
	Error(ctx context.Context, msg string, args ...interface{})
}

type ctxKey string

// RequestIDKey is the context key the http layer uses to stamp the request id.
const RequestIDKey ctxKey = "request_id"

// ActorIDKey carries the authenticated user id.
const ActorIDKey ctxKey = "actor_id"

type CtxLogger struct {
	log  *logrus.Logger
	keys []ctxKey
}

// NewCtxLogger returns a JSON logrus logger that appends known context values to every entry.
func NewCtxLogger(level string, w io.Writer) *CtxLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	if w != nil {
		l.SetOutput(w)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &CtxLogger{log: l, keys: []ctxKey{RequestIDKey, ActorIDKey}}
}

// Noop discards everything. Handy in tests.
func Noop() *CtxLogger { return NewCtxLogger("panic", io.Discard) }

func (l *CtxLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, args).Debug(msg)
}

func (l *CtxLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, args).Info(msg)
}

func (l *CtxLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, args).Warn(msg)
}

func (l *CtxLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.entry(ctx, args).Error(msg)
}

func (l *CtxLogger) Level() string { return l.log.GetLevel().String() }

func (l *CtxLogger) Writer() io.Writer { return l.log.Out }

// Printf lets printf-style loggers (gorm, cron) write through the same sink.
func (l *CtxLogger) Printf(format string, args ...interface{}) { l.log.Infof(format, args...) }

// entry turns alternating key/value args plus context values into logrus fields.
// A trailing key without value is logged under "_extra".
func (l *CtxLogger) entry(ctx context.Context, args []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if i+1 >= len(args) {
			fields["_extra"] = key
			break
		}
		if err, isErr := args[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = args[i+1]
	}
	if ctx != nil {
		for _, k := range l.keys {
			if v := ctx.Value(k); v != nil {
				fields[string(k)] = v
			}
		}
	}
	return l.log.WithFields(fields)
}
