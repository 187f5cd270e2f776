package describe

import (
	"context"
	"slices"
	"sync"
)

// Logger is the interface for structured logging of the runner itself.
// Compatible with *slog.Logger and other structured loggers.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger returns a Logger that discards all messages.
func NopLogger() Logger {
	return noopLogger{}
}

// noopLogger discards all log messages.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// LogSink receives log statements emitted through Info and Debug.
type LogSink interface {
	Log(statement LogStatement)
}

type sinkKey struct{}

// WithLogSink returns a copy of ctx whose Info and Debug calls go to sink.
// The parent context keeps whatever sink it had.
func WithLogSink(ctx context.Context, sink LogSink) context.Context {
	return context.WithValue(ctx, sinkKey{}, sink)
}

// SinkFrom returns the sink installed in ctx, if any.
func SinkFrom(ctx context.Context) (LogSink, bool) {
	sink, ok := ctx.Value(sinkKey{}).(LogSink)
	return sink, ok && sink != nil
}

// Info emits an info message to the sink of the test case running under ctx.
// Outside of a test case it does nothing.
func Info(ctx context.Context, message string) {
	emit(ctx, LevelInfo, message)
}

// Debug emits a debug message to the sink of the test case running under ctx.
// Outside of a test case it does nothing.
func Debug(ctx context.Context, message string) {
	emit(ctx, LevelDebug, message)
}

func emit(ctx context.Context, level LogLevel, message string) {
	if ctx == nil {
		return
	}
	if sink, ok := SinkFrom(ctx); ok {
		sink.Log(LogStatement{Level: level, Message: message})
	}
}

// LogCapture buffers log statements in emission order. It is safe for
// concurrent use, so bodies may log from goroutines they start.
type LogCapture struct {
	mu   sync.Mutex
	logs []LogStatement
}

// NewLogCapture creates an empty capture.
func NewLogCapture() *LogCapture {
	return &LogCapture{}
}

// Log appends a statement.
func (c *LogCapture) Log(statement LogStatement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logs = append(c.logs, statement)
}

// Logs returns a copy of the captured statements.
func (c *LogCapture) Logs() []LogStatement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.logs)
}
