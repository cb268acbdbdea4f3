package observability

import (
	"fmt"
	"io"
	"sync"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type int64Field struct {
	key string
	val int64
}

func (f int64Field) Key() string        { return f.key }
func (f int64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field      { return stringField{key, value} }
func Int(key string, value int) Field     { return intField{key, value} }
func Int64(key string, value int64) Field { return int64Field{key, value} }
func Error(key string, err error) Field   { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// WriterLogger emits one line per event to an io.Writer. It is intended for
// command-line tools; library callers should inject their own Logger.
type WriterLogger struct {
	mu     sync.Mutex
	out    io.Writer
	bound  []Field
	debugV bool
}

// NewWriterLogger builds a line-oriented logger. Debug events are suppressed
// unless debug is true.
func NewWriterLogger(out io.Writer, debug bool) *WriterLogger {
	return &WriterLogger{out: out, debugV: debug}
}

func (l *WriterLogger) Debug(msg string, fields ...Field) {
	if l.debugV {
		l.emit("DEBUG", msg, fields)
	}
}
func (l *WriterLogger) Info(msg string, fields ...Field)  { l.emit("INFO", msg, fields) }
func (l *WriterLogger) Warn(msg string, fields ...Field)  { l.emit("WARN", msg, fields) }
func (l *WriterLogger) Error(msg string, fields ...Field) { l.emit("ERROR", msg, fields) }

func (l *WriterLogger) With(fields ...Field) Logger {
	child := &WriterLogger{out: l.out, debugV: l.debugV}
	child.bound = append(append([]Field(nil), l.bound...), fields...)
	return child
}

func (l *WriterLogger) emit(level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s", level, msg)
	for _, f := range l.bound {
		fmt.Fprintf(l.out, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(l.out, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(l.out)
}

// Standard field keys emitted by the recovery pipeline.
const (
	KeyPage       = "page"
	KeyToken      = "token"
	KeyTentative  = "tentative.count"
	KeyValidated  = "validated.count"
	KeyCandidates = "candidates.count"
	KeySource     = "source"
)
