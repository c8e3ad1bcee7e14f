package logger

import (
	"log"
	"sync/atomic"
)

// Logger is the printf-style logger shared by the generator, its settings
// container and the providers they load.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

var (
	enabled atomic.Bool
	debug   atomic.Bool
)

func init() {
	enabled.Store(true)
}

// SetEnabled toggles output for every DefaultLogger.
func SetEnabled(v bool) { enabled.Store(v) }

// SetDebug toggles Debug output, which is off by default.
func SetDebug(v bool) { debug.Store(v) }

type DefaultLogger struct {
	name string
	out  *log.Logger
}

func NewDefaultLogger(name string) *DefaultLogger {
	return &DefaultLogger{name: name, out: log.Default()}
}

// WithOutput returns a copy writing to out.
func (d *DefaultLogger) WithOutput(out *log.Logger) *DefaultLogger {
	if out == nil {
		return d
	}
	return &DefaultLogger{name: d.name, out: out}
}

func (d *DefaultLogger) Debug(format string, args ...any) {
	if debug.Load() {
		d.print("DEBUG", format, args...)
	}
}

func (d *DefaultLogger) Info(format string, args ...any) {
	d.print("INFO", format, args...)
}

func (d *DefaultLogger) Warn(format string, args ...any) {
	d.print("WARN", format, args...)
}

func (d *DefaultLogger) Error(format string, args ...any) {
	d.print("ERROR", format, args...)
}

func (d *DefaultLogger) print(level, format string, args ...any) {
	if !enabled.Load() {
		return
	}
	d.out.Printf("["+level+"] "+d.name+" | "+format+"\n", args...)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
