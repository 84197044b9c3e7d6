// Package logging provides structured JSON logging on stderr, keeping
// the digest on stdout machine-pasteable.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var verbose atomic.Bool

// SetVerbose enables debug/info output. Warn and error always emit.
func SetVerbose(on bool) {
	verbose.Store(on)
}

// Event represents a structured log event
type Event struct {
	Timestamp string         `json:"ts"`
	Level     Level          `json:"level"`
	Component string         `json:"component"`
	Event     string         `json:"event"`
	Duration  int64          `json:"duration_ms,omitempty"`
	Error     string         `json:"error,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Logger provides structured logging for one component.
type Logger struct {
	component string
}

// New creates a new logger for a component
func New(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) log(level Level, event string, duration int64, extra map[string]any, err error) {
	e := Event{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: l.component,
		Event:     event,
		Duration:  duration,
		Extra:     extra,
	}
	if err != nil {
		e.Error = err.Error()
	}

	data, _ := json.Marshal(e)
	fmt.Fprintln(os.Stderr, string(data))
}

// Debug logs a debug event when verbose output is enabled.
func (l *Logger) Debug(event string, extra map[string]any) {
	if !verbose.Load() {
		return
	}
	l.log(LevelDebug, event, 0, extra, nil)
}

// Info logs an info event when verbose output is enabled.
func (l *Logger) Info(event string, extra map[string]any) {
	if !verbose.Load() {
		return
	}
	l.log(LevelInfo, event, 0, extra, nil)
}

// Warn logs a warning event
func (l *Logger) Warn(event string, extra map[string]any, err error) {
	l.log(LevelWarn, event, 0, extra, err)
}

// Error logs an error event
func (l *Logger) Error(event string, extra map[string]any, err error) {
	l.log(LevelError, event, 0, extra, err)
}

// Timed logs an info event with the elapsed time since start, when
// verbose output is enabled.
func (l *Logger) Timed(event string, start time.Time, extra map[string]any) {
	if !verbose.Load() {
		return
	}
	l.log(LevelInfo, event, time.Since(start).Milliseconds(), extra, nil)
}
