package lexer

import (
	"context"
	"log/slog"
	"time"
)

// TraceEvent holds debug tracing information (development only)
type TraceEvent struct {
	Timestamp time.Time
	Event     string // "enter_literal", "found_operator", "emit", "done"
	Row       int    // Scanner row when the event fired
	Column    int    // Scanner column when the event fired
	Offset    int    // Scan position (tail) when the event fired
	Context   string // Byte under the cursor, matched operator, emitted lexeme, ...
}

// Tracer receives scanner trace events. Tracing is a side channel: it never
// changes the token stream. A nil Tracer (the default) disables tracing and
// the scanner does no tracing work at all.
type Tracer interface {
	Trace(ev TraceEvent)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(ev TraceEvent)

// Trace calls f(ev).
func (f TracerFunc) Trace(ev TraceEvent) {
	f(ev)
}

// EventRecorder is a Tracer that keeps events in memory. It is not safe for
// concurrent use; give each Tokenizer its own recorder.
type EventRecorder struct {
	events []TraceEvent
}

// NewEventRecorder creates a recorder with room for capacity events.
func NewEventRecorder(capacity int) *EventRecorder {
	return &EventRecorder{events: make([]TraceEvent, 0, capacity)}
}

// Trace appends ev.
func (r *EventRecorder) Trace(ev TraceEvent) {
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *EventRecorder) Events() []TraceEvent {
	result := make([]TraceEvent, len(r.events))
	copy(result, r.events)
	return result
}

// Reset drops recorded events but keeps capacity.
func (r *EventRecorder) Reset() {
	r.events = r.events[:0]
}

// SlogTracer forwards events to a structured logger at debug level.
type SlogTracer struct {
	Logger *slog.Logger
}

// Trace logs ev.
func (s SlogTracer) Trace(ev TraceEvent) {
	if s.Logger == nil {
		return
	}
	s.Logger.LogAttrs(context.Background(), slog.LevelDebug, ev.Event,
		slog.Int("row", ev.Row),
		slog.Int("column", ev.Column),
		slog.Int("offset", ev.Offset),
		slog.String("context", ev.Context),
	)
}
