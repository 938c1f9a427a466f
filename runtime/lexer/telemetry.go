package lexer

import (
	"fmt"
	"time"
)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Token counts only
	TelemetryTiming                      // Token counts + timing per type
)

func (m TelemetryMode) String() string {
	switch m {
	case TelemetryOff:
		return "off"
	case TelemetryBasic:
		return "basic"
	case TelemetryTiming:
		return "timing"
	default:
		return fmt.Sprintf("TelemetryMode(%d)", int(m))
	}
}

// ParseTelemetryMode maps "off", "basic" or "timing" to a mode. The empty
// string means off.
func ParseTelemetryMode(s string) (TelemetryMode, error) {
	switch s {
	case "", "off":
		return TelemetryOff, nil
	case "basic":
		return TelemetryBasic, nil
	case "timing":
		return TelemetryTiming, nil
	}
	return TelemetryOff, fmt.Errorf("unknown telemetry mode %q (want off, basic or timing)", s)
}

// LexerOpt represents a tokenizer configuration option
type LexerOpt func(*LexerConfig)

// LexerConfig holds tokenizer configuration
type LexerConfig struct {
	telemetry TelemetryMode
	tracer    Tracer
}

// WithTelemetryBasic enables basic telemetry (token counts only)
func WithTelemetryBasic() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per type)
func WithTelemetryTiming() LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithTelemetry sets the telemetry mode explicitly.
func WithTelemetry(mode TelemetryMode) LexerOpt {
	return func(c *LexerConfig) {
		c.telemetry = mode
	}
}

// WithTracer installs a trace sink. Passing nil disables tracing.
func WithTracer(tracer Tracer) LexerOpt {
	return func(c *LexerConfig) {
		c.tracer = tracer
	}
}

// TokenTelemetry holds per-token type telemetry (production-safe)
type TokenTelemetry struct {
	Type      TokenType
	Count     int
	Bytes     int
	TotalTime time.Duration
	AvgTime   time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// Telemetry returns per-token type telemetry, or nil when telemetry is off.
func (t *Tokenizer) Telemetry() map[TokenType]*TokenTelemetry {
	if t.telemetryMode == TelemetryOff || t.tokenTelemetry == nil {
		return nil
	}

	// Return a copy to prevent external modification
	result := make(map[TokenType]*TokenTelemetry, len(t.tokenTelemetry))
	for k, v := range t.tokenTelemetry {
		telemetryCopy := *v
		result[k] = &telemetryCopy
	}
	return result
}

func (t *Tokenizer) recordTokenTelemetry(tok Token, elapsed time.Duration) {
	telemetry, exists := t.tokenTelemetry[tok.Type]
	if !exists {
		telemetry = &TokenTelemetry{
			Type:    tok.Type,
			MinTime: elapsed,
			MaxTime: elapsed,
		}
		t.tokenTelemetry[tok.Type] = telemetry
	}

	telemetry.Count++
	telemetry.Bytes += len(tok.Text)

	if t.telemetryMode >= TelemetryTiming {
		telemetry.TotalTime += elapsed
		telemetry.AvgTime = telemetry.TotalTime / time.Duration(telemetry.Count)
		if elapsed < telemetry.MinTime {
			telemetry.MinTime = elapsed
		}
		if elapsed > telemetry.MaxTime {
			telemetry.MaxTime = elapsed
		}
	}
}
