package ai

import (
	"context"
	"strings"
	"time"

	"aideo-backend/internal/shared/telemetry"
)

// fallbackType marks an analysis the model could not produce.
const fallbackType = "Inconnu"

// Result is the outcome of a structuring attempt. Structuring never fails
// the pipeline: when the model is unreachable or answers garbage, Degraded
// is set and the Analysis falls back to a minimal placeholder.
type Result struct {
	Analysis Analysis
	Degraded bool
	Reason   string
}

// Structurer wraps a Client with a deadline and a degradation policy.
type Structurer struct {
	client  Client
	timeout time.Duration
}

// NewStructurer builds a Structurer around the given client.
func NewStructurer(client Client, timeout time.Duration) *Structurer {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Structurer{client: client, timeout: timeout}
}

// Structure analyzes text and always returns a usable Result.
func (s *Structurer) Structure(ctx context.Context, text string) Result {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	analysis, err := s.client.Analyze(ctx, text)
	if err != nil {
		telemetry.Warn("ai.structure.degraded", map[string]any{"error": err.Error()})
		return degraded(err.Error())
	}

	analysis.Normalize()
	if strings.TrimSpace(analysis.Type) == "" {
		analysis.Type = fallbackType
	}
	return Result{Analysis: analysis}
}

func degraded(reason string) Result {
	a := Analysis{Type: fallbackType}
	a.Normalize()
	return Result{Analysis: a, Degraded: true, Reason: reason}
}
