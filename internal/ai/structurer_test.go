package ai

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClient struct {
	analysis Analysis
	err      error
	delay    time.Duration
}

func (f *fakeClient) Analyze(ctx context.Context, text string) (Analysis, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return Analysis{}, ctx.Err()
		}
	}
	return f.analysis, f.err
}

func TestStructureSuccess(t *testing.T) {
	client := &fakeClient{analysis: Analysis{
		Type:    "Impôts",
		Resume:  "Avis d'imposition pour 2025.",
		Actions: []string{"Payer avant la date limite"},
	}}
	s := NewStructurer(client, time.Second)

	res := s.Structure(t.Context(), "avis d'imposition")
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Reason)
	}
	if res.Analysis.Type != "Impôts" {
		t.Fatalf("type = %q", res.Analysis.Type)
	}
	if res.Analysis.Dates == nil || res.Analysis.Montants == nil {
		t.Fatal("collections should be normalized to empty slices")
	}
}

func TestStructureDegradesOnClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream 500")}
	s := NewStructurer(client, time.Second)

	res := s.Structure(t.Context(), "texte")
	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	if res.Analysis.Type != "Inconnu" {
		t.Fatalf("fallback type = %q, want Inconnu", res.Analysis.Type)
	}
	if len(res.Analysis.Actions) != 0 || len(res.Analysis.Dates) != 0 || len(res.Analysis.Montants) != 0 {
		t.Fatal("fallback analysis should carry empty collections")
	}
	if res.Reason == "" {
		t.Fatal("degradation reason missing")
	}
}

func TestStructureDegradesOnTimeout(t *testing.T) {
	client := &fakeClient{delay: 200 * time.Millisecond, analysis: Analysis{Type: "Santé"}}
	s := NewStructurer(client, 10*time.Millisecond)

	res := s.Structure(t.Context(), "texte")
	if !res.Degraded {
		t.Fatal("expected degraded result on timeout")
	}
}

func TestStructureFillsBlankType(t *testing.T) {
	client := &fakeClient{analysis: Analysis{Resume: "Résumé sans type."}}
	s := NewStructurer(client, time.Second)

	res := s.Structure(t.Context(), "texte")
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Reason)
	}
	if res.Analysis.Type != "Inconnu" {
		t.Fatalf("type = %q, want Inconnu", res.Analysis.Type)
	}
}
