package ai

import "context"

// DateDetail is one important date extracted from a document.
type DateDetail struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// AmountDetail is one monetary amount extracted from a document.
type AmountDetail struct {
	Montant     float64 `json:"montant"`
	Description string  `json:"description"`
}

// Analysis is the structured reading of a document's raw text.
type Analysis struct {
	Type     string         `json:"type"`
	Resume   string         `json:"resume"`
	Actions  []string       `json:"actions"`
	Dates    []DateDetail   `json:"dates"`
	Montants []AmountDetail `json:"montants"`
}

// Client turns raw document text into a structured Analysis.
type Client interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}

// Normalize replaces nil collections with empty ones so the analysis
// always serializes as JSON arrays.
func (a *Analysis) Normalize() {
	if a.Actions == nil {
		a.Actions = []string{}
	}
	if a.Dates == nil {
		a.Dates = []DateDetail{}
	}
	if a.Montants == nil {
		a.Montants = []AmountDetail{}
	}
}
