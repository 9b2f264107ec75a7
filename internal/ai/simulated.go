package ai

import "context"

// Simulated is a deterministic Client for local development, so the
// pipeline works without network access or an API key.
type Simulated struct{}

// NewSimulated constructs the development client.
func NewSimulated() *Simulated {
	return &Simulated{}
}

func (s *Simulated) Analyze(ctx context.Context, text string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Type:   "Facture d'Électricité (Simulé)",
		Resume: "Ce document vous informe que votre facture d'électricité de 125.50 € est due. La date limite pour le paiement est le 2026-02-28.",
		Actions: []string{
			"Vérifier la consommation",
			"Payer le montant de 125.50 €",
		},
		Dates: []DateDetail{
			{Date: "2026-02-28", Description: "Date limite de paiement"},
		},
		Montants: []AmountDetail{
			{Montant: 125.50, Description: "Montant total de la facture"},
		},
	}, nil
}

var _ Client = (*Simulated)(nil)
