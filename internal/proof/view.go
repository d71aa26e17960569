package proof

import "github.com/Harshitk-cp/geosolve/internal/domain"

// View converts a conclusion into its exported form, text included.
func View(c Conclusion) domain.Conclusion {
	out := domain.Conclusion{
		Fact:           domain.NewFactView(c.Fact),
		Statement:      c.Fact.Statement(),
		Justifications: make([]domain.JustificationView, 0, len(c.Justifications)),
		Text:           Render(c),
	}
	for _, j := range c.Justifications {
		out.Justifications = append(out.Justifications, domain.JustificationView{
			Method:   string(j.Method),
			Reason:   j.Source.Reason,
			Premises: steps(j.Premises),
			Steps:    steps(j.Steps),
		})
	}
	return out
}

func steps(facts []*domain.Fact) []domain.ProofStep {
	out := make([]domain.ProofStep, len(facts))
	for i, f := range facts {
		out[i] = domain.ProofStep{
			FactID:    f.ID,
			Statement: f.Statement(),
			Reason:    f.Primary().Reason,
		}
	}
	return out
}
