package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SolveStatus summarises the outcome of a saturation run.
type SolveStatus string

const (
	// StatusSuccess: at least one cyclic quadrilateral was proven.
	StatusSuccess SolveStatus = "success"
	// StatusContradiction: the premises are inconsistent.
	StatusContradiction SolveStatus = "contradiction"
	// StatusWarning: saturation found nothing worth reporting.
	StatusWarning SolveStatus = "warning"
)

// FactView is the exported form of a fact. Payload decodes as a plain map.
type FactView struct {
	ID       FactID   `json:"id"`
	Kind     Kind     `json:"kind"`
	Entities []string `json:"entities"`
	Value    *float64 `json:"value,omitempty"`
	Sources  []Source `json:"sources"`
	Payload  any      `json:"payload,omitempty"`
}

func NewFactView(f *Fact) FactView {
	return FactView{
		ID:       f.ID,
		Kind:     f.Kind,
		Entities: append([]string(nil), f.Entities...),
		Value:    f.Value,
		Sources:  append([]Source(nil), f.Sources...),
		Payload:  f.Payload,
	}
}

// ProofStep is one fact cited by a justification.
type ProofStep struct {
	FactID    FactID `json:"fact_id"`
	Statement string `json:"statement"`
	Reason    string `json:"reason"`
}

// JustificationView is one independent proof of a conclusion.
type JustificationView struct {
	Method   string      `json:"method"`
	Reason   string      `json:"reason"`
	Premises []ProofStep `json:"premises"`
	Steps    []ProofStep `json:"steps"`
}

// Conclusion is a goal fact with its deduplicated justifications.
type Conclusion struct {
	Fact           FactView            `json:"fact"`
	Statement      string              `json:"statement"`
	Justifications []JustificationView `json:"justifications"`
	Text           string              `json:"text"`
}

type RuleFault struct {
	Round int    `json:"round"`
	Rule  string `json:"rule"`
	Error string `json:"error"`
}

type Solution struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name,omitempty"`
	Status      SolveStatus         `json:"status"`
	Rounds      int                 `json:"rounds"`
	Saturated   bool                `json:"saturated"`
	HitCeiling  bool                `json:"hit_ceiling"`
	Records     []Record            `json:"records"`
	Conclusions []Conclusion        `json:"conclusions"`
	Facts       map[Kind][]FactView `json:"facts"`
	Faults      []RuleFault         `json:"faults,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// SolutionSummary is the listing form of a stored solution.
type SolutionSummary struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name,omitempty"`
	Status      SolveStatus `json:"status"`
	Conclusions int         `json:"conclusions"`
	CreatedAt   time.Time   `json:"created_at"`
}

type SolutionStore interface {
	Create(ctx context.Context, s *Solution) error
	GetByID(ctx context.Context, id uuid.UUID) (*Solution, error)
	List(ctx context.Context, limit int) ([]SolutionSummary, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
