package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/engine"
	"github.com/Harshitk-cp/geosolve/internal/kb"
	"github.com/Harshitk-cp/geosolve/internal/proof"
	"github.com/Harshitk-cp/geosolve/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSolutionNotFound = errors.New("solution not found")
	ErrNoRecords        = errors.New("records are required")
	ErrNoSolutionStore  = errors.New("solutions are not persisted")
)

const (
	// DefaultListLimit caps solution listings when no limit is given.
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type SolverService struct {
	solutionStore domain.SolutionStore
	maxIterations int
	logger        *zap.Logger
}

func NewSolverService(logger *zap.Logger) *SolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolverService{
		maxIterations: engine.DefaultMaxIterations,
		logger:        logger,
	}
}

func (s *SolverService) SetSolutionStore(ss domain.SolutionStore) {
	s.solutionStore = ss
}

// SetMaxIterations sets the round ceiling used when a problem names none.
func (s *SolverService) SetMaxIterations(n int) {
	if n > 0 {
		s.maxIterations = n
	}
}

// Solve runs one problem through a fresh store: ingestion, saturation and
// proof extraction. Only malformed input fails; contradictions and an
// exhausted ceiling are reported in the solution.
func (s *SolverService) Solve(ctx context.Context, p domain.Problem) (*domain.Solution, error) {
	if len(p.Records) == 0 {
		return nil, ErrNoRecords
	}

	kbs := kb.New(s.logger.Named("kb"))
	skipped, err := NewIngestor(kbs, s.logger).Ingest(p.Records)
	if err != nil {
		return nil, err
	}

	maxIter := s.maxIterations
	if p.MaxIterations > 0 {
		maxIter = p.MaxIterations
	}
	res := engine.New(kbs, s.logger, engine.WithMaxIterations(maxIter)).Solve(ctx)
	if res.Interrupted {
		return nil, fmt.Errorf("solve interrupted: %w", ctx.Err())
	}

	conclusions := proof.NewExtractor(kbs).Conclusions()
	sol := &domain.Solution{
		ID:          uuid.New(),
		Name:        p.Name,
		Status:      statusOf(conclusions),
		Rounds:      res.Rounds,
		Saturated:   res.Saturated,
		HitCeiling:  res.HitCeiling,
		Records:     p.Records,
		Conclusions: make([]domain.Conclusion, 0, len(conclusions)),
		Facts:       exportFacts(kbs),
		CreatedAt:   time.Now().UTC(),
	}
	for _, c := range conclusions {
		sol.Conclusions = append(sol.Conclusions, proof.View(c))
	}
	for _, f := range res.Faults {
		sol.Faults = append(sol.Faults, domain.RuleFault{Round: f.Round, Rule: f.Rule, Error: f.Err.Error()})
	}

	s.logger.Info("problem solved",
		zap.String("solution_id", sol.ID.String()),
		zap.String("status", string(sol.Status)),
		zap.Int("records", len(p.Records)),
		zap.Int("skipped_records", skipped),
		zap.Int("conclusions", len(sol.Conclusions)),
		zap.Int("rounds", sol.Rounds),
		zap.Bool("saturated", sol.Saturated),
	)

	if s.solutionStore != nil {
		if err := s.solutionStore.Create(ctx, sol); err != nil {
			s.logger.Warn("failed to persist solution",
				zap.String("solution_id", sol.ID.String()),
				zap.Error(err),
			)
		}
	}
	return sol, nil
}

func (s *SolverService) Get(ctx context.Context, id uuid.UUID) (*domain.Solution, error) {
	if s.solutionStore == nil {
		return nil, ErrNoSolutionStore
	}
	sol, err := s.solutionStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSolutionNotFound
		}
		return nil, err
	}
	return sol, nil
}

// List returns the most recent solutions, newest first.
func (s *SolverService) List(ctx context.Context, limit int) ([]domain.SolutionSummary, error) {
	if s.solutionStore == nil {
		return nil, ErrNoSolutionStore
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.solutionStore.List(ctx, limit)
}

func statusOf(cs []proof.Conclusion) domain.SolveStatus {
	status := domain.StatusWarning
	for _, c := range cs {
		switch c.Fact.Kind {
		case domain.KindContradiction:
			return domain.StatusContradiction
		case domain.KindIsCyclic:
			status = domain.StatusSuccess
		}
	}
	return status
}

func exportFacts(s *kb.Store) map[domain.Kind][]domain.FactView {
	out := make(map[domain.Kind][]domain.FactView)
	for _, kind := range s.Kinds() {
		facts := s.FactsOf(kind)
		views := make([]domain.FactView, len(facts))
		for i, f := range facts {
			views[i] = domain.NewFactView(f)
		}
		out[kind] = views
	}
	return out
}
