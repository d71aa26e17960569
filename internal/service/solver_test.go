package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSolutionStore mocks the SolutionStore interface.
type MockSolutionStore struct {
	mock.Mock
}

func (m *MockSolutionStore) Create(ctx context.Context, s *domain.Solution) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSolutionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Solution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Solution), args.Error(1)
}

func (m *MockSolutionStore) List(ctx context.Context, limit int) ([]domain.SolutionSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SolutionSummary), args.Error(1)
}

func (m *MockSolutionStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func quadProblem(a, c float64) domain.Problem {
	return domain.Problem{
		Name: "opposite angles",
		Records: []domain.Record{
			{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "C", "D"}},
			{Type: domain.RecordValue, Subtype: "angle", Points: []string{"D", "A", "B"}, Value: val(a)},
			{Type: domain.RecordValue, Subtype: "angle", Points: []string{"B", "C", "D"}, Value: val(c)},
		},
	}
}

func TestSolve_Status(t *testing.T) {
	tests := []struct {
		name    string
		problem domain.Problem
		want    domain.SolveStatus
	}{
		{"supplementary opposite angles", quadProblem(110, 70), domain.StatusSuccess},
		{"opposite angles off by ten degrees", quadProblem(110, 60), domain.StatusContradiction},
		{"nothing to conclude", domain.Problem{Records: []domain.Record{
			{Type: domain.RecordTriangle, Points: []string{"A", "B", "C"}},
		}}, domain.StatusWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSolverService(zap.NewNop())
			sol, err := svc.Solve(context.Background(), tt.problem)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sol.Status)
			assert.NotEqual(t, uuid.Nil, sol.ID)
			assert.True(t, sol.Saturated)
			assert.False(t, sol.CreatedAt.IsZero())
		})
	}
}

func TestSolve_InscribedQuadrilateralIsConsistent(t *testing.T) {
	p := domain.Problem{Records: []domain.Record{
		{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "C", "D"}},
		{Type: domain.RecordCircle, Center: "O", Points: []string{"A", "B", "C", "D"}},
		{Type: domain.RecordValue, Subtype: "angle", Points: []string{"A", "B", "C"}, Value: val(100)},
	}}

	sol, err := NewSolverService(zap.NewNop()).Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, sol.Status)
	for _, c := range sol.Conclusions {
		assert.NotEqual(t, domain.KindContradiction, c.Fact.Kind, c.Text)
	}
}

func TestSolve_ExportsFactsAndProofs(t *testing.T) {
	sol, err := NewSolverService(nil).Solve(context.Background(), quadProblem(110, 70))
	require.NoError(t, err)

	require.Len(t, sol.Conclusions, 1)
	c := sol.Conclusions[0]
	assert.Equal(t, domain.KindIsCyclic, c.Fact.Kind)
	assert.Equal(t, []string{"Quad_ABCD"}, c.Fact.Entities)
	require.Len(t, c.Justifications, 1)
	assert.Equal(t, "angle-sum", c.Justifications[0].Method)
	assert.Len(t, c.Justifications[0].Premises, 3)

	assert.Len(t, sol.Facts[domain.KindQuadrilateral], 1)
	assert.NotEmpty(t, sol.Facts[domain.KindValue])
	assert.Len(t, sol.Records, 3)
}

func TestSolve_MaxIterationsFromProblem(t *testing.T) {
	p := quadProblem(110, 70)
	p.MaxIterations = 1

	svc := NewSolverService(zap.NewNop())
	sol, err := svc.Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, sol.Rounds)
	assert.True(t, sol.HitCeiling)
	assert.False(t, sol.Saturated)
}

func TestSolve_InputErrors(t *testing.T) {
	svc := NewSolverService(zap.NewNop())

	_, err := svc.Solve(context.Background(), domain.Problem{})
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = svc.Solve(context.Background(), domain.Problem{Records: []domain.Record{{Type: domain.RecordTriangle}}})
	assert.ErrorIs(t, err, ErrMalformedRecord)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Solve(ctx, quadProblem(110, 70))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_PersistsSolution(t *testing.T) {
	ctx := context.Background()
	ss := new(MockSolutionStore)
	ss.On("Create", ctx, mock.AnythingOfType("*domain.Solution")).Return(nil)

	svc := NewSolverService(zap.NewNop())
	svc.SetSolutionStore(ss)
	sol, err := svc.Solve(ctx, quadProblem(110, 70))
	require.NoError(t, err)

	ss.AssertExpectations(t)
	stored := ss.Calls[0].Arguments.Get(1).(*domain.Solution)
	assert.Equal(t, sol.ID, stored.ID)
}

func TestSolve_PersistenceFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	ss := new(MockSolutionStore)
	ss.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	svc := NewSolverService(zap.NewNop())
	svc.SetSolutionStore(ss)
	sol, err := svc.Solve(ctx, quadProblem(110, 70))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, sol.Status)
	ss.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	missing := uuid.New()

	ss := new(MockSolutionStore)
	ss.On("GetByID", ctx, id).Return(&domain.Solution{ID: id, Status: domain.StatusSuccess}, nil)
	ss.On("GetByID", ctx, missing).Return(nil, store.ErrNotFound)

	svc := NewSolverService(zap.NewNop())
	_, err := svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNoSolutionStore)

	svc.SetSolutionStore(ss)
	sol, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, sol.ID)

	_, err = svc.Get(ctx, missing)
	assert.ErrorIs(t, err, ErrSolutionNotFound)
}

func TestList_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	ss := new(MockSolutionStore)
	ss.On("List", ctx, DefaultListLimit).Return([]domain.SolutionSummary{}, nil).Once()
	ss.On("List", ctx, MaxListLimit).Return([]domain.SolutionSummary{}, nil).Once()

	svc := NewSolverService(zap.NewNop())
	svc.SetSolutionStore(ss)

	_, err := svc.List(ctx, 0)
	require.NoError(t, err)
	_, err = svc.List(ctx, 5000)
	require.NoError(t, err)
	ss.AssertExpectations(t)
}
