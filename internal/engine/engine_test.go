package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
	"github.com/Harshitk-cp/geosolve/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRule struct {
	name  string
	apply func(s *kb.Store) (bool, error)
}

func (r stubRule) Name() string                    { return r.name }
func (r stubRule) Description() string             { return "test rule" }
func (r stubRule) Apply(s *kb.Store) (bool, error) { return r.apply(s) }

func newStore() *kb.Store {
	return kb.New(zap.NewNop())
}

func quad(s *kb.Store, a, b, c, d string) {
	s.AssertFact(domain.KindQuadrilateral,
		[]domain.Entity{domain.NewPoint(a), domain.NewPoint(b), domain.NewPoint(c), domain.NewPoint(d)},
		nil, "given", nil, domain.QuadInfo{})
}

func TestSolve_SaturatesOnOppositeAngles(t *testing.T) {
	s := newStore()
	quad(s, "A", "B", "C", "D")
	s.AssertValue(domain.NewAngle("D", "A", "B"), 110, "given")
	s.AssertValue(domain.NewAngle("B", "C", "D"), 70, "given")

	res := New(s, zap.NewNop()).Solve(context.Background())
	assert.True(t, res.Saturated)
	assert.False(t, res.HitCeiling)
	assert.Empty(t, res.Faults)
	assert.LessOrEqual(t, res.Rounds, DefaultMaxIterations)
	assert.Positive(t, res.Productive["cyclic_opposite_angles"])

	f, ok := s.Lookup(domain.KindIsCyclic, []string{"Quad_ABCD"}, nil)
	require.True(t, ok)
	assert.Contains(t, f.Primary().Reason, "sum to 180°")
}

func TestSolve_NoCyclicWithoutSupplementaryAngles(t *testing.T) {
	s := newStore()
	quad(s, "A", "B", "C", "D")
	s.AssertValue(domain.NewAngle("D", "A", "B"), 110, "given")
	s.AssertValue(domain.NewAngle("B", "C", "D"), 60, "given")

	res := New(s, nil).Solve(context.Background())
	assert.True(t, res.Saturated)

	_, ok := s.Lookup(domain.KindIsCyclic, []string{"Quad_ABCD"}, nil)
	assert.False(t, ok)
	assert.NotEmpty(t, s.FactsOf(domain.KindContradiction))
}

func TestSolve_EquilateralTrianglesContradict(t *testing.T) {
	s := newStore()
	eq := func(a, b, c string) {
		s.AssertFact(domain.KindIsEquilateral,
			[]domain.Entity{domain.NewPoint(a), domain.NewPoint(b), domain.NewPoint(c)}, nil, "given", nil, nil)
	}
	eq("A", "B", "C")
	eq("D", "B", "C")
	quad(s, "A", "B", "C", "D")

	res := New(s, nil).Solve(context.Background())
	assert.True(t, res.Saturated)

	_, ok := s.Lookup(domain.KindContradiction, []string{"Quad_ABCD"}, nil)
	assert.True(t, ok)
}

func TestSolve_CeilingIsSoftStop(t *testing.T) {
	s := newStore()
	n := 0
	grow := stubRule{name: "grow", apply: func(s *kb.Store) (bool, error) {
		n++
		return s.AssertValue(domain.NewSegment("A", "B"), float64(n), "grows forever"), nil
	}}

	res := New(s, nil, WithRules(grow), WithMaxIterations(4)).Solve(context.Background())
	assert.Equal(t, 4, res.Rounds)
	assert.True(t, res.HitCeiling)
	assert.False(t, res.Saturated)
	assert.Equal(t, 4, s.Len(), "facts derived before the ceiling are kept")
	assert.Equal(t, 4, res.Productive["grow"])
}

func TestSolve_DefaultCeiling(t *testing.T) {
	always := stubRule{name: "always", apply: func(*kb.Store) (bool, error) { return true, nil }}
	e := New(newStore(), nil, WithRules(always), WithMaxIterations(0))
	assert.Equal(t, DefaultMaxIterations, e.MaxIterations())

	res := e.Solve(context.Background())
	assert.Equal(t, 15, res.Rounds)
	assert.True(t, res.HitCeiling)
}

func TestSolve_FaultContainment(t *testing.T) {
	errBoom := errors.New("boom")
	s := newStore()
	var ranAfter int

	tests := []struct {
		name string
		rule rules.Rule
	}{
		{"error", stubRule{name: "fails", apply: func(*kb.Store) (bool, error) { return false, errBoom }}},
		{"panic", stubRule{name: "panics", apply: func(*kb.Store) (bool, error) {
			var m map[string]int
			m["x"] = 1
			return true, nil
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranAfter = 0
			after := stubRule{name: "after", apply: func(*kb.Store) (bool, error) {
				ranAfter++
				return false, nil
			}}

			res := New(s, nil, WithRules(tt.rule, after)).Solve(context.Background())
			assert.True(t, res.Saturated)
			assert.Equal(t, 1, ranAfter, "later rules still run")
			require.Len(t, res.Faults, 1)
			assert.Equal(t, tt.rule.Name(), res.Faults[0].Rule)
			assert.Equal(t, 1, res.Faults[0].Round)
			assert.Zero(t, res.Productive[tt.rule.Name()], "a failed application is not productive")
		})
	}
	assert.ErrorIs(t, New(s, nil, WithRules(tests[0].rule)).Solve(context.Background()).Faults[0].Err, errBoom)
}

func TestSolve_PartialWorkOfFailedRuleKeepsRunning(t *testing.T) {
	s := newStore()
	calls := 0
	partial := stubRule{name: "partial", apply: func(s *kb.Store) (bool, error) {
		calls++
		s.AssertValue(domain.NewSegment("A", "B"), 3, "asserted before failing")
		panic("late failure")
	}}

	res := New(s, nil, WithRules(partial)).Solve(context.Background())
	assert.Equal(t, 2, res.Rounds, "the round that grew the store is followed by another")
	assert.Equal(t, 2, calls)
	assert.True(t, res.Saturated)
	assert.Len(t, res.Faults, 2)
	assert.Zero(t, res.Productive["partial"])
	assert.Equal(t, 1, s.Len())
}

func TestSolve_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	stop := stubRule{name: "stop", apply: func(*kb.Store) (bool, error) {
		calls++
		cancel()
		return true, nil
	}}
	never := stubRule{name: "never", apply: func(*kb.Store) (bool, error) {
		t.Fatal("rule ran after cancellation")
		return false, nil
	}}

	res := New(newStore(), nil, WithRules(stop, never)).Solve(ctx)
	assert.True(t, res.Interrupted)
	assert.False(t, res.Saturated)
	assert.Equal(t, 1, calls)
}

func TestAddRule_RunsAfterCatalog(t *testing.T) {
	var order []string
	mk := func(name string) rules.Rule {
		return stubRule{name: name, apply: func(*kb.Store) (bool, error) {
			order = append(order, name)
			return false, nil
		}}
	}
	e := New(newStore(), nil, WithRules(mk("first")))
	e.AddRule(mk("second"))
	e.Solve(context.Background())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Len(t, e.Rules(), 2)
}

func TestSolve_Deterministic(t *testing.T) {
	build := func() *kb.Store {
		s := newStore()
		quad(s, "A", "B", "C", "D")
		s.AssertFact(domain.KindParallel,
			[]domain.Entity{domain.NewPoint("A"), domain.NewPoint("B"), domain.NewPoint("C"), domain.NewPoint("D")},
			nil, "given", nil, nil)
		s.AssertValue(domain.NewAngle("D", "A", "B"), 70, "given")
		s.AssertEquality(domain.NewSegment("O", "A"), domain.NewSegment("O", "B"), "given")
		s.AssertEquality(domain.NewSegment("O", "C"), domain.NewSegment("O", "D"), "given")
		s.AssertEquality(domain.NewSegment("O", "A"), domain.NewSegment("O", "D"), "given")
		return s
	}
	keys := func(s *kb.Store) []string {
		var out []string
		for _, f := range s.Facts() {
			out = append(out, f.Key())
		}
		return out
	}

	s1, s2 := build(), build()
	r1 := New(s1, nil).Solve(context.Background())
	r2 := New(s2, nil).Solve(context.Background())
	assert.Equal(t, r1.Rounds, r2.Rounds)
	assert.Equal(t, keys(s1), keys(s2))
	assert.Equal(t, s1.SourceCount(), s2.SourceCount())
}
