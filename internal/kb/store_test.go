package kb

import (
	"testing"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore() *Store {
	return New(zap.NewNop())
}

func TestRegister_Recursive(t *testing.T) {
	s := newTestStore()

	assert.True(t, s.Register(domain.NewSegment("O", "A")))
	assert.True(t, s.Registered("Seg_AO"))
	assert.True(t, s.Registered("O"))
	assert.True(t, s.Registered("A"))

	assert.False(t, s.Register(domain.NewSegment("A", "O")), "re-registering is a no-op")

	names := []string{}
	for _, p := range s.Points() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"O", "A"}, names)
}

func TestResolvePoints(t *testing.T) {
	s := newTestStore()
	s.Register(domain.NewTriangle("A", "B", "C"))

	pts, ok := s.ResolvePoints("A", "C")
	require.True(t, ok)
	assert.Equal(t, "C", pts[1].Name)

	_, ok = s.ResolvePoints("A", "Z")
	assert.False(t, ok, "unregistered point means the rule does not apply")

	_, ok = s.ResolvePoints("Tri_ABC")
	assert.False(t, ok, "non-point ids do not resolve as points")
}

func TestAssertFact_Dedup(t *testing.T) {
	s := newTestStore()
	quad := domain.NewQuadrilateral("A", "B", "C", "D")

	assert.True(t, s.AssertFact(domain.KindIsCyclic, []domain.Entity{quad}, nil, "given", nil, nil))
	assert.Equal(t, 1, s.Len())

	assert.False(t, s.AssertFact(domain.KindIsCyclic, []domain.Entity{quad}, nil, "given", nil, nil))
	assert.Equal(t, 1, s.Len(), "same identity and reason must not grow the store")

	// Same quadrilateral spelled differently, new reason.
	rotated := domain.NewQuadrilateral("C", "D", "A", "B")
	assert.True(t, s.AssertFact(domain.KindIsCyclic, []domain.Entity{rotated}, nil, "another proof", nil, nil))
	assert.Equal(t, 1, s.Len())

	f, ok := s.Lookup(domain.KindIsCyclic, []string{"Quad_ABCD"}, nil)
	require.True(t, ok)
	require.Len(t, f.Sources, 2)
	assert.Equal(t, "given", f.Sources[0].Reason)
	assert.Equal(t, "another proof", f.Sources[1].Reason)
}

func TestAssertFact_ValueIsPartOfIdentity(t *testing.T) {
	s := newTestStore()
	ang := domain.NewAngle("A", "B", "C")

	assert.True(t, s.AssertValue(ang, 60, "given"))
	assert.True(t, s.AssertValue(ang, 70, "given"))
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.FactsOf(domain.KindValue), 2)
}

func TestAssertFact_PayloadMerge(t *testing.T) {
	s := newTestStore()
	ents := []domain.Entity{domain.NewPoint("A"), domain.NewPoint("B"), domain.NewPoint("C"), domain.NewPoint("D")}

	require.True(t, s.AssertFact(domain.KindQuadrilateral, ents, nil, "given", nil, domain.QuadInfo{Subtype: domain.QuadRectangle}))

	// A weaker classification with the same reason changes nothing.
	assert.False(t, s.AssertFact(domain.KindQuadrilateral, ents, nil, "given", nil, domain.QuadInfo{Subtype: domain.QuadTrapezoid}))
	f := s.FactsOf(domain.KindQuadrilateral)[0]
	assert.Equal(t, domain.QuadRectangle, QuadKindOf(f))

	// A stronger one is learned even without a new reason.
	assert.True(t, s.AssertFact(domain.KindQuadrilateral, ents, nil, "given", nil, domain.QuadInfo{Subtype: domain.QuadSquare}))
	assert.Equal(t, domain.QuadSquare, QuadKindOf(f))
	assert.Len(t, f.Sources, 1)
}

func TestAssertFact_ParentOrdering(t *testing.T) {
	s := newTestStore()
	a := domain.NewAngle("A", "B", "C")
	b := domain.NewAngle("D", "E", "F")

	require.True(t, s.AssertValue(a, 30, "given"))
	require.True(t, s.AssertValue(b, 30, "from a", 1))

	t.Run("unknown parent rejected", func(t *testing.T) {
		assert.False(t, s.AssertValue(domain.NewAngle("X", "Y", "Z"), 10, "bogus", 99))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("self citation rejected", func(t *testing.T) {
		assert.False(t, s.AssertValue(a, 30, "circular", 1))
		assert.Len(t, s.Fact(1).Sources, 1)
	})

	t.Run("cycle through descendant rejected", func(t *testing.T) {
		// Fact 2 derives from fact 1, so fact 1 may not cite fact 2.
		assert.False(t, s.AssertValue(a, 30, "from b", 2))
		assert.Len(t, s.Fact(1).Sources, 1)
	})

	t.Run("later parent rejected even when independent", func(t *testing.T) {
		require.True(t, s.AssertValue(domain.NewAngle("G", "H", "I"), 30, "given"))
		assert.False(t, s.AssertValue(a, 30, "from g", 3))
		assert.Len(t, s.Fact(1).Sources, 1)
	})

	t.Run("earlier parent accepted as a second source", func(t *testing.T) {
		assert.True(t, s.AssertValue(domain.NewAngle("G", "H", "I"), 30, "from a", 1))
		assert.Len(t, s.Fact(3).Sources, 2)
	})
}

func TestAssertIDs_RegistersDecodedEntities(t *testing.T) {
	s := newTestStore()
	assert.True(t, s.AssertIDs(domain.KindIsCyclic, []string{"Quad_ABCD"}, nil, "given", nil, nil))
	assert.True(t, s.Registered("Quad_ABCD"))
	assert.True(t, s.Registered("D"))

	assert.False(t, s.AssertIDs(domain.KindIsCyclic, []string{"Quad_AB"}, nil, "bad", nil, nil))
	assert.Equal(t, 1, s.Len())
}

func TestKindsInFirstSeenOrder(t *testing.T) {
	s := newTestStore()
	s.AssertFact(domain.KindTriangle, []domain.Entity{domain.NewPoint("A"), domain.NewPoint("B"), domain.NewPoint("C")}, nil, "given", nil, nil)
	s.AssertValue(domain.NewAngle("A", "B", "C"), 60, "given")
	s.AssertFact(domain.KindTriangle, []domain.Entity{domain.NewPoint("A"), domain.NewPoint("B"), domain.NewPoint("D")}, nil, "given", nil, nil)

	assert.Equal(t, []domain.Kind{domain.KindTriangle, domain.KindValue}, s.Kinds())
	assert.Len(t, s.FactsOf(domain.KindTriangle), 2)
	assert.Equal(t, 3, s.SourceCount())
}

func TestReclassify(t *testing.T) {
	s := newTestStore()
	ents := []domain.Entity{domain.NewPoint("A"), domain.NewPoint("B"), domain.NewPoint("C"), domain.NewPoint("D")}
	require.True(t, s.AssertFact(domain.KindQuadrilateral, ents, nil, "given", nil, domain.QuadInfo{}))
	s.AssertFact(domain.KindParallel, ents, nil, "given", nil, nil)
	s.AssertValue(domain.NewAngle("D", "A", "B"), 90, "given")

	assert.True(t, s.Reclassify(1, domain.QuadParallelogram, "given", 1, 2))
	assert.True(t, s.Reclassify(1, domain.QuadRectangle, "parallelogram with a right angle", 1, 3))
	assert.Equal(t, domain.QuadRectangle, QuadKindOf(s.Fact(1)))
	assert.Len(t, s.Fact(1).Sources, 1, "the quadrilateral fact itself gains no sources")

	rect, ok := s.ClassFact(s.Fact(1))
	require.True(t, ok)
	assert.Equal(t, domain.ClassKind(domain.QuadRectangle), rect.Kind)
	assert.Equal(t, []string{"Quad_ABCD"}, rect.Entities)
	assert.Equal(t, []domain.FactID{1, 3}, rect.Primary().Parents)
	assert.Equal(t, "Quadrilateral ABCD is a rectangle", rect.Statement())

	assert.False(t, s.Reclassify(1, domain.QuadTrapezoid, "weaker"))
	assert.Equal(t, domain.QuadRectangle, QuadKindOf(s.Fact(1)))

	assert.True(t, s.Reclassify(1, domain.QuadRhombus, "equal adjacent sides", 1))
	assert.Equal(t, domain.QuadSquare, QuadKindOf(s.Fact(1)))
	square, ok := s.ClassFact(s.Fact(1))
	require.True(t, ok, "a joined kind is recorded with its own evidence")
	rhombus, _ := s.Lookup(domain.ClassKind(domain.QuadRhombus), []string{"Quad_ABCD"}, nil)
	assert.Equal(t, []domain.FactID{rect.ID, rhombus.ID}, square.Primary().Parents)

	assert.False(t, s.Reclassify(2, domain.QuadSquare, "not a quadrilateral"))
}

func TestReclassify_RejectedEvidenceDoesNotPromote(t *testing.T) {
	s := newTestStore()
	ents := []domain.Entity{domain.NewPoint("A"), domain.NewPoint("B"), domain.NewPoint("C"), domain.NewPoint("D")}
	require.True(t, s.AssertFact(domain.KindQuadrilateral, ents, nil, "given", nil, domain.QuadInfo{}))

	assert.False(t, s.Reclassify(1, domain.QuadRectangle, "bogus", 42))
	assert.Equal(t, domain.QuadGeneral, QuadKindOf(s.Fact(1)))
	_, ok := s.ClassFact(s.Fact(1))
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}
