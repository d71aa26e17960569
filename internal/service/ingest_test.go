package service

import (
	"testing"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ingest(t *testing.T, records ...domain.Record) *kb.Store {
	t.Helper()
	s := kb.New(zap.NewNop())
	_, err := NewIngestor(s, zap.NewNop()).Ingest(records)
	require.NoError(t, err)
	return s
}

func val(v float64) *float64 { return &v }

func TestIngest_RejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.Record
	}{
		{"unknown type", domain.Record{Type: "HEXAGON"}},
		{"triangle with two points", domain.Record{Type: domain.RecordTriangle, Points: []string{"A", "B"}}},
		{"repeated point", domain.Record{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "B", "D"}}},
		{"bad point name", domain.Record{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "C", "dd"}}},
		{"unknown quad subtype", domain.Record{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "C", "D"}, Subtype: "KITE"}},
		{"right triangle without vertex", domain.Record{Type: domain.RecordTriangle, Points: []string{"A", "B", "C"}, Properties: []string{"RIGHT"}}},
		{"vertex off the triangle", domain.Record{Type: domain.RecordTriangle, Points: []string{"A", "B", "C"}, Properties: []string{"ISOSCELES"}, Vertex: "D"}},
		{"value missing", domain.Record{Type: domain.RecordValue, Points: []string{"A", "B", "C"}}},
		{"negative value", domain.Record{Type: domain.RecordValue, Points: []string{"A", "B", "C"}, Value: val(-5)}},
		{"angle out of range", domain.Record{Type: domain.RecordValue, Points: []string{"A", "B", "C"}, Value: val(400)}},
		{"unnamed vertex", domain.Record{Type: domain.RecordValue, Points: []string{"A", "?", "C"}, Value: val(40)}},
		{"length with three points", domain.Record{Type: domain.RecordValue, Subtype: "length", Points: []string{"A", "B", "C"}, Value: val(3)}},
		{"parallel with one line", domain.Record{Type: domain.RecordParallel, Lines: [][]string{{"A", "B"}}}},
		{"altitude without foot", domain.Record{Type: domain.RecordAltitude, Top: "A", Base: []string{"B", "C"}}},
		{"intersection with one line", domain.Record{Type: domain.RecordIntersection, Point: "M", Lines: [][]string{{"A", "B"}}}},
		{"tangent contact off line", domain.Record{Type: domain.RecordTangent, Line: []string{"A", "B"}, Contact: "C", Circle: "O"}},
		{"unknown location", domain.Record{Type: domain.RecordPointLocation, Point: "A", Circle: "O", Location: "NEAR"}},
		{"mixed equality", domain.Record{Type: domain.RecordEquality, Items: [][]string{{"A", "B"}, {"C", "D", "E"}}}},
		{"symmetry without mode", domain.Record{Type: domain.RecordSymmetry, Points: []string{"A", "B"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := kb.New(zap.NewNop())
			records := []domain.Record{
				{Type: domain.RecordQuadrilateral, Points: []string{"P", "Q", "R", "S"}},
				tt.rec,
			}
			_, err := NewIngestor(s, zap.NewNop()).Ingest(records)
			require.ErrorIs(t, err, ErrMalformedRecord)
			assert.Contains(t, err.Error(), "record 1")
			assert.Zero(t, s.Len(), "nothing is asserted from a rejected batch")
		})
	}
}

func TestIngest_ResolvesPartialAngles(t *testing.T) {
	t.Run("from quadrilateral", func(t *testing.T) {
		s := ingest(t,
			domain.Record{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "C", "D"}},
			domain.Record{Type: domain.RecordValue, Points: []string{"?", "A", "?"}, Value: val(100)},
		)
		v, _, ok := s.AngleValue(domain.NewAngle("D", "A", "B"))
		require.True(t, ok)
		assert.Equal(t, 100.0, v)
	})

	t.Run("from triangle", func(t *testing.T) {
		s := ingest(t,
			domain.Record{Type: domain.RecordTriangle, Points: []string{"X", "Y", "Z"}},
			domain.Record{Type: domain.RecordValue, Points: []string{"?", "Y", "?"}, Value: val(35)},
		)
		v, _, ok := s.AngleValue(domain.NewAngle("X", "Y", "Z"))
		require.True(t, ok)
		assert.Equal(t, 35.0, v)
	})

	t.Run("unresolvable is skipped", func(t *testing.T) {
		s := kb.New(zap.NewNop())
		skipped, err := NewIngestor(s, zap.NewNop()).Ingest([]domain.Record{
			{Type: domain.RecordValue, Points: []string{"?", "K", "?"}, Value: val(35)},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, skipped)
		assert.Empty(t, s.FactsOf(domain.KindValue))
	})
}

func TestIngest_TriangleProperties(t *testing.T) {
	s := ingest(t,
		domain.Record{Type: domain.RecordTriangle, Points: []string{"A", "B", "C"}, Properties: []string{"right", "isosceles"}, Vertex: "A"},
		domain.Record{Type: domain.RecordTriangle, Points: []string{"D", "E", "F"}, Properties: []string{"EQUILATERAL"}},
	)

	v, _, ok := s.AngleValue(domain.NewAngle("B", "A", "C"))
	require.True(t, ok)
	assert.Equal(t, 90.0, v)
	assert.True(t, s.Equal(domain.NewSegment("A", "B"), domain.NewSegment("A", "C")))

	_, ok = s.Lookup(domain.KindIsEquilateral, []string{"D", "E", "F"}, nil)
	assert.True(t, ok)

	tri, ok := s.Lookup(domain.KindTriangle, []string{"A", "B", "C"}, nil)
	require.True(t, ok)
	info := tri.Payload.(domain.TriangleInfo)
	assert.True(t, info.Has(domain.TriangleRight))
	assert.Equal(t, "A", info.Vertex)
}

func TestIngest_RecordShapes(t *testing.T) {
	s := ingest(t,
		domain.Record{Type: domain.RecordRenderOrder, Points: []string{"A", "B", "C", "D"}},
		domain.Record{Type: domain.RecordPerpendicular, Lines: [][]string{{"A", "H"}, {"B", "C"}}, At: "H"},
		domain.Record{Type: domain.RecordAltitude, Top: "A", Foot: "H", Base: []string{"B", "C"}},
		domain.Record{Type: domain.RecordMidpoint, Point: "M", Segment: []string{"A", "B"}},
		domain.Record{Type: domain.RecordIntersection, Point: "I", Lines: [][]string{{"A", "C"}, {"B", "I", "D"}}},
		domain.Record{Type: domain.RecordTangent, Line: []string{"S", "T"}, Contact: "T", Circle: "O"},
		domain.Record{Type: domain.RecordCircle, Center: "O", Diameter: []string{"E", "F"}, Points: []string{"T"}},
		domain.Record{Type: domain.RecordPointLocation, Point: "S", Circle: "O", Location: "outside"},
		domain.Record{Type: domain.RecordEquality, Items: [][]string{{"A", "B", "C"}, {"A", "D", "C"}}},
		domain.Record{Type: domain.RecordAuxiliary, Points: []string{"D", "C", "E"}},
		domain.Record{Type: domain.RecordBisector, Point: "K", Vertex: "A", Points: []string{"B", "C"}},
		domain.Record{Type: domain.RecordSymmetry, Mode: "central", Points: []string{"A", "A1"}, Center: "O"},
	)

	has := func(kind domain.Kind, ids ...string) *domain.Fact {
		t.Helper()
		f, ok := s.Lookup(kind, ids, nil)
		require.True(t, ok, "%s %v", kind, ids)
		return f
	}

	q := has(domain.KindQuadrilateral, "A", "B", "C", "D")
	assert.Equal(t, "named in the goal", q.Primary().Reason)
	has(domain.KindPerpendicular, "H", "A", "H", "B", "C")
	has(domain.KindAltitude, "A", "H", "B", "C")
	has(domain.KindMidpoint, "M", "A", "B")

	x := has(domain.KindIntersection, "I", "A", "C", "B", "D")
	assert.Equal(t, [][]string{{"A", "I", "C"}, {"B", "I", "D"}}, x.Payload.(domain.IntersectionInfo).Lines)

	has(domain.KindTangent, "T", "S", "O")
	c := has(domain.KindCircle, "O", "T", "E", "F")
	assert.Equal(t, "O", c.Payload.(domain.CircleInfo).Center)
	has(domain.KindDiameter, "E", "F", "O")
	has(domain.KindMidpoint, "O", "E", "F")

	loc := has(domain.KindPointLocation, "S")
	assert.Equal(t, domain.LocationOutside, loc.Payload.(domain.LocationInfo).Location)

	assert.True(t, s.Equal(domain.NewAngle("A", "B", "C"), domain.NewAngle("A", "D", "C")))

	aux := has(domain.KindAuxiliary, "D", "C", "E")
	assert.Equal(t, [][]string{{"D", "C", "E"}}, aux.Payload.(domain.IntersectionInfo).Lines)

	has(domain.KindBisector, "K", "A", "B", "C")
	sym := has(domain.KindSymmetry, "A", "A1", "O")
	assert.Equal(t, domain.SymmetryCentral, sym.Payload.(domain.SymmetryInfo).Mode)
}

func TestIngest_QuadrilateralSubtypeIsAPremise(t *testing.T) {
	s := ingest(t, domain.Record{Type: domain.RecordQuadrilateral, Points: []string{"A", "B", "C", "D"}, Subtype: "rectangle"})

	q, ok := s.Lookup(domain.KindQuadrilateral, []string{"A", "B", "C", "D"}, nil)
	require.True(t, ok)
	assert.Equal(t, domain.QuadRectangle, kb.QuadKindOf(q))

	cls, ok := s.ClassFact(q)
	require.True(t, ok)
	assert.True(t, cls.IsPremise())
	assert.Equal(t, ReasonGiven, cls.Primary().Reason)
}

func TestThroughPoint(t *testing.T) {
	tests := []struct {
		line []string
		want []string
	}{
		{[]string{"A", "B"}, []string{"A", "M", "B"}},
		{[]string{"A", "M", "B"}, []string{"A", "M", "B"}},
		{[]string{"M", "A", "B"}, []string{"M", "A", "B"}},
		{[]string{"A", "B", "C"}, []string{"A", "B", "C", "M"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, throughPoint(tt.line, "M"))
	}
}
