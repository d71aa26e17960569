package rules

import (
	"fmt"
	"math"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// CyclicContradiction flags a quadrilateral whose known opposite angles
// cannot belong to a cyclic quadrilateral. The fact's value is the
// offending sum.
type CyclicContradiction struct{}

func (CyclicContradiction) Name() string { return "cyclic_contradiction" }
func (CyclicContradiction) Description() string {
	return "Opposite angles that do not sum to 180° rule out a cyclic quadrilateral"
}

func (CyclicContradiction) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		for i := 0; i < 2; i++ {
			a1, a2 := q.InteriorAngle(i), q.InteriorAngle(i+2)
			v1, ev1, ok1 := s.AngleValue(a1)
			v2, ev2, ok2 := s.AngleValue(a2)
			if !ok1 || !ok2 {
				continue
			}
			sum := v1 + v2
			if math.Abs(sum-180) <= ContradictionTolerance {
				continue
			}
			reason := fmt.Sprintf("opposite angles ∠%s = %s and ∠%s = %s add up to %s, not 180°",
				names(a1.P1, a1.Vertex, a1.P3), deg(v1), names(a2.P1, a2.Vertex, a2.P3), deg(v2), deg(sum))
			if s.AssertFact(domain.KindContradiction, []domain.Entity{q}, domain.Float(sum), reason, cite(ids(f), ev1, ev2), nil) {
				changed = true
			}
		}
	}
	return changed, nil
}

// CoincidentVertices flags two equilateral triangles erected on the same
// side of a quadrilateral: their apexes would have to be the same point, so
// the quadrilateral cannot exist.
type CoincidentVertices struct{}

func (CoincidentVertices) Name() string { return "coincident_vertices" }
func (CoincidentVertices) Description() string {
	return "Two equilateral triangles on one side of a quadrilateral force coincident vertices"
}

func (CoincidentVertices) Apply(s *kb.Store) (bool, error) {
	changed := false
	eqs := s.FactsOf(domain.KindIsEquilateral)
	for i := 0; i < len(eqs); i++ {
		for j := i + 1; j < len(eqs); j++ {
			t1, t2 := eqs[i], eqs[j]
			if len(t1.Entities) != 3 || len(t2.Entities) != 3 {
				continue
			}
			common, x, y, ok := sharedBase(t1.Entities, t2.Entities)
			if !ok {
				continue
			}
			for _, f := range s.FactsOf(domain.KindQuadrilateral) {
				q, ok := quadOf(s, f)
				if !ok || !isVertex(q, x) || !isVertex(q, y) || !isSide(q, common[0], common[1]) {
					continue
				}
				reason := fmt.Sprintf("equilateral triangles on side %s%s would make %s and %s coincide",
					common[0], common[1], x, y)
				if s.AssertFact(domain.KindContradiction, []domain.Entity{q}, nil, reason, ids(f, t1, t2), nil) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}

// sharedBase matches two triangles sharing exactly two vertices and returns
// the shared pair and the two distinct apexes.
func sharedBase(t1, t2 []string) ([2]string, string, string, bool) {
	var common []string
	var x string
	for _, p := range t1 {
		if indexOf(t2, p) >= 0 {
			common = append(common, p)
		} else {
			x = p
		}
	}
	if len(common) != 2 {
		return [2]string{}, "", "", false
	}
	var y string
	for _, p := range t2 {
		if indexOf(common, p) < 0 {
			y = p
		}
	}
	return [2]string{common[0], common[1]}, x, y, true
}

func isSide(q domain.Quadrilateral, a, b string) bool {
	for i := 0; i < 4; i++ {
		if samePair(q.Vertex(i).Name, q.Vertex(i+1).Name, a, b) {
			return true
		}
	}
	return false
}
