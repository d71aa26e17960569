package rules

import (
	"fmt"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// parallelFact finds a PARALLEL fact stating line ab parallel to line cd.
func parallelFact(s *kb.Store, a, b, c, d string) (*domain.Fact, bool) {
	for _, f := range s.FactsOf(domain.KindParallel) {
		if len(f.Entities) != 4 {
			continue
		}
		e := f.Entities
		if (samePair(e[0], e[1], a, b) && samePair(e[2], e[3], c, d)) ||
			(samePair(e[0], e[1], c, d) && samePair(e[2], e[3], a, b)) {
			return f, true
		}
	}
	return nil, false
}

// rightVertex returns the first vertex of q known to carry a right angle.
func rightVertex(s *kb.Store, q domain.Quadrilateral) (int, []domain.FactID, bool) {
	for i := 0; i < 4; i++ {
		if v, ev, ok := s.AngleValue(q.InteriorAngle(i)); ok && IsClose(v, 90) {
			return i, ev, true
		}
	}
	return 0, nil, false
}

// ClassifyQuadrilaterals refines a quadrilateral's kind from the parallel
// sides, right angles, equal sides and cyclicity known about it. Bases of a
// trapezoid ABCD are AB and CD.
type ClassifyQuadrilaterals struct{}

func (ClassifyQuadrilaterals) Name() string { return "classify_quadrilaterals" }
func (ClassifyQuadrilaterals) Description() string {
	return "Promote quadrilaterals through the kind lattice"
}

func (ClassifyQuadrilaterals) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		a, b, c, d := f.Entities[0], f.Entities[1], f.Entities[2], f.Entities[3]
		label := a + b + c + d
		promote := func(kind domain.QuadKind, reason string, parents ...domain.FactID) {
			if s.Reclassify(f.ID, kind, reason, cite(ids(f), parents)...) {
				changed = true
			}
		}
		// current cites the classification a refinement builds on.
		current := func() []domain.FactID {
			if cls, ok := s.ClassFact(f); ok {
				return ids(cls)
			}
			return nil
		}

		bases, hasBases := parallelFact(s, a, b, c, d)
		legs, hasLegs := parallelFact(s, a, d, b, c)
		if hasBases {
			promote(domain.QuadTrapezoid, fmt.Sprintf("%s has %s%s ∥ %s%s", label, a, b, c, d), bases.ID)
		}
		if hasBases && hasLegs {
			promote(domain.QuadParallelogram, fmt.Sprintf("both pairs of opposite sides of %s are parallel", label), bases.ID, legs.ID)
		}

		kind := kb.QuadKindOf(f)
		if domain.QuadTrapezoid.Leq(kind) {
			if i, ev, ok := rightVertex(s, q); ok {
				v := q.Vertex(i).Name
				if kind.Parallelogramlike() {
					promote(domain.QuadRectangle, fmt.Sprintf("%s is %s with a right angle at %s", label, kind.WithArticle(), v), cite(current(), ev)...)
				} else {
					promote(domain.QuadRightTrapezoid, fmt.Sprintf("%s is a trapezoid with a right angle at %s", label, v), cite(current(), ev)...)
				}
			}
		}

		kind = kb.QuadKindOf(f)
		if kind.Parallelogramlike() {
			if ok, path := s.EqualityPath(segment(q.Vertex(0), q.Vertex(1)), segment(q.Vertex(1), q.Vertex(2))); ok {
				promote(domain.QuadRhombus, fmt.Sprintf("%s is %s with equal adjacent sides %s%s and %s%s", label, kind.WithArticle(), a, b, b, c), cite(current(), path.Facts)...)
			}
		}

		kind = kb.QuadKindOf(f)
		if domain.QuadTrapezoid.Leq(kind) {
			if cyc, ok := s.Lookup(domain.KindIsCyclic, []string{q.CanonicalID()}, nil); ok {
				target := domain.QuadIsoscelesTrapezoid
				if kind.Parallelogramlike() {
					target = domain.QuadRectangle
				}
				promote(target, fmt.Sprintf("%s is a cyclic %s", label, kind.Label()), cite(current(), ids(cyc))...)
			}
		}
	}
	return changed, nil
}

// QuadSpecialProperties applies what a quadrilateral's kind guarantees:
// parallel sides, equal sides, right angles, equal base angles and, for
// rectangles, squares and isosceles trapezoids, cyclicity.
type QuadSpecialProperties struct{}

func (QuadSpecialProperties) Name() string { return "quad_special_properties" }
func (QuadSpecialProperties) Description() string {
	return "Special quadrilaterals carry the properties of their kind"
}

func (QuadSpecialProperties) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		kind := kb.QuadKindOf(f)
		if kind == domain.QuadGeneral {
			continue
		}
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		a, b, c, d := f.Entities[0], f.Entities[1], f.Entities[2], f.Entities[3]
		label := a + b + c + d
		why := fmt.Sprintf("%s is %s", label, kind.WithArticle())
		ev := ids(f)
		if cls, ok := s.ClassFact(f); ok {
			ev = cite(ev, ids(cls))
		}
		mark := func(ok bool) {
			if ok {
				changed = true
			}
		}
		equal := func(x, y domain.Entity) {
			_, added := s.AssertEquality(x, y, why, ev...)
			mark(added)
		}

		if domain.QuadTrapezoid.Leq(kind) {
			mark(s.AssertFact(domain.KindParallel, pointsOf(a, b, c, d), nil, why, ev, nil))
		}
		if kind.Parallelogramlike() {
			mark(s.AssertFact(domain.KindParallel, pointsOf(a, d, c, b), nil, why, ev, nil))
			equal(segment(q.Vertex(0), q.Vertex(1)), segment(q.Vertex(2), q.Vertex(3)))
			equal(segment(q.Vertex(1), q.Vertex(2)), segment(q.Vertex(3), q.Vertex(0)))
		}
		if domain.QuadRhombus.Leq(kind) {
			equal(segment(q.Vertex(0), q.Vertex(1)), segment(q.Vertex(1), q.Vertex(2)))
		}
		if kind.HasRightAngles() {
			for i := 0; i < 4; i++ {
				mark(s.AssertValue(q.InteriorAngle(i), 90, why, ev...))
			}
		}
		if kind == domain.QuadRightTrapezoid {
			if info, ok := f.Payload.(domain.QuadInfo); ok && info.RightVertex != "" {
				for i := 0; i < 4; i++ {
					if q.Vertex(i).Name == info.RightVertex {
						mark(s.AssertValue(q.InteriorAngle(i), 90, why, ev...))
					}
				}
			}
		}
		if kind == domain.QuadIsoscelesTrapezoid {
			equal(q.InteriorAngle(0), q.InteriorAngle(1))
			equal(q.InteriorAngle(2), q.InteriorAngle(3))
			equal(segment(q.Vertex(3), q.Vertex(0)), segment(q.Vertex(1), q.Vertex(2)))
		}
		if kind.Inscribable() {
			// A classification derived from cyclicity cites the IS_CYCLIC
			// fact, so the store refuses it as a source of that fact.
			reason := fmt.Sprintf("by definition, %s is cyclic", kind.WithArticle())
			mark(s.AssertFact(domain.KindIsCyclic, []domain.Entity{q}, nil, reason, ev, nil))
		}
	}
	return changed, nil
}

// QuadWithTwoRightAngles: a quadrilateral with right angles at two opposite
// vertices is cyclic.
type QuadWithTwoRightAngles struct{}

func (QuadWithTwoRightAngles) Name() string { return "quad_two_right_angles" }
func (QuadWithTwoRightAngles) Description() string {
	return "Two opposite right angles make a quadrilateral cyclic"
}

func (QuadWithTwoRightAngles) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		for i := 0; i < 2; i++ {
			v1, ev1, ok1 := s.AngleValue(q.InteriorAngle(i))
			v2, ev2, ok2 := s.AngleValue(q.InteriorAngle(i + 2))
			if !ok1 || !ok2 || !IsClose(v1, 90) || !IsClose(v2, 90) {
				continue
			}
			reason := fmt.Sprintf("two opposite right angles at %s and %s", q.Vertex(i).Name, q.Vertex(i+2).Name)
			if s.AssertFact(domain.KindIsCyclic, []domain.Entity{q}, nil, reason, cite(ids(f), ev1, ev2), nil) {
				changed = true
			}
		}
	}
	return changed, nil
}

// ConsecutiveInteriorAngles: for PARALLEL [A, B, C, D], AB ∥ CD with ABCD
// a simple quadrilateral, so ∠BAD and ∠ADC are supplementary, as are ∠ABC
// and ∠BCD.
type ConsecutiveInteriorAngles struct{}

func (ConsecutiveInteriorAngles) Name() string { return "consecutive_interior_angles" }
func (ConsecutiveInteriorAngles) Description() string {
	return "Co-interior angles between parallels are supplementary"
}

func (ConsecutiveInteriorAngles) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindParallel) {
		if len(f.Entities) != 4 {
			continue
		}
		pts, ok := s.ResolvePoints(f.Entities...)
		if !ok {
			continue
		}
		a, b, c, d := pts[0], pts[1], pts[2], pts[3]
		reason := fmt.Sprintf("co-interior angles between %s ∥ %s", names(a, b), names(c, d))
		pairs := [][2]domain.Angle{
			{angle(b, a, d), angle(a, d, c)},
			{angle(a, b, c), angle(b, c, d)},
		}
		for _, pair := range pairs {
			for i := 0; i < 2; i++ {
				known, other := pair[i], pair[1-i]
				v, ev, ok := s.AngleValue(known)
				if !ok || v >= 180 {
					continue
				}
				if _, _, done := s.AngleValue(other); done {
					continue
				}
				if s.AssertValue(other, 180-v, reason, cite(ids(f), ev)...) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}
