package rules

import (
	"fmt"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// DefinePolygonEdges registers the sides of every triangle and quadrilateral
// so later rules can reason about them as segments.
type DefinePolygonEdges struct{}

func (DefinePolygonEdges) Name() string { return "define_polygon_edges" }
func (DefinePolygonEdges) Description() string {
	return "Register the sides of triangles and quadrilaterals"
}

func (DefinePolygonEdges) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, kind := range []domain.Kind{domain.KindTriangle, domain.KindQuadrilateral} {
		for _, f := range s.FactsOf(kind) {
			pts, ok := s.ResolvePoints(f.Entities...)
			if !ok || len(pts) < 3 {
				continue
			}
			for i := range pts {
				if s.Register(segment(pts[i], pts[(i+1)%len(pts)])) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}

// TriangleAngleSum fills in the third angle of a triangle whose other two
// angles are known.
type TriangleAngleSum struct{}

func (TriangleAngleSum) Name() string        { return "triangle_angle_sum" }
func (TriangleAngleSum) Description() string { return "The angles of a triangle sum to 180°" }

func (TriangleAngleSum) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindTriangle) {
		pts, ok := triangleOf(s, f)
		if !ok {
			continue
		}
		angles := [3]domain.Angle{
			angle(pts[1], pts[0], pts[2]),
			angle(pts[0], pts[1], pts[2]),
			angle(pts[0], pts[2], pts[1]),
		}
		var known []int
		var sum float64
		var evidence []domain.FactID
		for i, a := range angles {
			if v, ev, ok := s.AngleValue(a); ok {
				known = append(known, i)
				sum += v
				evidence = append(evidence, ev...)
			}
		}
		if len(known) != 2 {
			continue
		}
		missing := 3 - known[0] - known[1]
		rest := 180 - sum
		if rest <= AbsTolerance {
			continue
		}
		reason := fmt.Sprintf("angle sum in triangle %s", names(pts...))
		if s.AssertValue(angles[missing], rest, reason, cite(ids(f), evidence)...) {
			changed = true
		}
	}
	return changed, nil
}

// PerpendicularToValue turns perpendicularity into 90° angles at the foot.
// A fact [at, a, b, c, d] names its foot explicitly; for [a, b, c, d] the
// foot is a shared endpoint, a midpoint of one line on the other, or a
// stated intersection of the two lines. Without a foot nothing is derived.
type PerpendicularToValue struct{}

func (PerpendicularToValue) Name() string { return "perpendicular_to_value" }
func (PerpendicularToValue) Description() string {
	return "Perpendicular lines meet at right angles"
}

func (PerpendicularToValue) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindPerpendicular) {
		var foot string
		var l1, l2 []string
		extra := []domain.FactID{}
		switch len(f.Entities) {
		case 5:
			foot, l1, l2 = f.Entities[0], f.Entities[1:3], f.Entities[3:5]
		case 4:
			l1, l2 = f.Entities[0:2], f.Entities[2:4]
			var why *domain.Fact
			foot, why = perpendicularFoot(s, l1, l2)
			if foot == "" {
				continue
			}
			extra = ids(why)
		default:
			continue
		}
		if _, ok := s.ResolvePoints(append([]string{foot}, f.Entities...)...); !ok {
			continue
		}
		reason := fmt.Sprintf("%s%s ⊥ %s%s at %s", l1[0], l1[1], l2[0], l2[1], foot)
		for _, a := range l1 {
			for _, b := range l2 {
				if a == foot || b == foot || a == b {
					continue
				}
				if s.AssertValue(domain.NewAngle(a, foot, b), 90, reason, cite(ids(f), extra)...) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}

func perpendicularFoot(s *kb.Store, l1, l2 []string) (string, *domain.Fact) {
	for _, a := range l1 {
		for _, b := range l2 {
			if a == b {
				return a, nil
			}
		}
	}
	for _, m := range s.FactsOf(domain.KindMidpoint) {
		if len(m.Entities) != 3 {
			continue
		}
		mid, x, y := m.Entities[0], m.Entities[1], m.Entities[2]
		if indexOf(l1, mid) >= 0 && samePair(x, y, l2[0], l2[1]) {
			return mid, m
		}
		if indexOf(l2, mid) >= 0 && samePair(x, y, l1[0], l1[1]) {
			return mid, m
		}
	}
	for _, f := range s.FactsOf(domain.KindIntersection) {
		info, ok := f.Payload.(domain.IntersectionInfo)
		if !ok || info.Point == "" {
			continue
		}
		if info.OnLine(append([]string{info.Point}, l1...)...) && info.OnLine(append([]string{info.Point}, l2...)...) {
			return info.Point, f
		}
	}
	return "", nil
}

// EqualityByValue links every pair of angles that have the same measure.
type EqualityByValue struct{}

func (EqualityByValue) Name() string        { return "equality_by_value" }
func (EqualityByValue) Description() string { return "Angles of equal measure are equal" }

func (EqualityByValue) Apply(s *kb.Store) (bool, error) {
	var angles []*domain.Fact
	for _, f := range s.FactsOf(domain.KindValue) {
		if f.Value == nil || len(f.Entities) != 1 {
			continue
		}
		if vi, ok := f.Payload.(domain.ValueInfo); !ok || vi.Subtype != domain.SubtypeAngle {
			continue
		}
		angles = append(angles, f)
	}

	changed := false
	for i := 0; i < len(angles); i++ {
		for j := i + 1; j < len(angles); j++ {
			// Derived measures drift in the last digits; compare with tolerance.
			if !IsClose(*angles[i].Value, *angles[j].Value) {
				continue
			}
			a, okA := s.Entity(angles[i].Entities[0])
			b, okB := s.Entity(angles[j].Entities[0])
			if !okA || !okB {
				continue
			}
			reason := fmt.Sprintf("both angles measure %s°", domain.FormatValue(*angles[i].Value))
			if _, added := s.AssertEquality(a, b, reason, angles[i].ID, angles[j].ID); added {
				changed = true
			}
		}
	}
	return changed, nil
}

// AngleBisector splits a bisected angle: BISECTOR [D, A, B, C] says ray AD
// bisects angle BAC.
type AngleBisector struct{}

func (AngleBisector) Name() string        { return "angle_bisector" }
func (AngleBisector) Description() string { return "A bisector splits an angle into equal halves" }

func (AngleBisector) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindBisector) {
		if len(f.Entities) != 4 {
			continue
		}
		pts, ok := s.ResolvePoints(f.Entities...)
		if !ok {
			continue
		}
		d, a, b, c := pts[0], pts[1], pts[2], pts[3]
		half1, half2, whole := angle(b, a, d), angle(c, a, d), angle(b, a, c)
		reason := fmt.Sprintf("%s%s bisects angle %s", a.Name, d.Name, names(b, a, c))

		if _, added := s.AssertEquality(half1, half2, reason, f.ID); added {
			changed = true
		}
		if v, ev, ok := s.AngleValue(whole); ok {
			for _, h := range []domain.Angle{half1, half2} {
				if s.AssertValue(h, v/2, reason, cite(ids(f), ev)...) {
					changed = true
				}
			}
			continue
		}
		for _, h := range []domain.Angle{half1, half2} {
			if v, ev, ok := s.AngleValue(h); ok {
				if s.AssertValue(whole, 2*v, reason, cite(ids(f), ev)...) {
					changed = true
				}
				break
			}
		}
	}
	return changed, nil
}

// Symmetry unfolds point reflections. A central reflection of A to A'
// through O makes O the midpoint of AA'; an axial reflection across line
// L1L2 makes AA' perpendicular to the axis, bisected where they meet.
type Symmetry struct{}

func (Symmetry) Name() string        { return "symmetry" }
func (Symmetry) Description() string { return "Reflections yield midpoints and perpendiculars" }

func (Symmetry) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindSymmetry) {
		info, _ := f.Payload.(domain.SymmetryInfo)
		if _, ok := s.ResolvePoints(f.Entities...); !ok {
			continue
		}
		switch {
		case info.Mode == domain.SymmetryCentral && len(f.Entities) == 3:
			a, image, o := f.Entities[0], f.Entities[1], f.Entities[2]
			reason := fmt.Sprintf("%s is the reflection of %s through %s", image, a, o)
			if s.AssertFact(domain.KindMidpoint, pointsOf(o, a, image), nil, reason, ids(f), nil) {
				changed = true
			}

		case info.Mode == domain.SymmetryAxial && len(f.Entities) == 4:
			a, image, l1, l2 := f.Entities[0], f.Entities[1], f.Entities[2], f.Entities[3]
			reason := fmt.Sprintf("%s is the reflection of %s across %s%s", image, a, l1, l2)
			if s.AssertFact(domain.KindPerpendicular, pointsOf(a, image, l1, l2), nil, reason, ids(f), nil) {
				changed = true
			}
			for _, x := range s.FactsOf(domain.KindIntersection) {
				xi, ok := x.Payload.(domain.IntersectionInfo)
				if !ok || xi.Point == "" {
					continue
				}
				if !xi.OnLine(xi.Point, a, image) || !xi.OnLine(xi.Point, l1, l2) {
					continue
				}
				if s.AssertFact(domain.KindMidpoint, pointsOf(xi.Point, a, image), nil, reason, ids(f, x), nil) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}
