package rules

import (
	"fmt"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

type EquilateralTriangle struct{}

func (EquilateralTriangle) Name() string { return "equilateral_triangle" }
func (EquilateralTriangle) Description() string {
	return "An equilateral triangle has 60° angles and equal sides"
}

func (EquilateralTriangle) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindIsEquilateral) {
		pts, ok := triangleOf(s, f)
		if !ok {
			continue
		}
		a, b, c := pts[0], pts[1], pts[2]
		reason := fmt.Sprintf("triangle %s is equilateral", names(a, b, c))
		for _, ang := range []domain.Angle{angle(b, a, c), angle(a, b, c), angle(a, c, b)} {
			if s.AssertValue(ang, 60, reason, f.ID) {
				changed = true
			}
		}
		if _, added := s.AssertEquality(segment(a, b), segment(b, c), reason, f.ID); added {
			changed = true
		}
		if _, added := s.AssertEquality(segment(b, c), segment(c, a), reason, f.ID); added {
			changed = true
		}
	}
	return changed, nil
}

// RightTriangle applies the properties a triangle was declared with: the
// right angle at its vertex, 45° base angles for a right isosceles triangle,
// and equal base angles for an isosceles one.
type RightTriangle struct{}

func (RightTriangle) Name() string { return "special_triangle" }
func (RightTriangle) Description() string {
	return "Right and isosceles triangles fix or equate their angles"
}

func (RightTriangle) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindTriangle) {
		info := triangleInfo(f)
		if info.Vertex == "" {
			continue
		}
		pts, ok := triangleOf(s, f)
		if !ok {
			continue
		}
		v, b, c, ok := apexSplit(pts, info.Vertex)
		if !ok {
			continue
		}
		tri := names(pts...)
		right, iso := info.Has(domain.TriangleRight), info.Has(domain.TriangleIsosceles)

		if right {
			reason := fmt.Sprintf("triangle %s is right-angled at %s", tri, v.Name)
			if s.AssertValue(angle(b, v, c), 90, reason, f.ID) {
				changed = true
			}
		}
		switch {
		case right && iso:
			reason := fmt.Sprintf("triangle %s is right isosceles at %s", tri, v.Name)
			for _, ang := range []domain.Angle{angle(v, b, c), angle(v, c, b)} {
				if s.AssertValue(ang, 45, reason, f.ID) {
					changed = true
				}
			}
		case iso:
			reason := fmt.Sprintf("base angles of isosceles triangle %s", tri)
			if _, added := s.AssertEquality(angle(v, b, c), angle(v, c, b), reason, f.ID); added {
				changed = true
			}
		}
	}
	return changed, nil
}

// AltitudeProperty makes the altitude ALTITUDE [top, foot, b1, b2]
// perpendicular to the base at its foot, for the apex and for every
// intersection point stated to lie on the altitude.
type AltitudeProperty struct{}

func (AltitudeProperty) Name() string        { return "altitude_property" }
func (AltitudeProperty) Description() string { return "An altitude is perpendicular to its base" }

func (AltitudeProperty) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindAltitude) {
		if len(f.Entities) != 4 {
			continue
		}
		if _, ok := s.ResolvePoints(f.Entities...); !ok {
			continue
		}
		top, foot, b1, b2 := f.Entities[0], f.Entities[1], f.Entities[2], f.Entities[3]
		reason := fmt.Sprintf("%s%s is an altitude onto %s%s", top, foot, b1, b2)

		on := []string{top}
		why := map[string][]domain.FactID{top: ids(f)}
		for _, x := range s.FactsOf(domain.KindIntersection) {
			xi, ok := x.Payload.(domain.IntersectionInfo)
			if !ok || xi.Point == "" || xi.Point == foot || xi.Point == top {
				continue
			}
			if _, seen := why[xi.Point]; seen || !xi.OnLine(top, foot, xi.Point) {
				continue
			}
			on = append(on, xi.Point)
			why[xi.Point] = ids(f, x)
		}

		for _, p := range on {
			for _, b := range []string{b1, b2} {
				if b == foot || p == b {
					continue
				}
				if s.AssertValue(domain.NewAngle(p, foot, b), 90, reason, why[p]...) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}

// IsoscelesLineCoincidence uses that the median, altitude and bisector from
// the apex of an isosceles triangle coincide.
type IsoscelesLineCoincidence struct{}

func (IsoscelesLineCoincidence) Name() string { return "isosceles_line_coincidence" }
func (IsoscelesLineCoincidence) Description() string {
	return "The apex median of an isosceles triangle is also its altitude and bisector"
}

func (IsoscelesLineCoincidence) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindTriangle) {
		info := triangleInfo(f)
		if info.Vertex == "" || !(info.Has(domain.TriangleIsosceles) || info.Has(domain.TriangleEquilateral)) {
			continue
		}
		pts, ok := triangleOf(s, f)
		if !ok {
			continue
		}
		a, b, c, ok := apexSplit(pts, info.Vertex)
		if !ok {
			continue
		}
		tri := names(pts...)

		for _, m := range s.FactsOf(domain.KindMidpoint) {
			if len(m.Entities) != 3 || !samePair(m.Entities[1], m.Entities[2], b.Name, c.Name) {
				continue
			}
			mp, ok := s.ResolvePoints(m.Entities[0])
			if !ok {
				continue
			}
			mid := mp[0]
			reason := fmt.Sprintf("median %s%s of isosceles triangle %s is an altitude", a.Name, mid.Name, tri)
			for _, ang := range []domain.Angle{angle(a, mid, b), angle(a, mid, c)} {
				if s.AssertValue(ang, 90, reason, f.ID, m.ID) {
					changed = true
				}
			}
			reason = fmt.Sprintf("median %s%s of isosceles triangle %s is a bisector", a.Name, mid.Name, tri)
			if _, added := s.AssertEquality(angle(b, a, mid), angle(c, a, mid), reason, f.ID, m.ID); added {
				changed = true
			}
		}

		for _, h := range s.FactsOf(domain.KindAltitude) {
			if len(h.Entities) != 4 || h.Entities[0] != a.Name || !samePair(h.Entities[2], h.Entities[3], b.Name, c.Name) {
				continue
			}
			foot := h.Entities[1]
			reason := fmt.Sprintf("altitude %s%s of isosceles triangle %s is a median", a.Name, foot, tri)
			if s.AssertFact(domain.KindMidpoint, pointsOf(foot, b.Name, c.Name), nil, reason, ids(f, h), nil) {
				changed = true
			}
		}
	}
	return changed, nil
}

// MedianInRightTriangle: the midpoint of the hypotenuse is equidistant from
// all three vertices, so it centres the circumcircle.
type MedianInRightTriangle struct{}

func (MedianInRightTriangle) Name() string { return "median_in_right_triangle" }
func (MedianInRightTriangle) Description() string {
	return "The median to the hypotenuse is half the hypotenuse"
}

func (MedianInRightTriangle) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindTriangle) {
		info := triangleInfo(f)
		if info.Vertex == "" || !info.Has(domain.TriangleRight) {
			continue
		}
		pts, ok := triangleOf(s, f)
		if !ok {
			continue
		}
		a, b, c, ok := apexSplit(pts, info.Vertex)
		if !ok {
			continue
		}
		for _, m := range s.FactsOf(domain.KindMidpoint) {
			if len(m.Entities) != 3 || !samePair(m.Entities[1], m.Entities[2], b.Name, c.Name) {
				continue
			}
			mp, ok := s.ResolvePoints(m.Entities[0])
			if !ok {
				continue
			}
			mid := mp[0]
			reason := fmt.Sprintf("median %s%s to the hypotenuse of right triangle %s", a.Name, mid.Name, names(pts...))
			if _, added := s.AssertEquality(segment(mid, a), segment(mid, b), reason, f.ID, m.ID); added {
				changed = true
			}
			if _, added := s.AssertEquality(segment(mid, a), segment(mid, c), reason, f.ID, m.ID); added {
				changed = true
			}
			if s.AssertFact(domain.KindCircle, pointsOf(mid.Name, a.Name, b.Name, c.Name), nil, reason,
				ids(f, m), domain.CircleInfo{Center: mid.Name}) {
				changed = true
			}
		}
	}
	return changed, nil
}
