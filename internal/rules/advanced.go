package rules

import (
	"fmt"
	"sort"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// quadOn finds a quadrilateral fact whose vertices are exactly the given points.
func quadOn(s *kb.Store, pts ...string) (*domain.Fact, domain.Quadrilateral, bool) {
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		if len(f.Entities) != 4 {
			continue
		}
		match := true
		for _, p := range pts {
			if !f.HasEntity(p) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if q, ok := quadOf(s, f); ok {
			return f, q, true
		}
	}
	return nil, domain.Quadrilateral{}, false
}

// PowerOfPoint: if chords or secants AB and CD meet at M with
// MA·MB = MC·MD, then A, B, C and D are concyclic.
type PowerOfPoint struct{}

func (PowerOfPoint) Name() string { return "power_of_point" }
func (PowerOfPoint) Description() string {
	return "Equal power of a point with respect to two lines proves concyclicity"
}

func (PowerOfPoint) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, x := range s.FactsOf(domain.KindIntersection) {
		m, lines := intersectionLines(x)
		if m == "" || len(lines) != 2 {
			continue
		}
		a, b, c, d := lines[0][0], lines[0][1], lines[1][0], lines[1][1]
		if _, ok := s.ResolvePoints(m, a, b, c, d); !ok {
			continue
		}
		ma, ev1, ok1 := s.LengthValue(domain.NewSegment(m, a))
		mb, ev2, ok2 := s.LengthValue(domain.NewSegment(m, b))
		mc, ev3, ok3 := s.LengthValue(domain.NewSegment(m, c))
		md, ev4, ok4 := s.LengthValue(domain.NewSegment(m, d))
		if !ok1 || !ok2 || !ok3 || !ok4 || !IsClose(ma*mb, mc*md) {
			continue
		}
		qf, q, ok := quadOn(s, a, b, c, d)
		if !ok {
			continue
		}
		reason := fmt.Sprintf("power of point %s: %s%s·%s%s = %s%s·%s%s = %s",
			m, m, a, m, b, m, c, m, d, domain.FormatValue(ma*mb))
		if s.AssertFact(domain.KindIsCyclic, []domain.Entity{q}, nil, reason, cite(ids(x, qf), ev1, ev2, ev3, ev4), nil) {
			changed = true
		}
	}
	return changed, nil
}

// intersectionLines returns the meeting point and, for each line through
// it, the two other points on that line.
func intersectionLines(x *domain.Fact) (string, [][2]string) {
	info, _ := x.Payload.(domain.IntersectionInfo)
	m := info.Point
	if m == "" && len(x.Entities) > 0 {
		m = x.Entities[0]
	}
	var out [][2]string
	if len(info.Lines) > 0 {
		for _, l := range info.Lines {
			var rest []string
			for _, p := range l {
				if p != m {
					rest = append(rest, p)
				}
			}
			if len(rest) != 2 {
				return m, nil
			}
			out = append(out, [2]string{rest[0], rest[1]})
		}
		return m, out
	}
	if len(x.Entities) == 5 {
		e := x.Entities
		out = append(out, [2]string{e[1], e[2]}, [2]string{e[3], e[4]})
	}
	return m, out
}

// MidlineTheorem: joining the midpoints of two sides of a triangle gives a
// segment parallel to the third side and half as long.
type MidlineTheorem struct{}

func (MidlineTheorem) Name() string { return "midline_theorem" }
func (MidlineTheorem) Description() string {
	return "A midline is parallel to the third side and half its length"
}

func (MidlineTheorem) Apply(s *kb.Store) (bool, error) {
	changed := false
	mids := s.FactsOf(domain.KindMidpoint)
	for i := 0; i < len(mids); i++ {
		for j := i + 1; j < len(mids); j++ {
			m1, m2 := mids[i], mids[j]
			if len(m1.Entities) != 3 || len(m2.Entities) != 3 {
				continue
			}
			apex, b, c, ok := sharedEndpoint(m1.Entities[1:], m2.Entities[1:])
			if !ok {
				continue
			}
			m, n := m1.Entities[0], m2.Entities[0]
			if _, ok := s.ResolvePoints(m, n, apex, b, c); !ok {
				continue
			}
			reason := fmt.Sprintf("%s%s is a midline of triangle %s%s%s", m, n, apex, b, c)
			// M lies on AB and N on AC, so MNCB is the simple quadrilateral.
			if s.AssertFact(domain.KindParallel, pointsOf(m, n, c, b), nil, reason, ids(m1, m2), nil) {
				changed = true
			}
			if v, ev, ok := s.LengthValue(domain.NewSegment(b, c)); ok {
				if s.AssertValue(domain.NewSegment(m, n), v/2, reason, cite(ids(m1, m2), ev)...) {
					changed = true
				}
			}
		}
	}
	return changed, nil
}

// sharedEndpoint matches segments xy and uv sharing exactly one endpoint.
func sharedEndpoint(s1, s2 []string) (apex, b, c string, ok bool) {
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if s1[i] == s2[j] && s1[1-i] != s2[1-j] {
				return s1[i], s1[1-i], s2[1-j], true
			}
		}
	}
	return "", "", "", false
}

// TriangleSimilarity detects similar triangles by two equal angles or by
// proportional sides, records the correspondence as SIMILAR
// [A, B, C, D, E, F] (A↔D, B↔E, C↔F) and equates the remaining
// corresponding angles.
type TriangleSimilarity struct{}

func (TriangleSimilarity) Name() string { return "triangle_similarity" }
func (TriangleSimilarity) Description() string {
	return "Similar triangles have equal corresponding angles"
}

func (TriangleSimilarity) Apply(s *kb.Store) (bool, error) {
	changed := false
	tris := s.FactsOf(domain.KindTriangle)
	for i := 0; i < len(tris); i++ {
		for j := i + 1; j < len(tris); j++ {
			p1, ok1 := triangleOf(s, tris[i])
			p2, ok2 := triangleOf(s, tris[j])
			if !ok1 || !ok2 {
				continue
			}
			if domain.NewTriangle(p1[0].Name, p1[1].Name, p1[2].Name).CanonicalID() ==
				domain.NewTriangle(p2[0].Name, p2[1].Name, p2[2].Name).CanonicalID() {
				continue
			}
			if similarByAngles(s, tris[i], tris[j], p1, p2) {
				changed = true
			}
			if similarBySides(s, tris[i], tris[j], p1, p2) {
				changed = true
			}
		}
	}
	return changed, nil
}

func triangleAngles(p []domain.Point) [3]domain.Angle {
	var out [3]domain.Angle
	for k := 0; k < 3; k++ {
		out[k] = angle(p[(k+1)%3], p[k], p[(k+2)%3])
	}
	return out
}

func similarByAngles(s *kb.Store, t1, t2 *domain.Fact, p1, p2 []domain.Point) bool {
	a1, a2 := triangleAngles(p1), triangleAngles(p2)
	mapping := [3]int{-1, -1, -1}
	used := [3]bool{}
	matched := 0
	var evidence []domain.FactID
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if used[j] {
				continue
			}
			if ev, ok := knownEqual(s, a1[i], a2[j]); ok {
				mapping[i], used[j] = j, true
				evidence = append(evidence, ev...)
				matched++
				break
			}
		}
	}
	if matched < 2 {
		return false
	}
	for i := range mapping {
		if mapping[i] >= 0 {
			continue
		}
		for j := range used {
			if !used[j] {
				mapping[i], used[j] = j, true
				break
			}
		}
	}
	reason := fmt.Sprintf("triangles %s and %s have two equal angles", names(p1...), names(p2...))
	return assertSimilar(s, p1, p2, mapping, reason, cite(ids(t1, t2), evidence))
}

func similarBySides(s *kb.Store, t1, t2 *domain.Fact, p1, p2 []domain.Point) bool {
	type side struct {
		vertex int
		length float64
		ev     []domain.FactID
	}
	sides := func(p []domain.Point) ([]side, bool) {
		out := make([]side, 3)
		for k := 0; k < 3; k++ {
			v, ev, ok := s.LengthValue(segment(p[(k+1)%3], p[(k+2)%3]))
			if !ok || v <= 0 {
				return nil, false
			}
			out[k] = side{vertex: k, length: v, ev: ev}
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].length < out[j].length })
		return out, true
	}
	s1, ok1 := sides(p1)
	s2, ok2 := sides(p2)
	if !ok1 || !ok2 {
		return false
	}
	ratio := s1[0].length / s2[0].length
	var mapping [3]int
	var evidence []domain.FactID
	for k := 0; k < 3; k++ {
		if !IsClose(s1[k].length/s2[k].length, ratio) {
			return false
		}
		mapping[s1[k].vertex] = s2[k].vertex
		evidence = append(evidence, s1[k].ev...)
		evidence = append(evidence, s2[k].ev...)
	}
	reason := fmt.Sprintf("sides of triangles %s and %s are proportional", names(p1...), names(p2...))
	return assertSimilar(s, p1, p2, mapping, reason, cite(ids(t1, t2), evidence))
}

func assertSimilar(s *kb.Store, p1, p2 []domain.Point, mapping [3]int, reason string, parents []domain.FactID) bool {
	ents := []domain.Entity{p1[0], p1[1], p1[2], p2[mapping[0]], p2[mapping[1]], p2[mapping[2]]}
	changed := s.AssertFact(domain.KindSimilar, ents, nil, reason, parents, nil)

	idsOf := make([]string, len(ents))
	for i, e := range ents {
		idsOf[i] = e.CanonicalID()
	}
	sim, ok := s.Lookup(domain.KindSimilar, idsOf, nil)
	if !ok {
		return changed
	}
	a1, a2 := triangleAngles(p1), triangleAngles(p2)
	corr := fmt.Sprintf("corresponding angles of similar triangles %s and %s",
		names(p1...), names(p2[mapping[0]], p2[mapping[1]], p2[mapping[2]]))
	for i := 0; i < 3; i++ {
		if _, added := s.AssertEquality(a1[i], a2[mapping[i]], corr, sim.ID); added {
			changed = true
		}
	}
	return changed
}
