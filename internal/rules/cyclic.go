package rules

import (
	"fmt"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// The four cyclic rules each prove a quadrilateral cyclic by a different
// method. All of them record IS_CYCLIC against the quadrilateral's
// canonical id, so independent proofs accumulate as sources of one fact.

func assertCyclic(s *kb.Store, q domain.Quadrilateral, reason string, parents []domain.FactID) bool {
	return s.AssertFact(domain.KindIsCyclic, []domain.Entity{q}, nil, reason, parents, nil)
}

// CyclicOppositeAngles: opposite angles summing to 180°.
type CyclicOppositeAngles struct{}

func (CyclicOppositeAngles) Name() string { return "cyclic_opposite_angles" }
func (CyclicOppositeAngles) Description() string {
	return "A quadrilateral whose opposite angles sum to 180° is cyclic"
}

func (CyclicOppositeAngles) Apply(s *kb.Store) (bool, error) {
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
			if !ok1 || !ok2 || !IsClose(v1+v2, 180) {
				continue
			}
			reason := fmt.Sprintf("opposite angles ∠%s = %s and ∠%s = %s sum to 180°",
				names(a1.P1, a1.Vertex, a1.P3), deg(v1), names(a2.P1, a2.Vertex, a2.P3), deg(v2))
			if assertCyclic(s, q, reason, cite(ids(f), ev1, ev2)) {
				changed = true
			}
		}
	}
	return changed, nil
}

// CyclicSameArc: two adjacent vertices seeing the opposite side under equal
// angles. For side DC, the vertices A and B lie on the same side of it.
type CyclicSameArc struct{}

func (CyclicSameArc) Name() string { return "cyclic_same_arc" }
func (CyclicSameArc) Description() string {
	return "A quadrilateral whose side subtends equal angles from the other two vertices is cyclic"
}

func (CyclicSameArc) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		for i := 0; i < 4; i++ {
			v1, v2 := q.Vertex(i), q.Vertex(i+1)
			b1, b2 := q.Vertex(i+3), q.Vertex(i+2)
			ang1, ang2 := angle(b1, v1, b2), angle(b1, v2, b2)
			ev, equal := knownEqual(s, ang1, ang2)
			if !equal {
				continue
			}
			reason := fmt.Sprintf("∠%s = ∠%s subtend %s from the same side",
				names(b1, v1, b2), names(b1, v2, b2), names(b1, b2))
			if assertCyclic(s, q, reason, cite(ids(f), ev)) {
				changed = true
			}
		}
	}
	return changed, nil
}

// CyclicExteriorAngle: an exterior angle equal to the interior angle at the
// opposite vertex. The exterior angle at C is formed by extending a side
// through C to a point E on a stated line.
type CyclicExteriorAngle struct{}

func (CyclicExteriorAngle) Name() string { return "cyclic_exterior_angle" }
func (CyclicExteriorAngle) Description() string {
	return "A quadrilateral with an exterior angle equal to the opposite interior angle is cyclic"
}

func (CyclicExteriorAngle) Apply(s *kb.Store) (bool, error) {
	changed := false
	lines := knownLines(s)
	if len(lines) == 0 {
		return false, nil
	}
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		for i := 0; i < 4; i++ {
			v := q.Vertex(i)
			opposite := q.InteriorAngle(i + 2)
			// Extending side (from, v) beyond v; the exterior angle is
			// between the extension and the other side (v, to).
			for _, side := range [][2]domain.Point{{q.Vertex(i - 1), q.Vertex(i + 1)}, {q.Vertex(i + 1), q.Vertex(i - 1)}} {
				from, to := side[0], side[1]
				for _, l := range lines {
					for _, e := range extensionsBeyond(l.points, from.Name, v.Name) {
						if isVertex(q, e) {
							continue
						}
						ep, ok := s.ResolvePoints(e)
						if !ok {
							continue
						}
						exterior := angle(to, v, ep[0])
						ev, equal := knownEqual(s, exterior, opposite)
						if !equal {
							continue
						}
						reason := fmt.Sprintf("exterior angle ∠%s equals interior opposite angle ∠%s",
							names(to, v, ep[0]), names(opposite.P1, opposite.Vertex, opposite.P3))
						if assertCyclic(s, q, reason, cite(ids(f, l.fact), ev)) {
							changed = true
						}
					}
				}
			}
		}
	}
	return changed, nil
}

// extensionsBeyond lists the points of an ordered line that lie past v when
// walking from from through v.
func extensionsBeyond(points []string, from, v string) []string {
	iFrom, iV := indexOf(points, from), indexOf(points, v)
	if iFrom < 0 || iV < 0 || iFrom == iV {
		return nil
	}
	var out []string
	if iFrom < iV {
		out = append(out, points[iV+1:]...)
	} else {
		for k := iV - 1; k >= 0; k-- {
			out = append(out, points[k])
		}
	}
	return out
}

func isVertex(q domain.Quadrilateral, name string) bool {
	for _, p := range q.Points {
		if p.Name == name {
			return true
		}
	}
	return false
}

// CyclicEquidistantCenter: all four vertices at equal distance from one
// point, shown through the equality graph rather than by measured lengths.
type CyclicEquidistantCenter struct{}

func (CyclicEquidistantCenter) Name() string { return "cyclic_equidistant_center" }
func (CyclicEquidistantCenter) Description() string {
	return "A quadrilateral whose vertices are equidistant from a point is cyclic"
}

func (CyclicEquidistantCenter) Apply(s *kb.Store) (bool, error) {
	changed := false
	points := s.Points()
	for _, f := range s.FactsOf(domain.KindQuadrilateral) {
		q, ok := quadOf(s, f)
		if !ok {
			continue
		}
		for _, o := range points {
			if isVertex(q, o.Name) {
				continue
			}
			first := segment(o, q.Vertex(0))
			evidence := ids(f)
			all := true
			for k := 1; k < 4; k++ {
				ok, path := s.EqualityPath(first, segment(o, q.Vertex(k)))
				if !ok {
					all = false
					break
				}
				evidence = append(evidence, path.Facts...)
			}
			if !all {
				continue
			}
			reason := fmt.Sprintf("%s are equidistant from %s", vertexList(q), o.Name)
			if assertCyclic(s, q, reason, cite(evidence)) {
				changed = true
			}
		}
	}
	return changed, nil
}

func vertexList(q domain.Quadrilateral) string {
	return fmt.Sprintf("%s, %s, %s, %s", q.Points[0].Name, q.Points[1].Name, q.Points[2].Name, q.Points[3].Name)
}
