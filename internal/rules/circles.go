package rules

import (
	"fmt"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

// centers lists the circle centres known to the store in first-seen order.
func centers(s *kb.Store) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, f := range s.FactsOf(domain.KindCircle) {
		if info, ok := f.Payload.(domain.CircleInfo); ok {
			add(info.Center)
		}
	}
	for _, f := range s.FactsOf(domain.KindPointLocation) {
		if info, ok := f.Payload.(domain.LocationInfo); ok && info.Location == domain.LocationOn {
			add(info.Circle)
		}
	}
	return out
}

// TangentProperty: TANGENT [contact, outer, center] makes the tangent line
// perpendicular to the radius at the contact point.
type TangentProperty struct{}

func (TangentProperty) Name() string { return "tangent_property" }
func (TangentProperty) Description() string {
	return "A tangent is perpendicular to the radius at the point of contact"
}

func (TangentProperty) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, f := range s.FactsOf(domain.KindTangent) {
		if len(f.Entities) != 3 {
			continue
		}
		pts, ok := s.ResolvePoints(f.Entities...)
		if !ok {
			continue
		}
		contact, outer, center := pts[0], pts[1], pts[2]
		reason := fmt.Sprintf("tangent %s%s is perpendicular to radius %s%s", outer.Name, contact.Name, center.Name, contact.Name)
		if s.AssertValue(angle(center, contact, outer), 90, reason, f.ID) {
			changed = true
		}
	}
	return changed, nil
}

// CircleRadii makes every point on a circle equidistant from its centre.
type CircleRadii struct{}

func (CircleRadii) Name() string        { return "circle_radii" }
func (CircleRadii) Description() string { return "All radii of a circle are equal" }

func (CircleRadii) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, center := range centers(s) {
		on, why := onCircle(s, center)
		if len(on) < 2 {
			continue
		}
		o, ok := s.ResolvePoints(append([]string{center}, on...)...)
		if !ok {
			continue
		}
		reason := fmt.Sprintf("radii of circle (%s)", center)
		for i := 2; i < len(o); i++ {
			parents := ids(why[on[0]], why[on[i-1]])
			if _, added := s.AssertEquality(segment(o[0], o[1]), segment(o[0], o[i]), reason, cite(parents)...); added {
				changed = true
			}
		}
	}
	return changed, nil
}

// CircleAngleRelations relates angles on a chord AB. The central angle AOB
// is twice an acute inscribed angle AMB and 360° minus twice an obtuse one.
// Which side of a chord a point lies on is only known from the vertex order
// of a quadrilateral inscribed in the circle: inscribed angles from the same
// side are equal, from opposite sides supplementary.
type CircleAngleRelations struct{}

func (CircleAngleRelations) Name() string { return "circle_angle_relations" }
func (CircleAngleRelations) Description() string {
	return "Inscribed angles on a chord are equal from the same side and supplementary from opposite sides"
}

func (CircleAngleRelations) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, center := range centers(s) {
		on, why := onCircle(s, center)
		if len(on) < 3 {
			continue
		}
		if _, ok := s.ResolvePoints(append([]string{center}, on...)...); !ok {
			continue
		}
		if centralAngles(s, center, on, why) {
			changed = true
		}
		if inscribedQuadAngles(s, center, why) {
			changed = true
		}
	}
	return changed, nil
}

// centralAngles derives each unknown central angle from a known inscribed
// angle on the same chord.
func centralAngles(s *kb.Store, center string, on []string, why map[string]*domain.Fact) bool {
	changed := false
	for i := 0; i < len(on); i++ {
		for j := i + 1; j < len(on); j++ {
			a, b := on[i], on[j]
			central := domain.NewAngle(a, center, b)
			if _, _, known := s.AngleValue(central); known {
				continue
			}
			for _, m := range on {
				if m == a || m == b {
					continue
				}
				vi, evi, ok := s.AngleValue(domain.NewAngle(a, m, b))
				if !ok || vi <= 0 || vi >= 180 {
					continue
				}
				v := 2 * vi
				reason := fmt.Sprintf("central angle at %s is twice the inscribed angle at %s", center, m)
				if vi > 90 {
					v = 360 - 2*vi
					reason = fmt.Sprintf("inscribed angle at %s stands on the minor arc %s%s, so the central angle at %s is 360° minus twice it", m, a, b, center)
				}
				if s.AssertValue(central, v, reason, cite(ids(why[a], why[b], why[m]), evi)...) {
					changed = true
				}
				break
			}
		}
	}
	return changed
}

// inscribedQuadAngles applies the same-side and opposite-side relations to
// every quadrilateral whose four vertices lie on the circle. The vertex
// order of such a quadrilateral is its order around the circle.
func inscribedQuadAngles(s *kb.Store, center string, why map[string]*domain.Fact) bool {
	changed := false
	for _, qf := range s.FactsOf(domain.KindQuadrilateral) {
		if len(qf.Entities) != 4 {
			continue
		}
		v := qf.Entities
		if why[v[0]] == nil || why[v[1]] == nil || why[v[2]] == nil || why[v[3]] == nil {
			continue
		}
		base := cite(ids(qf), ids(why[v[0]], why[v[1]], why[v[2]], why[v[3]]))

		// Both remaining vertices face a side of the quadrilateral.
		for i := 0; i < 4; i++ {
			a, b := v[i], v[(i+1)%4]
			m, n := v[(i+2)%4], v[(i+3)%4]
			reason := fmt.Sprintf("inscribed angles at %s and %s stand on chord %s%s from the same side", m, n, a, b)
			if _, added := s.AssertEquality(domain.NewAngle(a, m, b), domain.NewAngle(a, n, b), reason, base...); added {
				changed = true
			}
		}

		// A diagonal separates the other two vertices.
		for i := 0; i < 2; i++ {
			a, b := v[i], v[i+2]
			m, n := v[i+1], v[(i+3)%4]
			reason := fmt.Sprintf("inscribed angles at %s and %s stand on chord %s%s from opposite sides of circle (%s)", m, n, a, b, center)
			x, y := domain.NewAngle(a, m, b), domain.NewAngle(a, n, b)
			for _, pair := range [][2]domain.Angle{{x, y}, {y, x}} {
				known, other := pair[0], pair[1]
				vk, ev, ok := s.AngleValue(known)
				if !ok || vk <= 0 || vk >= 180 {
					continue
				}
				if _, _, done := s.AngleValue(other); done {
					continue
				}
				if s.AssertValue(other, 180-vk, reason, cite(base, ev)...) {
					changed = true
				}
			}
		}
	}
	return changed
}

// TangentChord: the angle between tangent BA and chord BC equals the
// inscribed angle BDC, for triangles BCD inscribed in the tangent circle.
type TangentChord struct{}

func (TangentChord) Name() string { return "tangent_chord" }
func (TangentChord) Description() string {
	return "The tangent-chord angle equals the inscribed angle on that chord"
}

func (TangentChord) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, t := range s.FactsOf(domain.KindTangent) {
		if len(t.Entities) != 3 {
			continue
		}
		contact, outer, center := t.Entities[0], t.Entities[1], t.Entities[2]
		_, why := onCircle(s, center)

		for _, tri := range s.FactsOf(domain.KindTriangle) {
			if len(tri.Entities) != 3 || !tri.HasEntity(contact) {
				continue
			}
			var others []string
			for _, e := range tri.Entities {
				if e != contact {
					others = append(others, e)
				}
			}
			if len(others) != 2 || why[others[0]] == nil || why[others[1]] == nil {
				continue
			}
			if _, ok := s.ResolvePoints(contact, outer, others[0], others[1]); !ok {
				continue
			}
			for k, c := range others {
				d := others[1-k]
				reason := fmt.Sprintf("tangent-chord angle on chord %s%s", contact, c)
				parents := ids(t, tri, why[c], why[d])
				if _, added := s.AssertEquality(domain.NewAngle(outer, contact, c), domain.NewAngle(c, d, contact), reason, cite(parents)...); added {
					changed = true
				}
			}
		}
	}
	return changed, nil
}

// DiameterThales: an angle standing on a diameter is right. DIAMETER
// [A, B, O] applies to the apex of every triangle on AB and every other
// point of the circle.
type DiameterThales struct{}

func (DiameterThales) Name() string        { return "diameter_thales" }
func (DiameterThales) Description() string { return "An angle in a semicircle is a right angle" }

func (DiameterThales) Apply(s *kb.Store) (bool, error) {
	changed := false
	for _, d := range s.FactsOf(domain.KindDiameter) {
		if len(d.Entities) != 3 {
			continue
		}
		a, b, center := d.Entities[0], d.Entities[1], d.Entities[2]
		if _, ok := s.ResolvePoints(a, b); !ok {
			continue
		}
		reason := fmt.Sprintf("angle on diameter %s%s", a, b)
		apply := func(m string, parents []domain.FactID) {
			if m == a || m == b || m == center {
				return
			}
			if _, ok := s.ResolvePoints(m); !ok {
				return
			}
			if s.AssertValue(domain.NewAngle(a, m, b), 90, reason, parents...) {
				changed = true
			}
		}

		for _, t := range s.FactsOf(domain.KindTriangle) {
			if len(t.Entities) != 3 || !t.HasEntity(a) || !t.HasEntity(b) {
				continue
			}
			for _, m := range t.Entities {
				apply(m, ids(d, t))
			}
		}
		on, why := onCircle(s, center)
		for _, m := range on {
			apply(m, cite(ids(d, why[m])))
		}
	}
	return changed, nil
}
