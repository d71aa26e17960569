package kb

import "github.com/Harshitk-cp/geosolve/internal/domain"

func subtypeOf(f *domain.Fact) domain.ValueSubtype {
	if vi, ok := f.Payload.(domain.ValueInfo); ok {
		return vi.Subtype
	}
	return ""
}

// AngleFact returns the VALUE fact that names the angle itself.
func (s *Store) AngleFact(a domain.Angle) (*domain.Fact, bool) {
	id := a.CanonicalID()
	for _, f := range s.FactsOf(domain.KindValue) {
		if f.Value != nil && subtypeOf(f) == domain.SubtypeAngle && f.HasEntity(id) {
			return f, true
		}
	}
	return nil, false
}

// AngleValue returns the measure of a, either stated for the angle itself
// or for any angle in its equality class. The evidence lists the VALUE fact
// followed by the EQUALITY facts linking it to a.
func (s *Store) AngleValue(a domain.Angle) (float64, []domain.FactID, bool) {
	if f, ok := s.AngleFact(a); ok {
		return *f.Value, []domain.FactID{f.ID}, true
	}

	id := a.CanonicalID()
	if _, ok := s.eq.adj[id]; !ok {
		return 0, nil, false
	}
	class := make(map[string]bool)
	for _, n := range s.EqualityClass(id) {
		class[n] = true
	}
	for _, f := range s.FactsOf(domain.KindValue) {
		if f.Value == nil || subtypeOf(f) != domain.SubtypeAngle {
			continue
		}
		for _, e := range f.Entities {
			if !class[e] {
				continue
			}
			evidence := []domain.FactID{f.ID}
			if ok, path := s.equalityPathIDs(e, id); ok {
				evidence = append(evidence, path.Facts...)
			}
			return *f.Value, evidence, true
		}
	}
	return 0, nil, false
}

// LengthValue returns the length of seg. A VALUE fact matches when it names
// the segment or its two endpoints in either order; equal segments are not
// consulted.
func (s *Store) LengthValue(seg domain.Segment) (float64, []domain.FactID, bool) {
	id := seg.CanonicalID()
	p1, p2 := seg.P1.Name, seg.P2.Name
	for _, f := range s.FactsOf(domain.KindValue) {
		if f.Value == nil || subtypeOf(f) != domain.SubtypeLength {
			continue
		}
		switch len(f.Entities) {
		case 1:
			if f.Entities[0] != id {
				continue
			}
		case 2:
			a, b := f.Entities[0], f.Entities[1]
			if !(a == p1 && b == p2) && !(a == p2 && b == p1) {
				continue
			}
		default:
			continue
		}
		return *f.Value, []domain.FactID{f.ID}, true
	}
	return 0, nil, false
}

// ValueOf dispatches to AngleValue or LengthValue.
func (s *Store) ValueOf(e domain.Entity) (float64, bool) {
	switch v := e.(type) {
	case domain.Angle:
		val, _, ok := s.AngleValue(v)
		return val, ok
	case domain.Segment:
		val, _, ok := s.LengthValue(v)
		return val, ok
	}
	return 0, false
}
