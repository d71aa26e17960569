package kb

import "github.com/Harshitk-cp/geosolve/internal/domain"

// Visited is the set of facts a provenance walk has already expanded.
// Callers thread it through successive walks to avoid re-expanding shared
// ancestors.
type Visited map[domain.FactID]bool

// Follow selects which justifications of an ancestor a walk descends into.
type Follow int

const (
	// FollowPrimary descends into each fact's first source only; this is
	// the chain a proof cites.
	FollowPrimary Follow = iota
	// FollowAll descends into every source.
	FollowAll
)

// Walk visits the provenance of roots depth first and returns every newly
// visited fact in post-order, dependencies before dependents. Facts already
// in visited are skipped, so the walk terminates even on a malformed graph.
func (s *Store) Walk(roots []domain.FactID, visited Visited, follow Follow) ([]*domain.Fact, Visited) {
	if visited == nil {
		visited = Visited{}
	}
	var order []*domain.Fact
	var visit func(id domain.FactID)
	visit = func(id domain.FactID) {
		if visited[id] {
			return
		}
		f := s.Fact(id)
		if f == nil {
			return
		}
		visited[id] = true
		for _, p := range parentsOf(f, follow) {
			visit(p)
		}
		order = append(order, f)
	}
	for _, id := range roots {
		visit(id)
	}
	return order, visited
}

// Trace walks the primary provenance of root, root included last.
func (s *Store) Trace(root domain.FactID, visited Visited) ([]*domain.Fact, Visited) {
	return s.Walk([]domain.FactID{root}, visited, FollowPrimary)
}

// TraceSource walks the provenance cited by one source of a fact.
func (s *Store) TraceSource(src domain.Source, visited Visited) ([]*domain.Fact, Visited) {
	return s.Walk(src.Parents, visited, FollowPrimary)
}

// Premises returns the given facts root ultimately rests on.
func (s *Store) Premises(root domain.FactID) []*domain.Fact {
	order, _ := s.Trace(root, nil)
	var out []*domain.Fact
	for _, f := range order {
		if f.ID != root && f.IsPremise() {
			out = append(out, f)
		}
	}
	return out
}

func parentsOf(f *domain.Fact, follow Follow) []domain.FactID {
	if follow == FollowPrimary {
		return f.Primary().Parents
	}
	var out []domain.FactID
	for _, src := range f.Sources {
		out = append(out, src.Parents...)
	}
	return out
}
