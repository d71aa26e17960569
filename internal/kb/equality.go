package kb

import (
	"sort"
	"strings"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"go.uber.org/zap"
)

type equalityEdge struct {
	reason  string
	parents []domain.FactID
	fact    domain.FactID
}

// equalityGraph is an undirected graph over canonical ids. Adjacency keeps
// insertion order so path search is deterministic.
type equalityGraph struct {
	adj   map[string][]string
	edges map[[2]string]equalityEdge
}

func newEqualityGraph() *equalityGraph {
	return &equalityGraph{
		adj:   make(map[string][]string),
		edges: make(map[[2]string]equalityEdge),
	}
}

func edgeKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (g *equalityGraph) edge(a, b string) (equalityEdge, bool) {
	e, ok := g.edges[edgeKey(a, b)]
	return e, ok
}

func (g *equalityGraph) add(a, b string, e equalityEdge) {
	g.edges[edgeKey(a, b)] = e
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
}

// bfs returns the predecessor map of a breadth-first search from start.
func (g *equalityGraph) bfs(start string, stop string) map[string]string {
	prev := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == stop {
			break
		}
		for _, next := range g.adj[cur] {
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	return prev
}

// Path is a chain of pairwise-asserted equalities.
type Path struct {
	Nodes []string
	// Facts are the EQUALITY facts backing each hop, in chain order.
	Facts []domain.FactID
}

// Explain renders the chain as "AB = CD = EF".
func (p Path) Explain() string {
	names := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		names[i] = domain.ShortName(n)
	}
	return strings.Join(names, " = ")
}

// AssertEquality records a = b. It is a no-op when both name the same
// entity or the pair is already linked directly; otherwise it adds the
// graph edge and an EQUALITY fact over the sorted id pair.
func (s *Store) AssertEquality(a, b domain.Entity, reason string, parents ...domain.FactID) (*domain.Fact, bool) {
	s.Register(a)
	s.Register(b)
	ida, idb := a.CanonicalID(), b.CanonicalID()
	if ida == idb {
		return nil, false
	}
	if e, ok := s.eq.edge(ida, idb); ok {
		return s.Fact(e.fact), false
	}

	pair := edgeKey(ida, idb)
	f, _ := s.assert(domain.KindEquality, pair[:], nil, reason, parents, nil)
	if f == nil {
		return nil, false
	}
	s.eq.add(ida, idb, equalityEdge{reason: reason, parents: append([]domain.FactID(nil), parents...), fact: f.ID})
	s.logger.Debug("equality added", zap.String("a", ida), zap.String("b", idb), zap.String("reason", reason))
	return f, true
}

// EqualityPath reports whether a and b are the same entity or connected in
// the equality graph, with one shortest chain between them.
func (s *Store) EqualityPath(a, b domain.Entity) (bool, Path) {
	return s.equalityPathIDs(a.CanonicalID(), b.CanonicalID())
}

func (s *Store) equalityPathIDs(ida, idb string) (bool, Path) {
	if ida == idb {
		return true, Path{Nodes: []string{ida}}
	}
	if _, ok := s.eq.adj[ida]; !ok {
		return false, Path{}
	}
	if _, ok := s.eq.adj[idb]; !ok {
		return false, Path{}
	}
	prev := s.eq.bfs(ida, idb)
	if _, reached := prev[idb]; !reached {
		return false, Path{}
	}

	nodes := []string{idb}
	for cur := idb; cur != ida; {
		cur = prev[cur]
		nodes = append(nodes, cur)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	path := Path{Nodes: nodes}
	for i := 0; i+1 < len(nodes); i++ {
		e, _ := s.eq.edge(nodes[i], nodes[i+1])
		path.Facts = append(path.Facts, e.fact)
	}
	return true, path
}

// Equal reports whether a and b are known equal.
func (s *Store) Equal(a, b domain.Entity) bool {
	ok, _ := s.EqualityPath(a, b)
	return ok
}

// EqualityClass returns the ids known equal to id, id included, sorted.
func (s *Store) EqualityClass(id string) []string {
	if _, ok := s.eq.adj[id]; !ok {
		return []string{id}
	}
	prev := s.eq.bfs(id, "")
	out := make([]string, 0, len(prev))
	for n := range prev {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
