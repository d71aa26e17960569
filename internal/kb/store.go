// Package kb is the knowledge store the inference engine saturates: an
// append-only arena of facts indexed by identity key and by kind, the
// registry of canonical entities, and the equality graph.
package kb

import (
	"errors"
	"fmt"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrUnknownParent = errors.New("parent fact does not exist")
	ErrCyclicSource  = errors.New("parent does not precede the fact it justifies")
)

// Store is not safe for concurrent use. The engine runs one rule at a time.
type Store struct {
	facts    []*domain.Fact
	byKey    map[string]domain.FactID
	byKind   map[domain.Kind][]domain.FactID
	kinds    []domain.Kind
	entities map[string]domain.Entity
	points   []domain.Point
	eq       *equalityGraph
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		byKey:    make(map[string]domain.FactID),
		byKind:   make(map[domain.Kind][]domain.FactID),
		entities: make(map[string]domain.Entity),
		eq:       newEqualityGraph(),
		logger:   logger,
	}
}

// Register adds e and, recursively, its component points to the entity
// registry. It reports whether anything was new.
func (s *Store) Register(e domain.Entity) bool {
	added := false
	id := e.CanonicalID()
	if _, ok := s.entities[id]; !ok {
		s.entities[id] = e
		if p, isPoint := e.(domain.Point); isPoint {
			s.points = append(s.points, p)
		}
		added = true
	}
	for _, p := range e.ComponentPoints() {
		if s.Register(p) {
			added = true
		}
	}
	return added
}

func (s *Store) Entity(id string) (domain.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

func (s *Store) Registered(id string) bool {
	_, ok := s.entities[id]
	return ok
}

// ResolvePoints looks up registered points by name. ok is false if any
// name is unknown, meaning the caller's rule instance does not apply yet.
func (s *Store) ResolvePoints(names ...string) ([]domain.Point, bool) {
	out := make([]domain.Point, 0, len(names))
	for _, n := range names {
		e, ok := s.entities[n]
		if !ok {
			return nil, false
		}
		p, isPoint := e.(domain.Point)
		if !isPoint {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}

// Points returns every registered point in registration order.
func (s *Store) Points() []domain.Point {
	return append([]domain.Point(nil), s.points...)
}

// AssertFact records a fact about entities, registering them first. If the
// fact already exists its payload is merged and the source appended when
// the reason is new. It reports whether the store learned anything.
func (s *Store) AssertFact(kind domain.Kind, entities []domain.Entity, value *float64, reason string, parents []domain.FactID, payload domain.Payload) bool {
	ids := make([]string, len(entities))
	for i, e := range entities {
		s.Register(e)
		ids[i] = e.CanonicalID()
	}
	_, changed := s.assert(kind, ids, value, reason, parents, payload)
	return changed
}

// AssertIDs is AssertFact for callers that already hold canonical ids.
// Unregistered ids are decoded and registered.
func (s *Store) AssertIDs(kind domain.Kind, ids []string, value *float64, reason string, parents []domain.FactID, payload domain.Payload) bool {
	for _, id := range ids {
		if s.Registered(id) {
			continue
		}
		e, err := domain.ParseCanonicalID(id)
		if err != nil {
			s.logger.Warn("assert skipped", zap.String("kind", string(kind)), zap.Error(err))
			return false
		}
		s.Register(e)
	}
	_, changed := s.assert(kind, ids, value, reason, parents, payload)
	return changed
}

// AssertValue records the measure of an angle or the length of a segment.
func (s *Store) AssertValue(e domain.Entity, value float64, reason string, parents ...domain.FactID) bool {
	subtype := domain.SubtypeLength
	if _, ok := e.(domain.Angle); ok {
		subtype = domain.SubtypeAngle
	}
	return s.AssertFact(domain.KindValue, []domain.Entity{e}, domain.Float(value), reason, parents, domain.ValueInfo{Subtype: subtype})
}

func (s *Store) assert(kind domain.Kind, ids []string, value *float64, reason string, parents []domain.FactID, payload domain.Payload) (*domain.Fact, bool) {
	key := domain.FactKey(kind, ids, value)
	if id, ok := s.byKey[key]; ok {
		f := s.facts[id-1]
		changed := s.mergePayload(f, payload)
		if s.addSource(f, reason, parents) {
			changed = true
		}
		return f, changed
	}

	next := domain.FactID(len(s.facts) + 1)
	if err := s.checkParents(next, parents); err != nil {
		s.logger.Debug("fact rejected",
			zap.String("key", key),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, false
	}

	f := &domain.Fact{
		ID:       next,
		Kind:     kind,
		Entities: append([]string(nil), ids...),
		Sources:  []domain.Source{{Reason: reason, Parents: append([]domain.FactID(nil), parents...)}},
		Payload:  payload,
	}
	if value != nil {
		v := *value
		f.Value = &v
	}

	s.facts = append(s.facts, f)
	s.byKey[key] = f.ID
	if _, seen := s.byKind[kind]; !seen {
		s.kinds = append(s.kinds, kind)
	}
	s.byKind[kind] = append(s.byKind[kind], f.ID)
	return f, true
}

func (s *Store) mergePayload(f *domain.Fact, incoming domain.Payload) bool {
	if incoming == nil {
		return false
	}
	if f.Payload == nil {
		f.Payload = incoming
		return true
	}
	merged, changed := f.Payload.Merge(incoming)
	if changed {
		f.Payload = merged
	}
	return changed
}

func (s *Store) addSource(f *domain.Fact, reason string, parents []domain.FactID) bool {
	if f.HasReason(reason) {
		return false
	}
	if err := s.checkParents(f.ID, parents); err != nil {
		s.logger.Debug("source rejected",
			zap.String("key", f.Key()),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return false
	}
	f.Sources = append(f.Sources, domain.Source{Reason: reason, Parents: append([]domain.FactID(nil), parents...)})
	s.logger.Debug("source added", zap.String("key", f.Key()), zap.String("reason", reason))
	return true
}

// checkParents enforces that every parent is strictly earlier than child in
// derivation order, which keeps the provenance graph acyclic.
func (s *Store) checkParents(child domain.FactID, parents []domain.FactID) error {
	for _, p := range parents {
		if p <= 0 || int(p) > len(s.facts) {
			return fmt.Errorf("%w: %d", ErrUnknownParent, p)
		}
		if p >= child {
			return fmt.Errorf("%w: %d cited by %d", ErrCyclicSource, p, child)
		}
	}
	return nil
}

// Fact returns the fact with the given id, or nil.
func (s *Store) Fact(id domain.FactID) *domain.Fact {
	if id <= 0 || int(id) > len(s.facts) {
		return nil
	}
	return s.facts[id-1]
}

// FactsOf returns a snapshot of the facts of one kind in insertion order.
// Facts asserted while the caller iterates are not included.
func (s *Store) FactsOf(kind domain.Kind) []*domain.Fact {
	ids := s.byKind[kind]
	out := make([]*domain.Fact, len(ids))
	for i, id := range ids {
		out[i] = s.facts[id-1]
	}
	return out
}

// Facts returns every fact in derivation order.
func (s *Store) Facts() []*domain.Fact {
	return append([]*domain.Fact(nil), s.facts...)
}

// Lookup finds a fact by identity.
func (s *Store) Lookup(kind domain.Kind, ids []string, value *float64) (*domain.Fact, bool) {
	id, ok := s.byKey[domain.FactKey(kind, ids, value)]
	if !ok {
		return nil, false
	}
	return s.facts[id-1], true
}

// Kinds lists fact kinds in the order they first appeared.
func (s *Store) Kinds() []domain.Kind {
	return append([]domain.Kind(nil), s.kinds...)
}

func (s *Store) Len() int {
	return len(s.facts)
}

// SourceCount is the total number of justifications held by the store.
func (s *Store) SourceCount() int {
	n := 0
	for _, f := range s.facts {
		n += len(f.Sources)
	}
	return n
}

// Reclassify records that a quadrilateral fact has the given kind. The
// classification is a fact of its own (IS_<KIND> about the quadrilateral)
// carrying reason and parents; only once it is accepted is the refined kind
// of the quadrilateral fact promoted through the lattice. A kind already
// implied by the current one is ignored. When the promotion joins two
// incomparable kinds the join is recorded too, citing both.
func (s *Store) Reclassify(quad domain.FactID, kind domain.QuadKind, reason string, parents ...domain.FactID) bool {
	f := s.Fact(quad)
	if f == nil || f.Kind != domain.KindQuadrilateral || len(f.Entities) != 4 || kind == domain.QuadGeneral {
		return false
	}
	if kind.Leq(QuadKindOf(f)) {
		return false
	}
	q := quadrilateralOf(f)
	s.Register(q)
	qid := []string{q.CanonicalID()}

	cls, learned := s.assert(domain.ClassKind(kind), qid, nil, reason, parents, nil)
	if cls == nil {
		return false
	}

	prev := QuadKindOf(f)
	if !s.mergePayload(f, domain.QuadInfo{Subtype: kind}) {
		return learned
	}
	if now := QuadKindOf(f); now != kind && prev != domain.QuadGeneral {
		if pf, ok := s.Lookup(domain.ClassKind(prev), qid, nil); ok {
			why := fmt.Sprintf("%s is both %s and %s", domain.ShortName(qid[0]), prev.WithArticle(), kind.WithArticle())
			s.assert(domain.ClassKind(now), qid, nil, why, []domain.FactID{pf.ID, cls.ID}, nil)
		}
	}
	s.logger.Debug("quadrilateral reclassified",
		zap.String("quad", qid[0]),
		zap.String("from", string(prev)),
		zap.String("to", string(QuadKindOf(f))),
	)
	return true
}

// ClassFact returns the classification fact behind a quadrilateral's
// current refined kind. A kind merged without one, such as a payload given
// directly, has none.
func (s *Store) ClassFact(quad *domain.Fact) (*domain.Fact, bool) {
	kind := QuadKindOf(quad)
	if kind == domain.QuadGeneral || len(quad.Entities) != 4 {
		return nil, false
	}
	return s.Lookup(domain.ClassKind(kind), []string{quadrilateralOf(quad).CanonicalID()}, nil)
}

func quadrilateralOf(f *domain.Fact) domain.Quadrilateral {
	e := f.Entities
	return domain.NewQuadrilateral(e[0], e[1], e[2], e[3])
}

// QuadKindOf returns the current refined kind of a quadrilateral fact.
func QuadKindOf(f *domain.Fact) domain.QuadKind {
	if qi, ok := f.Payload.(domain.QuadInfo); ok {
		return qi.Subtype
	}
	return domain.QuadGeneral
}
