// Package rules holds the geometric inference rules the engine saturates the
// knowledge store with. Every rule is a stateless function of the current
// store; it reports whether it taught the store anything new.
package rules

import (
	"math"
	"strings"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
)

type Rule interface {
	Name() string
	Description() string
	Apply(s *kb.Store) (bool, error)
}

const (
	// RelTolerance is the relative tolerance for comparing derived measures.
	RelTolerance = 1e-5
	// AbsTolerance keeps comparisons against zero meaningful.
	AbsTolerance = 1e-9
	// ContradictionTolerance is how far, in degrees, a pair of opposite
	// angles may stray from 180° before the premises are declared
	// inconsistent.
	ContradictionTolerance = 1.0
)

// Catalog returns the default rule set in application order: structural,
// propagation, shapes, circles, parallels, advanced, cyclic, diagnostics.
func Catalog() []Rule {
	return []Rule{
		DefinePolygonEdges{},
		AngleBisector{},
		Symmetry{},
		TriangleAngleSum{},
		PerpendicularToValue{},
		EqualityByValue{},

		EquilateralTriangle{},
		RightTriangle{},
		AltitudeProperty{},
		IsoscelesLineCoincidence{},
		MedianInRightTriangle{},
		ClassifyQuadrilaterals{},
		QuadSpecialProperties{},
		QuadWithTwoRightAngles{},

		TangentProperty{},
		CircleRadii{},
		CircleAngleRelations{},
		TangentChord{},
		DiameterThales{},

		ConsecutiveInteriorAngles{},

		PowerOfPoint{},
		MidlineTheorem{},
		TriangleSimilarity{},

		CyclicOppositeAngles{},
		CyclicSameArc{},
		CyclicExteriorAngle{},
		CyclicEquidistantCenter{},

		CyclicContradiction{},
		CoincidentVertices{},
	}
}

// IsClose compares two measures with RelTolerance.
func IsClose(a, b float64) bool {
	return math.Abs(a-b) <= math.Max(RelTolerance*math.Max(math.Abs(a), math.Abs(b)), AbsTolerance)
}

// cite concatenates parent lists, dropping duplicates and keeping order.
func cite(groups ...[]domain.FactID) []domain.FactID {
	seen := make(map[domain.FactID]bool)
	var out []domain.FactID
	for _, g := range groups {
		for _, id := range g {
			if id <= 0 || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func ids(facts ...*domain.Fact) []domain.FactID {
	out := make([]domain.FactID, 0, len(facts))
	for _, f := range facts {
		if f != nil {
			out = append(out, f.ID)
		}
	}
	return out
}

func names(pts ...domain.Point) string {
	var b strings.Builder
	for _, p := range pts {
		b.WriteString(p.Name)
	}
	return b.String()
}

func deg(v float64) string {
	return domain.FormatValue(v) + "°"
}

// quadOf resolves a QUADRILATERAL fact into its quadrilateral.
func quadOf(s *kb.Store, f *domain.Fact) (domain.Quadrilateral, bool) {
	if len(f.Entities) != 4 {
		return domain.Quadrilateral{}, false
	}
	pts, ok := s.ResolvePoints(f.Entities...)
	if !ok {
		return domain.Quadrilateral{}, false
	}
	return domain.Quadrilateral{Points: [4]domain.Point{pts[0], pts[1], pts[2], pts[3]}}, true
}

// triangleOf resolves a three-point fact.
func triangleOf(s *kb.Store, f *domain.Fact) ([]domain.Point, bool) {
	if len(f.Entities) != 3 {
		return nil, false
	}
	return s.ResolvePoints(f.Entities...)
}

func triangleInfo(f *domain.Fact) domain.TriangleInfo {
	if ti, ok := f.Payload.(domain.TriangleInfo); ok {
		return ti
	}
	return domain.TriangleInfo{}
}

// apexSplit returns the vertex named apex and the two remaining points.
func apexSplit(pts []domain.Point, apex string) (domain.Point, domain.Point, domain.Point, bool) {
	var others []domain.Point
	var top domain.Point
	found := false
	for _, p := range pts {
		if p.Name == apex {
			top, found = p, true
			continue
		}
		others = append(others, p)
	}
	if !found || len(others) != 2 {
		return domain.Point{}, domain.Point{}, domain.Point{}, false
	}
	return top, others[0], others[1], true
}

func angle(a, vertex, b domain.Point) domain.Angle {
	return domain.Angle{P1: a, Vertex: vertex, P3: b}
}

func segment(a, b domain.Point) domain.Segment {
	return domain.Segment{P1: a, P2: b}
}

// pointsOf turns point names into entities for AssertFact.
func pointsOf(names ...string) []domain.Entity {
	out := make([]domain.Entity, len(names))
	for i, n := range names {
		out[i] = domain.NewPoint(n)
	}
	return out
}

func samePair(a, b, x, y string) bool {
	return (a == x && b == y) || (a == y && b == x)
}

// knownEqual reports whether two angles are known equal, through the
// equality graph or by measure, with the facts that show it.
func knownEqual(s *kb.Store, a, b domain.Angle) ([]domain.FactID, bool) {
	if ok, path := s.EqualityPath(a, b); ok {
		return path.Facts, true
	}
	va, eva, okA := s.AngleValue(a)
	vb, evb, okB := s.AngleValue(b)
	if okA && okB && IsClose(va, vb) {
		return cite(eva, evb), true
	}
	return nil, false
}

// line is an ordered run of collinear points with the fact that states it.
type line struct {
	points []string
	fact   *domain.Fact
}

// knownLines collects the stated lines through intersections and
// auxiliary constructions.
func knownLines(s *kb.Store) []line {
	var out []line
	for _, kind := range []domain.Kind{domain.KindIntersection, domain.KindAuxiliary} {
		for _, f := range s.FactsOf(kind) {
			info, ok := f.Payload.(domain.IntersectionInfo)
			if !ok {
				continue
			}
			for _, l := range info.Lines {
				out = append(out, line{points: l, fact: f})
			}
		}
	}
	return out
}

func indexOf(list []string, name string) int {
	for i, n := range list {
		if n == name {
			return i
		}
	}
	return -1
}

// onCircle lists the points known to lie on the circle centred at center,
// with the facts that place them there.
func onCircle(s *kb.Store, center string) ([]string, map[string]*domain.Fact) {
	var order []string
	why := make(map[string]*domain.Fact)
	add := func(name string, f *domain.Fact) {
		if name == center {
			return
		}
		if _, seen := why[name]; seen {
			return
		}
		why[name] = f
		order = append(order, name)
	}
	for _, f := range s.FactsOf(domain.KindCircle) {
		if info, ok := f.Payload.(domain.CircleInfo); ok && info.Center == center {
			for _, e := range f.Entities {
				add(e, f)
			}
		}
	}
	for _, f := range s.FactsOf(domain.KindPointLocation) {
		info, ok := f.Payload.(domain.LocationInfo)
		if ok && info.Circle == center && info.Location == domain.LocationOn && len(f.Entities) == 1 {
			add(f.Entities[0], f)
		}
	}
	return order, why
}
