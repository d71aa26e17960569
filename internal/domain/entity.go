package domain

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Canonical id prefixes for composite entities.
const (
	SegmentPrefix       = "Seg_"
	AnglePrefix         = "Angle_"
	TrianglePrefix      = "Tri_"
	QuadrilateralPrefix = "Quad_"
)

// Entity is a geometric object identified by its canonical id. Two entities
// are the same object iff their canonical ids are equal; String keeps the
// caller's point order for display.
type Entity interface {
	CanonicalID() string
	String() string
	// ComponentPoints lists the points the entity is built from, in caller
	// order. Points have no components.
	ComponentPoints() []Point
}

// SameEntity reports whether a and b denote the same geometric object.
func SameEntity(a, b Entity) bool {
	return a.CanonicalID() == b.CanonicalID()
}

type Point struct {
	Name string
}

// NewPoint upper-cases the name so "a" and "A" are the same point.
func NewPoint(name string) Point {
	return Point{Name: strings.ToUpper(strings.TrimSpace(name))}
}

// ValidPointName reports whether name is a letter optionally followed by
// digits or primes (A, H1, B'). Canonical ids concatenate names, so this is
// what keeps them decodable.
func ValidPointName(name string) bool {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if !unicode.IsDigit(r) && r != '\'' {
			return false
		}
	}
	return true
}

func (p Point) CanonicalID() string      { return p.Name }
func (p Point) String() string           { return "Point " + p.Name }
func (p Point) ComponentPoints() []Point { return nil }

type Segment struct {
	P1, P2 Point
}

func NewSegment(a, b string) Segment {
	return Segment{P1: NewPoint(a), P2: NewPoint(b)}
}

func (s Segment) CanonicalID() string {
	names := []string{s.P1.Name, s.P2.Name}
	sort.Strings(names)
	return SegmentPrefix + names[0] + names[1]
}

func (s Segment) String() string           { return "Segment " + s.P1.Name + s.P2.Name }
func (s Segment) ComponentPoints() []Point { return []Point{s.P1, s.P2} }

// Angle is the angle P1-Vertex-P3. The legs are unordered for identity.
type Angle struct {
	P1, Vertex, P3 Point
}

func NewAngle(a, vertex, b string) Angle {
	return Angle{P1: NewPoint(a), Vertex: NewPoint(vertex), P3: NewPoint(b)}
}

func (a Angle) CanonicalID() string {
	legs := []string{a.P1.Name, a.P3.Name}
	sort.Strings(legs)
	return AnglePrefix + legs[0] + a.Vertex.Name + legs[1]
}

func (a Angle) String() string {
	return "Angle " + a.P1.Name + a.Vertex.Name + a.P3.Name
}

func (a Angle) ComponentPoints() []Point { return []Point{a.P1, a.Vertex, a.P3} }

type Triangle struct {
	P1, P2, P3 Point
}

func NewTriangle(a, b, c string) Triangle {
	return Triangle{P1: NewPoint(a), P2: NewPoint(b), P3: NewPoint(c)}
}

func (t Triangle) CanonicalID() string {
	names := []string{t.P1.Name, t.P2.Name, t.P3.Name}
	sort.Strings(names)
	return TrianglePrefix + strings.Join(names, "")
}

func (t Triangle) String() string {
	return "Triangle " + t.P1.Name + t.P2.Name + t.P3.Name
}

func (t Triangle) ComponentPoints() []Point { return []Point{t.P1, t.P2, t.P3} }

// Quadrilateral keeps its vertices in the caller's cyclic order.
type Quadrilateral struct {
	Points [4]Point
}

func NewQuadrilateral(a, b, c, d string) Quadrilateral {
	return Quadrilateral{Points: [4]Point{NewPoint(a), NewPoint(b), NewPoint(c), NewPoint(d)}}
}

// CanonicalID is the lexicographically smallest spelling over the four
// rotations and four reflections of the vertex cycle.
func (q Quadrilateral) CanonicalID() string {
	n := len(q.Points)
	best := ""
	for _, step := range []int{1, n - 1} {
		for start := 0; start < n; start++ {
			var b strings.Builder
			for k := 0; k < n; k++ {
				b.WriteString(q.Points[(start+k*step)%n].Name)
			}
			if cand := b.String(); best == "" || cand < best {
				best = cand
			}
		}
	}
	return QuadrilateralPrefix + best
}

func (q Quadrilateral) String() string {
	var b strings.Builder
	for _, p := range q.Points {
		b.WriteString(p.Name)
	}
	return "Quadrilateral " + b.String()
}

func (q Quadrilateral) ComponentPoints() []Point { return q.Points[:] }

// Vertex returns the i-th vertex, wrapping around the cycle.
func (q Quadrilateral) Vertex(i int) Point {
	n := len(q.Points)
	return q.Points[((i%n)+n)%n]
}

// InteriorAngle is the angle at vertex i between its two neighbours.
func (q Quadrilateral) InteriorAngle(i int) Angle {
	return Angle{P1: q.Vertex(i - 1), Vertex: q.Vertex(i), P3: q.Vertex(i + 1)}
}

// SplitPointNames breaks a run of concatenated point names ("A1BC'")
// into its names.
func SplitPointNames(s string) []string {
	var names []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) && cur.Len() > 0 {
			names = append(names, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		names = append(names, cur.String())
	}
	return names
}

// ParseCanonicalID rebuilds an entity from its canonical id. Composite
// entities come back in canonical point order.
func ParseCanonicalID(id string) (Entity, error) {
	var prefix string
	for _, p := range []string{SegmentPrefix, AnglePrefix, TrianglePrefix, QuadrilateralPrefix} {
		if strings.HasPrefix(id, p) {
			prefix = p
			break
		}
	}
	if prefix == "" {
		if !ValidPointName(id) {
			return nil, fmt.Errorf("invalid canonical id %q", id)
		}
		return NewPoint(id), nil
	}

	names := SplitPointNames(strings.TrimPrefix(id, prefix))
	want := map[string]int{SegmentPrefix: 2, AnglePrefix: 3, TrianglePrefix: 3, QuadrilateralPrefix: 4}[prefix]
	if len(names) != want {
		return nil, fmt.Errorf("invalid canonical id %q: want %d points, got %d", id, want, len(names))
	}

	switch prefix {
	case SegmentPrefix:
		return NewSegment(names[0], names[1]), nil
	case AnglePrefix:
		return NewAngle(names[0], names[1], names[2]), nil
	case TrianglePrefix:
		return NewTriangle(names[0], names[1], names[2]), nil
	default:
		return NewQuadrilateral(names[0], names[1], names[2], names[3]), nil
	}
}

// ShortName strips the kind prefix from a canonical id ("Angle_ABC" -> "ABC").
func ShortName(id string) string {
	for _, p := range []string{SegmentPrefix, AnglePrefix, TrianglePrefix, QuadrilateralPrefix} {
		if strings.HasPrefix(id, p) {
			return strings.TrimPrefix(id, p)
		}
	}
	return id
}
