package domain

import "strings"

// QuadKind is the refined classification of a quadrilateral. Kinds form a
// lattice ordered by specialisation; QuadGeneral is the bottom.
type QuadKind string

const (
	QuadGeneral            QuadKind = ""
	QuadTrapezoid          QuadKind = "TRAPEZOID"
	QuadParallelogram      QuadKind = "PARALLELOGRAM"
	QuadIsoscelesTrapezoid QuadKind = "ISOSCELES_TRAPEZOID"
	QuadRightTrapezoid     QuadKind = "RIGHT_TRAPEZOID"
	QuadRectangle          QuadKind = "RECTANGLE"
	QuadRhombus            QuadKind = "RHOMBUS"
	QuadSquare             QuadKind = "SQUARE"
)

// quadCovers lists the immediate specialisations of each kind.
var quadCovers = map[QuadKind][]QuadKind{
	QuadGeneral:            {QuadTrapezoid},
	QuadTrapezoid:          {QuadParallelogram, QuadIsoscelesTrapezoid, QuadRightTrapezoid},
	QuadParallelogram:      {QuadRectangle, QuadRhombus},
	QuadIsoscelesTrapezoid: {QuadRectangle},
	QuadRightTrapezoid:     {QuadRectangle},
	QuadRectangle:          {QuadSquare},
	QuadRhombus:            {QuadSquare},
	QuadSquare:             nil,
}

// quadUp maps each kind to every kind at least as specific (itself included).
var quadUp = buildQuadUp()

func buildQuadUp() map[QuadKind]map[QuadKind]bool {
	up := make(map[QuadKind]map[QuadKind]bool, len(quadCovers))
	var walk func(root, k QuadKind)
	walk = func(root, k QuadKind) {
		if up[root][k] {
			return
		}
		up[root][k] = true
		for _, next := range quadCovers[k] {
			walk(root, next)
		}
	}
	for k := range quadCovers {
		up[k] = map[QuadKind]bool{}
		walk(k, k)
	}
	return up
}

func ValidQuadKind(k string) bool {
	_, ok := quadCovers[QuadKind(k)]
	return ok
}

// Rank is the length of the longest chain from QuadGeneral to k.
func (k QuadKind) Rank() int {
	best := 0
	for lower := range quadCovers {
		if lower == k || !quadUp[lower][k] {
			continue
		}
		for _, c := range quadCovers[lower] {
			if c == k {
				if r := lower.Rank() + 1; r > best {
					best = r
				}
			}
		}
	}
	return best
}

// Leq reports whether other is at least as specific as k.
func (k QuadKind) Leq(other QuadKind) bool {
	return quadUp[k][other]
}

// Join is the least specific kind that refines both a and b.
func Join(a, b QuadKind) QuadKind {
	var best QuadKind
	found := false
	for k := range quadUp[a] {
		if !quadUp[b][k] {
			continue
		}
		if !found || k.Leq(best) {
			best, found = k, true
		}
	}
	if !found {
		return QuadSquare
	}
	return best
}

// Promote merges a newly derived classification into the current one. A
// weaker kind never replaces a stronger one; incomparable kinds combine
// to their join (a rectangle shown to be a rhombus is a square).
func Promote(current, derived QuadKind) QuadKind {
	switch {
	case current.Leq(derived):
		return derived
	case derived.Leq(current):
		return current
	default:
		return Join(current, derived)
	}
}

// Parallelogramlike reports whether both pairs of opposite sides are parallel.
func (k QuadKind) Parallelogramlike() bool {
	return QuadParallelogram.Leq(k)
}

// HasRightAngles reports whether all four interior angles are right.
func (k QuadKind) HasRightAngles() bool {
	return QuadRectangle.Leq(k)
}

// Inscribable reports whether every quadrilateral of this kind is cyclic.
func (k QuadKind) Inscribable() bool {
	return QuadIsoscelesTrapezoid.Leq(k)
}

// Label is a human readable name for k.
func (k QuadKind) Label() string {
	switch k {
	case QuadGeneral:
		return "quadrilateral"
	case QuadIsoscelesTrapezoid:
		return "isosceles trapezoid"
	case QuadRightTrapezoid:
		return "right trapezoid"
	default:
		return strings.ToLower(string(k))
	}
}

// WithArticle is Label preceded by "a" or "an".
func (k QuadKind) WithArticle() string {
	label := k.Label()
	if strings.ContainsRune("aeiou", rune(label[0])) {
		return "an " + label
	}
	return "a " + label
}
