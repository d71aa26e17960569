package domain

import (
	"strconv"
	"strings"
)

// Kind is the closed vocabulary of fact kinds.
type Kind string

const (
	KindValue         Kind = "VALUE"
	KindParallel      Kind = "PARALLEL"
	KindPerpendicular Kind = "PERPENDICULAR"
	KindAltitude      Kind = "ALTITUDE"
	KindMidpoint      Kind = "MIDPOINT"
	KindIntersection  Kind = "INTERSECTION"
	KindTangent       Kind = "TANGENT"
	KindCircle        Kind = "CIRCLE"
	KindDiameter      Kind = "DIAMETER"
	KindTriangle      Kind = "TRIANGLE"
	KindQuadrilateral Kind = "QUADRILATERAL"
	KindEquality      Kind = "EQUALITY"
	KindIsCyclic      Kind = "IS_CYCLIC"
	KindContradiction Kind = "CONTRADICTION"
	KindIsEquilateral Kind = "IS_EQUILATERAL"
	KindSimilar       Kind = "SIMILAR"
	KindBisector      Kind = "BISECTOR"
	KindSymmetry      Kind = "SYMMETRY"
	KindPointLocation Kind = "POINT_LOCATION"
	KindRenderOrder   Kind = "RENDER_ORDER"
	KindAuxiliary     Kind = "AUXILIARY"
)

// ClassKind is the kind of the fact stating that a quadrilateral has the
// refined kind k, e.g. IS_RECTANGLE.
func ClassKind(k QuadKind) Kind {
	return Kind(classPrefix + string(k))
}

const classPrefix = "IS_"

// QuadClass reports the quadrilateral kind a classification fact kind names.
func (k Kind) QuadClass() (QuadKind, bool) {
	name, ok := strings.CutPrefix(string(k), classPrefix)
	if !ok || name == "" || !ValidQuadKind(name) {
		return QuadGeneral, false
	}
	return QuadKind(name), true
}

func ValidKind(k string) bool {
	if _, ok := Kind(k).QuadClass(); ok {
		return true
	}
	switch Kind(k) {
	case KindValue, KindParallel, KindPerpendicular, KindAltitude, KindMidpoint,
		KindIntersection, KindTangent, KindCircle, KindDiameter, KindTriangle,
		KindQuadrilateral, KindEquality, KindIsCyclic, KindContradiction,
		KindIsEquilateral, KindSimilar, KindBisector, KindSymmetry,
		KindPointLocation, KindRenderOrder, KindAuxiliary:
		return true
	}
	return false
}

// GoalKinds are the kinds reported as conclusions after saturation.
var GoalKinds = []Kind{KindIsCyclic, KindContradiction}

// FactID addresses a fact in the store's arena. Ids grow with derivation
// order and are never reused.
type FactID int

// Source is one independent justification of a fact.
type Source struct {
	Reason  string   `json:"reason"`
	Parents []FactID `json:"parents,omitempty"`
}

// Fact is a unit of knowledge. Identity is (Kind, Entities, Value); every
// way the fact was obtained is kept as a separate Source.
type Fact struct {
	ID       FactID   `json:"id"`
	Kind     Kind     `json:"kind"`
	Entities []string `json:"entities"`
	Value    *float64 `json:"value,omitempty"`
	Sources  []Source `json:"sources"`
	Payload  Payload  `json:"payload,omitempty"`
}

// FactKey builds the identity key KIND:id1,id2:value.
func FactKey(kind Kind, ids []string, value *float64) string {
	val := "None"
	if value != nil {
		val = FormatValue(*value)
	}
	return string(kind) + ":" + strings.Join(ids, ",") + ":" + val
}

// FormatValue renders a numeric value without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (f *Fact) Key() string {
	return FactKey(f.Kind, f.Entities, f.Value)
}

// Primary is the first justification recorded for the fact.
func (f *Fact) Primary() Source {
	if len(f.Sources) == 0 {
		return Source{}
	}
	return f.Sources[0]
}

// IsPremise reports whether the fact was given rather than derived.
func (f *Fact) IsPremise() bool {
	return len(f.Primary().Parents) == 0
}

func (f *Fact) HasReason(reason string) bool {
	for _, s := range f.Sources {
		if s.Reason == reason {
			return true
		}
	}
	return false
}

// HasEntity reports whether id is one of the fact's entities.
func (f *Fact) HasEntity(id string) bool {
	for _, e := range f.Entities {
		if e == id {
			return true
		}
	}
	return false
}

// Number returns the fact's value, if any.
func (f *Fact) Number() (float64, bool) {
	if f.Value == nil {
		return 0, false
	}
	return *f.Value, true
}

// Float is a convenience for building optional values.
func Float(v float64) *float64 {
	return &v
}

// Statement renders the fact as a short mathematical sentence.
func (f *Fact) Statement() string {
	names := make([]string, len(f.Entities))
	for i, e := range f.Entities {
		names[i] = ShortName(e)
	}
	val := ""
	if f.Value != nil {
		val = FormatValue(*f.Value)
	}

	if qk, ok := f.Kind.QuadClass(); ok {
		return "Quadrilateral " + strings.Join(names, "") + " is " + qk.WithArticle()
	}

	switch f.Kind {
	case KindValue:
		if len(names) == 1 && strings.HasPrefix(f.Entities[0], AnglePrefix) {
			return "∠" + names[0] + " = " + val + "°"
		}
		return strings.Join(names, "") + " = " + val
	case KindEquality:
		if len(names) == 2 {
			prefix := ""
			if strings.HasPrefix(f.Entities[0], AnglePrefix) {
				prefix = "∠"
			}
			return prefix + names[0] + " = " + prefix + names[1]
		}
	case KindIsCyclic:
		return "Quadrilateral " + strings.Join(names, "") + " is cyclic"
	case KindParallel:
		if len(names) == 4 {
			return names[0] + names[1] + " ∥ " + names[2] + names[3]
		}
	case KindPerpendicular:
		switch len(names) {
		case 5:
			return names[1] + names[2] + " ⊥ " + names[3] + names[4] + " at " + names[0]
		case 4:
			return names[0] + names[1] + " ⊥ " + names[2] + names[3]
		}
	case KindAltitude:
		if len(names) == 4 {
			return names[0] + names[1] + " is an altitude onto " + names[2] + names[3]
		}
	case KindMidpoint:
		if len(names) == 3 {
			return names[0] + " is the midpoint of " + names[1] + names[2]
		}
	case KindTriangle:
		return "Triangle " + strings.Join(names, "")
	case KindQuadrilateral:
		return "Quadrilateral " + strings.Join(names, "")
	case KindIsEquilateral:
		return "Triangle " + strings.Join(names, "") + " is equilateral"
	case KindContradiction:
		return "Premises of " + strings.Join(names, "") + " are inconsistent"
	}

	s := string(f.Kind) + "(" + strings.Join(names, ", ") + ")"
	if val != "" {
		s += " = " + val
	}
	return s
}
