package domain

// Payload carries the kind-specific attributes of a fact. Merge folds an
// incoming payload for the same fact into the current one, filling only
// attributes that were absent, and reports whether anything changed.
type Payload interface {
	Merge(incoming Payload) (Payload, bool)
}

// ValueSubtype discriminates angle measures from lengths.
type ValueSubtype string

const (
	SubtypeAngle  ValueSubtype = "angle"
	SubtypeLength ValueSubtype = "length"
)

type ValueInfo struct {
	Subtype ValueSubtype `json:"subtype"`
}

func (v ValueInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(ValueInfo)
	if !ok || v.Subtype != "" || in.Subtype == "" {
		return v, false
	}
	return in, true
}

type QuadInfo struct {
	Subtype QuadKind `json:"subtype,omitempty"`
	// RightVertex names the right-angled vertex of a right trapezoid.
	RightVertex string `json:"right_vertex,omitempty"`
}

// Merge promotes the classification through the kind lattice, so a derived
// weaker kind never overwrites a stronger one.
func (q QuadInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(QuadInfo)
	if !ok {
		return q, false
	}
	out := q
	out.Subtype = Promote(q.Subtype, in.Subtype)
	if out.RightVertex == "" {
		out.RightVertex = in.RightVertex
	}
	return out, out != q
}

// Triangle properties as supplied by ingestion.
const (
	TriangleRight       = "RIGHT"
	TriangleIsosceles   = "ISOSCELES"
	TriangleEquilateral = "EQUILATERAL"
)

type TriangleInfo struct {
	Properties []string `json:"properties,omitempty"`
	Vertex     string   `json:"vertex,omitempty"`
}

func (t TriangleInfo) Has(prop string) bool {
	for _, p := range t.Properties {
		if p == prop {
			return true
		}
	}
	return false
}

func (t TriangleInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(TriangleInfo)
	if !ok {
		return t, false
	}
	out := TriangleInfo{Properties: append([]string(nil), t.Properties...), Vertex: t.Vertex}
	changed := false
	for _, p := range in.Properties {
		if !out.Has(p) {
			out.Properties = append(out.Properties, p)
			changed = true
		}
	}
	if out.Vertex == "" && in.Vertex != "" {
		out.Vertex = in.Vertex
		changed = true
	}
	return out, changed
}

// IntersectionInfo keeps the lines that meet at Point. Each line lists its
// points in order along the line.
type IntersectionInfo struct {
	Point string     `json:"point"`
	Lines [][]string `json:"lines"`
}

func (i IntersectionInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(IntersectionInfo)
	if !ok {
		return i, false
	}
	out := i
	changed := false
	if out.Point == "" && in.Point != "" {
		out.Point = in.Point
		changed = true
	}
	if len(out.Lines) == 0 && len(in.Lines) > 0 {
		out.Lines = in.Lines
		changed = true
	}
	return out, changed
}

// OnLine reports whether some line through the intersection contains all names.
func (i IntersectionInfo) OnLine(names ...string) bool {
	for _, line := range i.Lines {
		if containsAll(line, names) {
			return true
		}
	}
	return false
}

type CircleInfo struct {
	Center string `json:"center"`
}

func (c CircleInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(CircleInfo)
	if !ok || c.Center != "" || in.Center == "" {
		return c, false
	}
	return in, true
}

// Symmetry modes.
const (
	SymmetryCentral = "CENTRAL"
	SymmetryAxial   = "AXIAL"
)

type SymmetryInfo struct {
	Mode string `json:"mode"`
}

func (s SymmetryInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(SymmetryInfo)
	if !ok || s.Mode != "" || in.Mode == "" {
		return s, false
	}
	return in, true
}

// Point locations relative to a circle.
const (
	LocationOn      = "ON"
	LocationInside  = "INSIDE"
	LocationOutside = "OUTSIDE"
)

type LocationInfo struct {
	Circle   string `json:"circle"`
	Location string `json:"location"`
}

func (l LocationInfo) Merge(incoming Payload) (Payload, bool) {
	in, ok := incoming.(LocationInfo)
	if !ok {
		return l, false
	}
	out := l
	changed := false
	if out.Circle == "" && in.Circle != "" {
		out.Circle = in.Circle
		changed = true
	}
	if out.Location == "" && in.Location != "" {
		out.Location = in.Location
		changed = true
	}
	return out, changed
}

func containsAll(set []string, names []string) bool {
	for _, n := range names {
		found := false
		for _, s := range set {
			if s == n {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
