package domain

// RecordType is the closed vocabulary of ingestion records.
type RecordType string

const (
	RecordTriangle      RecordType = "TRIANGLE"
	RecordQuadrilateral RecordType = "QUADRILATERAL"
	RecordValue         RecordType = "VALUE"
	RecordParallel      RecordType = "PARALLEL"
	RecordPerpendicular RecordType = "PERPENDICULAR"
	RecordAltitude      RecordType = "ALTITUDE"
	RecordMidpoint      RecordType = "MIDPOINT"
	RecordIntersection  RecordType = "INTERSECTION"
	RecordTangent       RecordType = "TANGENT"
	RecordCircle        RecordType = "CIRCLE"
	RecordPointLocation RecordType = "POINT_LOCATION"
	RecordEquality      RecordType = "EQUALITY"
	RecordAuxiliary     RecordType = "AUXILIARY"
	RecordRenderOrder   RecordType = "RENDER_ORDER"
	RecordBisector      RecordType = "BISECTOR"
	RecordSymmetry      RecordType = "SYMMETRY"
)

func ValidRecordType(t string) bool {
	switch RecordType(t) {
	case RecordTriangle, RecordQuadrilateral, RecordValue, RecordParallel,
		RecordPerpendicular, RecordAltitude, RecordMidpoint, RecordIntersection,
		RecordTangent, RecordCircle, RecordPointLocation, RecordEquality,
		RecordAuxiliary, RecordRenderOrder, RecordBisector, RecordSymmetry:
		return true
	}
	return false
}

// UnknownPoint marks a point the upstream parser could not name, as in an
// angle given only by its vertex: ["?", "A", "?"].
const UnknownPoint = "?"

// Record is one structured assertion about a problem. Which fields are
// meaningful depends on Type.
type Record struct {
	Type       RecordType `json:"type" yaml:"type"`
	Subtype    string     `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Points     []string   `json:"points,omitempty" yaml:"points,omitempty"`
	Value      *float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Lines      [][]string `json:"lines,omitempty" yaml:"lines,omitempty"`
	At         string     `json:"at,omitempty" yaml:"at,omitempty"`
	Top        string     `json:"top,omitempty" yaml:"top,omitempty"`
	Foot       string     `json:"foot,omitempty" yaml:"foot,omitempty"`
	Base       []string   `json:"base,omitempty" yaml:"base,omitempty"`
	Point      string     `json:"point,omitempty" yaml:"point,omitempty"`
	Segment    []string   `json:"segment,omitempty" yaml:"segment,omitempty"`
	Center     string     `json:"center,omitempty" yaml:"center,omitempty"`
	Diameter   []string   `json:"diameter,omitempty" yaml:"diameter,omitempty"`
	Line       []string   `json:"line,omitempty" yaml:"line,omitempty"`
	Contact    string     `json:"contact,omitempty" yaml:"contact,omitempty"`
	Circle     string     `json:"circle,omitempty" yaml:"circle,omitempty"`
	Location   string     `json:"location,omitempty" yaml:"location,omitempty"`
	Properties []string   `json:"properties,omitempty" yaml:"properties,omitempty"`
	Vertex     string     `json:"vertex,omitempty" yaml:"vertex,omitempty"`
	Mode       string     `json:"mode,omitempty" yaml:"mode,omitempty"`
	// Items holds the two sides of an EQUALITY record, each a segment
	// (two points) or an angle (three points).
	Items [][]string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Problem is a named set of records, the unit a client submits for solving.
type Problem struct {
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	MaxIterations int      `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	Records       []Record `json:"records" yaml:"records"`
}
