package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Harshitk-cp/geosolve/internal/domain"
	"github.com/Harshitk-cp/geosolve/internal/kb"
	"go.uber.org/zap"
)

var ErrMalformedRecord = errors.New("malformed record")

// ReasonGiven is the source reason for every premise read from a problem.
const ReasonGiven = "given"

// Ingestor turns problem records into premises. A batch is validated as a
// whole before anything is asserted.
type Ingestor struct {
	store  *kb.Store
	logger *zap.Logger
}

func NewIngestor(store *kb.Store, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{store: store, logger: logger}
}

// Ingest validates every record, then asserts them in order. Validation
// errors wrap ErrMalformedRecord with the offending index. Angles given by
// their vertex alone that cannot be resolved are skipped and counted.
func (in *Ingestor) Ingest(records []domain.Record) (skipped int, err error) {
	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return 0, fmt.Errorf("%w: record %d (%s): %v", ErrMalformedRecord, i, records[i].Type, err)
		}
	}
	for i, r := range records {
		if !in.apply(r) {
			skipped++
			in.logger.Warn("record not applied",
				zap.Int("index", i),
				zap.String("type", string(r.Type)),
			)
		}
	}
	in.logger.Debug("records ingested",
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
		zap.Int("facts", in.store.Len()),
	)
	return skipped, nil
}

func (in *Ingestor) apply(r domain.Record) bool {
	s := in.store
	switch r.Type {
	case domain.RecordTriangle:
		return in.triangle(r)

	case domain.RecordQuadrilateral:
		ents := points(r.Points)
		s.AssertFact(domain.KindQuadrilateral, ents, nil, ReasonGiven, nil, domain.QuadInfo{})
		if kind := domain.QuadKind(strings.ToUpper(r.Subtype)); kind != domain.QuadGeneral {
			if f, ok := s.Lookup(domain.KindQuadrilateral, entityIDs(ents), nil); ok {
				s.Reclassify(f.ID, kind, ReasonGiven)
			}
		}

	case domain.RecordRenderOrder:
		s.AssertFact(domain.KindRenderOrder, points(r.Points), nil, ReasonGiven, nil, nil)
		if len(r.Points) == 4 {
			s.AssertFact(domain.KindQuadrilateral, points(r.Points), nil, "named in the goal", nil, domain.QuadInfo{})
		}

	case domain.RecordValue:
		return in.value(r)

	case domain.RecordParallel:
		s.AssertFact(domain.KindParallel, points(flatten(r.Lines)), nil, ReasonGiven, nil, nil)

	case domain.RecordPerpendicular:
		ents := points(flatten(r.Lines))
		if at := firstNonEmpty(r.At, r.Point); at != "" {
			ents = append([]domain.Entity{domain.NewPoint(at)}, ents...)
		}
		s.AssertFact(domain.KindPerpendicular, ents, nil, ReasonGiven, nil, nil)

	case domain.RecordAltitude:
		s.AssertFact(domain.KindAltitude, points([]string{r.Top, r.Foot, r.Base[0], r.Base[1]}), nil, ReasonGiven, nil, nil)

	case domain.RecordMidpoint:
		s.AssertFact(domain.KindMidpoint, points([]string{r.Point, r.Segment[0], r.Segment[1]}), nil, ReasonGiven, nil, nil)

	case domain.RecordIntersection:
		at := normalize(r.Point)
		ents := []string{at}
		lines := make([][]string, 0, len(r.Lines))
		for _, l := range r.Lines {
			l = normalizeAll(l)
			for _, p := range l {
				if p != at {
					ents = append(ents, p)
				}
			}
			lines = append(lines, throughPoint(l, at))
		}
		s.AssertFact(domain.KindIntersection, points(ents), nil, ReasonGiven, nil,
			domain.IntersectionInfo{Point: at, Lines: lines})

	case domain.RecordAuxiliary:
		lines := r.Lines
		if len(lines) == 0 {
			lines = [][]string{r.Points}
		}
		norm := make([][]string, len(lines))
		for i, l := range lines {
			norm[i] = normalizeAll(l)
		}
		s.AssertFact(domain.KindAuxiliary, points(flatten(norm)), nil, ReasonGiven, nil,
			domain.IntersectionInfo{Lines: norm})

	case domain.RecordTangent:
		contact := normalize(r.Contact)
		outer := normalize(r.Line[0])
		if outer == contact {
			outer = normalize(r.Line[1])
		}
		s.AssertFact(domain.KindTangent, points([]string{contact, outer, r.Circle}), nil, ReasonGiven, nil, nil)

	case domain.RecordCircle:
		in.circle(r)

	case domain.RecordPointLocation:
		s.AssertFact(domain.KindPointLocation, points([]string{r.Point}), nil, ReasonGiven, nil,
			domain.LocationInfo{Circle: normalize(r.Circle), Location: strings.ToUpper(r.Location)})

	case domain.RecordEquality:
		a, b := figure(r.Items[0]), figure(r.Items[1])
		s.AssertEquality(a, b, ReasonGiven)

	case domain.RecordBisector:
		s.AssertFact(domain.KindBisector, points([]string{r.Point, r.Vertex, r.Points[0], r.Points[1]}), nil, ReasonGiven, nil, nil)

	case domain.RecordSymmetry:
		mode := strings.ToUpper(r.Mode)
		ents := []string{r.Points[0], r.Points[1]}
		if mode == domain.SymmetryCentral {
			ents = append(ents, r.Center)
		} else {
			ents = append(ents, r.Line...)
		}
		s.AssertFact(domain.KindSymmetry, points(ents), nil, ReasonGiven, nil, domain.SymmetryInfo{Mode: mode})
	}
	return true
}

func (in *Ingestor) triangle(r domain.Record) bool {
	s := in.store
	pts := normalizeAll(r.Points)
	props := make([]string, len(r.Properties))
	for i, p := range r.Properties {
		props[i] = strings.ToUpper(p)
	}
	vertex := normalize(r.Vertex)
	info := domain.TriangleInfo{Properties: props, Vertex: vertex}
	s.AssertFact(domain.KindTriangle, points(pts), nil, ReasonGiven, nil, info)

	if info.Has(domain.TriangleEquilateral) {
		s.AssertFact(domain.KindIsEquilateral, points(pts), nil, ReasonGiven, nil, nil)
	}
	if vertex == "" {
		return true
	}
	others := without(pts, vertex)
	if info.Has(domain.TriangleRight) {
		s.AssertValue(domain.NewAngle(others[0], vertex, others[1]), 90,
			fmt.Sprintf("given: right angle at %s", vertex))
	}
	if info.Has(domain.TriangleIsosceles) {
		s.AssertEquality(domain.NewSegment(vertex, others[0]), domain.NewSegment(vertex, others[1]),
			fmt.Sprintf("given: isosceles at %s", vertex))
	}
	return true
}

func (in *Ingestor) value(r domain.Record) bool {
	v := *r.Value
	if strings.EqualFold(r.Subtype, string(domain.SubtypeLength)) {
		in.store.AssertValue(domain.NewSegment(normalize(r.Points[0]), normalize(r.Points[1])), v, ReasonGiven)
		return true
	}

	pts := normalizeAll(r.Points)
	if pts[0] == domain.UnknownPoint || pts[2] == domain.UnknownPoint {
		a, ok := in.resolveAngle(pts[1])
		if !ok {
			return false
		}
		in.store.AssertValue(a, v, ReasonGiven)
		return true
	}
	in.store.AssertValue(domain.NewAngle(pts[0], pts[1], pts[2]), v, ReasonGiven)
	return true
}

// resolveAngle names the angle at vertex from a polygon already ingested:
// the interior angle of the first quadrilateral through it, else the angle
// of the first triangle.
func (in *Ingestor) resolveAngle(vertex string) (domain.Angle, bool) {
	for _, f := range in.store.FactsOf(domain.KindQuadrilateral) {
		for i, p := range f.Entities {
			if p == vertex && len(f.Entities) == 4 {
				prev, next := f.Entities[(i+3)%4], f.Entities[(i+1)%4]
				return domain.NewAngle(prev, vertex, next), true
			}
		}
	}
	for _, f := range in.store.FactsOf(domain.KindTriangle) {
		if f.HasEntity(vertex) && len(f.Entities) == 3 {
			others := without(f.Entities, vertex)
			return domain.NewAngle(others[0], vertex, others[1]), true
		}
	}
	return domain.Angle{}, false
}

func (in *Ingestor) circle(r domain.Record) {
	s := in.store
	center := normalize(r.Center)
	members := []string{center}
	for _, p := range append(normalizeAll(r.Points), normalizeAll(r.Diameter)...) {
		if p != center && indexOf(members, p) < 0 {
			members = append(members, p)
		}
	}
	s.AssertFact(domain.KindCircle, points(members), nil, ReasonGiven, nil, domain.CircleInfo{Center: center})
	if len(r.Diameter) == 2 {
		a, b := normalize(r.Diameter[0]), normalize(r.Diameter[1])
		s.AssertFact(domain.KindDiameter, points([]string{a, b, center}), nil, ReasonGiven, nil, nil)
		s.AssertFact(domain.KindMidpoint, points([]string{center, a, b}), nil,
			fmt.Sprintf("the centre %s bisects diameter %s%s", center, a, b), nil, nil)
	}
}

// throughPoint returns line with at on it. A line that does not list the
// meeting point is a segment crossed by it, so at goes between its ends.
func throughPoint(line []string, at string) []string {
	if indexOf(line, at) >= 0 {
		return line
	}
	if len(line) == 2 {
		return []string{line[0], at, line[1]}
	}
	return append(append([]string(nil), line...), at)
}

func figure(names []string) domain.Entity {
	n := normalizeAll(names)
	if len(n) == 2 {
		return domain.NewSegment(n[0], n[1])
	}
	return domain.NewAngle(n[0], n[1], n[2])
}

func points(names []string) []domain.Entity {
	out := make([]domain.Entity, len(names))
	for i, n := range names {
		out[i] = domain.NewPoint(n)
	}
	return out
}

func normalize(name string) string {
	return domain.NewPoint(name).Name
}

func entityIDs(ents []domain.Entity) []string {
	out := make([]string, len(ents))
	for i, e := range ents {
		out[i] = e.CanonicalID()
	}
	return out
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = normalize(n)
	}
	return out
}

func flatten(lines [][]string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, l...)
	}
	return out
}

func without(list []string, name string) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		if p != name {
			out = append(out, p)
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

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func validateRecord(r *domain.Record) error {
	if !domain.ValidRecordType(string(r.Type)) {
		return fmt.Errorf("unknown type %q", r.Type)
	}
	switch r.Type {
	case domain.RecordTriangle:
		if err := distinctPoints("points", r.Points, 3); err != nil {
			return err
		}
		for _, p := range r.Properties {
			switch strings.ToUpper(p) {
			case domain.TriangleRight, domain.TriangleIsosceles, domain.TriangleEquilateral:
			default:
				return fmt.Errorf("unknown triangle property %q", p)
			}
		}
		if r.Vertex != "" && indexOf(normalizeAll(r.Points), normalize(r.Vertex)) < 0 {
			return fmt.Errorf("vertex %q is not a point of the triangle", r.Vertex)
		}
		for _, p := range r.Properties {
			up := strings.ToUpper(p)
			if (up == domain.TriangleRight || up == domain.TriangleIsosceles) && r.Vertex == "" {
				return fmt.Errorf("property %s needs a vertex", up)
			}
		}

	case domain.RecordQuadrilateral:
		if err := distinctPoints("points", r.Points, 4); err != nil {
			return err
		}
		if r.Subtype != "" && !domain.ValidQuadKind(strings.ToUpper(r.Subtype)) {
			return fmt.Errorf("unknown quadrilateral subtype %q", r.Subtype)
		}

	case domain.RecordRenderOrder:
		if len(r.Points) < 3 {
			return errors.New("render order needs at least three points")
		}
		return distinctPoints("points", r.Points, len(r.Points))

	case domain.RecordValue:
		return validateValue(r)

	case domain.RecordParallel:
		return pointPairs("lines", r.Lines, 2)

	case domain.RecordPerpendicular:
		if err := pointPairs("lines", r.Lines, 2); err != nil {
			return err
		}
		if at := firstNonEmpty(r.At, r.Point); at != "" && !domain.ValidPointName(at) {
			return fmt.Errorf("invalid point %q", at)
		}

	case domain.RecordAltitude:
		if err := requirePoints(map[string]string{"top": r.Top, "foot": r.Foot}); err != nil {
			return err
		}
		return distinctPoints("base", r.Base, 2)

	case domain.RecordMidpoint:
		if err := requirePoints(map[string]string{"point": r.Point}); err != nil {
			return err
		}
		return distinctPoints("segment", r.Segment, 2)

	case domain.RecordIntersection:
		if err := requirePoints(map[string]string{"point": r.Point}); err != nil {
			return err
		}
		if len(r.Lines) < 2 {
			return errors.New("intersection needs at least two lines")
		}
		for i, l := range r.Lines {
			if err := distinctPoints(fmt.Sprintf("lines[%d]", i), l, -2); err != nil {
				return err
			}
		}

	case domain.RecordAuxiliary:
		if len(r.Lines) == 0 {
			return distinctPoints("points", r.Points, -3)
		}
		for i, l := range r.Lines {
			if err := distinctPoints(fmt.Sprintf("lines[%d]", i), l, -3); err != nil {
				return err
			}
		}

	case domain.RecordTangent:
		if err := requirePoints(map[string]string{"contact": r.Contact, "circle": r.Circle}); err != nil {
			return err
		}
		if err := distinctPoints("line", r.Line, 2); err != nil {
			return err
		}
		if indexOf(normalizeAll(r.Line), normalize(r.Contact)) < 0 {
			return fmt.Errorf("contact %q is not on the tangent line", r.Contact)
		}

	case domain.RecordCircle:
		if err := requirePoints(map[string]string{"center": r.Center}); err != nil {
			return err
		}
		if len(r.Diameter) > 0 {
			if err := distinctPoints("diameter", r.Diameter, 2); err != nil {
				return err
			}
		}
		for _, p := range r.Points {
			if !domain.ValidPointName(p) {
				return fmt.Errorf("invalid point %q", p)
			}
		}

	case domain.RecordPointLocation:
		if err := requirePoints(map[string]string{"point": r.Point, "circle": r.Circle}); err != nil {
			return err
		}
		switch strings.ToUpper(r.Location) {
		case domain.LocationOn, domain.LocationInside, domain.LocationOutside:
		default:
			return fmt.Errorf("unknown location %q", r.Location)
		}

	case domain.RecordEquality:
		if len(r.Items) != 2 {
			return errors.New("equality needs exactly two items")
		}
		n := len(r.Items[0])
		if (n != 2 && n != 3) || len(r.Items[1]) != n {
			return errors.New("equality items must both be segments or both be angles")
		}
		for i, item := range r.Items {
			if err := distinctPoints(fmt.Sprintf("items[%d]", i), item, n); err != nil {
				return err
			}
		}

	case domain.RecordBisector:
		if err := requirePoints(map[string]string{"point": r.Point, "vertex": r.Vertex}); err != nil {
			return err
		}
		return distinctPoints("points", r.Points, 2)

	case domain.RecordSymmetry:
		if err := distinctPoints("points", r.Points, 2); err != nil {
			return err
		}
		switch strings.ToUpper(r.Mode) {
		case domain.SymmetryCentral:
			return requirePoints(map[string]string{"center": r.Center})
		case domain.SymmetryAxial:
			return distinctPoints("line", r.Line, 2)
		default:
			return fmt.Errorf("unknown symmetry mode %q", r.Mode)
		}
	}
	return nil
}

func validateValue(r *domain.Record) error {
	if r.Value == nil {
		return errors.New("value is required")
	}
	v := *r.Value
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("value %v must be a positive number", v)
	}
	switch strings.ToLower(r.Subtype) {
	case "", string(domain.SubtypeAngle):
		if len(r.Points) != 3 {
			return errors.New("an angle needs three points")
		}
		if v >= 360 {
			return fmt.Errorf("angle %v out of range", v)
		}
		if r.Points[1] == domain.UnknownPoint {
			return errors.New("angle vertex must be named")
		}
		for _, p := range r.Points {
			if p != domain.UnknownPoint && !domain.ValidPointName(p) {
				return fmt.Errorf("invalid point %q", p)
			}
		}
	case string(domain.SubtypeLength):
		return distinctPoints("points", r.Points, 2)
	default:
		return fmt.Errorf("unknown value subtype %q", r.Subtype)
	}
	return nil
}

// distinctPoints checks a list of point names. n > 0 demands exactly n
// points, n < 0 at least -n.
func distinctPoints(field string, names []string, n int) error {
	if n > 0 && len(names) != n {
		return fmt.Errorf("%s: want %d points, got %d", field, n, len(names))
	}
	if n < 0 && len(names) < -n {
		return fmt.Errorf("%s: want at least %d points, got %d", field, -n, len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, p := range names {
		if !domain.ValidPointName(p) {
			return fmt.Errorf("%s: invalid point %q", field, p)
		}
		key := normalize(p)
		if seen[key] {
			return fmt.Errorf("%s: repeated point %q", field, p)
		}
		seen[key] = true
	}
	return nil
}

func pointPairs(field string, lines [][]string, n int) error {
	if len(lines) != n {
		return fmt.Errorf("%s: want %d lines, got %d", field, n, len(lines))
	}
	for i, l := range lines {
		if err := distinctPoints(fmt.Sprintf("%s[%d]", field, i), l, 2); err != nil {
			return err
		}
	}
	return nil
}

func requirePoints(fields map[string]string) error {
	for _, name := range []string{"point", "top", "foot", "contact", "circle", "center", "vertex"} {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", name)
		}
		if !domain.ValidPointName(v) {
			return fmt.Errorf("%s: invalid point %q", name, v)
		}
	}
	return nil
}
