package domain

import "testing"

func TestCanonicalIDs(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		want   string
	}{
		{"point upper-cased", NewPoint("a"), "A"},
		{"segment sorted", NewSegment("B", "A"), "Seg_AB"},
		{"angle legs sorted", NewAngle("C", "B", "A"), "Angle_ABC"},
		{"angle vertex fixed", NewAngle("A", "C", "B"), "Angle_ACB"},
		{"triangle sorted", NewTriangle("C", "A", "B"), "Tri_ABC"},
		{"quad rotation", NewQuadrilateral("C", "D", "A", "B"), "Quad_ABCD"},
		{"quad reflection", NewQuadrilateral("A", "D", "C", "B"), "Quad_ABCD"},
		{"quad different cycle", NewQuadrilateral("A", "C", "B", "D"), "Quad_ACBD"},
		{"multi-char names", NewSegment("H1", "A"), "Seg_AH1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entity.CanonicalID(); got != tt.want {
				t.Errorf("CanonicalID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuadrilateralSymmetries(t *testing.T) {
	base := NewQuadrilateral("A", "D", "H", "E")
	cycles := [][4]string{
		{"A", "D", "H", "E"}, {"D", "H", "E", "A"}, {"H", "E", "A", "D"}, {"E", "A", "D", "H"},
		{"E", "H", "D", "A"}, {"H", "D", "A", "E"}, {"D", "A", "E", "H"}, {"A", "E", "H", "D"},
	}
	for _, c := range cycles {
		q := NewQuadrilateral(c[0], c[1], c[2], c[3])
		if !SameEntity(base, q) {
			t.Errorf("%v: canonical id %q, want %q", c, q.CanonicalID(), base.CanonicalID())
		}
	}

	other := NewQuadrilateral("A", "H", "D", "E")
	if SameEntity(base, other) {
		t.Errorf("different cyclic order must not share id %q", base.CanonicalID())
	}
}

func TestDisplayKeepsCallerOrder(t *testing.T) {
	q := NewQuadrilateral("A", "D", "H", "E")
	if q.String() != "Quadrilateral ADHE" {
		t.Errorf("String() = %q", q.String())
	}
	a := NewAngle("C", "B", "A")
	if a.String() != "Angle CBA" {
		t.Errorf("String() = %q", a.String())
	}
}

func TestComponentPoints(t *testing.T) {
	if pts := NewPoint("A").ComponentPoints(); len(pts) != 0 {
		t.Errorf("point components = %v, want none", pts)
	}
	pts := NewAngle("A", "B", "C").ComponentPoints()
	if len(pts) != 3 || pts[1].Name != "B" {
		t.Errorf("angle components = %v", pts)
	}
	if got := len(NewQuadrilateral("A", "B", "C", "D").ComponentPoints()); got != 4 {
		t.Errorf("quad components = %d, want 4", got)
	}
}

func TestParseCanonicalIDRoundTrip(t *testing.T) {
	entities := []Entity{
		NewPoint("O"),
		NewSegment("B", "A1"),
		NewAngle("D", "A", "B"),
		NewTriangle("C", "B", "A"),
		NewQuadrilateral("A", "D", "H", "E"),
	}
	for _, e := range entities {
		got, err := ParseCanonicalID(e.CanonicalID())
		if err != nil {
			t.Fatalf("ParseCanonicalID(%q): %v", e.CanonicalID(), err)
		}
		if !SameEntity(got, e) {
			t.Errorf("round trip %q -> %q", e.CanonicalID(), got.CanonicalID())
		}
	}

	for _, bad := range []string{"", "Seg_A", "Angle_ABCD", "1A", "Quad_ABC"} {
		if _, err := ParseCanonicalID(bad); err == nil {
			t.Errorf("ParseCanonicalID(%q) should fail", bad)
		}
	}
}

func TestValidPointName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"A", true},
		{"h", true},
		{"H1", true},
		{"B'", true},
		{"", false},
		{"AB", false},
		{"?", false},
		{"1", false},
	}
	for _, tt := range tests {
		if got := ValidPointName(tt.name); got != tt.want {
			t.Errorf("ValidPointName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
