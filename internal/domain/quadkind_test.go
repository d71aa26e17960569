package domain

import "testing"

func TestPromote(t *testing.T) {
	tests := []struct {
		name             string
		current, derived QuadKind
		want             QuadKind
	}{
		{"from general", QuadGeneral, QuadTrapezoid, QuadTrapezoid},
		{"stronger wins", QuadParallelogram, QuadRectangle, QuadRectangle},
		{"weaker ignored", QuadSquare, QuadParallelogram, QuadSquare},
		{"weaker trapezoid ignored", QuadRectangle, QuadTrapezoid, QuadRectangle},
		{"same kind", QuadRhombus, QuadRhombus, QuadRhombus},
		{"rectangle and rhombus join", QuadRectangle, QuadRhombus, QuadSquare},
		{"parallelogram and isosceles trapezoid join", QuadParallelogram, QuadIsoscelesTrapezoid, QuadRectangle},
		{"two trapezoid kinds join", QuadRightTrapezoid, QuadIsoscelesTrapezoid, QuadRectangle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Promote(tt.current, tt.derived); got != tt.want {
				t.Errorf("Promote(%q, %q) = %q, want %q", tt.current, tt.derived, got, tt.want)
			}
		})
	}
}

func TestPromoteNeverWeakens(t *testing.T) {
	for a := range quadCovers {
		for b := range quadCovers {
			got := Promote(a, b)
			if !a.Leq(got) || !b.Leq(got) {
				t.Errorf("Promote(%q, %q) = %q is not above both", a, b, got)
			}
		}
	}
}

func TestQuadKindRank(t *testing.T) {
	tests := []struct {
		kind QuadKind
		want int
	}{
		{QuadGeneral, 0},
		{QuadTrapezoid, 1},
		{QuadParallelogram, 2},
		{QuadIsoscelesTrapezoid, 2},
		{QuadRhombus, 3},
		{QuadRectangle, 3},
		{QuadSquare, 4},
	}
	for _, tt := range tests {
		if got := tt.kind.Rank(); got != tt.want {
			t.Errorf("%q.Rank() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestQuadInfoMerge(t *testing.T) {
	cur := QuadInfo{Subtype: QuadSquare}
	merged, changed := cur.Merge(QuadInfo{Subtype: QuadTrapezoid})
	if changed || merged.(QuadInfo).Subtype != QuadSquare {
		t.Errorf("weaker merge changed payload to %+v", merged)
	}

	cur = QuadInfo{Subtype: QuadTrapezoid}
	merged, changed = cur.Merge(QuadInfo{Subtype: QuadRightTrapezoid, RightVertex: "A"})
	if !changed {
		t.Fatal("expected promotion")
	}
	if got := merged.(QuadInfo); got.Subtype != QuadRightTrapezoid || got.RightVertex != "A" {
		t.Errorf("merged = %+v", got)
	}
}

func TestQuadKindPredicates(t *testing.T) {
	if !QuadSquare.Inscribable() || !QuadIsoscelesTrapezoid.Inscribable() {
		t.Error("squares and isosceles trapezoids are cyclic")
	}
	if QuadRhombus.Inscribable() || QuadParallelogram.Inscribable() {
		t.Error("rhombi and parallelograms are not always cyclic")
	}
	if !QuadRhombus.Parallelogramlike() || QuadRightTrapezoid.Parallelogramlike() {
		t.Error("parallelogram predicate wrong")
	}
	if !QuadSquare.HasRightAngles() || QuadRhombus.HasRightAngles() {
		t.Error("right angle predicate wrong")
	}
}

func TestQuadKindWithArticle(t *testing.T) {
	tests := map[QuadKind]string{
		QuadIsoscelesTrapezoid: "an isosceles trapezoid",
		QuadRectangle:          "a rectangle",
		QuadRightTrapezoid:     "a right trapezoid",
		QuadGeneral:            "a quadrilateral",
	}
	for k, want := range tests {
		if got := k.WithArticle(); got != want {
			t.Errorf("%q.WithArticle() = %q, want %q", k, got, want)
		}
	}
}
