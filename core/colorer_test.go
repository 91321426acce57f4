package core

import "testing"

func linePackage(radii []float64, spacing float64) *BallPackage {
	balls := make([]Ball, len(radii))
	bound := 0.0
	for i, r := range radii {
		balls[i] = Ball{Center: Vec3{X: float64(i) * spacing}, Radius: r}
		if r > bound {
			bound = r
		}
	}
	return &BallPackage{Balls: balls, RadiusBound: bound}
}

func TestColorerAssignsLeastUnusedColor(t *testing.T) {
	pkg := linePackage([]float64{0.9, 0.9, 0.9}, 1.0)
	col := &colorer{metric: Euclidean{}, bound: 10}

	history := []step{}

	// First point: no conflicts.
	c0, w := col.assign(pkg, history, 0)
	if w != nil || c0 != 0 {
		t.Fatalf("assign(0) = (%d, %v), want (0, nil)", c0, w)
	}
	history = append(history, step{id: 0, color: c0})

	// Point 1 conflicts with 0 (distance 1 <= 1.8).
	c1, w := col.assign(pkg, history, 1)
	if w != nil || c1 != 1 {
		t.Fatalf("assign(1) = (%d, %v), want (1, nil)", c1, w)
	}
	history = append(history, step{id: 1, color: c1})

	// Point 2 conflicts with 1 but not 0 (distance 2 > 1.8), so color 0
	// is free again.
	c2, w := col.assign(pkg, history, 2)
	if w != nil || c2 != 0 {
		t.Fatalf("assign(2) = (%d, %v), want (0, nil)", c2, w)
	}
}

func TestColorerBuildsWitnessOnOverflow(t *testing.T) {
	pkg := linePackage([]float64{0.9, 0.9}, 1.0)
	col := &colorer{metric: Euclidean{}, bound: 1}

	history := []step{{id: 0, supAvailable: 0.9, color: 0}}
	_, witness := col.assign(pkg, history, 1)
	if witness == nil {
		t.Fatalf("expected a witness when the only free color reaches the bound")
	}
	if got := len(witness.Radii); got != 2 {
		t.Fatalf("witness has %d points, want 2", got)
	}
	// The witness lists conflicting steps in selection order with the
	// current point last.
	if witness.Centers[0] != pkg.Balls[0].Center || witness.Centers[1] != pkg.Balls[1].Center {
		t.Errorf("witness centers out of order: %+v", witness.Centers)
	}
	if err := witness.Check(Euclidean{}, 2.0); err != nil {
		t.Errorf("constructed witness fails its own axioms: %v", err)
	}
}

func TestColorerWitnessUsesEarliestConflictPerColor(t *testing.T) {
	// Points 0 and 1 both carry color 0 for the purposes of the history;
	// the witness must pick the earliest of them.
	pkg := &BallPackage{
		Balls: []Ball{
			{Center: Vec3{X: 0}, Radius: 0.9},
			{Center: Vec3{X: 0.5}, Radius: 0.6},
			{Center: Vec3{X: 1}, Radius: 0.9},
		},
		RadiusBound: 0.9,
	}
	col := &colorer{metric: Euclidean{}, bound: 1}

	history := []step{
		{id: 0, supAvailable: 0.9, color: 0},
		{id: 1, supAvailable: 0.9, color: 0},
	}
	_, witness := col.assign(pkg, history, 2)
	if witness == nil {
		t.Fatalf("expected a witness")
	}
	if witness.Centers[0] != pkg.Balls[0].Center {
		t.Errorf("witness should keep the earliest conflicting step of each color, got center %+v", witness.Centers[0])
	}
}
