package core

import (
	"context"
	"testing"
)

// lcg is a tiny deterministic generator for reproducible test families.
type lcg struct{ state int64 }

func (g *lcg) next() int64 {
	g.state = (g.state*1103515245 + 12345) & 0x7fffffff
	return g.state
}

func generatedPackage(n int) *BallPackage {
	g := &lcg{state: 1}
	balls := make([]Ball, n)
	bound := 0.0
	for i := range balls {
		x := float64(g.next()%2000) / 100
		y := float64(g.next()%2000) / 100
		z := float64(g.next()%2000) / 100
		r := float64(g.next()%130+20) / 100
		balls[i] = Ball{Center: Vec3{X: x, Y: y, Z: z}, Radius: r}
		if r > bound {
			bound = r
		}
	}
	return &BallPackage{Balls: balls, RadiusBound: bound}
}

func TestSelectorTieBreaksByLowestID(t *testing.T) {
	// Equal radii keep every uncovered point within factor tau of the
	// supremum, so the selector must always take the lowest id.
	pkg := linePackage([]float64{0.9, 0.9, 0.9}, 1.0)
	sel := newSelector(pkg, 2.0, 0)
	col := &colorer{metric: pkg.metric(), bound: 10}

	if witness, err := sel.run(context.Background(), col); err != nil || witness != nil {
		t.Fatalf("run = (%v, %v), want clean termination", witness, err)
	}
	if len(sel.history) != 3 {
		t.Fatalf("selected %d points, want 3", len(sel.history))
	}
	for i, st := range sel.history {
		if st.id != PointID(i) {
			t.Errorf("step %d selected point %d, want %d", i, st.id, i)
		}
	}
}

func TestSelectorSkipsCoveredPoints(t *testing.T) {
	// The second point's center lies inside the first ball, so only the
	// first point is ever selected.
	pkg := &BallPackage{
		Balls: []Ball{
			{Center: Vec3{}, Radius: 1.0},
			{Center: Vec3{X: 0.5}, Radius: 0.4},
		},
		RadiusBound: 1.0,
	}
	sel := newSelector(pkg, 1.5, 0)
	col := &colorer{metric: pkg.metric(), bound: 10}

	if _, err := sel.run(context.Background(), col); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sel.history) != 1 || sel.history[0].id != 0 {
		t.Fatalf("history = %+v, want a single selection of point 0", sel.history)
	}
}

func TestSelectorRecordsSupremum(t *testing.T) {
	// With tau = 3 the small first-id ball qualifies immediately; the
	// recorded supremum must still be the large radius.
	pkg := &BallPackage{
		Balls: []Ball{
			{Center: Vec3{}, Radius: 0.5},
			{Center: Vec3{X: 10}, Radius: 1.2},
		},
		RadiusBound: 1.2,
	}
	sel := newSelector(pkg, 3.0, 0)
	col := &colorer{metric: pkg.metric(), bound: 10}

	if _, err := sel.run(context.Background(), col); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sel.history[0].id != 0 {
		t.Fatalf("first selection = %d, want point 0", sel.history[0].id)
	}
	if got := sel.history[0].supAvailable; got != 1.2 {
		t.Errorf("supAvailable at step 0 = %v, want 1.2", got)
	}
	// Near-maximality: sup <= tau * radius for every step.
	for i, st := range sel.history {
		if st.supAvailable > 3.0*pkg.Balls[st.id].Radius {
			t.Errorf("step %d violates near-maximality: sup %v radius %v", i, st.supAvailable, pkg.Balls[st.id].Radius)
		}
	}
}

func TestSupAvailableParallelMatchesSerial(t *testing.T) {
	pkg := generatedPackage(20000)

	serial := newSelector(pkg, 2.0, 0)
	parallel := newSelector(pkg, 2.0, 4)

	// Mark a deterministic subset covered in both.
	for i := 0; i < pkg.Len(); i += 3 {
		serial.covered[i] = true
		parallel.covered[i] = true
	}

	sSup, sAny := serial.supAvailable()
	pSup, pAny := parallel.supAvailable()
	if sSup != pSup || sAny != pAny {
		t.Fatalf("parallel supremum (%v, %v) differs from serial (%v, %v)", pSup, pAny, sSup, sAny)
	}
}

func TestSelectorHonorsContextCancellation(t *testing.T) {
	pkg := generatedPackage(50)
	sel := newSelector(pkg, 2.0, 0)
	col := &colorer{metric: pkg.metric(), bound: 100}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sel.run(ctx, col); err == nil {
		t.Fatalf("run ignored a canceled context")
	}
}
