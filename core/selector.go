package core

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// step is one record of the selection history. The history is an arena
// built strictly in selection order and never rewritten.
type step struct {
	id           PointID
	supAvailable float64
	color        int
}

// minPointsPerWorker keeps the parallel supremum reduction from fanning
// out over trivially small families.
const minPointsPerWorker = 2048

// selector drives the sequential greedy selection loop. All mutable state
// (coverage index, covered memo, history) is owned by this single driver;
// the parallel supremum reduction only reads state that is immutable for
// the duration of the step.
type selector struct {
	pkg     *BallPackage
	metric  Metric
	tau     float64
	index   *coverageIndex
	covered []bool
	history []step
	workers int
}

func newSelector(pkg *BallPackage, tau float64, workers int) *selector {
	m := pkg.metric()
	return &selector{
		pkg:     pkg,
		metric:  m,
		tau:     tau,
		index:   newCoverageIndex(m, pkg.RadiusBound),
		covered: make([]bool, pkg.Len()),
		workers: workers,
	}
}

// run executes selection and coloring to termination. It returns a witness
// when the colorer detects a color-bound violation, and an error only for
// context cancellation or the (defensively handled) exhaustion case.
func (s *selector) run(ctx context.Context, col *colorer) (*SatelliteConfig, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.refreshCovered()
		sup, any := s.supAvailable()
		if !any {
			// Terminal: every center lies in the covered region.
			return nil, nil
		}
		id, ok := s.pickCandidate(sup)
		if !ok {
			return nil, fmt.Errorf("%w: supremum %v unmet at step %d", ErrSelectionExhausted, sup, len(s.history))
		}
		color, witness := col.assign(s.pkg, s.history, id)
		if witness != nil {
			return witness, nil
		}
		s.history = append(s.history, step{id: id, supAvailable: sup, color: color})
		s.index.Insert(s.pkg.Balls[id])
	}
}

// refreshCovered brings the covered memo up to date against the coverage
// index. Coverage is monotone, so flags only ever flip to true.
func (s *selector) refreshCovered() {
	for i := range s.covered {
		if !s.covered[i] && s.index.Covers(s.pkg.Balls[i].Center) {
			s.covered[i] = true
		}
	}
}

// supAvailable returns the largest radius among uncovered points and
// whether any uncovered point remains. The reduction is a max, so the
// parallel split returns the same value as a serial pass.
func (s *selector) supAvailable() (float64, bool) {
	n := s.pkg.Len()
	if s.workers > 1 && n >= s.workers*minPointsPerWorker {
		return s.supAvailableParallel(n)
	}
	sup, any := 0.0, false
	for i := 0; i < n; i++ {
		if s.covered[i] {
			continue
		}
		any = true
		if r := s.pkg.Balls[i].Radius; r > sup {
			sup = r
		}
	}
	return sup, any
}

func (s *selector) supAvailableParallel(n int) (float64, bool) {
	chunk := (n + s.workers - 1) / s.workers
	sups := make([]float64, s.workers)
	anys := make([]bool, s.workers)

	var g errgroup.Group
	for w := 0; w < s.workers; w++ {
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			sup, any := 0.0, false
			for i := lo; i < hi; i++ {
				if s.covered[i] {
					continue
				}
				any = true
				if r := s.pkg.Balls[i].Radius; r > sup {
					sup = r
				}
			}
			sups[w], anys[w] = sup, any
			return nil
		})
	}
	_ = g.Wait()

	sup, any := 0.0, false
	for w := range sups {
		if anys[w] {
			any = true
			if sups[w] > sup {
				sup = sups[w]
			}
		}
	}
	return sup, any
}

// pickCandidate returns the lowest-id uncovered point whose radius is
// within factor tau of the supremum. The lowest-id rule is the
// deterministic stand-in for an arbitrary witness choice; any qualifying
// point preserves the near-maximality invariant sup <= tau * radius.
func (s *selector) pickCandidate(sup float64) (PointID, bool) {
	for i := 0; i < s.pkg.Len(); i++ {
		if s.covered[i] {
			continue
		}
		if sup <= s.tau*s.pkg.Balls[i].Radius {
			return PointID(i), true
		}
	}
	return 0, false
}
