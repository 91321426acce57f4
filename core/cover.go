package core

import (
	"context"
	"fmt"

	"github.com/signalsfoundry/coverage-planner/internal/logging"
)

// Selected describes one chosen ball together with its selection step and
// assigned color.
type Selected struct {
	ID    PointID
	Ball  Ball
	Step  int
	Color int
}

// Covering is the result of a successful run: exactly as many families as
// the requested color bound. Within a family, closed balls are pairwise
// disjoint; across all families, the open balls cover every input center.
type Covering struct {
	Families   [][]Selected
	Steps      int
	ColorsUsed int

	// Certified is true when an oracle vouched for the absence of
	// satellite configurations before the run. An uncertified covering is
	// still a valid disjoint cover of this particular input; only the
	// a-priori guarantee that the bound suffices for every input is
	// missing.
	Certified bool
}

type coverConfig struct {
	workers int
	log     logging.Logger
}

// Option adjusts engine behaviour.
type Option func(*coverConfig)

// WithWorkers caps the within-step parallelism of the radius-supremum
// reduction. Values below 2 keep every scan serial; the selection loop
// itself is always single-threaded.
func WithWorkers(n int) Option {
	return func(c *coverConfig) { c.workers = n }
}

// WithLogger attaches a structured logger for per-run summaries.
func WithLogger(l logging.Logger) Option {
	return func(c *coverConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Cover runs greedy ball selection and coloring over pkg and partitions
// the selected balls into n families by color.
//
// The oracle is consulted once, before any selection: if it reports a
// satellite configuration for (n, tau), Cover refuses to run. A nil
// oracle skips the certificate and marks the result uncertified. Either
// way, a run whose greedy coloring would exceed n fails with a
// *SatelliteConfigError carrying an explicit witness built from the
// coloring history.
//
// For a fixed input, repeated runs produce identical selections and
// colorings (ties break toward the lowest point id).
func Cover(ctx context.Context, pkg *BallPackage, tau float64, n int, oracle Oracle, opts ...Option) (*Covering, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: ball package is nil", ErrInvalidParameter)
	}
	if tau <= 1 {
		return nil, fmt.Errorf("%w: tau %v must exceed 1", ErrInvalidParameter, tau)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: family count %d must be at least 1", ErrInvalidParameter, n)
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}

	cfg := coverConfig{log: logging.Noop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	certified := false
	if oracle != nil {
		if oracle.Exists(n, tau) {
			return nil, &SatelliteConfigError{N: n, Tau: tau}
		}
		certified = true
	}

	sel := newSelector(pkg, tau, cfg.workers)
	col := &colorer{metric: pkg.metric(), bound: n}
	witness, err := sel.run(ctx, col)
	if err != nil {
		return nil, err
	}
	if witness != nil {
		cfg.log.Warn(ctx, "color bound violated; witness constructed",
			logging.Int("n", n),
			logging.Int("witness_points", len(witness.Radii)),
		)
		return nil, &SatelliteConfigError{N: n, Tau: tau, Witness: witness}
	}

	out := &Covering{
		Families:  make([][]Selected, n),
		Steps:     len(sel.history),
		Certified: certified,
	}
	maxColor := -1
	for pos, st := range sel.history {
		if st.color > maxColor {
			maxColor = st.color
		}
		out.Families[st.color] = append(out.Families[st.color], Selected{
			ID:    st.id,
			Ball:  pkg.Balls[st.id],
			Step:  pos,
			Color: st.color,
		})
	}
	out.ColorsUsed = maxColor + 1

	cfg.log.Info(ctx, "covering complete",
		logging.Int("points", pkg.Len()),
		logging.Int("steps", out.Steps),
		logging.Int("colors_used", out.ColorsUsed),
		logging.Int("families", n),
		logging.Any("certified", certified),
	)
	return out, nil
}
