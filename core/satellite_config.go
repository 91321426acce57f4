package core

import (
	"errors"
	"fmt"
)

// SatelliteConfig is an (n+1)-point witness that a color bound of n is
// unattainable at expansion factor tau: every pair of points is ordered by
// domination, and the last point is within reach of all others. The
// absence of such configurations for a given (n, tau) is exactly what
// certifies the covering's color bound.
type SatelliteConfig struct {
	Centers []Vec3
	Radii   []float64
}

// ErrSatelliteConfiguration is matched by errors.Is against any
// *SatelliteConfigError.
var ErrSatelliteConfiguration = errors.New("satellite configuration exists")

// SatelliteConfigError reports that the requested (n, tau) admits a
// satellite configuration, so no certified n-coloring is possible.
// Witness is nil when the oracle refused the run up front, and set when
// the engine constructed a configuration from its own coloring history.
type SatelliteConfigError struct {
	N       int
	Tau     float64
	Witness *SatelliteConfig
}

func (e *SatelliteConfigError) Error() string {
	if e.Witness != nil {
		return fmt.Sprintf("satellite configuration with %d points found for n=%d tau=%v", len(e.Witness.Radii), e.N, e.Tau)
	}
	return fmt.Sprintf("oracle reports a satellite configuration for n=%d tau=%v", e.N, e.Tau)
}

func (e *SatelliteConfigError) Unwrap() error { return ErrSatelliteConfiguration }

// N returns the color bound the witness defeats, one less than its point
// count.
func (sc *SatelliteConfig) N() int { return len(sc.Radii) - 1 }

// Check verifies the witness axioms under the given metric and expansion
// factor: strictly positive radii, a domination order on every pair, the
// last point dominated by all others, and the last point's closed ball
// meeting every other. A nil metric defaults to Euclidean.
func (sc *SatelliteConfig) Check(metric Metric, tau float64) error {
	if metric == nil {
		metric = Euclidean{}
	}
	n := len(sc.Radii)
	if n < 2 || len(sc.Centers) != n {
		return fmt.Errorf("satellite config: want matching centers and radii with at least 2 points, got %d centers, %d radii", len(sc.Centers), n)
	}
	for i, r := range sc.Radii {
		if r <= 0 {
			return fmt.Errorf("satellite config: radius %d is %v, want > 0", i, r)
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !sc.dominates(metric, tau, i, j) && !sc.dominates(metric, tau, j, i) {
				return fmt.Errorf("satellite config: points %d and %d have no domination order", i, j)
			}
		}
	}
	last := n - 1
	for i := 0; i < last; i++ {
		if !sc.dominates(metric, tau, i, last) {
			return fmt.Errorf("satellite config: point %d does not dominate the last point", i)
		}
		if metric.Distance(sc.Centers[i], sc.Centers[last]) > sc.Radii[i]+sc.Radii[last] {
			return fmt.Errorf("satellite config: point %d's closed ball misses the last point's", i)
		}
	}
	return nil
}

// dominates reports the one-sided ordering: point j's center escapes point
// i's ball, and j's radius lags i's by at most a factor tau.
func (sc *SatelliteConfig) dominates(metric Metric, tau float64, i, j int) bool {
	return sc.Radii[i] <= metric.Distance(sc.Centers[i], sc.Centers[j]) &&
		sc.Radii[j] <= tau*sc.Radii[i]
}

// Oracle decides, once per run, whether any satellite configuration with
// n+1 points can exist in the ambient space at expansion factor tau.
// Returning false is the caller's certificate that the color bound n is
// safe; the engine trusts it but still detects violations at runtime.
type Oracle interface {
	Exists(n int, tau float64) bool
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(n int, tau float64) bool

// Exists calls f.
func (f OracleFunc) Exists(n int, tau float64) bool { return f(n, tau) }

// AssumeNoConfigurations certifies the absence of satellite configurations
// unconditionally. Use it when the ambient space is known to support the
// requested bound (finite-dimensional normed spaces admit such bounds for
// tau close enough to 1); a run that nonetheless exceeds the bound fails
// with an explicit witness rather than returning a bad coloring.
type AssumeNoConfigurations struct{}

// Exists always reports false.
func (AssumeNoConfigurations) Exists(int, float64) bool { return false }
