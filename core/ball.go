package core

import (
	"errors"
	"fmt"
	"math"
)

// PointID identifies a point in a BallPackage by its index.
type PointID int

// Ball pairs a center with a strictly positive radius.
type Ball struct {
	Center Vec3
	Radius float64
}

// BallPackage is the immutable input family: one ball per point plus a
// global upper bound on radii. A nil Metric defaults to Euclidean.
type BallPackage struct {
	Balls       []Ball
	RadiusBound float64
	Metric      Metric
}

var (
	// ErrInvalidParameter flags inputs that violate the engine's
	// preconditions (tau, radii, radius bound, family count).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrSelectionExhausted means no point was within factor tau of the
	// available radius supremum while uncovered points remained. With
	// finite families the supremum is attained, so hitting this signals a
	// violated precondition; the run is not retryable.
	ErrSelectionExhausted = errors.New("selection exhausted with uncovered points")
)

// Len returns the number of points in the family.
func (p *BallPackage) Len() int { return len(p.Balls) }

func (p *BallPackage) metric() Metric {
	if p.Metric == nil {
		return Euclidean{}
	}
	return p.Metric
}

// Validate checks each radius is strictly positive, finite, and within
// RadiusBound. An empty family is valid.
func (p *BallPackage) Validate() error {
	if len(p.Balls) == 0 {
		return nil
	}
	if p.RadiusBound <= 0 || math.IsNaN(p.RadiusBound) || math.IsInf(p.RadiusBound, 0) {
		return fmt.Errorf("%w: radius bound %v must be positive and finite", ErrInvalidParameter, p.RadiusBound)
	}
	for i, b := range p.Balls {
		if b.Radius <= 0 || math.IsNaN(b.Radius) {
			return fmt.Errorf("%w: ball %d has non-positive radius %v", ErrInvalidParameter, i, b.Radius)
		}
		if b.Radius > p.RadiusBound {
			return fmt.Errorf("%w: ball %d radius %v exceeds bound %v", ErrInvalidParameter, i, b.Radius, p.RadiusBound)
		}
	}
	return nil
}
