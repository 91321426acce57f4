package core

import "math"

// EarthRadiusKm is the mean Earth radius used by the footprint builder
// (kilometres).
const EarthRadiusKm = 6371.0

// Vec3 is a point in 3-space. The footprint builder produces ECEF-style
// coordinates in kilometres; the covering engine itself is unit-agnostic.
type Vec3 struct {
	X, Y, Z float64
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Metric measures distances between points. Implementations must satisfy
// the usual metric axioms; the covering engine only ever calls Distance.
type Metric interface {
	Distance(a, b Vec3) float64
}

// Euclidean is the standard straight-line metric.
type Euclidean struct{}

// Distance returns the straight-line distance between a and b.
func (Euclidean) Distance(a, b Vec3) float64 { return a.DistanceTo(b) }

// inOpenBall reports whether x lies strictly inside the ball around c.
func inOpenBall(m Metric, x, c Vec3, r float64) bool {
	return m.Distance(x, c) < r
}

// closedBallsIntersect reports whether the closed balls around a and b
// touch or overlap.
func closedBallsIntersect(m Metric, a Vec3, ra float64, b Vec3, rb float64) bool {
	return m.Distance(a, b) <= ra+rb
}
