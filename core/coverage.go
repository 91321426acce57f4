package core

import "math"

// cellKey addresses one cube of the coverage grid.
type cellKey struct {
	x, y, z int
}

// coverageIndex tracks the union of the open balls selected so far. The
// region only ever grows, so membership answers are stable once true.
//
// Under the Euclidean metric, balls are bucketed into cubes whose side is
// the family's radius bound; every inserted radius is at most that bound,
// so any ball covering a query point has its center in one of the 27 cubes
// around the point. Other metrics give no such grid structure and fall
// back to a linear scan.
type coverageIndex struct {
	metric   Metric
	cellSize float64
	cells    map[cellKey][]Ball // nil when the metric is not Euclidean
	all      []Ball             // scan fallback for custom metrics
}

func newCoverageIndex(metric Metric, cellSize float64) *coverageIndex {
	ci := &coverageIndex{metric: metric, cellSize: cellSize}
	if _, ok := metric.(Euclidean); ok && cellSize > 0 {
		ci.cells = make(map[cellKey][]Ball)
	}
	return ci
}

func (ci *coverageIndex) keyFor(v Vec3) cellKey {
	return cellKey{
		x: int(math.Floor(v.X / ci.cellSize)),
		y: int(math.Floor(v.Y / ci.cellSize)),
		z: int(math.Floor(v.Z / ci.cellSize)),
	}
}

// Insert adds one selected ball to the covered region.
func (ci *coverageIndex) Insert(b Ball) {
	if ci.cells == nil {
		ci.all = append(ci.all, b)
		return
	}
	k := ci.keyFor(b.Center)
	ci.cells[k] = append(ci.cells[k], b)
}

// Covers reports whether x lies in the union of the inserted open balls.
func (ci *coverageIndex) Covers(x Vec3) bool {
	if ci.cells == nil {
		for _, b := range ci.all {
			if inOpenBall(ci.metric, x, b.Center, b.Radius) {
				return true
			}
		}
		return false
	}
	k := ci.keyFor(x)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				for _, b := range ci.cells[cellKey{x: k.x + dx, y: k.y + dy, z: k.z + dz}] {
					if inOpenBall(ci.metric, x, b.Center, b.Radius) {
						return true
					}
				}
			}
		}
	}
	return false
}
