package core

import "sort"

// colorer performs greedy coloring over the conflict graph grown in
// selection order: two selected points conflict when their closed balls
// intersect.
type colorer struct {
	metric Metric
	bound  int
}

// assign computes the least color not used by any conflicting earlier
// step. When that color would reach the bound, every color below the bound
// occurs on some conflicting earlier step; assign then materialises the
// satellite configuration those steps force and returns it instead of a
// color.
func (c *colorer) assign(pkg *BallPackage, history []step, id PointID) (int, *SatelliteConfig) {
	cur := pkg.Balls[id]

	// conflictAt[color] = earliest history position of a conflicting step
	// carrying that color. Earlier steps all carry colors below the bound.
	conflictAt := make(map[int]int)
	for pos, st := range history {
		prev := pkg.Balls[st.id]
		if !closedBallsIntersect(c.metric, prev.Center, prev.Radius, cur.Center, cur.Radius) {
			continue
		}
		if _, seen := conflictAt[st.color]; !seen {
			conflictAt[st.color] = pos
		}
	}

	color := 0
	for {
		if _, used := conflictAt[color]; !used {
			break
		}
		color++
	}
	if color < c.bound {
		return color, nil
	}
	return 0, c.buildWitness(pkg, history, conflictAt, id)
}

// buildWitness constructs the (bound+1)-point satellite configuration
// implied by a color overflow: the earliest conflicting step of each color
// below the bound, ordered by selection step, with the current point last.
//
// The ordering carries the domination structure. For steps a before b, b's
// center was still uncovered when b was selected, so it escapes a's open
// ball (dist >= radius(a)); and b was available at a's step, so
// radius(b) <= supAvailable(a) <= tau * radius(a) by near-maximality. The
// same holds with b = the current point. Each listed step conflicts with
// the current point, giving the closed-ball intersection requirement.
func (c *colorer) buildWitness(pkg *BallPackage, history []step, conflictAt map[int]int, id PointID) *SatelliteConfig {
	positions := make([]int, 0, c.bound)
	for color := 0; color < c.bound; color++ {
		positions = append(positions, conflictAt[color])
	}
	sort.Ints(positions)

	cfg := &SatelliteConfig{
		Centers: make([]Vec3, 0, c.bound+1),
		Radii:   make([]float64, 0, c.bound+1),
	}
	for _, pos := range positions {
		b := pkg.Balls[history[pos].id]
		cfg.Centers = append(cfg.Centers, b.Center)
		cfg.Radii = append(cfg.Radii, b.Radius)
	}
	cur := pkg.Balls[id]
	cfg.Centers = append(cfg.Centers, cur.Center)
	cfg.Radii = append(cfg.Radii, cur.Radius)
	return cfg
}
