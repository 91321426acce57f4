package core

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"golang.org/x/sync/errgroup"
)

// TLE is a two-line element set for one satellite.
type TLE struct {
	Name  string
	Line1 string
	Line2 string
}

// FootprintPackage propagates each TLE to the given epoch with SGP4 and
// returns a ball package whose centers are the satellites' ECEF positions
// (kilometres) and whose radii approximate each beam footprint: the cone
// of the given half-angle projected to the satellite's altitude, capped at
// the slant range to the horizon. Propagation fans out per satellite; the
// output ordering always matches the input ordering.
func FootprintPackage(epoch time.Time, sats []TLE, halfBeamDeg float64) (*BallPackage, error) {
	if halfBeamDeg <= 0 || halfBeamDeg >= 90 {
		return nil, fmt.Errorf("%w: half beam angle %v degrees must be in (0, 90)", ErrInvalidParameter, halfBeamDeg)
	}
	if len(sats) == 0 {
		return &BallPackage{}, nil
	}

	balls := make([]Ball, len(sats))
	var g errgroup.Group
	for i := range sats {
		g.Go(func() error {
			b, err := footprintBall(epoch, i, sats[i], halfBeamDeg)
			if err != nil {
				return err
			}
			balls[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bound := 0.0
	for _, b := range balls {
		if b.Radius > bound {
			bound = b.Radius
		}
	}
	pkg := &BallPackage{Balls: balls, RadiusBound: bound}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return pkg, nil
}

func footprintBall(epoch time.Time, idx int, t TLE, halfBeamDeg float64) (Ball, error) {
	sat := satellite.TLEToSat(t.Line1, t.Line2, satellite.GravityWGS72)

	year, month, day := epoch.Date()
	hour, min, sec := epoch.Clock()
	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	center := Vec3{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
	name := t.Name
	if name == "" {
		name = fmt.Sprintf("tle[%d]", idx)
	}

	alt := center.Norm() - EarthRadiusKm
	if math.IsNaN(alt) || alt <= 0 {
		return Ball{}, fmt.Errorf("%w: %s propagates to altitude %v km at %s", ErrInvalidParameter, name, alt, epoch.Format(time.RFC3339))
	}

	radius := alt * math.Tan(halfBeamDeg*math.Pi/180)
	// Nothing past the horizon is reachable regardless of beam width.
	horizon := math.Sqrt(center.Norm()*center.Norm() - EarthRadiusKm*EarthRadiusKm)
	if radius > horizon {
		radius = horizon
	}
	return Ball{Center: center, Radius: radius}, nil
}
