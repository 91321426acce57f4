package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func familyIDs(family []Selected) []PointID {
	ids := make([]PointID, 0, len(family))
	for _, sel := range family {
		ids = append(ids, sel.ID)
	}
	return ids
}

// TestCoverThreePointsOnLine covers centers {0, 1, 2} with radius 0.9 at
// tau = 2: two families suffice, and the greedy split is {0, 2} and {1}.
func TestCoverThreePointsOnLine(t *testing.T) {
	pkg := linePackage([]float64{0.9, 0.9, 0.9}, 1.0)

	covering, err := Cover(context.Background(), pkg, 2.0, 2, AssumeNoConfigurations{})
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if len(covering.Families) != 2 {
		t.Fatalf("got %d families, want 2", len(covering.Families))
	}
	if got := familyIDs(covering.Families[0]); !reflect.DeepEqual(got, []PointID{0, 2}) {
		t.Errorf("family 0 = %v, want [0 2]", got)
	}
	if got := familyIDs(covering.Families[1]); !reflect.DeepEqual(got, []PointID{1}) {
		t.Errorf("family 1 = %v, want [1]", got)
	}
	if covering.Steps != 3 || covering.ColorsUsed != 2 || !covering.Certified {
		t.Errorf("covering summary = %+v, want 3 steps, 2 colors, certified", covering)
	}
}

// TestCoverThreePointsOneFamily shows the same input cannot be 1-colored:
// the run fails with an explicit two-point witness.
func TestCoverThreePointsOneFamily(t *testing.T) {
	pkg := linePackage([]float64{0.9, 0.9, 0.9}, 1.0)

	_, err := Cover(context.Background(), pkg, 2.0, 1, AssumeNoConfigurations{})
	if !errors.Is(err, ErrSatelliteConfiguration) {
		t.Fatalf("Cover = %v, want ErrSatelliteConfiguration", err)
	}
	var scErr *SatelliteConfigError
	if !errors.As(err, &scErr) || scErr.Witness == nil {
		t.Fatalf("error %v carries no witness", err)
	}
	if got := len(scErr.Witness.Radii); got != 2 {
		t.Fatalf("witness has %d points, want 2", got)
	}
	if err := scErr.Witness.Check(pkg.metric(), 2.0); err != nil {
		t.Errorf("witness fails its axioms: %v", err)
	}
}

func TestCoverSingleton(t *testing.T) {
	pkg := &BallPackage{
		Balls:       []Ball{{Center: Vec3{X: 5}, Radius: 0.9}},
		RadiusBound: 0.9,
	}
	for _, n := range []int{1, 2, 5} {
		covering, err := Cover(context.Background(), pkg, 2.0, n, AssumeNoConfigurations{})
		if err != nil {
			t.Fatalf("Cover(n=%d): %v", n, err)
		}
		if len(covering.Families) != n {
			t.Fatalf("n=%d: got %d families", n, len(covering.Families))
		}
		if got := familyIDs(covering.Families[0]); !reflect.DeepEqual(got, []PointID{0}) {
			t.Errorf("n=%d: family 0 = %v, want [0]", n, got)
		}
		for i := 1; i < n; i++ {
			if len(covering.Families[i]) != 0 {
				t.Errorf("n=%d: family %d should be empty", n, i)
			}
		}
	}
}

func TestCoverEmptyFamily(t *testing.T) {
	covering, err := Cover(context.Background(), &BallPackage{}, 2.0, 3, AssumeNoConfigurations{})
	if err != nil {
		t.Fatalf("Cover on empty family: %v", err)
	}
	if covering.Steps != 0 || covering.ColorsUsed != 0 || len(covering.Families) != 3 {
		t.Errorf("covering = %+v, want 3 empty families and no steps", covering)
	}
}

func TestCoverRejectsInvalidParameters(t *testing.T) {
	pkg := linePackage([]float64{0.9}, 1.0)

	cases := []struct {
		name string
		call func() error
	}{
		{"nil package", func() error { _, err := Cover(context.Background(), nil, 2.0, 1, nil); return err }},
		{"tau at 1", func() error { _, err := Cover(context.Background(), pkg, 1.0, 1, nil); return err }},
		{"tau below 1", func() error { _, err := Cover(context.Background(), pkg, 0.5, 1, nil); return err }},
		{"zero families", func() error { _, err := Cover(context.Background(), pkg, 2.0, 0, nil); return err }},
		{"bad radius", func() error {
			bad := &BallPackage{Balls: []Ball{{Radius: -1}}, RadiusBound: 1}
			_, err := Cover(context.Background(), bad, 2.0, 1, nil)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("got %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func TestCoverOracleRefusal(t *testing.T) {
	pkg := linePackage([]float64{0.9}, 1.0)
	oracle := OracleFunc(func(n int, tau float64) bool { return true })

	_, err := Cover(context.Background(), pkg, 2.0, 1, oracle)
	if !errors.Is(err, ErrSatelliteConfiguration) {
		t.Fatalf("Cover = %v, want refusal before running", err)
	}
	var scErr *SatelliteConfigError
	if !errors.As(err, &scErr) || scErr.Witness != nil {
		t.Fatalf("up-front refusal should carry no witness, got %v", err)
	}
}

func TestCoverWithoutOracleIsUncertified(t *testing.T) {
	pkg := linePackage([]float64{0.9}, 1.0)

	covering, err := Cover(context.Background(), pkg, 2.0, 1, nil)
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if covering.Certified {
		t.Errorf("covering without an oracle must be uncertified")
	}
}

func TestCoverDeterminism(t *testing.T) {
	pkg := generatedPackage(200)

	first, err := Cover(context.Background(), pkg, 2.0, 16, AssumeNoConfigurations{})
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	second, err := Cover(context.Background(), pkg, 2.0, 16, AssumeNoConfigurations{}, WithWorkers(4))
	if err != nil {
		t.Fatalf("Cover (workers): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ")
	}
}

// TestCoverProperties checks the output contract on a generated family:
// every input center is covered by the union of open balls, and closed
// balls within one family never intersect.
func TestCoverProperties(t *testing.T) {
	pkg := generatedPackage(400)
	metric := pkg.metric()

	covering, err := Cover(context.Background(), pkg, 2.0, 16, AssumeNoConfigurations{})
	if err != nil {
		t.Fatalf("Cover: %v", err)
	}
	if covering.ColorsUsed < 1 || covering.ColorsUsed > 16 {
		t.Fatalf("colors used = %d, want within (0, 16]", covering.ColorsUsed)
	}

	var all []Selected
	for _, family := range covering.Families {
		all = append(all, family...)
		for i := 0; i < len(family); i++ {
			for j := i + 1; j < len(family); j++ {
				a, b := family[i].Ball, family[j].Ball
				if closedBallsIntersect(metric, a.Center, a.Radius, b.Center, b.Radius) {
					t.Fatalf("family contains intersecting closed balls: points %d and %d", family[i].ID, family[j].ID)
				}
			}
		}
	}

	for i, b := range pkg.Balls {
		covered := false
		for _, sel := range all {
			if inOpenBall(metric, b.Center, sel.Ball.Center, sel.Ball.Radius) {
				covered = true
				break
			}
		}
		if !covered {
			t.Fatalf("center of point %d is not covered", i)
		}
	}
}

// TestCoverTauMonotonicity pins a family where tightening tau toward 1
// strictly increases the colors the greedy coloring needs.
func TestCoverTauMonotonicity(t *testing.T) {
	pkg := &BallPackage{
		Balls: []Ball{
			{Center: Vec3{X: 0.6, Y: 1.66}, Radius: 1.14},
			{Center: Vec3{X: 3.56, Y: 4.68}, Radius: 0.75},
			{Center: Vec3{X: 4.15, Y: 3.35}, Radius: 0.59},
			{Center: Vec3{X: 2.94, Y: 4.41}, Radius: 1.3},
			{Center: Vec3{X: 2.53, Y: 2.95}, Radius: 0.24},
		},
		RadiusBound: 1.3,
	}

	taus := []float64{3.0, 2.0, 1.5, 1.2, 1.05}
	wantColors := []int{1, 1, 2, 2, 2}
	prev := 0
	for i, tau := range taus {
		covering, err := Cover(context.Background(), pkg, tau, 10, AssumeNoConfigurations{})
		if err != nil {
			t.Fatalf("Cover(tau=%v): %v", tau, err)
		}
		if covering.ColorsUsed != wantColors[i] {
			t.Errorf("tau=%v: colors used = %d, want %d", tau, covering.ColorsUsed, wantColors[i])
		}
		if covering.ColorsUsed < prev {
			t.Errorf("tau=%v: colors decreased from %d to %d as tau tightened", tau, prev, covering.ColorsUsed)
		}
		prev = covering.ColorsUsed
	}
}
