package core

import (
	"errors"
	"testing"
)

func TestBallPackageValidate(t *testing.T) {
	cases := []struct {
		name    string
		pkg     BallPackage
		wantErr bool
	}{
		{
			name: "valid",
			pkg: BallPackage{
				Balls:       []Ball{{Radius: 0.5}, {Center: Vec3{X: 2}, Radius: 1}},
				RadiusBound: 1,
			},
		},
		{name: "empty family is valid"},
		{
			name: "zero radius",
			pkg: BallPackage{
				Balls:       []Ball{{Radius: 0}},
				RadiusBound: 1,
			},
			wantErr: true,
		},
		{
			name: "negative radius",
			pkg: BallPackage{
				Balls:       []Ball{{Radius: -0.1}},
				RadiusBound: 1,
			},
			wantErr: true,
		},
		{
			name: "radius above bound",
			pkg: BallPackage{
				Balls:       []Ball{{Radius: 1.5}},
				RadiusBound: 1,
			},
			wantErr: true,
		},
		{
			name: "missing bound",
			pkg: BallPackage{
				Balls: []Ball{{Radius: 1}},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pkg.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("Validate = %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate returned unexpected error: %v", err)
			}
		})
	}
}
