// core/scenario_loader.go
package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is a loaded ball-family input: the package itself plus the
// expansion factor the file suggested (zero when the file omitted it, in
// which case the caller supplies one).
type Scenario struct {
	Tau     float64
	Package *BallPackage
}

// internal JSON/YAML shapes, kept unexported so we're free to evolve them.
type scenarioPayload struct {
	Tau         float64         `json:"tau" yaml:"tau"`
	RadiusBound float64         `json:"radius_bound" yaml:"radius_bound"`
	Points      []scenarioPoint `json:"points" yaml:"points"`
}

type scenarioPoint struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Z      float64 `json:"z" yaml:"z"`
	Radius float64 `json:"radius" yaml:"radius"`
}

// LoadScenario reads a JSON scenario from r, validates the resulting ball
// package, and returns it. An omitted radius_bound defaults to the largest
// radius in the family.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioPayload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}
	return scenarioFromPayload(payload)
}

// LoadScenarioYAML reads a YAML scenario from r with the same shape and
// defaulting rules as LoadScenario.
func LoadScenarioYAML(r io.Reader) (*Scenario, error) {
	var payload scenarioPayload
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenarioYAML: decode failed: %w", err)
	}
	return scenarioFromPayload(payload)
}

// LoadScenarioFile opens path and dispatches on its extension: .yaml/.yml
// for YAML, anything else for JSON.
func LoadScenarioFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadScenarioFile: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadScenarioYAML(f)
	default:
		return LoadScenario(f)
	}
}

func scenarioFromPayload(payload scenarioPayload) (*Scenario, error) {
	balls := make([]Ball, 0, len(payload.Points))
	bound := payload.RadiusBound
	for _, pt := range payload.Points {
		balls = append(balls, Ball{
			Center: Vec3{X: pt.X, Y: pt.Y, Z: pt.Z},
			Radius: pt.Radius,
		})
		if payload.RadiusBound == 0 && pt.Radius > bound {
			bound = pt.Radius
		}
	}

	pkg := &BallPackage{Balls: balls, RadiusBound: bound}
	if err := pkg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &Scenario{Tau: payload.Tau, Package: pkg}, nil
}
