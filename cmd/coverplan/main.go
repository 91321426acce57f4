package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/signalsfoundry/coverage-planner/core"
	"github.com/signalsfoundry/coverage-planner/internal/logging"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a JSON or YAML ball-family scenario")
	tau := flag.Float64("tau", 0, "expansion factor; overrides the scenario's tau when set")
	n := flag.Int("n", 0, "number of disjoint families to produce")
	workers := flag.Int("workers", 1, "within-step parallelism for the radius supremum scan")
	asJSON := flag.Bool("json", false, "emit the covering as JSON instead of text")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, log := logging.WithRunLogger(context.Background(), log)

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "coverplan: -scenario is required")
		os.Exit(2)
	}
	if *n < 1 {
		fmt.Fprintln(os.Stderr, "coverplan: -n must be at least 1")
		os.Exit(2)
	}

	scenario, err := core.LoadScenarioFile(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	runTau := scenario.Tau
	if *tau != 0 {
		runTau = *tau
	}

	covering, err := core.Cover(ctx, scenario.Package, runTau, *n, core.AssumeNoConfigurations{},
		core.WithWorkers(*workers),
		core.WithLogger(log),
	)
	if err != nil {
		var scErr *core.SatelliteConfigError
		if errors.As(err, &scErr) && scErr.Witness != nil {
			fmt.Fprintf(os.Stderr, "coverplan: %v\n", err)
			for i := range scErr.Witness.Radii {
				c := scErr.Witness.Centers[i]
				fmt.Fprintf(os.Stderr, "  witness point %d: center=(%g, %g, %g) radius=%g\n",
					i, c.X, c.Y, c.Z, scErr.Witness.Radii[i])
			}
			os.Exit(1)
		}
		log.Error(ctx, "covering failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(covering); err != nil {
			log.Error(ctx, "failed to encode covering", logging.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	fmt.Printf("covering: %d points, %d steps, %d colors, certified=%v\n",
		scenario.Package.Len(), covering.Steps, covering.ColorsUsed, covering.Certified)
	for i, family := range covering.Families {
		fmt.Printf("family %d (%d balls):\n", i, len(family))
		for _, sel := range family {
			c := sel.Ball.Center
			fmt.Printf("  point %d: center=(%g, %g, %g) radius=%g step=%d\n",
				sel.ID, c.X, c.Y, c.Z, sel.Ball.Radius, sel.Step)
		}
	}
}
