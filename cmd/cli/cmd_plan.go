package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/lure"
	"github.com/phishguard/phishguard/pkg/planner"
	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/usercontext"
)

// cmdPlan builds one personalized training simulation and prints it.
func cmdPlan(args []string) int {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	site := fs.String("site", "", "target site hostname")
	contextPath := fs.String("context", "", "JSON captured-context file (\"-\" for stdin)")
	difficultyFlag := fs.String("difficulty", "easy", "difficulty: easy, medium, hard, expert")
	campaign := fs.String("campaign", "", "campaign identifier to stamp")
	seed := fs.Int64("seed", 0, "random seed (0 seeds from the clock)")
	jsonOut := fs.Bool("json", false, "emit JSON instead of styled output")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	_ = fs.Parse(args)

	if *site == "" {
		return fail(fmt.Errorf("plan: -site is required"))
	}

	var uctx usercontext.UserContext
	if *contextPath != "" {
		if err := readJSONFile(*contextPath, &uctx); err != nil {
			return fail(err)
		}
	}

	logger := newLogger(*verbose)
	catalog, err := lure.Load(logger)
	if err != nil {
		return fail(err)
	}

	opts := []planner.Option{
		planner.WithLogger(logger),
		planner.WithCampaign(*campaign),
	}
	if *seed != 0 {
		opts = append(opts, planner.WithRand(rand.New(rand.NewSource(*seed))))
	}

	p := planner.New(catalog, opts...)
	sim := p.Plan(*site, uctx, simulation.ParseDifficulty(*difficultyFlag))
	logger.Debug("simulation planned", slog.String("id", sim.ID))

	if *jsonOut {
		if err := emitJSON(sim); err != nil {
			return fail(err)
		}
		return defaults.ExitOK
	}
	printSimulation(sim)
	return defaults.ExitOK
}
