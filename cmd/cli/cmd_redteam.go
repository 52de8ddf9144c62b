package main

import (
	"flag"
	"fmt"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/lure"
	"github.com/phishguard/phishguard/pkg/planner"
	"github.com/phishguard/phishguard/pkg/trigger"
)

// cmdRedTeam builds an operator-authored simulation. The payload is
// delivered verbatim; nothing is randomized.
func cmdRedTeam(args []string) int {
	fs := flag.NewFlagSet("redteam", flag.ExitOnError)
	target := fs.String("target", "", "target user identifier")
	vector := fs.String("vector", "", "attack vector (free text; known types map onto the catalog)")
	payload := fs.String("payload", "", "simulation body, delivered verbatim")
	site := fs.String("site", "", "site the simulation surfaces on")
	campaign := fs.String("campaign", "", "campaign identifier to stamp")
	script := fs.String("trigger-script", "", "optional scripted trigger expression")
	jsonOut := fs.Bool("json", false, "emit JSON instead of styled output")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	_ = fs.Parse(args)

	if *target == "" || *vector == "" || *payload == "" {
		return fail(fmt.Errorf("redteam: -target, -vector, and -payload are required"))
	}

	logger := newLogger(*verbose)
	catalog, err := lure.Load(logger)
	if err != nil {
		return fail(err)
	}

	req := planner.RedTeamRequest{
		Target:     *target,
		Vector:     *vector,
		Payload:    *payload,
		Site:       *site,
		CampaignID: *campaign,
	}
	if *script != "" {
		req.Triggers = append(req.Triggers, trigger.Scripted(*script))
	}

	sim := planner.New(catalog, planner.WithLogger(logger)).PlanRedTeam(req)

	if *jsonOut {
		if err := emitJSON(sim); err != nil {
			return fail(err)
		}
		return defaults.ExitOK
	}
	printSimulation(sim)
	return defaults.ExitOK
}
