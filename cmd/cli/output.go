package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/ui"
)

// emitJSON writes v as indented JSON to stdout.
func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSONFile decodes a JSON file into v. "-" reads stdin.
func readJSONFile(path string, v any) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = os.ReadFile("/dev/stdin")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// printSimulation renders a planned simulation for the terminal.
func printSimulation(sim simulation.Simulation) {
	header := ui.SectionStyle.Render("Simulation " + sim.ID)
	if sim.Metadata.RedTeam {
		header = ui.RedTeamStyle.Render("RED TEAM") + " " + header
	}
	fmt.Println(header)

	row("Attack type", string(sim.AttackType))
	row("Target site", sim.TargetSite)
	row("Difficulty", string(sim.Metadata.Difficulty))
	row("Objective", sim.Metadata.TrainingObjective)
	if sim.Metadata.CampaignID != "" {
		row("Campaign", sim.Metadata.CampaignID)
	}
	fmt.Println()

	row("Title", sim.Content.Title)
	row("Sender", fmt.Sprintf("%s <%s>", sim.Content.SenderName, sim.Content.SenderAddress))
	row("Urgency", ui.RiskStyle(string(sim.Content.Urgency)).Render(string(sim.Content.Urgency)))
	row("Placement", string(sim.Content.Placement))
	row("Body", sim.Content.Body)
	if sim.Content.CallToAction != "" {
		row("Call to action", fmt.Sprintf("%s -> %s", sim.Content.CallToAction, sim.Content.CallToActionURL))
	}

	if len(sim.Triggers) > 0 {
		fmt.Println()
		fmt.Println(ui.SectionStyle.Render("Triggers"))
		for _, c := range sim.Triggers {
			fmt.Printf("  %s %s %s\n",
				ui.ValueStyle.Render(string(c.Kind)),
				ui.LabelStyle.Render(string(c.Comparison)),
				c.Value)
		}
	}
}

func row(label, value string) {
	fmt.Printf("  %s %s\n", ui.LabelStyle.Render(fmt.Sprintf("%-15s", label)), value)
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("error:"), err)
	return defaults.ExitError
}
