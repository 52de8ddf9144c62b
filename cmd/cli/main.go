// Command phishguard drives the simulation and risk-detection engine from
// the terminal: aggregate captured contexts, score page snapshots, plan
// training or red-team simulations, and inspect progression records.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/ui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return defaults.ExitUsage
	}

	switch args[0] {
	case "analyze":
		return cmdAnalyze(args[1:])
	case "detect":
		return cmdDetect(args[1:])
	case "plan":
		return cmdPlan(args[1:])
	case "redteam":
		return cmdRedTeam(args[1:])
	case "stats":
		return cmdStats(args[1:])
	case "version":
		fmt.Println(ui.Banner())
		return defaults.ExitOK
	case "help", "-h", "--help":
		usage()
		return defaults.ExitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		return defaults.ExitUsage
	}
}

func usage() {
	fmt.Print(ui.Banner())
	fmt.Println(`Usage: phishguard <command> [flags]

Commands:
  analyze   Aggregate captured site contexts into a risk analysis
  detect    Score a page snapshot for credential-entry risk
  plan      Plan a personalized training simulation
  redteam   Plan an operator-authored simulation verbatim
  stats     Replay an outcome event log and print progression stats
  version   Print version information

Run "phishguard <command> -h" for command flags.`)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
