package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/progression"
	"github.com/phishguard/phishguard/pkg/ui"
)

// loggedEvent is one line of an outcome event log.
type loggedEvent struct {
	UserID string            `json:"user_id"`
	Event  progression.Event `json:"event"`
}

// cmdStats replays an outcome event log through the progression tracker
// and prints the resulting per-user records.
func cmdStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	eventsPath := fs.String("events", "", "JSON array of {user_id, event} records (\"-\" for stdin)")
	user := fs.String("user", "", "show only this user")
	policy := fs.String("policy", "streak", "difficulty policy: streak or bandit")
	seed := fs.Int64("seed", 1, "bandit policy seed")
	jsonOut := fs.Bool("json", false, "emit JSON instead of styled output")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	_ = fs.Parse(args)

	if *eventsPath == "" {
		return fail(fmt.Errorf("stats: -events is required"))
	}

	var events []loggedEvent
	if err := readJSONFile(*eventsPath, &events); err != nil {
		return fail(err)
	}

	var lp progression.LevelPolicy
	switch *policy {
	case "streak":
		lp = progression.NewStreakPolicy()
	case "bandit":
		lp = progression.NewBanditPolicy(*seed)
	default:
		return fail(fmt.Errorf("stats: unknown policy %q", *policy))
	}

	tracker := progression.NewTracker(
		progression.WithPolicy(lp),
		progression.WithTrackerLogger(newLogger(*verbose)),
	)
	dedupe := progression.NewDeduper(defaults.DedupeRingSize)
	for _, le := range events {
		if le.Event.ID != "" && dedupe.Seen(le.UserID, le.Event.ID) {
			continue
		}
		tracker.Record(le.UserID, le.Event)
	}

	users := tracker.Users()
	if *user != "" {
		users = []string{*user}
	}

	out := make([]progression.UserStats, 0, len(users))
	for _, id := range users {
		stats, ok := tracker.Stats(id)
		if !ok {
			return fail(fmt.Errorf("stats: no events for user %q", id))
		}
		out = append(out, stats)
	}

	if *jsonOut {
		if err := emitJSON(out); err != nil {
			return fail(err)
		}
		return defaults.ExitOK
	}

	for _, stats := range out {
		printStats(stats)
		fmt.Println()
	}
	return defaults.ExitOK
}

func printStats(s progression.UserStats) {
	fmt.Println(ui.SectionStyle.Render("User " + s.UserID))

	level := "low"
	switch {
	case s.RiskScore >= defaults.RiskProfileHighMin:
		level = "high"
	case s.RiskScore >= defaults.RiskProfileMediumMin:
		level = "medium"
	}
	row("Risk score", ui.RiskStyle(level).Render(fmt.Sprintf("%d", s.RiskScore)))
	row("Difficulty", string(s.Difficulty))
	row("Shown", fmt.Sprintf("%d", s.SimulationsShown))
	row("Clicked", fmt.Sprintf("%d", s.LinksClicked))
	row("Credentials", fmt.Sprintf("%d", s.CredentialsEntered))
	row("Detected", fmt.Sprintf("%d", s.SimulationsDetected))
	row("Reported", fmt.Sprintf("%d", s.PhishingReported))
	row("Dismissed", fmt.Sprintf("%d", s.SimulationsDismissed))
	if s.AvgDetectionMs > 0 {
		row("Avg detection", (time.Duration(s.AvgDetectionMs) * time.Millisecond).String())
	}
}
