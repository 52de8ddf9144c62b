package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/detection"
	"github.com/phishguard/phishguard/pkg/ui"
)

// cmdDetect scores a page snapshot for credential-entry risk. Exits with
// the risky code when the verdict fires so scripts can branch on it.
func cmdDetect(args []string) int {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	inputPath := fs.String("input", "", "JSON page snapshot file (\"-\" for stdin)")
	threshold := fs.Float64("threshold", defaults.DetectionThreshold, "verdict confidence threshold")
	jsonOut := fs.Bool("json", false, "emit JSON instead of styled output")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	_ = fs.Parse(args)

	if *inputPath == "" {
		return fail(fmt.Errorf("detect: -input is required"))
	}

	var in detection.Input
	if err := readJSONFile(*inputPath, &in); err != nil {
		return fail(err)
	}

	detector := detection.New(
		detection.WithThreshold(*threshold),
		detection.WithLogger(newLogger(*verbose)),
	)
	assessment := detector.Analyze(context.Background(), in)

	if *jsonOut {
		if err := emitJSON(assessment); err != nil {
			return fail(err)
		}
	} else {
		printAssessment(assessment)
	}

	if assessment.CredentialEntry {
		return defaults.ExitRisky
	}
	return defaults.ExitOK
}

func printAssessment(a detection.Assessment) {
	fmt.Println(ui.SectionStyle.Render("Risk Assessment"))
	verdict := ui.SuccessStyle.Render("clean")
	if a.CredentialEntry {
		verdict = ui.ErrorStyle.Render("credential entry")
	}
	row("Verdict", verdict)
	row("Confidence", fmt.Sprintf("%.2f", a.Confidence))
	row("Scored by", a.ScoredBy)

	if len(a.Factors) > 0 {
		fmt.Println()
		fmt.Println(ui.SectionStyle.Render("Risk Factors"))
		for _, f := range a.Factors {
			fmt.Printf("  %s %s\n",
				ui.RiskStyle(string(f.Severity)).Render(fmt.Sprintf("[%s]", f.Severity)),
				f.Reason)
		}
	}

	fmt.Println()
	fmt.Println(ui.SectionStyle.Render("Guidance"))
	for _, r := range detection.Recommendations(a) {
		fmt.Printf("  - %s\n", r)
	}
}
