package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/ui"
	"github.com/phishguard/phishguard/pkg/usercontext"
)

// cmdAnalyze aggregates captured per-site contexts into a risk analysis.
func cmdAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	contextsPath := fs.String("contexts", "", "JSON file mapping site to captured context (\"-\" for stdin)")
	jsonOut := fs.Bool("json", false, "emit JSON instead of styled output")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	_ = fs.Parse(args)

	if *contextsPath == "" {
		return fail(fmt.Errorf("analyze: -contexts is required"))
	}

	var contexts map[string]usercontext.UserContext
	if err := readJSONFile(*contextsPath, &contexts); err != nil {
		return fail(err)
	}

	logger := newLogger(*verbose)
	analysis := usercontext.Aggregate(contexts)
	logger.Debug("contexts aggregated", "sites", len(contexts))

	if *jsonOut {
		if err := emitJSON(analysis); err != nil {
			return fail(err)
		}
		return defaults.ExitOK
	}

	fmt.Println(ui.SectionStyle.Render("Context Analysis"))
	row("Risk profile", ui.RiskStyle(string(analysis.RiskProfile)).Render(string(analysis.RiskProfile)))
	row("Risk score", fmt.Sprintf("%d", analysis.RiskScore))
	row("Primary site", analysis.PrimarySite)
	row("Personalization", fmt.Sprintf("%d%%", analysis.PersonalizationScore))
	if len(analysis.KeyContacts) > 0 {
		row("Key contacts", strings.Join(analysis.KeyContacts, ", "))
	}
	if len(analysis.Topics) > 0 {
		row("Topics", strings.Join(analysis.Topics, ", "))
	}
	vectors := make([]string, len(analysis.SuggestedVectors))
	for i, v := range analysis.SuggestedVectors {
		vectors[i] = string(v)
	}
	row("Vectors", strings.Join(vectors, ", "))

	for site, ctx := range contexts {
		anomalies := usercontext.DetectAnomalies(ctx)
		if len(anomalies) == 0 {
			continue
		}
		labels := make([]string, len(anomalies))
		for i, a := range anomalies {
			labels[i] = string(a)
		}
		fmt.Printf("  %s %s\n",
			ui.WarningStyle.Render("anomalies["+site+"]"),
			strings.Join(labels, ", "))
	}
	return defaults.ExitOK
}
