package usercontext

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/duration"
	"github.com/phishguard/phishguard/pkg/simulation"
)

// topicCategories scores activity text into interest topics. Declaration
// order breaks score ties.
var topicCategories = []struct {
	name     string
	keywords []string
}{
	{"security", []string{"security", "vulnerability", "auth", "password", "encryption", "exploit", "cve"}},
	{"development", []string{"code", "deploy", "build", "merge", "pull request", "commit", "release", "bug"}},
	{"business", []string{"meeting", "invoice", "contract", "client", "budget", "quarterly", "revenue"}},
	{"cloud", []string{"aws", "azure", "kubernetes", "docker", "serverless", "terraform", "cluster"}},
	{"data", []string{"database", "analytics", "pipeline", "dataset", "query", "warehouse", "model"}},
}

// Aggregate merges all present per-site contexts into a single analysis.
// It never errors: an empty or nil map yields the documented default
// analysis (medium risk, primary site "unknown", credential-harvest vector,
// personalization 0).
func Aggregate(contexts map[string]UserContext) Analysis {
	analysis := Analysis{
		RiskProfile:          RiskMedium,
		RiskScore:            defaults.ContextBaselineScore,
		PrimarySite:          "unknown",
		KeyContacts:          []string{},
		Topics:               []string{},
		SuggestedVectors:     []simulation.AttackType{simulation.AttackCredentialHarvest},
		PersonalizationScore: 0,
	}
	if len(contexts) == 0 {
		return analysis
	}

	analysis.RiskScore = riskScore(contexts)
	analysis.RiskProfile = profileFor(analysis.RiskScore)
	analysis.PrimarySite = primarySite(contexts)
	analysis.KeyContacts = keyContacts(contexts)
	analysis.Topics = topics(contexts)
	analysis.SuggestedVectors = suggestedVectors(contexts)
	analysis.PersonalizationScore = personalization(contexts)
	return analysis
}

// riskScore applies fixed increments to the baseline for high activity
// volume, a wide connection graph, and high-business-impact site membership.
func riskScore(contexts map[string]UserContext) int {
	score := defaults.ContextBaselineScore

	activities, connections := 0, 0
	highImpact := false
	for site, ctx := range contexts {
		activities += len(ctx.Activities)
		connections += len(ctx.Connections)
		if HighImpact(site) {
			highImpact = true
		}
	}
	if activities > defaults.HighActivityThreshold {
		score += defaults.ContextHighActivityBonus
	}
	if connections > defaults.WideGraphThreshold {
		score += defaults.ContextWideGraphBonus
	}
	if highImpact {
		score += defaults.ContextBusinessImpactBonus
	}
	return score
}

func profileFor(score int) RiskProfile {
	switch {
	case score >= defaults.RiskProfileHighMin:
		return RiskHigh
	case score >= defaults.RiskProfileMediumMin:
		return RiskMedium
	default:
		return RiskLow
	}
}

// primarySite is the site with the most recent activity items. Ties resolve
// by map iteration order, which is non-deterministic; equal-activity ties
// are rare enough in practice that this is acceptable.
func primarySite(contexts map[string]UserContext) string {
	best, bestCount := "unknown", -1
	for site, ctx := range contexts {
		if len(ctx.Activities) > bestCount {
			best, bestCount = site, len(ctx.Activities)
		}
	}
	return best
}

// keyContacts returns the first distinct connection names encountered,
// capped at defaults.MaxKeyContacts. Within a context the capture order is
// preserved; across contexts the order follows map iteration.
func keyContacts(contexts map[string]UserContext) []string {
	seen := make(map[string]bool)
	contacts := []string{}
	for _, ctx := range contexts {
		for _, conn := range ctx.Connections {
			name := strings.TrimSpace(conn.Name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			contacts = append(contacts, name)
			if len(contacts) == defaults.MaxKeyContacts {
				return contacts
			}
		}
	}
	return contacts
}

// topics scores activity text against each topic category and returns the
// top scorers, ties broken by category declaration order.
func topics(contexts map[string]UserContext) []string {
	scores := make([]int, len(topicCategories))
	for _, ctx := range contexts {
		for _, act := range ctx.Activities {
			text := strings.ToLower(act.Text)
			for i, cat := range topicCategories {
				for _, kw := range cat.keywords {
					if strings.Contains(text, kw) {
						scores[i]++
					}
				}
			}
		}
	}

	type scored struct {
		name  string
		score int
		order int
	}
	ranked := []scored{}
	for i, cat := range topicCategories {
		if scores[i] > 0 {
			ranked = append(ranked, scored{cat.name, scores[i], i})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	out := []string{}
	for i := 0; i < len(ranked) && i < defaults.MaxTopics; i++ {
		out = append(out, ranked[i].name)
	}
	return out
}

// suggestedVectors unions the per-site candidate lists, de-duplicated,
// falling back to credential harvesting when nothing is present.
func suggestedVectors(contexts map[string]UserContext) []simulation.AttackType {
	seen := make(map[simulation.AttackType]bool)
	vectors := []simulation.AttackType{}
	for site := range contexts {
		for _, v := range VectorsFor(site) {
			if !seen[v] {
				seen[v] = true
				vectors = append(vectors, v)
			}
		}
	}
	if len(vectors) == 0 {
		return []simulation.AttackType{simulation.AttackCredentialHarvest}
	}
	return vectors
}

// personalization is the ratio of populated identity fields to the maximum
// possible across all contexts, as a rounded 0-100 score.
func personalization(contexts map[string]UserContext) int {
	populated := 0
	for _, ctx := range contexts {
		for _, f := range []string{ctx.Handle, ctx.FullName, ctx.Email, ctx.Organization} {
			if strings.TrimSpace(f) != "" {
				populated++
			}
		}
	}
	denom := defaults.PersonalFieldsPerContext * len(contexts)
	if denom == 0 {
		return 0
	}
	return int(math.Round(float64(populated) / float64(denom) * 100))
}

// Timing returns the modal activity hour and weekday across all contexts.
// With no timestamps it defaults to 09:00 on Monday.
func Timing(contexts map[string]UserContext) TimingPattern {
	var hours [24]int
	var days [7]int
	total := 0
	for _, ctx := range contexts {
		for _, act := range ctx.Activities {
			if act.Timestamp.IsZero() {
				continue
			}
			hours[act.Timestamp.Hour()]++
			days[act.Timestamp.Weekday()]++
			total++
		}
	}
	if total == 0 {
		return TimingPattern{PeakHour: defaults.DefaultActiveHour, PeakWeekday: time.Monday}
	}

	pattern := TimingPattern{}
	for h, n := range hours {
		if n > hours[pattern.PeakHour] {
			pattern.PeakHour = h
		}
	}
	peakDay := 0
	for d, n := range days {
		if n > days[peakDay] {
			peakDay = d
		}
	}
	pattern.PeakWeekday = time.Weekday(peakDay)
	return pattern
}

// DetectAnomalies inspects a single context for suspicious structure:
// burst activity (adjacent timestamps under a second apart once sorted)
// and a most-recent activity at unusual local hours.
func DetectAnomalies(ctx UserContext) []Anomaly {
	anomalies := []Anomaly{}

	stamps := []time.Time{}
	for _, act := range ctx.Activities {
		if !act.Timestamp.IsZero() {
			stamps = append(stamps, act.Timestamp)
		}
	}
	if len(stamps) == 0 {
		return anomalies
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	for i := 1; i < len(stamps); i++ {
		if stamps[i].Sub(stamps[i-1]) < duration.BurstActivityGap {
			anomalies = append(anomalies, AnomalyBurstActivity)
			break
		}
	}

	latest := stamps[len(stamps)-1]
	if h := latest.Hour(); h < duration.UnusualHourStart || h >= duration.UnusualHourEnd {
		anomalies = append(anomalies, AnomalyUnusualHours)
	}
	return anomalies
}
