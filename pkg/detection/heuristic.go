package detection

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/phishguard/phishguard/pkg/defaults"
	"github.com/phishguard/phishguard/pkg/regexcache"
)

// suspiciousPathPattern matches verify/confirm/secure-login style phrasing
// in URL paths, a staple of credential-harvest landing pages.
const suspiciousPathPattern = `(?i)(verify|confirm|validate|secure[-_]?(login|signin|account)|re-?auth|unlock|restore)`

// urgencyKeywords pressure the user into acting before thinking. Each hit
// adds a bounded increment to the confidence score.
var urgencyKeywords = []string{
	"urgent", "immediately", "expire", "suspended", "locked",
	"verify now", "act now", "limited time", "final notice", "within 24 hours",
}

// securityKeywords appear on legitimate login pages too, so only density
// beyond a small baseline contributes.
var securityKeywords = []string{
	"password", "account", "security", "login", "sign in",
	"verify", "authenticate", "credential",
}

// spellingAnomalies are lookalike misspellings of security-relevant terms
// that legitimate pages do not contain.
var spellingAnomalies = []string{
	"paypa1", "g00gle", "micros0ft", "amaz0n", "app1e",
	"verfiy", "securty", "acount", "passw0rd", "loginn",
}

// Heuristic is the mandatory rule-based scorer. Each signal contributes a
// fixed or bounded weight; the sum is clamped to [0, 1] by the Detector.
type Heuristic struct {
	allowlist *Allowlist
}

// NewHeuristic creates the rule-based scorer. A nil allowlist uses the
// embedded default.
func NewHeuristic(allowlist *Allowlist) *Heuristic {
	if allowlist == nil {
		allowlist = DefaultAllowlist()
	}
	regexcache.Warm(suspiciousPathPattern)
	return &Heuristic{allowlist: allowlist}
}

// Name identifies the scorer in assessments and logs.
func (h *Heuristic) Name() string { return "heuristic" }

// Score computes the raw confidence and the discovered factors for one
// input. It never returns an error; malformed input becomes a risk signal.
func (h *Heuristic) Score(_ context.Context, in Input) (float64, []Factor, error) {
	score := 0.0
	var factors []Factor
	add := func(w float64, f Factor) {
		score += w
		factors = append(factors, f)
	}

	if in.HasPasswordField() {
		add(defaults.WeightPasswordField, Factor{
			Kind:     FactorPasswordField,
			Severity: SeverityHigh,
			Reason:   "page contains a password-capable input field",
		})
	}

	score, factors = h.scoreURL(in.PageURL, score, factors)

	text := strings.ToLower(in.PageTitle + " " + in.PageText)

	if hits := countHits(text, urgencyKeywords); hits > 0 {
		w := min(float64(hits)*defaults.WeightUrgencyPerHit, defaults.WeightUrgencyMax)
		add(w, Factor{
			Kind:     FactorUrgencyLanguage,
			Severity: SeverityMedium,
			Reason:   fmt.Sprintf("page text uses %d urgency phrase(s) pressuring immediate action", hits),
		})
	}

	if hits := countHits(text, securityKeywords); hits > defaults.SecurityKeywordBaseline {
		extra := hits - defaults.SecurityKeywordBaseline
		w := min(float64(extra)*defaults.WeightSecurityPerHit, defaults.WeightSecurityDensityMax)
		add(w, Factor{
			Kind:     FactorSecurityDensity,
			Severity: SeverityLow,
			Reason:   fmt.Sprintf("security-keyword density is elevated (%d occurrences)", hits),
		})
	}

	if hits := countHits(text, spellingAnomalies); hits > 0 {
		add(defaults.WeightSpellingAnomaly, Factor{
			Kind:     FactorSpellingAnomaly,
			Severity: SeverityLow,
			Reason:   "security-relevant terms appear with lookalike misspellings",
		})
	}

	b := in.Behavior
	if b.FormInteractions > 0 && b.TimeOnPageMs > 0 && b.TimeOnPageMs < defaults.FastCompletionMaxMs {
		add(defaults.WeightFastCompletion, Factor{
			Kind:     FactorFastCompletion,
			Severity: SeverityLow,
			Reason:   "form activity began unusually fast after page load",
		})
	}
	if b.Keystrokes > 10 && float64(b.PointerMoves) < float64(b.Keystrokes)*defaults.PointerKeystrokeRatioMin {
		add(defaults.WeightLowPointerRatio, Factor{
			Kind:     FactorLowPointer,
			Severity: SeverityLow,
			Reason:   "typing activity with almost no pointer movement",
		})
	}

	return score, factors, nil
}

// scoreURL evaluates all URL-derived signals. A malformed URL is itself a
// high-risk signal, never an error.
func (h *Heuristic) scoreURL(raw string, score float64, factors []Factor) (float64, []Factor) {
	add := func(w float64, f Factor) {
		score += w
		factors = append(factors, f)
	}

	if strings.TrimSpace(raw) == "" {
		return score, factors
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		add(defaults.WeightMalformedURL, Factor{
			Kind:     FactorMalformedURL,
			Severity: SeverityHigh,
			Reason:   "page URL could not be parsed",
		})
		return score, factors
	}

	if u.Scheme != "https" {
		add(defaults.WeightInsecureTransport, Factor{
			Kind:     FactorInsecureProto,
			Severity: SeverityHigh,
			Reason:   "page is served over an unencrypted connection",
		})
	}

	host := u.Hostname()
	switch {
	case net.ParseIP(host) != nil:
		add(defaults.WeightIPLiteralHost, Factor{
			Kind:     FactorIPLiteralHost,
			Severity: SeverityHigh,
			Reason:   "URL uses a literal network address instead of a hostname",
		})
	case h.allowlist.Shortener(host):
		add(defaults.WeightShortenerHost, Factor{
			Kind:     FactorLinkShortener,
			Severity: SeverityMedium,
			Reason:   fmt.Sprintf("host %s is a known link shortener", host),
		})
	}

	if !h.allowlist.Known(host) && net.ParseIP(host) == nil {
		add(defaults.WeightUnknownHost, Factor{
			Kind:     FactorUnknownDomain,
			Severity: SeverityMedium,
			Reason:   fmt.Sprintf("host %s is not a known legitimate domain", host),
		})
	}

	if re := regexcache.MustGet(suspiciousPathPattern); re.MatchString(u.Path) {
		add(defaults.WeightSuspiciousPath, Factor{
			Kind:     FactorSuspiciousPath,
			Severity: SeverityMedium,
			Reason:   "URL path uses verify/confirm style phrasing",
		})
	}

	return score, factors
}

// countHits counts keyword occurrences in text. Multi-occurrence keywords
// count once per keyword, not per occurrence, to keep the bound meaningful.
func countHits(text string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			hits++
		}
	}
	return hits
}
