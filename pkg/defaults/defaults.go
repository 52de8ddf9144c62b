// Package defaults provides canonical default values for the entire codebase.
// This is the SINGLE SOURCE OF TRUTH for all scoring weights, thresholds, and
// runtime tunables.
//
// Usage:
//
//	score += defaults.WeightPasswordField
//	if score >= defaults.RiskProfileHighMin { ... }
//	planner.SessionCap = defaults.SessionSimulationCap
//
// DO NOT use hardcoded values like `threshold := 0.75` anywhere.
// Instead, reference the appropriate constant from this package.
package defaults

// Version is the current PhishGuard engine version
const Version = "1.2.0"

// ============================================================================
// CONTEXT AGGREGATION
// ============================================================================
//
// Weights and thresholds used when merging per-site user contexts into a
// single risk profile.
// ============================================================================

const (
	// ContextBaselineScore is the starting risk-profile score (50)
	ContextBaselineScore = 50

	// ContextHighActivityBonus is added when a context carries a high
	// activity volume (15)
	ContextHighActivityBonus = 15

	// ContextWideGraphBonus is added when the connection graph is wide (15)
	ContextWideGraphBonus = 15

	// ContextBusinessImpactBonus is added for membership in a site category
	// with elevated business impact (20)
	ContextBusinessImpactBonus = 20

	// HighActivityThreshold is the recent-activity count above which a
	// context counts as high volume (10)
	HighActivityThreshold = 10

	// WideGraphThreshold is the connection count above which a context
	// counts as a wide graph (50)
	WideGraphThreshold = 50

	// RiskProfileHighMin is the minimum aggregate score for a "high"
	// risk profile (70)
	RiskProfileHighMin = 70

	// RiskProfileMediumMin is the minimum aggregate score for a "medium"
	// risk profile (40)
	RiskProfileMediumMin = 40

	// MaxKeyContacts is the number of distinct contacts retained in an
	// analysis (5)
	MaxKeyContacts = 5

	// MaxTopics is the number of topic categories retained (3)
	MaxTopics = 3

	// PersonalFieldsPerContext is the identity-field count used as the
	// personalization denominator (4)
	PersonalFieldsPerContext = 4

	// DefaultActiveHour is the assumed peak activity hour when no
	// timestamps exist (9)
	DefaultActiveHour = 9
)

// ============================================================================
// RISK DETECTION
// ============================================================================
//
// Additive signal weights for the credential-theft detector. The summed
// score is clamped to [0, 1] before the verdict check.
// ============================================================================

const (
	// WeightPasswordField scores a password-capable form field (0.3)
	WeightPasswordField = 0.3

	// WeightInsecureTransport scores a non-HTTPS page URL (0.2)
	WeightInsecureTransport = 0.2

	// WeightUnknownHost scores a host absent from the legitimate-domain
	// allow list (0.15)
	WeightUnknownHost = 0.15

	// WeightIPLiteralHost scores a literal IP address in place of a
	// hostname (0.2)
	WeightIPLiteralHost = 0.2

	// WeightShortenerHost scores a known link-shortener host (0.15)
	WeightShortenerHost = 0.15

	// WeightSuspiciousPath scores verify/confirm/secure-login style path
	// phrasing (0.1)
	WeightSuspiciousPath = 0.1

	// WeightUrgencyMax caps the urgency-keyword density contribution (0.15)
	WeightUrgencyMax = 0.15

	// WeightUrgencyPerHit is the per-keyword urgency contribution (0.05)
	WeightUrgencyPerHit = 0.05

	// WeightSecurityDensityMax caps the elevated security-keyword
	// contribution (0.1)
	WeightSecurityDensityMax = 0.1

	// WeightSecurityPerHit is the per-keyword security contribution beyond
	// the baseline (0.025)
	WeightSecurityPerHit = 0.025

	// SecurityKeywordBaseline is the security-keyword count considered
	// normal for a legitimate page (2)
	SecurityKeywordBaseline = 2

	// WeightSpellingAnomaly scores suspected misspellings of
	// security-relevant terms (0.05)
	WeightSpellingAnomaly = 0.05

	// WeightFastCompletion scores rapid form interaction on a fresh
	// page (0.05)
	WeightFastCompletion = 0.05

	// WeightLowPointerRatio scores keystroke activity with almost no
	// pointer movement (0.05)
	WeightLowPointerRatio = 0.05

	// WeightMalformedURL scores an unparseable page URL (0.2)
	WeightMalformedURL = 0.2

	// DetectionThreshold is the confidence above which a credential-entry
	// verdict fires, given a password-capable field (0.75)
	DetectionThreshold = 0.75

	// MaxRiskFactors is the maximum number of factors reported per
	// assessment (5)
	MaxRiskFactors = 5

	// FastCompletionMaxMs is the time-on-page below which form activity
	// counts as suspiciously fast (5000)
	FastCompletionMaxMs = 5000

	// PointerKeystrokeRatioMin is the pointer-movement-per-keystroke ratio
	// below which behavior looks scripted or coerced (0.5)
	PointerKeystrokeRatioMin = 0.5
)

// ============================================================================
// SIMULATION PLANNING
// ============================================================================

const (
	// TriggerBaseProbability is the floor probability for a randomized
	// simulation trigger (0.2)
	TriggerBaseProbability = 0.2

	// TriggerMaxProbability caps the trigger probability regardless of
	// context richness (0.6)
	TriggerMaxProbability = 0.6

	// ContextFactorIncrement is added per populated context field group (0.1)
	ContextFactorIncrement = 0.1

	// ContextFactorMax caps the summed context factor (0.4)
	ContextFactorMax = 0.4

	// SessionSimulationCap is the maximum simulations per session (5)
	SessionSimulationCap = 5
)

// ============================================================================
// PROGRESSION TRACKING
// ============================================================================
//
// Signed risk-score deltas applied per training event. The score is
// re-clamped to [RiskScoreMin, RiskScoreMax] after every update.
// ============================================================================

const (
	// RiskScoreMin is the risk-score floor (0)
	RiskScoreMin = 0

	// RiskScoreMax is the risk-score ceiling (100)
	RiskScoreMax = 100

	// RiskScoreBaseline is the neutral starting score for a new user (50)
	RiskScoreBaseline = 50

	// DeltaCredentialEntered is applied when a user submits credentials to
	// a simulation (+50)
	DeltaCredentialEntered = 50

	// DeltaLinkClicked is applied when a user follows a simulated lure (+25)
	DeltaLinkClicked = 25

	// DeltaSimulationDetected is applied when a user spots a simulation (-20)
	DeltaSimulationDetected = -20

	// DeltaReportedPhishing is applied when a user actively reports a
	// simulation as phishing (-30)
	DeltaReportedPhishing = -30

	// PromoteStreak is the consecutive-detection count that advances the
	// difficulty level under the default policy (3)
	PromoteStreak = 3

	// DemoteStreak is the consecutive-failure count that lowers the
	// difficulty level under the default policy (2)
	DemoteStreak = 2

	// DedupeRingSize bounds the event-ID dedup window at the sync
	// boundary (4096)
	DedupeRingSize = 4096
)

// ============================================================================
// EXIT CODES
// ============================================================================

const (
	// ExitOK indicates success (0)
	ExitOK = 0

	// ExitError indicates a runtime failure (1)
	ExitError = 1

	// ExitUsage indicates invalid flags or arguments (2)
	ExitUsage = 2

	// ExitRisky indicates the analyzed input crossed the detection
	// threshold (3)
	ExitRisky = 3
)
