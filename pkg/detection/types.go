// Package detection scores a point-in-time page/form/behavior snapshot for
// credential-theft risk. It combines a mandatory rule-based scorer with an
// optional model-backed scorer behind one interface; detection never fails
// outright, it degrades to the heuristic path.
package detection

import "time"

// FieldKind describes a form field's input type as reported by the
// collaborator that scraped the page.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldPassword FieldKind = "password"
	FieldHidden   FieldKind = "hidden"
	FieldOther    FieldKind = "other"
)

// FormField is one form-field descriptor from the page snapshot.
type FormField struct {
	Kind       FieldKind `json:"kind"`
	Name       string    `json:"name"`
	IsPassword bool      `json:"is_password"`
	IsHidden   bool      `json:"is_hidden"`
}

// Behavior carries the behavioral counters captured alongside the page.
type Behavior struct {
	TimeOnPageMs     int64 `json:"time_on_page_ms"`
	PointerMoves     int   `json:"pointer_moves"`
	Keystrokes       int   `json:"keystrokes"`
	FormInteractions int   `json:"form_interactions"`
}

// Input is the snapshot a single analyze call scores. No credential values
// ever appear here; field descriptors carry structure only, and nothing
// from an Input is retained past the call.
type Input struct {
	FormFields []FormField `json:"form_fields"`
	PageURL    string      `json:"page_url"`
	PageTitle  string      `json:"page_title"`
	PageText   string      `json:"page_text"`
	Behavior   Behavior    `json:"behavior"`
	Timestamp  time.Time   `json:"timestamp"`
}

// HasPasswordField reports whether any field descriptor is
// password-capable.
func (in Input) HasPasswordField() bool {
	for _, f := range in.FormFields {
		if f.IsPassword || f.Kind == FieldPassword {
			return true
		}
	}
	return false
}

// Severity ranks a risk factor's weight class.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns the sort weight of a severity, higher first.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// FactorKind identifies a single explainable detection signal.
type FactorKind string

const (
	FactorPasswordField   FactorKind = "password_field"
	FactorInsecureProto   FactorKind = "insecure_protocol"
	FactorUnknownDomain   FactorKind = "unknown_domain"
	FactorIPLiteralHost   FactorKind = "ip_literal_host"
	FactorLinkShortener   FactorKind = "link_shortener"
	FactorSuspiciousPath  FactorKind = "suspicious_path"
	FactorUrgencyLanguage FactorKind = "urgency_language"
	FactorSecurityDensity FactorKind = "security_keyword_density"
	FactorSpellingAnomaly FactorKind = "spelling_anomaly"
	FactorFastCompletion  FactorKind = "fast_completion"
	FactorLowPointer      FactorKind = "low_pointer_activity"
	FactorMalformedURL    FactorKind = "malformed_url"
)

// Factor is one explainable contributor to the confidence score.
type Factor struct {
	Kind     FactorKind `json:"kind"`
	Severity Severity   `json:"severity"`
	Reason   string     `json:"reason"`
}

// Assessment is the result of scoring one Input. Factors are ranked by
// severity (high > medium > low, ties by discovery order) and truncated to
// the top contributors.
type Assessment struct {
	CredentialEntry bool      `json:"credential_entry"`
	Confidence      float64   `json:"confidence"`
	Factors         []Factor  `json:"factors"`
	ScoredBy        string    `json:"scored_by"`
	Timestamp       time.Time `json:"timestamp"`
}

// HasFactor reports whether the assessment includes a factor of the given
// kind.
func (a Assessment) HasFactor(kind FactorKind) bool {
	for _, f := range a.Factors {
		if f.Kind == kind {
			return true
		}
	}
	return false
}
