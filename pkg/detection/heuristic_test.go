package detection

import (
	"context"
	"strings"
	"testing"

	"github.com/phishguard/phishguard/pkg/defaults"
)

func scoreOf(t *testing.T, in Input) (float64, []Factor) {
	t.Helper()
	score, factors, err := NewHeuristic(nil).Score(context.Background(), in)
	if err != nil {
		t.Fatalf("Score returned error: %v", err)
	}
	return score, factors
}

func hasKind(factors []Factor, kind FactorKind) bool {
	for _, f := range factors {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// TestPasswordFieldWeight verifies the password-field signal contributes
// its full high-severity weight.
func TestPasswordFieldWeight(t *testing.T) {
	in := Input{
		FormFields: []FormField{{Kind: FieldPassword, Name: "pass", IsPassword: true}},
		PageURL:    "https://github.com/login",
	}
	score, factors := scoreOf(t, in)

	if !hasKind(factors, FactorPasswordField) {
		t.Error("expected password_field factor")
	}
	if score < 0.25 || score > 0.35 {
		t.Errorf("password-only score = %.2f, want within [0.25, 0.35]", score)
	}
}

// TestInsecureTransport verifies plain HTTP is flagged high severity.
func TestInsecureTransport(t *testing.T) {
	_, factors := scoreOf(t, Input{PageURL: "http://github.com/login"})
	if !hasKind(factors, FactorInsecureProto) {
		t.Error("expected insecure_protocol factor for http URL")
	}

	_, factors = scoreOf(t, Input{PageURL: "https://github.com/login"})
	if hasKind(factors, FactorInsecureProto) {
		t.Error("unexpected insecure_protocol factor for https URL")
	}
}

// TestUnknownDomain verifies allow-list matching is exact-or-subdomain.
func TestUnknownDomain(t *testing.T) {
	_, factors := scoreOf(t, Input{PageURL: "https://gist.github.com/x"})
	if hasKind(factors, FactorUnknownDomain) {
		t.Error("subdomain of allow-listed domain flagged as unknown")
	}

	_, factors = scoreOf(t, Input{PageURL: "https://github.com.evil.example/x"})
	if !hasKind(factors, FactorUnknownDomain) {
		t.Error("lookalike suffix domain not flagged as unknown")
	}
}

// TestIPLiteralAndShortener verifies network-address and shortener hosts.
func TestIPLiteralAndShortener(t *testing.T) {
	_, factors := scoreOf(t, Input{PageURL: "https://192.168.4.20/login"})
	if !hasKind(factors, FactorIPLiteralHost) {
		t.Error("expected ip_literal_host factor")
	}
	if hasKind(factors, FactorUnknownDomain) {
		t.Error("IP literal should not also be flagged as unknown domain")
	}

	_, factors = scoreOf(t, Input{PageURL: "https://bit.ly/3xYz"})
	if !hasKind(factors, FactorLinkShortener) {
		t.Error("expected link_shortener factor")
	}
}

// TestSuspiciousPath verifies verify/confirm style path phrasing.
func TestSuspiciousPath(t *testing.T) {
	for _, path := range []string{"/verify-account", "/secure-login", "/confirm/identity", "/reauth"} {
		_, factors := scoreOf(t, Input{PageURL: "https://example.com" + path})
		if !hasKind(factors, FactorSuspiciousPath) {
			t.Errorf("path %q not flagged as suspicious", path)
		}
	}

	_, factors := scoreOf(t, Input{PageURL: "https://example.com/blog/post-1"})
	if hasKind(factors, FactorSuspiciousPath) {
		t.Error("benign path flagged as suspicious")
	}
}

// TestUrgencyDensityBounded verifies the urgency contribution scales with
// hits but stays within its cap.
func TestUrgencyDensityBounded(t *testing.T) {
	one, _ := scoreOf(t, Input{PageText: "please act urgent"})
	many, _ := scoreOf(t, Input{PageText: "urgent! act now, account suspended, expires immediately, final notice"})

	if many <= one {
		t.Errorf("more urgency hits should score higher: one=%.2f many=%.2f", one, many)
	}
	if many > 0.15+0.001 {
		t.Errorf("urgency-only score %.2f exceeds its 0.15 cap", many)
	}
}

// TestSecurityDensityBaseline verifies a small number of security keywords
// does not contribute.
func TestSecurityDensityBaseline(t *testing.T) {
	_, factors := scoreOf(t, Input{PageText: "login to your account"})
	if hasKind(factors, FactorSecurityDensity) {
		t.Error("baseline security-keyword count should not contribute")
	}

	_, factors = scoreOf(t, Input{
		PageText: "password account security login verify authenticate credential",
	})
	if !hasKind(factors, FactorSecurityDensity) {
		t.Error("elevated security-keyword density not flagged")
	}
}

// TestSpellingAnomalies verifies lookalike misspellings are flagged.
func TestSpellingAnomalies(t *testing.T) {
	_, factors := scoreOf(t, Input{PageText: "sign in to your paypa1 account"})
	if !hasKind(factors, FactorSpellingAnomaly) {
		t.Error("expected spelling_anomaly factor")
	}
}

// TestBehavioralSignals verifies the two low-severity behavioral factors.
func TestBehavioralSignals(t *testing.T) {
	_, factors := scoreOf(t, Input{
		Behavior: Behavior{TimeOnPageMs: 2000, FormInteractions: 3},
	})
	if !hasKind(factors, FactorFastCompletion) {
		t.Error("expected fast_completion factor")
	}

	score, factors := scoreOf(t, Input{
		Behavior: Behavior{Keystrokes: 40, PointerMoves: 5, TimeOnPageMs: 60000},
	})
	if !hasKind(factors, FactorLowPointer) {
		t.Error("expected low_pointer_activity factor")
	}
	if score != defaults.WeightLowPointerRatio {
		t.Errorf("low-pointer score = %v, want %v", score, defaults.WeightLowPointerRatio)
	}
}

// TestMalformedURLIsSignalNotError verifies a bad URL scores as risk.
func TestMalformedURLIsSignalNotError(t *testing.T) {
	score, factors := scoreOf(t, Input{PageURL: "://not a url at all"})
	if !hasKind(factors, FactorMalformedURL) {
		t.Error("expected malformed_url factor")
	}
	if score <= 0 {
		t.Errorf("malformed URL should contribute risk, score = %.2f", score)
	}
}

// TestEmptyInputScoresZero verifies the absent-input policy.
func TestEmptyInputScoresZero(t *testing.T) {
	score, factors := scoreOf(t, Input{})
	if score != 0 {
		t.Errorf("empty input score = %.2f, want 0", score)
	}
	if len(factors) != 0 {
		t.Errorf("empty input produced %d factors, want 0", len(factors))
	}
}

// TestReasonStringsPopulated verifies every factor carries a human-readable
// reason.
func TestReasonStringsPopulated(t *testing.T) {
	in := Input{
		FormFields: []FormField{{IsPassword: true}},
		PageURL:    "http://10.0.0.1/verify-account",
		PageText:   "urgent: verfiy your passw0rd immediately",
		Behavior:   Behavior{TimeOnPageMs: 1000, FormInteractions: 1, Keystrokes: 30},
	}
	_, factors := scoreOf(t, in)
	for _, f := range factors {
		if strings.TrimSpace(f.Reason) == "" {
			t.Errorf("factor %s has empty reason", f.Kind)
		}
	}
}
