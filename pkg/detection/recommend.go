package detection

// Recommendations maps an assessment to user-facing guidance strings.
// Deterministic given the assessment: the same factors always yield the
// same guidance in the same order.
func Recommendations(a Assessment) []string {
	recs := []string{}
	if a.CredentialEntry {
		recs = append(recs, "Do not enter your password on this page.")
	}

	for _, f := range a.Factors {
		switch f.Kind {
		case FactorInsecureProto:
			recs = append(recs, "Never enter passwords on pages served over an unencrypted connection.")
		case FactorUnknownDomain:
			recs = append(recs, "Check the address bar: this domain is not one of your known services.")
		case FactorIPLiteralHost:
			recs = append(recs, "Legitimate services do not ask for credentials at a raw network address.")
		case FactorLinkShortener:
			recs = append(recs, "Expand shortened links before trusting where they lead.")
		case FactorSuspiciousPath:
			recs = append(recs, "Navigate to the service directly instead of following verification links.")
		case FactorUrgencyLanguage:
			recs = append(recs, "Be suspicious of pages that press you to act immediately.")
		case FactorSpellingAnomaly:
			recs = append(recs, "Look closely at spelling: attackers imitate brands with lookalike characters.")
		case FactorFastCompletion, FactorLowPointer:
			recs = append(recs, "Slow down and inspect the page before submitting anything.")
		case FactorMalformedURL:
			recs = append(recs, "Close this page: its address is not well-formed.")
		}
	}

	recs = dedupe(recs)
	if len(recs) == 0 {
		recs = append(recs, "No specific risk indicators were found; stay alert for anything unusual.")
	}
	return recs
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
