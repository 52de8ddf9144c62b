package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedAllowlistParses(t *testing.T) {
	list := DefaultAllowlist()
	require.NotEmpty(t, list.Domains, "embedded allowlist must carry domains")
	require.NotEmpty(t, list.Shorteners, "embedded allowlist must carry shorteners")
}

func TestKnownMatching(t *testing.T) {
	list := &Allowlist{Domains: []string{"github.com", "google.com"}}

	assert.True(t, list.Known("github.com"))
	assert.True(t, list.Known("gist.github.com"))
	assert.True(t, list.Known("GitHub.com"))
	assert.False(t, list.Known("github.com.evil.test"))
	assert.False(t, list.Known("notgithub.com"))
	assert.False(t, list.Known(""))
}

func TestShortenerMatching(t *testing.T) {
	list := DefaultAllowlist()
	assert.True(t, list.Shortener("bit.ly"))
	assert.False(t, list.Shortener("github.com"))
}

func TestParseAllowlistRejectsGarbage(t *testing.T) {
	_, err := ParseAllowlist([]byte("{{{not yaml"))
	assert.Error(t, err)

	list, err := ParseAllowlist([]byte("domains:\n  - example.com\n"))
	require.NoError(t, err)
	assert.True(t, list.Known("example.com"))
}

func TestRecommendationsMapFactors(t *testing.T) {
	a := Assessment{
		CredentialEntry: true,
		Factors: []Factor{
			{Kind: FactorInsecureProto, Severity: SeverityHigh},
			{Kind: FactorUnknownDomain, Severity: SeverityMedium},
		},
	}
	recs := Recommendations(a)

	assert.Contains(t, recs, "Do not enter your password on this page.")
	assert.Contains(t, recs, "Never enter passwords on pages served over an unencrypted connection.")
	assert.Contains(t, recs, "Check the address bar: this domain is not one of your known services.")
}

func TestRecommendationsDefault(t *testing.T) {
	recs := Recommendations(Assessment{})
	require.Len(t, recs, 1)
	assert.Contains(t, recs[0], "stay alert")
}
