package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/pkg/defaults"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunDispatch(t *testing.T) {
	assert.Equal(t, defaults.ExitUsage, run(nil))
	assert.Equal(t, defaults.ExitUsage, run([]string{"bogus"}))
	assert.Equal(t, defaults.ExitOK, run([]string{"version"}))
	assert.Equal(t, defaults.ExitOK, run([]string{"help"}))
}

func TestCmdAnalyze(t *testing.T) {
	path := writeFile(t, "contexts.json", `{
		"github.com": {
			"site": "github.com",
			"handle": "octocat",
			"organization": "Example Corp"
		}
	}`)
	assert.Equal(t, defaults.ExitOK, run([]string{"analyze", "-contexts", path, "-json"}))

	assert.Equal(t, defaults.ExitError, run([]string{"analyze"}))
	assert.Equal(t, defaults.ExitError, run([]string{"analyze", "-contexts", "/no/such/file"}))
}

func TestCmdDetectExitCodes(t *testing.T) {
	risky := writeFile(t, "risky.json", `{
		"page_url": "http://login-verify.example.xyz/verify-account",
		"form_fields": [{"name": "password", "kind": "password"}],
		"page_text": "Urgent: verify your account immediately or it will be suspended."
	}`)
	assert.Equal(t, defaults.ExitRisky, run([]string{"detect", "-input", risky}))

	clean := writeFile(t, "clean.json", `{
		"page_url": "https://github.com/settings",
		"form_fields": []
	}`)
	assert.Equal(t, defaults.ExitOK, run([]string{"detect", "-input", clean}))
}

func TestCmdPlan(t *testing.T) {
	ctx := writeFile(t, "context.json", `{"site": "github.com", "handle": "octocat"}`)
	assert.Equal(t, defaults.ExitOK, run([]string{
		"plan", "-site", "github.com", "-context", ctx,
		"-difficulty", "medium", "-seed", "42", "-json",
	}))

	assert.Equal(t, defaults.ExitError, run([]string{"plan"}))
}

func TestCmdRedTeam(t *testing.T) {
	assert.Equal(t, defaults.ExitOK, run([]string{
		"redteam",
		"-target", "alice",
		"-vector", "mfa_bypass",
		"-payload", "Approve the pending sign-in request.",
		"-json",
	}))

	assert.Equal(t, defaults.ExitError, run([]string{"redteam", "-target", "alice"}))
}

func TestCmdStats(t *testing.T) {
	events := writeFile(t, "events.json", `[
		{"user_id": "alice", "event": {"kind": "simulation_shown"}},
		{"user_id": "alice", "event": {"kind": "simulation_detected", "elapsed_ms": 12000}},
		{"user_id": "bob", "event": {"kind": "credential_entered"}}
	]`)
	assert.Equal(t, defaults.ExitOK, run([]string{"stats", "-events", events, "-json"}))
	assert.Equal(t, defaults.ExitOK, run([]string{"stats", "-events", events, "-user", "alice"}))
	assert.Equal(t, defaults.ExitError, run([]string{"stats", "-events", events, "-user", "carol"}))
	assert.Equal(t, defaults.ExitError, run([]string{"stats", "-events", events, "-policy", "ladder"}))
}
