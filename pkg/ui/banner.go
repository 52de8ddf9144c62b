package ui

import (
	"fmt"

	"github.com/phishguard/phishguard/pkg/defaults"
)

// Banner renders the startup banner with the engine version.
func Banner() string {
	return TitleStyle.Render("PhishGuard") + " " +
		VersionStyle.Render("v"+defaults.Version) + " " +
		LabelStyle.Render("simulation & risk-detection engine") + "\n"
}

// UserAgent returns the standard agent string for outbound identification.
func UserAgent() string {
	return fmt.Sprintf("phishguard/%s", defaults.Version)
}

var VersionStyle = SuccessStyle
