package usercontext

import (
	"strings"

	"github.com/phishguard/phishguard/pkg/simulation"
)

// SiteCategory groups target sites by the kind of service they provide.
type SiteCategory string

const (
	CategoryDevelopment  SiteCategory = "development"
	CategoryProfessional SiteCategory = "professional"
	CategoryWebmail      SiteCategory = "webmail"
	CategoryChat         SiteCategory = "chat"
	CategoryCloud        SiteCategory = "cloud"
	CategoryUnknown      SiteCategory = "unknown"
)

// siteCategories maps known site hosts to their category. Matching is by
// exact host or registrable-domain suffix.
var siteCategories = map[string]SiteCategory{
	"github.com":        CategoryDevelopment,
	"gitlab.com":        CategoryDevelopment,
	"bitbucket.org":     CategoryDevelopment,
	"linkedin.com":      CategoryProfessional,
	"mail.google.com":   CategoryWebmail,
	"outlook.office.com": CategoryWebmail,
	"outlook.live.com":  CategoryWebmail,
	"slack.com":         CategoryChat,
	"teams.microsoft.com": CategoryChat,
	"console.aws.amazon.com": CategoryCloud,
	"portal.azure.com":  CategoryCloud,
}

// highImpactCategories are site categories whose compromise carries elevated
// business impact; membership adds to the aggregate risk profile.
var highImpactCategories = map[SiteCategory]bool{
	CategoryProfessional: true,
	CategoryWebmail:      true,
	CategoryCloud:        true,
}

// siteVectors lists the candidate attack vectors per site category. The
// planner weights its selection over the list for the user's primary site.
var siteVectors = map[SiteCategory][]simulation.AttackType{
	CategoryDevelopment: {
		simulation.AttackCredentialHarvest,
		simulation.AttackOAuthConsent,
		simulation.AttackSessionHijack,
		simulation.AttackClipboardHijack,
	},
	CategoryProfessional: {
		simulation.AttackCredentialHarvest,
		simulation.AttackOAuthConsent,
		simulation.AttackDownloadLure,
	},
	CategoryWebmail: {
		simulation.AttackCredentialHarvest,
		simulation.AttackMFABypass,
		simulation.AttackDownloadLure,
	},
	CategoryChat: {
		simulation.AttackCredentialHarvest,
		simulation.AttackSessionHijack,
		simulation.AttackDownloadLure,
	},
	CategoryCloud: {
		simulation.AttackCredentialHarvest,
		simulation.AttackMFABypass,
		simulation.AttackOAuthConsent,
	},
	// Unknown sites get the minimal neutral set.
	CategoryUnknown: {
		simulation.AttackCredentialHarvest,
	},
}

// Classify returns the category for a site host. Unrecognized hosts
// classify as unknown rather than erroring.
func Classify(site string) SiteCategory {
	host := strings.ToLower(strings.TrimSpace(site))
	if host == "" {
		return CategoryUnknown
	}
	if cat, ok := siteCategories[host]; ok {
		return cat
	}
	for known, cat := range siteCategories {
		if strings.HasSuffix(host, "."+known) {
			return cat
		}
	}
	return CategoryUnknown
}

// HighImpact reports whether a site belongs to a category flagged as
// higher business impact.
func HighImpact(site string) bool {
	return highImpactCategories[Classify(site)]
}

// VectorsFor returns the candidate attack vectors for a site. Never empty:
// unknown sites fall back to credential harvesting.
func VectorsFor(site string) []simulation.AttackType {
	vectors := siteVectors[Classify(site)]
	out := make([]simulation.AttackType, len(vectors))
	copy(out, vectors)
	return out
}
