package detection

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed allowlist.yaml
var embeddedAllowlist []byte

// Allowlist holds the known-legitimate domains and known link-shortener
// hosts the detector checks page URLs against.
type Allowlist struct {
	Domains    []string `yaml:"domains"`
	Shorteners []string `yaml:"shorteners"`
}

// DefaultAllowlist parses the embedded allow list. The embedded file is
// validated by tests, so a parse failure here is a build defect; it returns
// an empty list rather than panicking.
func DefaultAllowlist() *Allowlist {
	list, err := ParseAllowlist(embeddedAllowlist)
	if err != nil {
		return &Allowlist{}
	}
	return list
}

// ParseAllowlist loads an allow list from YAML, for deployments that
// override the embedded defaults.
func ParseAllowlist(data []byte) (*Allowlist, error) {
	var list Allowlist
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse allowlist: %w", err)
	}
	return &list, nil
}

// Known reports whether host matches an allow-listed domain exactly or as a
// subdomain.
func (a *Allowlist) Known(host string) bool {
	return matchHost(a.Domains, host)
}

// Shortener reports whether host is a known link shortener.
func (a *Allowlist) Shortener(host string) bool {
	return matchHost(a.Shorteners, host)
}

func matchHost(domains []string, host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return false
	}
	// Strip a port if present.
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	for _, d := range domains {
		d = strings.ToLower(d)
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
