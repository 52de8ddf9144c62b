// Package lure loads the simulation template packs and personalizes their
// content from aggregated user context. Packs are YAML files keyed by
// target site and attack type; a universal default pack guarantees every
// site/type pairing resolves to at least one template.
package lure

import (
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/usercontext"
	"github.com/phishguard/phishguard/templates"
)

// ErrEmptyCatalog is returned when no pack in the source filesystem could
// be loaded.
var ErrEmptyCatalog = fmt.Errorf("lure: no template packs loaded")

// defaultSite keys the universal fallback pack.
const defaultSite = "default"

// Template is one lure template. Text fields may contain Go template
// placeholders over the personalization data.
type Template struct {
	ID              string                 `yaml:"id"`
	Title           string                 `yaml:"title"`
	Body            string                 `yaml:"body"`
	SenderName      string                 `yaml:"sender_name"`
	SenderAddress   string                 `yaml:"sender_address"`
	CallToAction    string                 `yaml:"call_to_action"`
	CallToActionURL string                 `yaml:"call_to_action_url"`
	Placements      []simulation.Placement `yaml:"placements"`
	Theme           string                 `yaml:"theme"`
	Urgencies       []simulation.Urgency   `yaml:"urgencies"`
}

// pack is one site's template file.
type pack struct {
	Site     string                `yaml:"site"`
	Families map[string][]Template `yaml:"families"`
}

// Catalog is the loaded template table. Lookups never fail: unknown sites
// and missing families resolve to the default pack's credential-harvest
// family.
type Catalog struct {
	packs  map[string]map[simulation.AttackType][]Template
	logger *slog.Logger
}

// Load builds a catalog from the embedded template packs.
func Load(logger *slog.Logger) (*Catalog, error) {
	return LoadFS(templates.FS, logger)
}

// LoadFS builds a catalog from an arbitrary filesystem carrying
// lures/*.yaml packs, for deployments that override the embedded set.
func LoadFS(source fs.FS, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		packs:  make(map[string]map[simulation.AttackType][]Template),
		logger: logger,
	}

	paths, err := fs.Glob(source, "lures/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("lure: glob packs: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(source, path)
		if err != nil {
			return nil, fmt.Errorf("lure: read %s: %w", path, err)
		}
		var p pack
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("lure: parse %s: %w", path, err)
		}
		if p.Site == "" || len(p.Families) == 0 {
			logger.Warn("lure: skipping pack without site or families", "path", path)
			continue
		}

		families := make(map[simulation.AttackType][]Template, len(p.Families))
		for name, tmpls := range p.Families {
			at := simulation.AttackType(name)
			if !at.Valid() {
				logger.Warn("lure: skipping unknown attack type family", "path", path, "family", name)
				continue
			}
			kept := make([]Template, 0, len(tmpls))
			for _, tmpl := range tmpls {
				if len(tmpl.Placements) == 0 {
					logger.Warn("lure: skipping template without placements",
						"path", path, "template", tmpl.ID)
					continue
				}
				kept = append(kept, tmpl)
			}
			if len(kept) == 0 {
				logger.Warn("lure: skipping empty template family", "path", path, "family", name)
				continue
			}
			families[at] = kept
		}
		c.packs[p.Site] = families
	}

	if len(c.packs) == 0 {
		return nil, ErrEmptyCatalog
	}
	if len(c.packs[defaultSite][simulation.AttackCredentialHarvest]) == 0 {
		return nil, fmt.Errorf("lure: catalog is missing the %q credential-harvest fallback family", defaultSite)
	}
	return c, nil
}

// packSiteFor maps a target site to the pack that covers its category.
func packSiteFor(site string) string {
	switch usercontext.Classify(site) {
	case usercontext.CategoryDevelopment:
		return "github.com"
	case usercontext.CategoryProfessional:
		return "linkedin.com"
	case usercontext.CategoryWebmail:
		return "mail.google.com"
	default:
		return defaultSite
	}
}

// Find returns the template family for a site/type pairing. When the
// pairing has no family, it falls back to the default pack's
// credential-harvest family and reports the attack type actually served.
func (c *Catalog) Find(site string, at simulation.AttackType) ([]Template, simulation.AttackType) {
	packSite := packSiteFor(site)
	if families, ok := c.packs[packSite]; ok {
		if tmpls, ok := families[at]; ok && len(tmpls) > 0 {
			return tmpls, at
		}
	}

	c.logger.Debug("lure: no template family for pairing, using fallback",
		"site", site, "attack_type", string(at))
	fallback := c.packs[defaultSite][simulation.AttackCredentialHarvest]
	return fallback, simulation.AttackCredentialHarvest
}

// Sites returns the pack keys, for diagnostics.
func (c *Catalog) Sites() []string {
	sites := make([]string, 0, len(c.packs))
	for site := range c.packs {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}
