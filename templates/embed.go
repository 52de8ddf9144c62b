// Package templates embeds the bundled lure template packs for
// distribution.
//
// This ensures template packs are available regardless of installation
// method. The planner falls back to these embedded packs when no on-disk
// pack directory is configured.
//
// Usage:
//
//	fs := templates.FS
//	data, _ := fs.ReadFile("lures/github.yaml")
package templates

import "embed"

// FS contains all bundled lure pack YAML files. Each file defines the
// template families for one target site, keyed by attack type; default.yaml
// is the universal fallback family.
//
//go:embed lures/*.yaml
var FS embed.FS
