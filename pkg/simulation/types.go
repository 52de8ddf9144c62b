// Package simulation defines the data model for planned phishing
// simulations. This is the SINGLE SOURCE OF TRUTH for the simulation
// structure exchanged with the injection collaborator; the planner produces
// it and the page-injection layer consumes it unchanged.
package simulation

import (
	"time"

	"github.com/phishguard/phishguard/pkg/trigger"
)

// AttackType is the closed set of simulated attack categories.
type AttackType string

const (
	AttackCredentialHarvest AttackType = "credential_harvest"
	AttackOAuthConsent      AttackType = "oauth_consent"
	AttackMFABypass         AttackType = "mfa_bypass"
	AttackSessionHijack     AttackType = "session_hijack"
	AttackClipboardHijack   AttackType = "clipboard_hijack"
	AttackDownloadLure      AttackType = "download_lure"
)

// attackSophistication orders attack types from least to most sophisticated.
// Difficulty-weighted selection biases toward the high end of this order.
var attackSophistication = map[AttackType]int{
	AttackCredentialHarvest: 1,
	AttackDownloadLure:      2,
	AttackClipboardHijack:   3,
	AttackSessionHijack:     4,
	AttackMFABypass:         5,
	AttackOAuthConsent:      6,
}

// Valid reports whether t is a known attack type.
func (t AttackType) Valid() bool {
	_, ok := attackSophistication[t]
	return ok
}

// Sophistication returns the relative sophistication rank of the attack
// type, higher meaning harder to recognize. Unknown types rank 0.
func (t AttackType) Sophistication() int {
	return attackSophistication[t]
}

// TrainingObjective returns the learning goal a simulation of this type
// exercises. Stamped into metadata so reporting can group outcomes.
func (t AttackType) TrainingObjective() string {
	switch t {
	case AttackCredentialHarvest:
		return "recognize credential harvesting pages"
	case AttackOAuthConsent:
		return "scrutinize third-party authorization grants"
	case AttackMFABypass:
		return "refuse unexpected second-factor prompts"
	case AttackSessionHijack:
		return "spot session takeover attempts"
	case AttackClipboardHijack:
		return "verify clipboard contents before pasting"
	case AttackDownloadLure:
		return "distrust unsolicited file downloads"
	default:
		return "recognize phishing attempts"
	}
}

// Difficulty is the ordered training difficulty scale.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// difficultyOrder lists difficulties from easiest to hardest.
var difficultyOrder = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d.Rank() >= 0
}

// Rank returns the position of d on the scale, 0 = easy. Unknown
// difficulties rank -1.
func (d Difficulty) Rank() int {
	for i, v := range difficultyOrder {
		if v == d {
			return i
		}
	}
	return -1
}

// Next returns the difficulty one step harder, saturating at expert.
func (d Difficulty) Next() Difficulty {
	r := d.Rank()
	if r < 0 || r >= len(difficultyOrder)-1 {
		if r < 0 {
			return DifficultyEasy
		}
		return d
	}
	return difficultyOrder[r+1]
}

// Prev returns the difficulty one step easier, saturating at easy.
func (d Difficulty) Prev() Difficulty {
	r := d.Rank()
	if r <= 0 {
		return DifficultyEasy
	}
	return difficultyOrder[r-1]
}

// ParseDifficulty maps a string to a Difficulty, defaulting to easy for
// unknown input. Bad collaborator input never errors, per the engine's
// failure policy.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(s)
	if d.Valid() {
		return d
	}
	return DifficultyEasy
}

// Urgency is the pressure level a simulation's content projects.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// Valid reports whether u is one of the defined urgency levels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Placement selects where the injection collaborator renders the content.
type Placement string

const (
	PlacementBanner Placement = "banner"
	PlacementModal  Placement = "modal"
	PlacementToast  Placement = "toast"
	PlacementInline Placement = "inline"
)

// Valid reports whether p is one of the defined placements.
func (p Placement) Valid() bool {
	switch p {
	case PlacementBanner, PlacementModal, PlacementToast, PlacementInline:
		return true
	}
	return false
}

// Content is the rendered simulation payload handed to the injection
// collaborator. Rendering fidelity is the collaborator's concern; this core
// only guarantees the fields are populated.
type Content struct {
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	SenderName      string    `json:"sender_name"`
	SenderAddress   string    `json:"sender_address"`
	Urgency         Urgency   `json:"urgency"`
	CallToAction    string    `json:"call_to_action"`
	CallToActionURL string    `json:"call_to_action_url"`
	Placement       Placement `json:"placement"`
	Theme           string    `json:"theme"`
}

// Metadata records how and why a simulation was produced.
type Metadata struct {
	CreatedAt         time.Time  `json:"created_at"`
	CampaignID        string     `json:"campaign_id,omitempty"`
	Difficulty        Difficulty `json:"difficulty"`
	TrainingObjective string     `json:"training_objective"`
	RedTeam           bool       `json:"red_team"`
}

// Simulation is a fully planned phishing simulation ready for injection.
type Simulation struct {
	ID         string              `json:"id"`
	AttackType AttackType          `json:"attack_type"`
	TargetSite string              `json:"target_site"`
	Content    Content             `json:"content"`
	Triggers   []trigger.Condition `json:"triggers"`
	Metadata   Metadata            `json:"metadata"`
}
