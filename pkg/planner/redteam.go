package planner

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/phishguard/phishguard/pkg/simulation"
	"github.com/phishguard/phishguard/pkg/trigger"
)

// RedTeamRequest is an operator-authored simulation request. The vector is
// free text (it may name a scenario outside the built-in catalog) and the
// payload is delivered verbatim.
type RedTeamRequest struct {
	Target     string
	Vector     string
	Payload    string
	Site       string
	CampaignID string
	Triggers   []trigger.Condition
}

// PlanRedTeam builds a simulation exactly as specified by the operator. It
// performs no randomization, no template lookup, and no cadence checks, so
// identical requests produce identical simulations apart from the fresh ID
// and creation timestamp. Red-team simulations surface the same way as
// training ones but are flagged so reporting can separate them.
func (p *Planner) PlanRedTeam(req RedTeamRequest) simulation.Simulation {
	attackType := parseVector(req.Vector)

	site := req.Site
	if site == "" {
		site = "unknown"
	}

	campaign := req.CampaignID
	if campaign == "" {
		campaign = p.campaignID
	}

	now := p.nowFn()
	return simulation.Simulation{
		ID:         uuid.NewString(),
		AttackType: attackType,
		TargetSite: site,
		Content: simulation.Content{
			Title:           fmt.Sprintf("%s: %s", req.Vector, req.Target),
			Body:            req.Payload,
			SenderName:      "Security Operations",
			SenderAddress:   "secops@" + site,
			Urgency:         simulation.UrgencyHigh,
			CallToAction:    "Review",
			CallToActionURL: "",
			Placement:       simulation.PlacementModal,
			Theme:           "neutral",
		},
		Triggers: req.Triggers,
		Metadata: simulation.Metadata{
			CreatedAt:         now,
			CampaignID:        campaign,
			Difficulty:        simulation.DifficultyExpert,
			TrainingObjective: attackType.TrainingObjective(),
			RedTeam:           true,
		},
	}
}

// parseVector maps operator vector text onto the closed attack-type set.
// Unrecognized vectors fall back to credential harvesting, the broadest
// scenario family.
func parseVector(vector string) simulation.AttackType {
	at := simulation.AttackType(strings.ToLower(strings.TrimSpace(vector)))
	if at.Valid() {
		return at
	}
	return simulation.AttackCredentialHarvest
}
