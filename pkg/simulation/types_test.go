package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttackTypeValid(t *testing.T) {
	for _, at := range []AttackType{
		AttackCredentialHarvest, AttackOAuthConsent, AttackMFABypass,
		AttackSessionHijack, AttackClipboardHijack, AttackDownloadLure,
	} {
		assert.True(t, at.Valid(), "attack type %q should be valid", at)
		assert.NotEmpty(t, at.TrainingObjective())
	}
	assert.False(t, AttackType("spearphish").Valid())
}

func TestSophisticationOrdering(t *testing.T) {
	// OAuth consent abuse is the most sophisticated vector; credential
	// harvesting the least.
	assert.Greater(t, AttackOAuthConsent.Sophistication(), AttackMFABypass.Sophistication())
	assert.Greater(t, AttackMFABypass.Sophistication(), AttackCredentialHarvest.Sophistication())
	assert.Equal(t, 0, AttackType("bogus").Sophistication())
}

func TestDifficultyScale(t *testing.T) {
	assert.Equal(t, 0, DifficultyEasy.Rank())
	assert.Equal(t, 3, DifficultyExpert.Rank())
	assert.Equal(t, -1, Difficulty("nightmare").Rank())

	assert.Equal(t, DifficultyMedium, DifficultyEasy.Next())
	assert.Equal(t, DifficultyExpert, DifficultyExpert.Next(), "Next saturates at expert")
	assert.Equal(t, DifficultyHard, DifficultyExpert.Prev())
	assert.Equal(t, DifficultyEasy, DifficultyEasy.Prev(), "Prev saturates at easy")
}

func TestParseDifficultyDefaultsToEasy(t *testing.T) {
	assert.Equal(t, DifficultyExpert, ParseDifficulty("expert"))
	assert.Equal(t, DifficultyEasy, ParseDifficulty(""))
	assert.Equal(t, DifficultyEasy, ParseDifficulty("ultra"))
}
