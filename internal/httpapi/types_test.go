package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cafe1231/loadout-optimizer/internal/buildopt"
	"github.com/cafe1231/loadout-optimizer/internal/simulate"
)

func TestJudgmentWeightsToBuildoptFallsBackToDefaultWhenAllZero(t *testing.T) {
	var w JudgmentWeights
	assert.Equal(t, buildopt.DefaultJudgmentWeights, w.toBuildopt())
}

func TestJudgmentWeightsToBuildoptPassesThroughExplicitValues(t *testing.T) {
	w := JudgmentWeights{DPS: 2, Defense: 0.5, MS: 0.5}
	assert.Equal(t, buildopt.JudgmentWeights{DPS: 2, Defense: 0.5, MS: 0.5}, w.toBuildopt())
}

func TestTargetDummyResolvesKnownNames(t *testing.T) {
	squishy, ok := targetDummy("squishy")
	assert.True(t, ok)
	assert.Equal(t, simulate.Squishy, squishy)

	bruiser, ok := targetDummy("bruiser")
	assert.True(t, ok)
	assert.Equal(t, simulate.Bruiser, bruiser)

	tanky, ok := targetDummy("tanky")
	assert.True(t, ok)
	assert.Equal(t, simulate.Tanky, tanky)
}

func TestTargetDummyRejectsUnknownName(t *testing.T) {
	_, ok := targetDummy("invincible")
	assert.False(t, ok)
}
