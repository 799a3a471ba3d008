package simulate

import (
	"testing"

	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
	"github.com/cafe1231/loadout-optimizer/internal/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basicAttackScenario(attacker, target *unit.Unit, dt float64) {
	if attacker.ReadyForBasicAttack() {
		unit.DmgOnTarget(unit.DamageContext{
			Source:        attacker,
			Target:        target,
			Phys:          attacker.Stats.TotalAD(),
			IsBasicAttack: true,
		})
		attacker.StartBasicAttackCooldown(2.5)
	}
}

func newAttacker(stats statmodel.UnitStats) *unit.Unit {
	pool := content.NewPool(nil)
	return unit.New("attacker", stats, content.RunePage{}, content.Build{}, pool)
}

func newDummy(stats statmodel.UnitStats) *unit.Unit {
	pool := content.NewPool(nil)
	return unit.New("dummy", stats, content.RunePage{}, content.Build{}, pool)
}

func TestFightProducesPositiveDPSWithBasicAttacks(t *testing.T) {
	attacker := newAttacker(statmodel.UnitStats{BaseAD: 60})
	target := newDummy(Squishy.Stats)

	result := Fight(attacker, target, 10, 0.5, basicAttackScenario)
	assert.Greater(t, result.DPS, 0.0)
}

func TestFightZeroADProducesZeroDPS(t *testing.T) {
	attacker := newAttacker(statmodel.UnitStats{})
	target := newDummy(Squishy.Stats)

	result := Fight(attacker, target, 10, 0.5, basicAttackScenario)
	assert.Equal(t, 0.0, result.DPS)
}

func TestFightReinitializesStateBetweenRuns(t *testing.T) {
	attacker := newAttacker(statmodel.UnitStats{BaseAD: 60})
	target := newDummy(Squishy.Stats)

	first := Fight(attacker, target, 5, 0.5, basicAttackScenario)
	second := Fight(attacker, target, 5, 0.5, basicAttackScenario)

	require.InDelta(t, first.DPS, second.DPS, 1e-6)
}

func TestEffectiveHPHigherAgainstTankierTarget(t *testing.T) {
	squishyEHP := EffectiveHP(Squishy.Stats, 0.5, 0, 0)
	tankyEHP := EffectiveHP(Tanky.Stats, 0.5, 0, 0)
	assert.Greater(t, tankyEHP, squishyEHP)
}

func TestEffectiveHPAddsHealingAndShielding(t *testing.T) {
	bare := EffectiveHP(Squishy.Stats, 0.5, 0, 0)
	healed := EffectiveHP(Squishy.Stats, 0.5, 500, 200)
	assert.InDelta(t, bare+700, healed, 1e-9)
}

func TestEffectiveHPUsesConfiguredPhysicalFraction(t *testing.T) {
	// Tanky's armor (200) is higher than its MR (150), so weighting
	// physical damage more heavily should raise its effective HP.
	mostlyPhys := EffectiveHP(Tanky.Stats, 0.9, 0, 0)
	mostlyMagic := EffectiveHP(Tanky.Stats, 0.1, 0, 0)
	assert.Greater(t, mostlyPhys, mostlyMagic)
}

func TestWeightedDurationBlendsThreeRuns(t *testing.T) {
	attacker := newAttacker(statmodel.UnitStats{BaseAD: 60})
	target := newDummy(Squishy.Stats)

	result := WeightedDuration(attacker, target, 20, 0.5, basicAttackScenario)
	direct := Fight(attacker, target, 20, 0.5, basicAttackScenario)

	assert.InDelta(t, direct.DPS, result.DPS, direct.DPS*0.3)
}

func TestMoveSpeedIsSoftCapped(t *testing.T) {
	attacker := newAttacker(statmodel.UnitStats{MoveSpeed: 600})
	target := newDummy(Squishy.Stats)

	result := Fight(attacker, target, 1, 0.5, basicAttackScenario)
	assert.Less(t, result.MoveSpeed, 600.0)
}
