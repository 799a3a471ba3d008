package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/simulate"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
	"github.com/cafe1231/loadout-optimizer/internal/unit"
)

func TestResolveScenarioFallsBackToBasicAttackOnlyForUnregisteredUnit(t *testing.T) {
	scenario := resolveScenario("nobody", 1)

	attacker := unit.New("attacker", statmodel.UnitStats{BonusAD: 50}, content.RunePage{}, content.Build{}, content.NewPool(nil))
	target := unit.New("target", statmodel.UnitStats{}, content.RunePage{}, content.Build{}, content.NewPool(nil))
	attacker.InitFight()
	target.InitFight()

	scenario(attacker, target, 0.05)

	assert.Greater(t, attacker.DmgDonePhys, 0.0)
}

func TestResolveScenarioClampsOutOfRangeNumberToFirst(t *testing.T) {
	called := 0
	RegisterScenarios("test_unit", []simulate.Scenario{
		func(attacker, target *unit.Unit, dt float64) { called = 1 },
	})

	scenario := resolveScenario("test_unit", 99)
	scenario(nil, nil, 0)

	assert.Equal(t, 1, called)
}

func TestRegisterScenariosSelectsRequestedIndex(t *testing.T) {
	var fired string
	RegisterScenarios("multi_kit_unit", []simulate.Scenario{
		func(attacker, target *unit.Unit, dt float64) { fired = "first" },
		func(attacker, target *unit.Unit, dt float64) { fired = "second" },
	})

	resolveScenario("multi_kit_unit", 2)(nil, nil, 0)
	assert.Equal(t, "second", fired)
}
