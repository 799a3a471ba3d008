package httpapi

import (
	"github.com/cafe1231/loadout-optimizer/internal/simulate"
	"github.com/cafe1231/loadout-optimizer/internal/unit"
)

// scenarioRegistry maps a unit ID to its fight_scenario_number-indexed
// rotation closures, the scenario routine bundled with a unit's static
// properties. Content authors register a unit's kit here; units with no
// entry fall back to basicAttackOnly, a content-free scenario that still
// produces a meaningful DPS/EHP/MS curve for every item pool.
var scenarioRegistry = map[string][]simulate.Scenario{}

// RegisterScenarios makes scenarios addressable by unitID and a 1-based
// fight_scenario_number. Called by a content package at startup, never by
// request handling.
func RegisterScenarios(unitID string, scenarios []simulate.Scenario) {
	scenarioRegistry[unitID] = scenarios
}

// resolveScenario looks up unitID's fight_scenario_number-th scenario (1
// if unset/out of range), defaulting to basicAttackOnly for unregistered
// units so every job is servable without a content pack installed.
func resolveScenario(unitID string, fightScenarioNumber int) simulate.Scenario {
	scenarios, ok := scenarioRegistry[unitID]
	if !ok || len(scenarios) == 0 {
		return basicAttackOnly
	}
	idx := fightScenarioNumber - 1
	if idx < 0 || idx >= len(scenarios) {
		idx = 0
	}
	return scenarios[idx]
}

// basicAttackOnly issues a basic attack whenever the attacker's cooldown
// has elapsed and does nothing else; the minimal scenario that works for
// any unit. It does not move the clock itself: simulate.Fight's loop
// advances both units after every call.
func basicAttackOnly(attacker, target *unit.Unit, dt float64) {
	if attacker.ReadyForBasicAttack() {
		unit.DmgOnTarget(unit.DamageContext{
			Source:             attacker,
			Target:             target,
			Phys:               attacker.Stats.TotalAD(),
			IsBasicAttack:      true,
			NInstances:         1,
			NStackingInstances: 1,
		})
		attacker.StartBasicAttackCooldown(2.5)
	}
}
