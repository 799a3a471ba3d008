// Package simulate drives a single attacker through a fixed-duration
// fight against a stationary target, producing the DPS/effective-HP/
// move-speed figures internal/buildopt scores builds by.
package simulate

import (
	"math"

	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
	"github.com/cafe1231/loadout-optimizer/internal/unit"
)

// Scenario is the unit-specific rotation closure: given the attacker,
// its target, and the sub-step size, it issues whatever basic attacks
// and ability casts the unit's kit performs that tick. A Scenario is
// written once per playable unit and supplied to Fight by content.
type Scenario func(attacker, target *unit.Unit, dt float64)

// TargetStats is a stationary dummy's defensive profile, used as the
// Target in a Fight run. Squishy/Bruiser/Tanky below are the three
// illustrative dummy presets content can score builds against.
type TargetStats struct {
	Name  string
	Stats statmodel.UnitStats
}

var (
	Squishy = TargetStats{Name: "squishy", Stats: statmodel.UnitStats{HP: 2200, Armor: 60, MR: 50}}
	Bruiser = TargetStats{Name: "bruiser", Stats: statmodel.UnitStats{HP: 3200, Armor: 120, MR: 90}}
	Tanky   = TargetStats{Name: "tanky", Stats: statmodel.UnitStats{HP: 4200, Armor: 200, MR: 150}}
)

// Result is the aggregate output of one Fight run.
type Result struct {
	DPS         float64
	EffectiveHP float64
	MoveSpeed   float64
	HealingDone float64
	ShieldDone  float64
}

// maxStepSize bounds every sub-step so a scenario's own cast logic still
// gets called often enough to notice cooldowns coming off within the tick.
const maxStepSize = 0.05

// Fight reinitializes attacker and target, fires every on_fight_init and
// special_active hook, then walks the clock forward in bounded sub-steps
// for duration seconds, handing control to scenario each tick.
// physDmgTakenPercent is forwarded to EffectiveHP to blend the attacker's
// own armor/MR into the defense figure this run reports.
func Fight(attacker, target *unit.Unit, duration, physDmgTakenPercent float64, scenario Scenario) Result {
	attacker.InitFight()
	target.InitFight()

	attacker.FireSpecialActive()
	target.FireSpecialActive()

	elapsed := 0.0
	for elapsed < duration {
		dt := math.Min(maxStepSize, duration-elapsed)
		scenario(attacker, target, dt)

		attacker.Advance(dt)
		target.Advance(dt)
		attacker.UnitsTravelled += statmodel.SoftCapMS(attacker.Stats.MoveSpeed) * dt

		elapsed += dt
	}

	return Result{
		DPS:         (attacker.DmgDonePhys + attacker.DmgDoneMagic + attacker.DmgDoneTrue) / duration,
		EffectiveHP: EffectiveHP(attacker.Stats, physDmgTakenPercent, attacker.HealingDone, attacker.ShieldingDone),
		MoveSpeed:   statmodel.SoftCapMS(attacker.Stats.MoveSpeed),
		HealingDone: attacker.HealingDone,
		ShieldDone:  attacker.ShieldingDone,
	}
}

// EffectiveHP folds armor and magic resist into a single "damage needed
// to kill" figure, the defense axis internal/buildopt's score function
// scores a build against. physDmgTakenPercent blends the armor and MR
// curves by how much of the incoming damage is assumed physical versus
// magic; healingDone and shieldingDone are added straight on top, since
// both let the unit absorb that much extra damage over the fight.
func EffectiveHP(s statmodel.UnitStats, physDmgTakenPercent, healingDone, shieldingDone float64) float64 {
	mitigation := physDmgTakenPercent*statmodel.ResistCurve(s.Armor) + (1-physDmgTakenPercent)*statmodel.ResistCurve(s.MR)
	return s.HP/mitigation + healingDone + shieldingDone
}

// WeightedDuration runs Fight at three durations centered on d (d*0.8125,
// d, d*1.1875, i.e. mean minus/plus 1.25 standard deviations at
// sigma = 0.15*d) and blends the results 0.25/0.5/0.25, smoothing out the
// sensitivity a single fixed fight length has to cooldown-alignment luck.
func WeightedDuration(attacker, target *unit.Unit, d, physDmgTakenPercent float64, scenario Scenario) Result {
	const sigma = 0.15
	const z = 1.25

	durations := [3]float64{d * (1 - z*sigma), d, d * (1 + z*sigma)}
	weights := [3]float64{0.25, 0.5, 0.25}

	var out Result
	for i, dur := range durations {
		r := Fight(attacker, target, dur, physDmgTakenPercent, scenario)
		out.DPS += weights[i] * r.DPS
		out.EffectiveHP += weights[i] * r.EffectiveHP
		out.MoveSpeed += weights[i] * r.MoveSpeed
		out.HealingDone += weights[i] * r.HealingDone
		out.ShieldDone += weights[i] * r.ShieldDone
	}
	return out
}
