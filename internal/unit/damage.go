package unit

import (
	"math"

	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
)

// DamageContext describes one in-flight damage instance as it moves
// through DmgOnTarget. Hooks may mutate the *Phys/*Magic/*True
// fields and AbilityDmgModifier in place; the pipeline re-reads them
// after each hook stage.
type DamageContext struct {
	Source *Unit
	Target *Unit

	Phys  float64
	Magic float64
	True  float64

	IsAbility     bool
	IsUltimate    bool
	IsBasicAttack bool

	// FromOtherEffect marks a basic-attack-flagged instance that did not
	// originate from the attack-timer itself (an on-hit effect riding
	// along a different trigger), distinguishing it from the attack itself
	// for hooks that key off on_basic_attack_hit specifically.
	FromOtherEffect bool

	// AbilityDmgModifier is an extra multiplier ability-hit hooks can
	// apply on top of the unit's AbilityDmgMod stat (e.g. an execute
	// threshold effect). Defaults to 1.
	AbilityDmgModifier float64

	// NInstances counts how many separate on-hit triggers this damage
	// event represents; NStackingInstances counts how many of those are
	// allowed to re-trigger stacking on-hit effects. Hooks can read both
	// from the context, but DmgOnTarget fires each hook once per call
	// whatever their values; neither count multiplies hook invocations.
	NInstances         int
	NStackingInstances int
}

// DamageResult reports the mitigated, post-hook damage actually applied,
// split by component, plus any lifesteal/omnivamp healing it generated.
type DamageResult struct {
	Phys  float64
	Magic float64
	True  float64
	Vamp  float64
}

// Total returns the sum of all three damage components.
func (r DamageResult) Total() float64 { return r.Phys + r.Magic + r.True }

// DmgOnTarget runs the full nine-step mitigation/hook/composition
// pipeline for one damage instance and accumulates the result on the
// source unit. It does not advance the fight clock; internal/simulate's
// walk loop owns that so concurrent hits within the same sub-step don't
// each charge their own time slice.
func DmgOnTarget(ctx DamageContext) DamageResult {
	if ctx.AbilityDmgModifier == 0 {
		ctx.AbilityDmgModifier = 1
	}

	// 1. Armor reduction on the physical component.
	ctx.Phys *= effectiveResist(ctx.Target.Stats.Armor, ctx.Target.Stats.PercentArmorReduction.Value(),
		ctx.Target.Stats.FlatArmorReduction, ctx.Source.Stats.PercentArmorPen.Value(),
		ctx.Source.Stats.FlatArmorPen, ctx.Source.Stats.Lethality)

	// 2. Magic resist reduction on the magic component.
	ctx.Magic *= effectiveResist(ctx.Target.Stats.MR, ctx.Target.Stats.PercentMagicReduction.Value(),
		ctx.Target.Stats.FlatMagicReduction, ctx.Source.Stats.PercentMagicPen.Value(),
		ctx.Source.Stats.FlatMagicPen, 0)

	// 3. Ability/ultimate hit hooks, owned by the attacker's equipped items.
	if ctx.IsAbility {
		if ctx.IsUltimate {
			invokeDamageHook(ctx.Source.hooks.OnUltimateHit, ctx.Source, &ctx)
		} else {
			invokeDamageHook(ctx.Source.hooks.OnAbilityHit, ctx.Source, &ctx)
		}
	}

	// 4. Basic-attack hit hooks, carrying the from-other-effect flag.
	if ctx.IsBasicAttack {
		invokeDamageHook(ctx.Source.hooks.OnBasicAttackHit, ctx.Source, &ctx)
	}

	// 5. Per-component hit hooks.
	if ctx.Phys > 0 {
		invokeDamageHook(ctx.Source.hooks.OnPhysDmgHit, ctx.Source, &ctx)
	}
	if ctx.Magic > 0 {
		invokeDamageHook(ctx.Source.hooks.OnMagicDmgHit, ctx.Source, &ctx)
	}
	if ctx.True > 0 {
		invokeDamageHook(ctx.Source.hooks.OnTrueDmgHit, ctx.Source, &ctx)
	}

	// 6. Any-hit hooks, fired once regardless of component mix.
	invokeDamageHook(ctx.Source.hooks.OnAnyHit, ctx.Source, &ctx)

	// 7. Final composition: total and ability-specific damage modifiers.
	abilityMult := 1.0
	if ctx.IsAbility {
		abilityMult = (1 + ctx.Source.Stats.AbilityDmgMod.Value()) * ctx.AbilityDmgModifier
	}
	totalMult := (1 + ctx.Source.Stats.TotalDmgMod.Value())
	result := DamageResult{
		Phys:  ctx.Phys * (1 + ctx.Source.Stats.PhysicalDmgMod.Value()) * abilityMult * totalMult,
		Magic: ctx.Magic * (1 + ctx.Source.Stats.MagicDmgMod.Value()) * abilityMult * totalMult,
		True:  ctx.True * (1 + ctx.Source.Stats.TrueDmgMod.Value()) * abilityMult * totalMult,
	}

	// 8. Omnivamp heals off every component on every hit; lifesteal only
	// heals off the total when the instance is a basic attack.
	vamp := result.Total() * ctx.Source.Stats.Omnivamp
	if ctx.IsBasicAttack {
		vamp += result.Total() * ctx.Source.Stats.Lifesteal
	}
	result.Vamp = vamp
	ctx.Source.Heal(vamp)

	ctx.Source.DmgDonePhys += result.Phys
	ctx.Source.DmgDoneMagic += result.Magic
	ctx.Source.DmgDoneTrue += result.True

	// 9. Clock advance is the caller's responsibility (internal/simulate's
	// walk loop owns the fight clock so concurrent hits within the same
	// sub-step don't each charge their own time slice).

	return result
}

// effectiveResist folds reduction and penetration into the target's
// resist stat, then runs it through statmodel's armor/MR curve. Flat
// reduction applies first; only if the result is still positive do percent
// reduction, percent pen and flat pen/lethality apply in turn, each
// clamped to never push the running total below 0. If flat reduction
// alone brings the stat to 0 or below, every penetration is skipped
// entirely and the (negative) value goes straight to ResistCurve.
func effectiveResist(resist, percentReduction, flatReduction, percentPen, flatPen, lethality float64) float64 {
	effective := resist - flatReduction
	if effective > 0 {
		effective = math.Max(0, effective*(1-percentReduction))
		effective = math.Max(0, effective*(1-percentPen))
		effective = math.Max(0, effective-flatPen-lethality)
	}
	return statmodel.ResistCurve(effective)
}

func invokeDamageHook(hook content.DamageHookFunc, owner *Unit, ctx *DamageContext) {
	if hook != nil {
		hook(owner, ctx)
	}
}
