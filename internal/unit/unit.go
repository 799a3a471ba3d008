// Package unit implements the mutable fight-time runtime state for a
// single combatant: its current stat line, active temporary effects,
// ability/basic-attack cooldowns, and the damage pipeline that applies
// incoming hits. internal/simulate drives a pair of these through a
// fight; internal/content supplies the immutable item/rune/skill-order
// definitions a Unit is built from.
package unit

import (
	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/effectreg"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
)

// Unit is one combatant's live simulation state.
type Unit struct {
	ID string

	// baseline is base+rune+item stats with no temporary effects applied,
	// computed by New and copied back into Stats by InitFight. Effect
	// expiry does not read it; OnRemoveAllStacks callbacks undo their own
	// changes to Stats.
	baseline statmodel.UnitStats
	// Stats is the current effective stat line: baseline plus every active
	// temporary effect's contribution.
	Stats statmodel.UnitStats

	Time float64

	Effects     *effectreg.Registry[*Unit]
	descriptors map[string]*effectreg.Descriptor[*Unit]

	basicAttackCooldown float64
	abilityCooldown     float64
	ultimateCooldown    float64

	DmgDonePhys  float64
	DmgDoneMagic float64
	DmgDoneTrue  float64

	HealingDone   float64
	ShieldingDone float64

	UnitsTravelled float64

	hooks content.HookTable
}

// New builds a Unit from a base stat line, an equipped build and a rune
// page. Hooks from every item in the build are merged; items that don't
// populate a given hook leave it nil, and dispatch (hooks.go) skips nils.
func New(id string, base statmodel.UnitStats, runes content.RunePage, build content.Build, pool *content.Pool) *Unit {
	u := &Unit{
		ID:          id,
		Effects:     effectreg.NewRegistry[*Unit](),
		descriptors: make(map[string]*effectreg.Descriptor[*Unit]),
	}

	stats := runes.Apply(base)
	for _, slot := range build.Slots {
		if slot == "" {
			continue
		}
		item, ok := pool.Get(slot)
		if !ok {
			continue
		}
		stats = stats.Add(item.Stats)
		u.mergeHooks(item.Hooks)
	}
	u.baseline = stats
	u.Stats = stats
	return u
}

// mergeHooks folds one item's hook table into the unit's combined table.
// Multiple items contributing the same hook chain in item-list order.
func (u *Unit) mergeHooks(h content.HookTable) {
	u.hooks.OnFightInit = chainHook(u.hooks.OnFightInit, h.OnFightInit)
	u.hooks.OnAbilityCast = chainHook(u.hooks.OnAbilityCast, h.OnAbilityCast)
	u.hooks.OnUltimateCast = chainHook(u.hooks.OnUltimateCast, h.OnUltimateCast)
	u.hooks.OnBasicAttackCast = chainHook(u.hooks.OnBasicAttackCast, h.OnBasicAttackCast)
	u.hooks.SpecialActive = chainHook(u.hooks.SpecialActive, h.SpecialActive)

	u.hooks.OnAbilityHit = chainDamageHook(u.hooks.OnAbilityHit, h.OnAbilityHit)
	u.hooks.OnUltimateHit = chainDamageHook(u.hooks.OnUltimateHit, h.OnUltimateHit)
	u.hooks.OnBasicAttackHit = chainDamageHook(u.hooks.OnBasicAttackHit, h.OnBasicAttackHit)
	u.hooks.OnPhysDmgHit = chainDamageHook(u.hooks.OnPhysDmgHit, h.OnPhysDmgHit)
	u.hooks.OnMagicDmgHit = chainDamageHook(u.hooks.OnMagicDmgHit, h.OnMagicDmgHit)
	u.hooks.OnTrueDmgHit = chainDamageHook(u.hooks.OnTrueDmgHit, h.OnTrueDmgHit)
	u.hooks.OnAnyHit = chainDamageHook(u.hooks.OnAnyHit, h.OnAnyHit)
}

func chainHook(a, b content.HookFunc) content.HookFunc {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(target interface{}) {
		a(target)
		b(target)
	}
}

func chainDamageHook(a, b content.DamageHookFunc) content.DamageHookFunc {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(target interface{}, ctx interface{}) {
		a(target, ctx)
		b(target, ctx)
	}
}

// RegisterDescriptor makes d addressable by AddEffect/Advance; called once
// per distinct effect an item or ability can apply, typically at New time.
func (u *Unit) RegisterDescriptor(d *effectreg.Descriptor[*Unit]) {
	u.descriptors[d.ID] = d
}

// InitFight resets all mutable runtime state to the start-of-fight
// baseline and fires on_fight_init for every equipped item.
func (u *Unit) InitFight() {
	u.Time = 0
	u.Stats = u.baseline
	u.Effects.Reset()
	u.basicAttackCooldown = 0
	u.abilityCooldown = 0
	u.ultimateCooldown = 0
	u.DmgDonePhys = 0
	u.DmgDoneMagic = 0
	u.DmgDoneTrue = 0
	u.HealingDone = 0
	u.ShieldingDone = 0
	u.UnitsTravelled = 0

	u.FireOnFightInit()
}

// ApplyEffect registers d and adds one stack of it through the effect
// registry; Stats changes only through d's own OnAddStack callback,
// nothing is recomputed from baseline here. fightInterval is the
// unit's average time between the casts that reapply this effect, used
// by the registry to compute the availability coefficient.
func (u *Unit) ApplyEffect(d *effectreg.Descriptor[*Unit], haste float64, fightInterval float64) bool {
	u.RegisterDescriptor(d)
	return u.Effects.Add(d, u, haste, fightInterval)
}

// Advance moves the clock forward by dt, advancing the effect registry
// (which fires expiry callbacks that mutate Stats through OnRemoveAllStacks)
// and any cooldown counters not modeled as effectreg descriptors.
func (u *Unit) Advance(dt float64) {
	u.Time += dt
	u.Effects.Advance(dt, u, u.descriptors)

	u.basicAttackCooldown -= dt
	if u.basicAttackCooldown < 0 {
		u.basicAttackCooldown = 0
	}
	u.abilityCooldown -= dt
	if u.abilityCooldown < 0 {
		u.abilityCooldown = 0
	}
	u.ultimateCooldown -= dt
	if u.ultimateCooldown < 0 {
		u.ultimateCooldown = 0
	}
}

// ReadyForBasicAttack reports whether the basic-attack cooldown has elapsed.
func (u *Unit) ReadyForBasicAttack() bool { return u.basicAttackCooldown <= 0 }

// StartBasicAttackCooldown resets the basic-attack timer from the
// unit's current, cap-applied attack speed.
func (u *Unit) StartBasicAttackCooldown(cap float64) {
	u.basicAttackCooldown = 1.0 / u.Stats.AttackSpeed(cap)
}

// ReadyForAbility and ReadyForUltimate report basic-ability/ultimate
// cooldown state.
func (u *Unit) ReadyForAbility() bool   { return u.abilityCooldown <= 0 }
func (u *Unit) ReadyForUltimate() bool  { return u.ultimateCooldown <= 0 }

// StartAbilityCooldown and StartUltimateCooldown set the next-cast timer
// using the unit's haste-adjusted cooldown coefficient.
func (u *Unit) StartAbilityCooldown(baseCooldown float64) {
	u.abilityCooldown = baseCooldown * statmodel.HasteCoef(u.Stats.AbilityHasteForBasics())
}

func (u *Unit) StartUltimateCooldown(baseCooldown float64) {
	u.ultimateCooldown = baseCooldown * statmodel.HasteCoef(u.Stats.AbilityHasteForUltimate())
}

// Heal records outgoing healing done by this unit (on itself or an ally;
// the optimizer's single-target scenarios apply it to self).
func (u *Unit) Heal(amount float64) { u.HealingDone += amount }

// Shield records outgoing shielding done by this unit.
func (u *Unit) Shield(amount float64) { u.ShieldingDone += amount }
