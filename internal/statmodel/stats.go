// Package statmodel implements UnitStats: a flat record of numeric
// attributes and the three composition rules content authors use to
// combine item, rune and level contributions into a final stat line.
package statmodel

import "math"

// movement speed breakpoints used by the piecewise cap in SoftCapMS.
const (
	msBreak0 = 0.0
	msBreak1 = 220.0
	msBreak2 = 415.0
	msBreak3 = 490.0
)

// UnitStats is the aggregated numeric attribute line for a unit. Plain
// float64 fields combine additively (a per-field sum, the "Additive"
// composition rule). Percent- and exponential-scaling stats (percent
// penetration/reduction, damage modifiers) are typed PercentStat/ExpStat
// fields, and `Add`/`Remove` compose each of them by its own rule.
type UnitStats struct {
	HP    float64
	Mana  float64
	BaseAD float64
	BonusAD float64

	FlatAP float64
	// PercentAP scales FlatAP multiplicatively-toward-1.
	PercentAP PercentStat

	Armor float64
	MR    float64

	BonusAttackSpeed float64
	AbilityHaste     float64
	BasicHaste       float64
	UltimateHaste    float64

	Lethality      float64
	FlatArmorPen   float64
	FlatMagicPen   float64
	PercentArmorPen PercentStat
	PercentMagicPen PercentStat
	PercentArmorReduction PercentStat
	PercentMagicReduction PercentStat
	FlatArmorReduction    float64
	FlatMagicReduction    float64

	Lifesteal float64
	Omnivamp  float64

	CritChance float64 // additive, capped at 1.0 by TotalCritChance
	CritDamage float64

	MoveSpeed float64

	// Exponentially-scaling-from-0 damage modifiers.
	PhysicalDmgMod ExpStat
	MagicDmgMod    ExpStat
	TrueDmgMod     ExpStat
	TotalDmgMod    ExpStat
	AbilityDmgMod  ExpStat
}

// PercentStat composes multiplicatively toward 1: Add(a) yields
// s + (1-s)*a; Remove inverts that. Used for percent penetrations,
// percent reductions and percent armor/magic pen.
type PercentStat float64

// Add returns the stat after adding amount a using the multiplicative-
// toward-1 rule: s + (1-s)*a.
func (s PercentStat) Add(a float64) PercentStat {
	return PercentStat(float64(s) + (1-float64(s))*a)
}

// Remove inverts Add: given s' = s.Add(a), s'.Remove(a) == s (within
// float tolerance). Solving s' = s + (1-s)*a for s gives s = (s'-a)/(1-a).
func (s PercentStat) Remove(a float64) PercentStat {
	if a >= 1 {
		return 0
	}
	return PercentStat((float64(s) - a) / (1 - a))
}

// Value returns the plain float64 value of the stat.
func (s PercentStat) Value() float64 { return float64(s) }

// ExpStat composes exponentially from 0: Add(a) yields s + (1+s)*a;
// Remove inverts that. Used for damage modifiers.
type ExpStat float64

// Add returns the stat after adding amount a using the exponential-from-0
// rule: s + (1+s)*a.
func (s ExpStat) Add(a float64) ExpStat {
	return ExpStat(float64(s) + (1+float64(s))*a)
}

// Remove inverts Add. Solving s' = s + (1+s)*a for s gives s = (s'-a)/(1+a).
func (s ExpStat) Remove(a float64) ExpStat {
	denom := 1 + a
	if denom == 0 {
		return 0
	}
	return ExpStat((float64(s) - a) / denom)
}

// Value returns the plain float64 value of the stat.
func (s ExpStat) Value() float64 { return float64(s) }

// Add combines two additive stat lines field by field. Amount-0 deltas
// (the zero value of UnitStats) are the identity element.
func (s UnitStats) Add(d UnitStats) UnitStats {
	return UnitStats{
		HP:               s.HP + d.HP,
		Mana:             s.Mana + d.Mana,
		BaseAD:           s.BaseAD + d.BaseAD,
		BonusAD:          s.BonusAD + d.BonusAD,
		FlatAP:           s.FlatAP + d.FlatAP,
		PercentAP:        s.PercentAP.Add(d.PercentAP.Value()),
		Armor:            s.Armor + d.Armor,
		MR:               s.MR + d.MR,
		BonusAttackSpeed: s.BonusAttackSpeed + d.BonusAttackSpeed,
		AbilityHaste:     s.AbilityHaste + d.AbilityHaste,
		BasicHaste:       s.BasicHaste + d.BasicHaste,
		UltimateHaste:    s.UltimateHaste + d.UltimateHaste,
		Lethality:        s.Lethality + d.Lethality,
		FlatArmorPen:     s.FlatArmorPen + d.FlatArmorPen,
		FlatMagicPen:     s.FlatMagicPen + d.FlatMagicPen,
		PercentArmorPen:       s.PercentArmorPen.Add(d.PercentArmorPen.Value()),
		PercentMagicPen:       s.PercentMagicPen.Add(d.PercentMagicPen.Value()),
		PercentArmorReduction: s.PercentArmorReduction.Add(d.PercentArmorReduction.Value()),
		PercentMagicReduction: s.PercentMagicReduction.Add(d.PercentMagicReduction.Value()),
		FlatArmorReduction:    s.FlatArmorReduction + d.FlatArmorReduction,
		FlatMagicReduction:    s.FlatMagicReduction + d.FlatMagicReduction,
		Lifesteal:  s.Lifesteal + d.Lifesteal,
		Omnivamp:   s.Omnivamp + d.Omnivamp,
		CritChance: s.CritChance + d.CritChance,
		CritDamage: s.CritDamage + d.CritDamage,
		MoveSpeed:  s.MoveSpeed + d.MoveSpeed,
		PhysicalDmgMod: s.PhysicalDmgMod.Add(d.PhysicalDmgMod.Value()),
		MagicDmgMod:    s.MagicDmgMod.Add(d.MagicDmgMod.Value()),
		TrueDmgMod:     s.TrueDmgMod.Add(d.TrueDmgMod.Value()),
		TotalDmgMod:    s.TotalDmgMod.Add(d.TotalDmgMod.Value()),
		AbilityDmgMod:  s.AbilityDmgMod.Add(d.AbilityDmgMod.Value()),
	}
}

// Remove inverts an Add(d) call. Per-field it dispatches to the matching
// composition rule's Remove so the additive/percent/exponential mix
// stays invertible.
func (s UnitStats) Remove(d UnitStats) UnitStats {
	return UnitStats{
		HP:               s.HP - d.HP,
		Mana:             s.Mana - d.Mana,
		BaseAD:           s.BaseAD - d.BaseAD,
		BonusAD:          s.BonusAD - d.BonusAD,
		FlatAP:           s.FlatAP - d.FlatAP,
		PercentAP:        s.PercentAP.Remove(d.PercentAP.Value()),
		Armor:            s.Armor - d.Armor,
		MR:               s.MR - d.MR,
		BonusAttackSpeed: s.BonusAttackSpeed - d.BonusAttackSpeed,
		AbilityHaste:     s.AbilityHaste - d.AbilityHaste,
		BasicHaste:       s.BasicHaste - d.BasicHaste,
		UltimateHaste:    s.UltimateHaste - d.UltimateHaste,
		Lethality:        s.Lethality - d.Lethality,
		FlatArmorPen:     s.FlatArmorPen - d.FlatArmorPen,
		FlatMagicPen:     s.FlatMagicPen - d.FlatMagicPen,
		PercentArmorPen:       s.PercentArmorPen.Remove(d.PercentArmorPen.Value()),
		PercentMagicPen:       s.PercentMagicPen.Remove(d.PercentMagicPen.Value()),
		PercentArmorReduction: s.PercentArmorReduction.Remove(d.PercentArmorReduction.Value()),
		PercentMagicReduction: s.PercentMagicReduction.Remove(d.PercentMagicReduction.Value()),
		FlatArmorReduction:    s.FlatArmorReduction - d.FlatArmorReduction,
		FlatMagicReduction:    s.FlatMagicReduction - d.FlatMagicReduction,
		Lifesteal:  s.Lifesteal - d.Lifesteal,
		Omnivamp:   s.Omnivamp - d.Omnivamp,
		CritChance: s.CritChance - d.CritChance,
		CritDamage: s.CritDamage - d.CritDamage,
		MoveSpeed:  s.MoveSpeed - d.MoveSpeed,
		PhysicalDmgMod: s.PhysicalDmgMod.Remove(d.PhysicalDmgMod.Value()),
		MagicDmgMod:    s.MagicDmgMod.Remove(d.MagicDmgMod.Value()),
		TrueDmgMod:     s.TrueDmgMod.Remove(d.TrueDmgMod.Value()),
		TotalDmgMod:    s.TotalDmgMod.Remove(d.TotalDmgMod.Value()),
		AbilityDmgMod:  s.AbilityDmgMod.Remove(d.AbilityDmgMod.Value()),
	}
}

// TotalAD returns base + bonus attack damage.
func (s UnitStats) TotalAD() float64 { return s.BaseAD + s.BonusAD }

// TotalAP returns flat AP scaled by (1 + percent AP).
func (s UnitStats) TotalAP() float64 { return s.FlatAP * (1 + s.PercentAP.Value()) }

// TotalCritChance returns crit chance capped at 1.0.
func (s UnitStats) TotalCritChance() float64 {
	if s.CritChance > 1 {
		return 1
	}
	if s.CritChance < 0 {
		return 0
	}
	return s.CritChance
}

// CritCoefficient returns the expected damage multiplier from critical
// strikes: 1 + critChance*(critDamage-1).
func (s UnitStats) CritCoefficient() float64 {
	return 1 + s.TotalCritChance()*(s.CritDamage-1)
}

// AttackSpeed returns bonus attack speed capped at the unit's per-unit
// limit (the base 1.0 attacks/sec plus bonus, capped).
func (s UnitStats) AttackSpeed(cap float64) float64 {
	as := 1.0 + s.BonusAttackSpeed
	if as > cap {
		return cap
	}
	return as
}

// AbilityHasteForBasics returns the haste applied to basic-ability
// cooldowns.
func (s UnitStats) AbilityHasteForBasics() float64 {
	return s.AbilityHaste + s.BasicHaste
}

// AbilityHasteForUltimate returns the haste applied to the ultimate's
// cooldown.
func (s UnitStats) AbilityHasteForUltimate() float64 {
	return s.AbilityHaste + s.UltimateHaste
}

// Slopes of the four move-speed segments, chosen so growth diminishes
// past each breakpoint while the curve stays continuous.
const (
	msSlope0 = 1.0
	msSlope1 = 0.5
	msSlope2 = 1.0 / 3.0
	msSlope3 = 0.25
)

// SoftCapMS passes a raw move-speed value through the piecewise cap with
// breakpoints at 0/220/415/490. The curve is continuous at each
// breakpoint and monotone non-decreasing everywhere: each segment has a
// positive slope, and each segment's value at its start equals the
// previous segment's value at that same point.
func SoftCapMS(ms float64) float64 {
	v1 := msBreak1 * msSlope0 // value of segment 0 at ms=220
	if ms < msBreak1 {
		return ms * msSlope0
	}
	v2 := v1 + msSlope1*(msBreak2-msBreak1) // value of segment 1 at ms=415
	if ms < msBreak2 {
		return v1 + msSlope1*(ms-msBreak1)
	}
	v3 := v2 + msSlope2*(msBreak3-msBreak2) // value of segment 2 at ms=490
	if ms < msBreak3 {
		return v2 + msSlope2*(ms-msBreak2)
	}
	return v3 + msSlope3*(ms-msBreak3)
}

// ResistCurve computes the damage-reduction coefficient for a resistance
// value r (armor or magic resist): 100/(100+r) for r>=0, mirrored as
// 2-100/(100-r) for r<0 so the curve is continuous and antisymmetric
// around r=0 (ResistCurve(0)=1, strictly decreasing on r>=0,
// ResistCurve(-x) = 2-ResistCurve(x)).
func ResistCurve(r float64) float64 {
	if r >= 0 {
		return 100 / (100 + r)
	}
	return 2 - 100/(100-r)
}

// HasteCoef converts an ability-haste value into the cooldown multiplier
// 100/(100+h), symmetric for negative haste.
func HasteCoef(h float64) float64 {
	if h >= 0 {
		return 100 / (100 + h)
	}
	return 2 - 100/(100-h)
}

// AvailabilityCoefficient returns the expected uptime fraction of an
// effect whose real (haste-adjusted) cooldown is cd over a fight of the
// given average action interval: interval/(interval+cd). Used by
// effectreg's Registry.Add.
func AvailabilityCoefficient(interval, cooldown float64) float64 {
	if interval+cooldown <= 0 {
		return 1
	}
	return interval / (interval + cooldown)
}

// clampUnit returns v clamped to [0,1], used defensively where a derived
// ratio must stay a valid probability/coefficient.
func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
