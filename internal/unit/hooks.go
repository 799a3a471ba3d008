package unit

// FireOnFightInit invokes the merged on_fight_init hook, if any item
// registered one. Always the first hook point fired in a fight.
func (u *Unit) FireOnFightInit() {
	if u.hooks.OnFightInit != nil {
		u.hooks.OnFightInit(u)
	}
}

// FireOnAbilityCast invokes on_ability_cast, then additionally fires
// on_ultimate_cast when isUltimate is set. An ultimate cast is still an
// ability cast, so both cast-time hook points item effects can
// distinguish between fire on it.
func (u *Unit) FireOnAbilityCast(isUltimate bool) {
	if u.hooks.OnAbilityCast != nil {
		u.hooks.OnAbilityCast(u)
	}
	if isUltimate && u.hooks.OnUltimateCast != nil {
		u.hooks.OnUltimateCast(u)
	}
}

// FireOnBasicAttackCast invokes on_basic_attack_cast.
func (u *Unit) FireOnBasicAttackCast() {
	if u.hooks.OnBasicAttackCast != nil {
		u.hooks.OnBasicAttackCast(u)
	}
}

// FireSpecialActive invokes every item's special_active hook. Called once
// at fight start, after on_fight_init, for items whose active effect is
// assumed to be used on cooldown for the whole fight.
func (u *Unit) FireSpecialActive() {
	if u.hooks.SpecialActive != nil {
		u.hooks.SpecialActive(u)
	}
}
