package content

import "github.com/cafe1231/loadout-optimizer/internal/statmodel"

// RunePage is a flat UnitStats delta applied once at fight init, on top
// of the unit's base stats and build stats. Runes do not interact with
// items or the damage pipeline directly; they exist purely as another
// additive contribution to the starting stat line.
type RunePage struct {
	Name  string
	Stats statmodel.UnitStats
}

// Apply returns base with the rune page's stats added.
func (rp RunePage) Apply(base statmodel.UnitStats) statmodel.UnitStats {
	return base.Add(rp.Stats)
}
