// Package buildopt implements the layered beam search that explores
// item-build combinatorics, scores each candidate through a simulated
// fight, and prunes the search space with a relaxed Pareto frontier.
package buildopt

import (
	"math"

	"github.com/cafe1231/loadout-optimizer/internal/content"
)

// avgItemCost normalizes raw gold-efficiency (dps/gold) into a
// dimensionless figure comparable across builds of very different total
// cost, by scaling against a representative mid-game item price.
const avgItemCost = 800.0

// JudgmentWeights controls how much each of the three scoring axes
// counts toward a build's aggregate score. The three weights are taken
// to sum to 3 by convention (each defaulting to 1, an equal blend), so
// every axis exponent below lands at 1/3 when weights are left at
// their default.
type JudgmentWeights struct {
	DPS     float64
	Defense float64
	MS      float64
}

// DefaultJudgmentWeights weighs all three axes equally.
var DefaultJudgmentWeights = JudgmentWeights{DPS: 1, Defense: 1, MS: 1}

// BuildContainer tracks a build's stat trajectory slot by slot: the gold
// spent, dps, defense (effective HP) and move speed achieved after each
// item is added, from an empty build up to the current one. Scoring
// against the whole trajectory (not just the final slot) rewards builds
// that spike early as well as ones that pay off only once complete.
type BuildContainer struct {
	Build content.Build

	GoldAtSlot    []int
	DPSAtSlot     []float64
	DefenseAtSlot []float64
	MSAtSlot      []float64

	// UtilityTags is the union of every equipped item's utility tags,
	// used by the Pareto pruner so that a build contributing a tag its
	// would-be dominator lacks is never pruned.
	UtilityTags map[content.Tag]bool
}

// NewBuildContainer returns an empty container with the zero-item point
// already recorded, so gold-weighted averaging always has a start point
// at (gold=0, score=0).
func NewBuildContainer() BuildContainer {
	return BuildContainer{
		GoldAtSlot:    []int{0},
		DPSAtSlot:     []float64{0},
		DefenseAtSlot: []float64{0},
		MSAtSlot:      []float64{0},
		UtilityTags:   map[content.Tag]bool{},
	}
}

// ExtendedWith returns a copy of bc with one more item slot appended,
// recording the new cumulative gold/dps/defense/ms point.
func (bc BuildContainer) ExtendedWith(item content.Item, cumulativeGold int, dps, defense, ms float64) BuildContainer {
	out := BuildContainer{
		Build:         bc.Build.WithItem(item.ID),
		GoldAtSlot:    append(append([]int{}, bc.GoldAtSlot...), cumulativeGold),
		DPSAtSlot:     append(append([]float64{}, bc.DPSAtSlot...), dps),
		DefenseAtSlot: append(append([]float64{}, bc.DefenseAtSlot...), defense),
		MSAtSlot:      append(append([]float64{}, bc.MSAtSlot...), ms),
		UtilityTags:   make(map[content.Tag]bool, len(bc.UtilityTags)+len(item.Tags)),
	}
	for t := range bc.UtilityTags {
		out.UtilityTags[t] = true
	}
	for _, t := range item.Tags {
		out.UtilityTags[t] = true
	}
	return out
}

// lastIndex is the index of the most recently added slot.
func (bc BuildContainer) lastIndex() int { return len(bc.GoldAtSlot) - 1 }

// FinalDPS, FinalDefense and FinalMoveSpeed return the trajectory's last
// recorded point: the completed build's own stats.
func (bc BuildContainer) FinalDPS() float64       { return bc.DPSAtSlot[bc.lastIndex()] }
func (bc BuildContainer) FinalDefense() float64   { return bc.DefenseAtSlot[bc.lastIndex()] }
func (bc BuildContainer) FinalMoveSpeed() float64 { return bc.MSAtSlot[bc.lastIndex()] }
func (bc BuildContainer) FinalGold() int          { return bc.GoldAtSlot[bc.lastIndex()] }

// scoreAt computes score(k) = (avgItemCost*dps/gold)^(wDPS/3) *
// defense^(wDef/3) * ms^(wMS/3) for one trajectory point. Gold of 0 (the
// empty-build point) scores 0 since there is no meaningful dps/gold yet.
func scoreAt(gold int, dps, defense, ms float64, w JudgmentWeights) float64 {
	if gold <= 0 {
		return 0
	}
	dpsPerGold := avgItemCost * dps / float64(gold)
	if dpsPerGold <= 0 || defense <= 0 || ms <= 0 {
		return 0
	}
	return math.Pow(dpsPerGold, w.DPS/3) * math.Pow(defense, w.Defense/3) * math.Pow(ms, w.MS/3)
}

// FinalScore scores the completed build using only its last trajectory
// point.
func (bc BuildContainer) FinalScore(w JudgmentWeights) float64 {
	i := bc.lastIndex()
	return scoreAt(bc.GoldAtSlot[i], bc.DPSAtSlot[i], bc.DefenseAtSlot[i], bc.MSAtSlot[i], w)
}

// GoldWeightedAverageScore integrates score(k) over the build's gold
// trajectory using quadratic interpolation between consecutive slot
// points, then divides by total gold spent to get a gold-weighted
// average. This is the figure the layer generator's hash dedup
// and the optimizer's final ranking both use, since it rewards builds
// whose early items already contribute rather than only paying off once
// complete.
func (bc BuildContainer) GoldWeightedAverageScore(w JudgmentWeights) float64 {
	n := len(bc.GoldAtSlot)
	if n < 2 {
		return 0
	}

	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		scores[i] = scoreAt(bc.GoldAtSlot[i], bc.DPSAtSlot[i], bc.DefenseAtSlot[i], bc.MSAtSlot[i], w)
	}

	totalGold := float64(bc.GoldAtSlot[n-1])
	if totalGold <= 0 {
		return 0
	}

	integral := 0.0
	for i := 0; i < n-1; i++ {
		g0, g1 := float64(bc.GoldAtSlot[i]), float64(bc.GoldAtSlot[i+1])
		segment := g1 - g0
		if segment <= 0 {
			continue
		}
		// Quadratic interpolation y(x) = y0 + (y1-y0)*t^2 with
		// t = (x-g0)/segment. Its mean over the segment is
		// y0 + (y1-y0)/3 = (2*y0 + y1)/3, which weights each segment
		// toward its cheaper starting point and so favours builds whose
		// early items already score well.
		avg := (2*scores[i] + scores[i+1]) / 3
		integral += avg * segment
	}

	return integral / totalGold
}
