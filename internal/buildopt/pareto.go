package buildopt

import (
	"math"

	"github.com/cafe1231/loadout-optimizer/internal/content"
)

// ParetoSpacePoint is the axis projection of one BuildContainer used for
// dominance comparisons: higher is better on every numeric axis, and
// Utils is the set of utility tags the build contributes.
type ParetoSpacePoint struct {
	DPS     float64
	Defense float64
	MS      float64
	Gold    int
	Utils   map[content.Tag]bool
}

// PointOf projects a container's final stats into Pareto space.
func PointOf(bc BuildContainer) ParetoSpacePoint {
	return ParetoSpacePoint{
		DPS:     bc.FinalDPS(),
		Defense: bc.FinalDefense(),
		MS:      bc.FinalMoveSpeed(),
		Gold:    bc.FinalGold(),
		Utils:   bc.UtilityTags,
	}
}

// relaxedDominates reports whether a dominates b under the relaxation
// factor k: b must be at most k times a on every maximized axis
// (DPS, Defense, MS), a must cost no more gold, and a must be strictly
// better on at least one axis or on gold. k=1 is strict Pareto
// dominance; k<1 only prunes b when a is ahead of it by a factor of at
// least 1/k on every axis, so intermediate layers keep near-frontier
// builds for diversity, and k=0 never prunes a build with any positive
// axis. a also has to be a superset of b's utility tags: if b
// contributes a utility bit a lacks, a never dominates b no matter how
// far ahead it is on the numeric axes, since that utility can't be
// recovered by the numbers alone.
func relaxedDominates(a, b ParetoSpacePoint, k float64) bool {
	if a.Gold > b.Gold {
		return false
	}
	if b.DPS > k*a.DPS || b.Defense > k*a.Defense || b.MS > k*a.MS {
		return false
	}
	for t := range b.Utils {
		if !a.Utils[t] {
			return false
		}
	}
	strictlyBetter := a.DPS > b.DPS || a.Defense > b.Defense || a.MS > b.MS || a.Gold < b.Gold
	return strictlyBetter
}

// RelaxationFactor returns the k used by PrunePareto for a given layer:
// 1 (strict dominance) on the final layer, or
// (1-searchThreshold)^(1/7) on every earlier layer. A full
// MaxItems-slot search passes through at most MaxItems-1 intermediate
// layers; the exponent 1/7 is a fixed heuristic, not derived from that
// count.
func RelaxationFactor(isFinalLayer bool, searchThreshold float64) float64 {
	if isFinalLayer {
		return 1
	}
	return math.Pow(1-searchThreshold, 1.0/7.0)
}

// PrunePareto compacts candidates down to the relaxed Pareto frontier,
// in place, using relaxation factor k. It first drops anything scoring
// below (1-searchThreshold) of the layer's best gold-weighted average
// score, a coarse pre-filter before the O(n^2) pairwise dominance pass,
// then removes any remaining candidate that is relaxed-dominated by
// another survivor.
func PrunePareto(containers []BuildContainer, w JudgmentWeights, k, searchThreshold float64) []BuildContainer {
	if len(containers) == 0 {
		return containers
	}

	best := 0.0
	for _, c := range containers {
		if s := c.GoldWeightedAverageScore(w); s > best {
			best = s
		}
	}
	floor := (1 - searchThreshold) * best

	filtered := containers[:0]
	for _, c := range containers {
		if best == 0 || c.GoldWeightedAverageScore(w) >= floor {
			filtered = append(filtered, c)
		}
	}

	points := make([]ParetoSpacePoint, len(filtered))
	for i, c := range filtered {
		points[i] = PointOf(c)
	}

	dominated := make([]bool, len(filtered))
	for i := range filtered {
		if dominated[i] {
			continue
		}
		for j := range filtered {
			if i == j || dominated[j] {
				continue
			}
			if relaxedDominates(points[j], points[i], k) {
				dominated[i] = true
				break
			}
		}
	}

	survivors := filtered[:0]
	for i, c := range filtered {
		if !dominated[i] {
			survivors = append(survivors, c)
		}
	}
	return survivors
}
