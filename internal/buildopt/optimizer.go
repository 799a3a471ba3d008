package buildopt

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/cafe1231/loadout-optimizer/internal/content"
	"github.com/cafe1231/loadout-optimizer/internal/simulate"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
	"github.com/cafe1231/loadout-optimizer/internal/unit"
)

// Settings configures one FindBestBuilds run.
type Settings struct {
	Pool *content.Pool

	BaseStats statmodel.UnitStats
	Runes     content.RunePage
	Scenario  simulate.Scenario
	Target    simulate.TargetStats

	MandatoryItems []string
	MaxUnitItems   int

	// SearchThreshold in (0,1] controls how aggressively layers prune:
	// every layer drops builds scoring below (1-SearchThreshold) times
	// the layer's best score, and intermediate layers use the dominance
	// relaxation factor (1-SearchThreshold)^(1/7). 1.0 sets both to 0, so
	// intermediate layers prune nothing; the final layer always prunes
	// with strict dominance. Values closer to 0 raise the floor and
	// tighten dominance toward strict, keeping fewer survivors.
	SearchThreshold float64
	FightDuration   float64
	JudgmentWeights JudgmentWeights

	// PhysDmgTakenPercent in (0,1] is the assumed fraction of incoming
	// damage that is physical, blending the armor and MR curves when
	// scoreBuild computes a candidate's effective HP.
	PhysDmgTakenPercent float64

	// Workers overrides runtime.NumCPU() when > 0.
	Workers int

	// OnLayerComplete, if set, is invoked synchronously after each slot's
	// beam is pruned, with the slot index just filled, the surviving beam
	// size and the best gold-weighted average score in that beam. Used by
	// internal/wsprogress to stream layer-by-layer progress over a
	// websocket; nil is a no-op, matching every other optional hook in
	// this codebase.
	OnLayerComplete func(slot, survivors int, bestScore float64)
}

// Validate checks the settings invariants FindBestBuilds relies on: a
// non-empty pool and scenario, a slot count within content.MaxItems, a
// threshold in (0,1], a positive fight duration, and mandatory items that
// actually exist in the pool and can coexist in one build.
func (s Settings) Validate() error {
	if s.Pool == nil || len(s.Pool.All()) == 0 {
		return fmt.Errorf("buildopt: pool must contain at least one item")
	}
	if s.Scenario == nil {
		return fmt.Errorf("buildopt: scenario is required")
	}
	if s.MaxUnitItems <= 0 || s.MaxUnitItems > content.MaxItems {
		return fmt.Errorf("buildopt: max_unit_items must be in [1, %d], got %d", content.MaxItems, s.MaxUnitItems)
	}
	if s.SearchThreshold <= 0 || s.SearchThreshold > 1 {
		return fmt.Errorf("buildopt: search_threshold must be in (0, 1], got %v", s.SearchThreshold)
	}
	if s.FightDuration <= 0 {
		return fmt.Errorf("buildopt: fight_duration must be positive, got %v", s.FightDuration)
	}
	if s.PhysDmgTakenPercent <= 0 || s.PhysDmgTakenPercent > 1 {
		return fmt.Errorf("buildopt: phys_dmg_taken_percent must be in (0, 1], got %v", s.PhysDmgTakenPercent)
	}
	if len(s.MandatoryItems) > s.MaxUnitItems {
		return fmt.Errorf("buildopt: %d mandatory items exceed max_unit_items %d", len(s.MandatoryItems), s.MaxUnitItems)
	}

	var build content.Build
	for _, id := range s.MandatoryItems {
		item, ok := s.Pool.Get(id)
		if !ok {
			return fmt.Errorf("buildopt: mandatory item %q not found in pool", id)
		}
		if !s.Pool.CanAdd(build, item) {
			return fmt.Errorf("buildopt: mandatory item %q conflicts with another mandatory item", id)
		}
		build = build.WithItem(id)
	}
	return nil
}

// workerCount resolves the configured worker count against the host.
func (s Settings) workerCount() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.NumCPU()
}

// FindBestBuilds runs the layered beam search: start from the
// mandatory-item build, then for each remaining slot call ExtendLayer to
// generate and score every legal one-item extension of the current beam
// and deduplicate multisets keeping the higher scorer, then prune to the
// relaxed Pareto frontier before moving to the next layer. The final
// layer prunes with strict dominance (k=1) and the survivors are
// returned sorted by gold-weighted average score, best first.
func FindBestBuilds(settings Settings) ([]BuildContainer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	seed := NewBuildContainer()
	for _, id := range settings.MandatoryItems {
		item, _ := settings.Pool.Get(id)
		dps, defense, ms := scoreBuild(seed.Build.WithItem(id), settings)
		seed = seed.ExtendedWith(item, seed.FinalGold()+item.Cost, dps, defense, ms)
	}

	beam := []BuildContainer{seed}
	startSlot := len(settings.MandatoryItems)

	for slot := startSlot; slot < settings.MaxUnitItems; slot++ {
		isFinalLayer := slot == settings.MaxUnitItems-1

		extended := ExtendLayer(beam, settings.Pool, settings.JudgmentWeights, settings.workerCount(),
			func(bc BuildContainer, item content.Item) (dps, defense, ms float64) {
				return scoreBuild(bc.Build.WithItem(item.ID), settings)
			})
		if len(extended) == 0 {
			return nil, fmt.Errorf("buildopt: layer %d produced no candidates (pool exhausted or every extension conflicts with an equipped item)", slot)
		}

		k := RelaxationFactor(isFinalLayer, settings.SearchThreshold)
		beam = PrunePareto(extended, settings.JudgmentWeights, k, settings.SearchThreshold)

		if settings.OnLayerComplete != nil {
			best := 0.0
			for _, c := range beam {
				if s := c.GoldWeightedAverageScore(settings.JudgmentWeights); s > best {
					best = s
				}
			}
			settings.OnLayerComplete(slot, len(beam), best)
		}
	}

	sort.Slice(beam, func(i, j int) bool {
		return beam[i].GoldWeightedAverageScore(settings.JudgmentWeights) >
			beam[j].GoldWeightedAverageScore(settings.JudgmentWeights)
	})
	return beam, nil
}

// scoreBuild runs one weighted-duration fight for a completed build and
// returns the (dps, defense, moveSpeed) triple BuildContainer tracks.
func scoreBuild(build content.Build, settings Settings) (dps, defense, ms float64) {
	attacker := unit.New("candidate", settings.BaseStats, settings.Runes, build, settings.Pool)
	target := unit.New("target", settings.Target.Stats, content.RunePage{}, content.Build{}, settings.Pool)
	result := simulate.WeightedDuration(attacker, target, settings.FightDuration, settings.PhysDmgTakenPercent, settings.Scenario)
	return result.DPS, result.EffectiveHP, result.MoveSpeed
}
