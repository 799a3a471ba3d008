package buildopt

import (
	"runtime"
	"sync"

	"github.com/cafe1231/loadout-optimizer/internal/content"
)

// scoredContainer pairs a candidate with its gold-weighted average
// score so ExtendLayer can keep the higher scorer on a hash collision
// without recomputing it.
type scoredContainer struct {
	container BuildContainer
	score     float64
}

// candidateExtension is one beam-container/item-extension combination
// awaiting a scored fight.
type candidateExtension struct {
	bc   BuildContainer
	item content.Item
}

// ExtendLayer extends every container in beam by one slot, trying every
// item in pool that Pool.CanAdd allows, scoring each resulting build
// with score across workers goroutines (0 picks runtime.NumCPU()), and
// deduplicating by Build.CanonicalHash so that two different paths to
// the same item multiset keep only the higher-scoring arrival.
//
// score computes (dps, defense, ms) for one extended container; it is
// supplied by the caller (internal/buildopt's optimizer) since producing
// those numbers requires running a simulated fight, which this file
// intentionally has no dependency on. Each worker calls score with its
// own candidates only, so score must be safe to call concurrently
// across goroutines but never needs to coordinate with other calls.
func ExtendLayer(beam []BuildContainer, pool *content.Pool, weights JudgmentWeights, workers int,
	score func(BuildContainer, content.Item) (dps, defense, ms float64)) []BuildContainer {

	var pairs []candidateExtension
	for _, bc := range beam {
		for _, item := range pool.All() {
			if pool.CanAdd(bc.Build, item) {
				pairs = append(pairs, candidateExtension{bc: bc, item: item})
			}
		}
	}
	if len(pairs) == 0 {
		return nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	extended := make([]BuildContainer, len(pairs))
	chunkSize := (len(pairs) + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if lo >= len(pairs) {
			break
		}
		if hi > len(pairs) {
			hi = len(pairs)
		}

		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				p := pairs[i]
				cumulativeGold := p.bc.FinalGold() + p.item.Cost
				dps, defense, ms := score(p.bc, p.item)
				extended[i] = p.bc.ExtendedWith(p.item, cumulativeGold, dps, defense, ms)
			}
		}(lo, hi)
	}
	wg.Wait()

	seen := make(map[string]scoredContainer, len(extended))
	for _, c := range extended {
		hash := c.Build.CanonicalHash()
		candidateScore := c.GoldWeightedAverageScore(weights)
		if existing, ok := seen[hash]; !ok || candidateScore > existing.score {
			seen[hash] = scoredContainer{container: c, score: candidateScore}
		}
	}

	out := make([]BuildContainer, 0, len(seen))
	for _, sc := range seen {
		out = append(out, sc.container)
	}
	return out
}
