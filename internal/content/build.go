package content

import (
	"sort"

	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
)

// statsAccumulator bundles the stat and gold total returned by
// Pool.TotalStats.
type statsAccumulator struct {
	Stats statmodel.UnitStats
	Gold  int
}

// MaxItems is the fixed number of item slots a Build can hold. The
// array-backed Build below is sized to this constant rather than a slice
// so canonical hashing and slot-by-slot layer generation
// (internal/buildopt) can address slots by index without bounds-checking
// a variable-length collection.
const MaxItems = 6

// emptySlot is the sentinel ID occupying unfilled slots.
const emptySlot = ""

// Build is a fixed-capacity, order-independent set of up to MaxItems
// item IDs. The zero value is a fully empty build.
type Build struct {
	Slots [MaxItems]string
}

// Count returns the number of filled slots.
func (b Build) Count() int {
	n := 0
	for _, s := range b.Slots {
		if s != emptySlot {
			n++
		}
	}
	return n
}

// Full reports whether every slot is occupied.
func (b Build) Full() bool { return b.Count() == MaxItems }

// Contains reports whether itemID already occupies a slot.
func (b Build) Contains(itemID string) bool {
	for _, s := range b.Slots {
		if s == itemID {
			return true
		}
	}
	return false
}

// WithItem returns a copy of b with itemID placed in the first empty
// slot. The caller is expected to have already validated duplicate/group
// constraints via Pool.CanAdd.
func (b Build) WithItem(itemID string) Build {
	out := b
	for i, s := range out.Slots {
		if s == emptySlot {
			out.Slots[i] = itemID
			return out
		}
	}
	return out
}

// CanonicalHash returns a multiset-order-independent key for the build:
// the slot contents sorted, joined by a separator that cannot appear in
// an item ID. Two builds holding the same items in different slot order
// hash identically, which is what the layer generator's dedup
// relies on.
func (b Build) CanonicalHash() string {
	items := make([]string, 0, MaxItems)
	for _, s := range b.Slots {
		if s != emptySlot {
			items = append(items, s)
		}
	}
	sort.Strings(items)

	hash := ""
	for i, id := range items {
		if i > 0 {
			hash += "\x1f"
		}
		hash += id
	}
	return hash
}

// Pool is the set of items legal for a particular optimization run
// (after mandatory-item and tag filtering), plus lookup by ID.
type Pool struct {
	items map[string]Item
	order []string // preserves authoring order for deterministic iteration
}

// NewPool builds a Pool from a flat item list.
func NewPool(items []Item) *Pool {
	p := &Pool{items: make(map[string]Item, len(items))}
	for _, it := range items {
		p.items[it.ID] = it
		p.order = append(p.order, it.ID)
	}
	return p
}

// Get looks up an item by ID.
func (p *Pool) Get(id string) (Item, bool) {
	it, ok := p.items[id]
	return it, ok
}

// All returns every item in the pool in authoring order.
func (p *Pool) All() []Item {
	out := make([]Item, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.items[id])
	}
	return out
}

// CanAdd reports whether candidate can legally extend build b: it must
// not already be present, and must not share an exclusivity group with
// any item already in the build. Boots and support items are further
// restricted to one each per build via a TagBoots/TagSupport group-like
// check, since those items intentionally carry no ItemGroup (a unit can
// otherwise hold two non-grouped items).
func (p *Pool) CanAdd(b Build, candidate Item) bool {
	if b.Contains(candidate.ID) {
		return false
	}
	for _, tag := range []Tag{TagBoots, TagSupport} {
		if !candidate.HasTag(tag) {
			continue
		}
		for _, s := range b.Slots {
			if s == emptySlot {
				continue
			}
			if existing, ok := p.items[s]; ok && existing.HasTag(tag) {
				return false
			}
		}
	}
	for _, s := range b.Slots {
		if s == emptySlot {
			continue
		}
		existing, ok := p.items[s]
		if !ok {
			continue
		}
		if candidate.SharesGroupWith(existing) {
			return false
		}
	}
	return true
}

// TotalStats sums the stat contribution of every item in b using the
// additive UnitStats.Add (item stats combine additively with base unit
// stats; multiplicative/exponential stacking is handled inside UnitStats'
// own field-level composition).
func (p *Pool) TotalStats(b Build) (total statsAccumulator) {
	for _, s := range b.Slots {
		if s == emptySlot {
			continue
		}
		if it, ok := p.items[s]; ok {
			total.Stats = total.Stats.Add(it.Stats)
			total.Gold += it.Cost
		}
	}
	return total
}
