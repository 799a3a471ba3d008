package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCanonicalHashIgnoresSlotOrder(t *testing.T) {
	var a, b Build
	a.Slots[0] = "bork"
	a.Slots[1] = "ie"
	b.Slots[0] = "ie"
	b.Slots[1] = "bork"

	assert.Equal(t, a.CanonicalHash(), b.CanonicalHash())
}

func TestBuildCanonicalHashDiffersOnContent(t *testing.T) {
	var a, b Build
	a.Slots[0] = "bork"
	b.Slots[0] = "ie"
	assert.NotEqual(t, a.CanonicalHash(), b.CanonicalHash())
}

func TestPoolCanAddRejectsDuplicate(t *testing.T) {
	pool := NewPool([]Item{{ID: "bork"}})
	var b Build
	b.Slots[0] = "bork"
	assert.False(t, pool.CanAdd(b, Item{ID: "bork"}))
}

func TestPoolCanAddRejectsSharedGroup(t *testing.T) {
	pool := NewPool([]Item{
		{ID: "mythicA", Groups: []ItemGroup{"mythic"}},
		{ID: "mythicB", Groups: []ItemGroup{"mythic"}},
	})
	var b Build
	b.Slots[0] = "mythicA"
	assert.False(t, pool.CanAdd(b, Item{ID: "mythicB", Groups: []ItemGroup{"mythic"}}))
}

func TestPoolCanAddRejectsSecondBoots(t *testing.T) {
	pool := NewPool([]Item{
		{ID: "bootsA", Tags: []Tag{TagBoots}},
		{ID: "bootsB", Tags: []Tag{TagBoots}},
	})
	var b Build
	b.Slots[0] = "bootsA"
	assert.False(t, pool.CanAdd(b, Item{ID: "bootsB", Tags: []Tag{TagBoots}}))
}

func TestPoolCanAddAllowsUnrelatedItem(t *testing.T) {
	pool := NewPool([]Item{{ID: "bork"}, {ID: "ie"}})
	var b Build
	b.Slots[0] = "bork"
	assert.True(t, pool.CanAdd(b, Item{ID: "ie"}))
}

func validStandardOrder() SkillOrder {
	// First point in each of Q/W/E by level 3, R at the fixed 6/11/16
	// levels, 5 points in each basic slot across the remaining 15 levels.
	return SkillOrder{
		SlotQ, SlotW, SlotE, SlotQ, SlotW, SlotR,
		SlotE, SlotQ, SlotW, SlotE, SlotR, SlotQ,
		SlotW, SlotE, SlotQ, SlotR, SlotW, SlotE,
	}
}

func TestValidateSkillOrderAcceptsStandardOrder(t *testing.T) {
	require.NoError(t, ValidateSkillOrder("generic_unit", validStandardOrder()))
}

func TestValidateSkillOrderRejectsUltimateOffSchedule(t *testing.T) {
	order := validStandardOrder()
	order[5] = SlotQ // level 6 must be R
	assert.Error(t, ValidateSkillOrder("generic_unit", order))
}

func TestValidateSkillOrderRejectsSecondPointBeforeAllBasics(t *testing.T) {
	order := SkillOrder{
		SlotQ, SlotQ, SlotE, SlotW, SlotE, SlotR,
		SlotQ, SlotW, SlotR, SlotE, SlotR, SlotE,
		SlotQ, SlotW, SlotE, SlotQ, SlotW, SlotE,
	}
	assert.Error(t, ValidateSkillOrder("generic_unit", order))
}

func TestValidateSkillOrderAphelliosExemptsW(t *testing.T) {
	// Q takes its second point at level 3, before W has ever received a
	// point: illegal for a generic unit, legal for aphelios whose W is
	// exempt from the "every basic before a second point" rule.
	order := SkillOrder{
		SlotQ, SlotE, SlotQ, SlotE, SlotQ, SlotR,
		SlotE, SlotQ, SlotE, SlotQ, SlotR, SlotE,
		SlotW, SlotW, SlotW, SlotR, SlotW, SlotW,
	}
	assert.Error(t, ValidateSkillOrder("generic_unit", order))
	assert.NoError(t, ValidateSkillOrder("aphelios", order))
}
