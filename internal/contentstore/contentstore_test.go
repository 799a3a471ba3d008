package contentstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafe1231/loadout-optimizer/internal/content"
)

func TestRowToItemDecodesStatsAndTags(t *testing.T) {
	statsJSON, err := json.Marshal(map[string]float64{"BonusAD": 60, "CritChance": 0.2})
	require.NoError(t, err)

	row := itemRow{
		ID:         "infinity_edge",
		Name:       "Infinity Edge",
		Cost:       3400,
		ItemGroups: []string{"mythic"},
		Tags:       []string{"support"},
		Stats:      statsJSON,
	}

	item, err := rowToItem(row)
	require.NoError(t, err)

	assert.Equal(t, "infinity_edge", item.ID)
	assert.Equal(t, 3400, item.Cost)
	assert.Equal(t, 60.0, item.Stats.BonusAD)
	assert.Equal(t, 0.2, item.Stats.CritChance)
	assert.True(t, item.HasGroup(content.ItemGroup("mythic")))
	assert.True(t, item.HasTag(content.TagSupport))
}

func TestRowToItemRejectsMalformedStats(t *testing.T) {
	row := itemRow{ID: "broken", Stats: json.RawMessage(`{not json`)}
	_, err := rowToItem(row)
	assert.Error(t, err)
}

func TestRowToItemWithNoGroupsOrTagsProducesEmptySlices(t *testing.T) {
	statsJSON, err := json.Marshal(map[string]float64{})
	require.NoError(t, err)

	item, err := rowToItem(itemRow{ID: "boots_of_speed", Stats: statsJSON})
	require.NoError(t, err)

	assert.Empty(t, item.Groups)
	assert.Empty(t, item.Tags)
}
