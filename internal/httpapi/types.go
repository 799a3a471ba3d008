package httpapi

import (
	"github.com/cafe1231/loadout-optimizer/internal/buildopt"
	"github.com/cafe1231/loadout-optimizer/internal/simulate"
	"github.com/cafe1231/loadout-optimizer/internal/statmodel"
)

// OptimizeRequest is the POST /api/v1/optimize request body: a JSON
// rendering of buildopt.Settings plus the target-dummy and unit
// selectors recognized as top-level job settings.
type OptimizeRequest struct {
	UnitID string `json:"unit_id" binding:"required"`

	BaseStats statmodel.UnitStats `json:"base_stats" binding:"required"`
	RuneStats statmodel.UnitStats `json:"rune_stats"`

	// TargetDummy selects one of simulate.Squishy/Bruiser/Tanky.
	TargetDummy string `json:"target_dummy" binding:"required,oneof=squishy bruiser tanky"`

	FightDuration   float64         `json:"fight_duration" binding:"required,gt=0,lte=60"`
	JudgmentWeights JudgmentWeights `json:"judgment_weights"`

	// PhysDmgTakenPercent in (0,1] blends the armor/MR curves when
	// scoring a candidate's effective HP. Zero falls back to the
	// service's configured default.
	PhysDmgTakenPercent float64 `json:"phys_dmg_taken_percent" binding:"gte=0,lte=1"`

	NItems          int      `json:"n_items" binding:"required,gt=0"`
	BootsSlot       int      `json:"boots_slot"`
	SupportItemSlot int      `json:"support_item_slot"`
	MandatoryItems  []string `json:"mandatory_items"`

	LegendaryItemsPool []string `json:"legendary_items_pool"`
	BootsPool          []string `json:"boots_pool"`
	SupportItemsPool   []string `json:"support_items_pool"`

	AllowBootsIfNoSlot     bool `json:"allow_boots_if_no_slot"`
	AllowManaflowFirstItem bool `json:"allow_manaflow_first_item"`

	SearchThreshold float64 `json:"search_threshold" binding:"required,gt=0,lte=1"`
}

// JudgmentWeights mirrors buildopt.JudgmentWeights for JSON decoding.
type JudgmentWeights struct {
	DPS     float64 `json:"dps"`
	Defense float64 `json:"defense"`
	MS      float64 `json:"ms"`
}

func (w JudgmentWeights) toBuildopt() buildopt.JudgmentWeights {
	if w.DPS == 0 && w.Defense == 0 && w.MS == 0 {
		return buildopt.DefaultJudgmentWeights
	}
	return buildopt.JudgmentWeights{DPS: w.DPS, Defense: w.Defense, MS: w.MS}
}

func targetDummy(name string) (simulate.TargetStats, bool) {
	switch name {
	case "squishy":
		return simulate.Squishy, true
	case "bruiser":
		return simulate.Bruiser, true
	case "tanky":
		return simulate.Tanky, true
	default:
		return simulate.TargetStats{}, false
	}
}

// JobResponse is the GET /api/v1/optimize/:id response body.
type JobResponse struct {
	ID             string               `json:"id"`
	Status         string               `json:"status"`
	Error          string               `json:"error,omitempty"`
	LayersExplored int                  `json:"layers_explored"`
	Results        []BuildResultPayload `json:"results,omitempty"`
}

// BuildResultPayload is one ranked survivor in a job response.
type BuildResultPayload struct {
	Rank        int      `json:"rank"`
	ItemIDs     []string `json:"item_ids"`
	Gold        int      `json:"gold"`
	DPS         float64  `json:"dps"`
	EffectiveHP float64  `json:"effective_hp"`
	MoveSpeed   float64  `json:"move_speed"`
	Score       float64  `json:"score"`
}
