package statmodel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestUnitStatsAddIdentity(t *testing.T) {
	base := UnitStats{HP: 500, BonusAD: 30, PercentArmorPen: 0.2, PhysicalDmgMod: 0.1}
	got := base.Add(UnitStats{})
	assert.Equal(t, base, got)
}

func TestUnitStatsAddRemoveRoundTrip_Additive(t *testing.T) {
	base := UnitStats{HP: 500, BaseAD: 60, BonusAD: 10}
	delta := UnitStats{HP: 120, BonusAD: 45}
	got := base.Add(delta).Remove(delta)
	require.InDelta(t, base.HP, got.HP, eps)
	require.InDelta(t, base.BonusAD, got.BonusAD, eps)
}

func TestUnitStatsAddRemoveRoundTrip_PercentStat(t *testing.T) {
	base := UnitStats{PercentArmorPen: 0.3}
	delta := UnitStats{PercentArmorPen: 0.25}
	got := base.Add(delta).Remove(delta)
	require.InDelta(t, float64(base.PercentArmorPen), float64(got.PercentArmorPen), eps)
}

func TestUnitStatsAddRemoveRoundTrip_ExpStat(t *testing.T) {
	base := UnitStats{PhysicalDmgMod: 0.15}
	delta := UnitStats{PhysicalDmgMod: 0.4}
	got := base.Add(delta).Remove(delta)
	require.InDelta(t, float64(base.PhysicalDmgMod), float64(got.PhysicalDmgMod), eps)
}

func TestPercentStatCompositionFormula(t *testing.T) {
	var s PercentStat = 0.3
	got := s.Add(0.5)
	want := 0.3 + (1-0.3)*0.5
	require.InDelta(t, want, float64(got), eps)
}

func TestExpStatCompositionFormula(t *testing.T) {
	var s ExpStat = 0.2
	got := s.Add(0.1)
	want := 0.2 + (1+0.2)*0.1
	require.InDelta(t, want, float64(got), eps)
}

func TestResistCurveProperties(t *testing.T) {
	require.InDelta(t, 1.0, ResistCurve(0), eps)

	prev := ResistCurve(0)
	for r := 10.0; r <= 300; r += 10 {
		cur := ResistCurve(r)
		assert.Less(t, cur, prev, "ResistCurve must strictly decrease for r>=0")
		prev = cur
	}

	for _, x := range []float64{5, 25, 100} {
		require.InDelta(t, 2-ResistCurve(x), ResistCurve(-x), 1e-6)
	}
}

func TestHasteCoefSymmetry(t *testing.T) {
	require.InDelta(t, 1.0, HasteCoef(0), eps)
	require.InDelta(t, 2-HasteCoef(40), HasteCoef(-40), 1e-6)
}

func TestSoftCapMSContinuousAndMonotone(t *testing.T) {
	breaks := []float64{0, 220, 415, 490}
	for _, b := range breaks {
		left := SoftCapMS(b - 1e-6)
		right := SoftCapMS(b + 1e-6)
		require.InDelta(t, left, right, 1e-3, "discontinuity at %v", b)
	}

	prev := -math.MaxFloat64
	for ms := 0.0; ms <= 800; ms += 5 {
		cur := SoftCapMS(ms)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestCritCoefficient(t *testing.T) {
	s := UnitStats{CritChance: 0.5, CritDamage: 2.0}
	require.InDelta(t, 1+0.5*(2.0-1), s.CritCoefficient(), eps)
}

func TestTotalCritChanceCapped(t *testing.T) {
	s := UnitStats{CritChance: 1.4}
	require.Equal(t, 1.0, s.TotalCritChance())
}

func TestAvailabilityCoefficient(t *testing.T) {
	require.InDelta(t, 0.5, AvailabilityCoefficient(10, 10), eps)
	require.InDelta(t, 1.0, AvailabilityCoefficient(10, 0), eps)
}
