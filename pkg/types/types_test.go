package types_test

import (
	"testing"

	"github.com/scrypster/lostpaws/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestConfidenceRank_Ordinal(t *testing.T) {
	assert.Equal(t, 3, types.ConfidenceHigh.Rank())
	assert.Equal(t, 2, types.ConfidenceMedium.Rank())
	assert.Equal(t, 1, types.ConfidenceLow.Rank())
	assert.Equal(t, 0, types.Confidence("").Rank())
	assert.Equal(t, 0, types.Confidence("certain").Rank())
}

func TestIsValidStatusTransition(t *testing.T) {
	tests := []struct {
		from, to types.ReportStatus
		want     bool
	}{
		{types.StatusLost, types.StatusFound, true},
		{types.StatusLost, types.StatusResolved, true},
		{types.StatusFound, types.StatusLost, true},
		{types.StatusFound, types.StatusResolved, true},
		{types.StatusResolved, types.StatusLost, false},
		{types.StatusResolved, types.StatusFound, false},
		{types.StatusLost, types.StatusLost, false},
		{types.StatusLost, "missing", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, types.IsValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidWeatherCondition(t *testing.T) {
	for _, w := range types.ValidWeatherConditions {
		assert.True(t, types.IsValidWeatherCondition(w), w)
	}
	assert.True(t, types.IsValidWeatherCondition(""), "empty means not set")
	assert.False(t, types.IsValidWeatherCondition("hail"))
}

func TestColorForIndex_Positional(t *testing.T) {
	want := []types.AreaColor{
		types.ColorRed, types.ColorAmber, types.ColorBlue,
		types.ColorPurple, types.ColorGreen, types.ColorIndigo, types.ColorIndigo,
	}
	for i, c := range want {
		assert.Equal(t, c, types.ColorForIndex(i), "index %d", i)
	}
	assert.Equal(t, "area1", types.AreaID(0))
	assert.Equal(t, "area7", types.AreaID(6))
}

func TestAreaColorHex(t *testing.T) {
	assert.Equal(t, "#EF4444", types.ColorRed.Hex())
	assert.Equal(t, types.ColorIndigo.Hex(), types.AreaColor("teal").Hex())
}
