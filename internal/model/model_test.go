package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDay_JSONRoundTrip(t *testing.T) {
	d := NewDay(2024, time.March, 5)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(raw))

	var back Day
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, d.Equal(back))
}

func TestDay_UnmarshalRejectsGarbage(t *testing.T) {
	var d Day
	assert.Error(t, json.Unmarshal([]byte(`"2024-3-5"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240305`), &d))
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2023-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", d.String())

	_, err = ParseDay("31/12/2023")
	assert.Error(t, err)
}

func TestSortBars(t *testing.T) {
	bars := []HistoricalBar{
		{Date: NewDay(2024, time.March, 3), Close: 3},
		{Date: NewDay(2024, time.March, 1), Close: 1},
		{Date: NewDay(2024, time.March, 2), Close: 2},
		{Date: NewDay(2024, time.March, 1), Close: 99}, // duplicate date, dropped
	}

	sorted := SortBars(bars)
	require.Len(t, sorted, 3)
	assert.Equal(t, "2024-03-01", sorted[0].Date.String())
	assert.Equal(t, float64(1), sorted[0].Close)
	assert.Equal(t, "2024-03-02", sorted[1].Date.String())
	assert.Equal(t, "2024-03-03", sorted[2].Date.String())

	// Input order untouched.
	assert.Equal(t, "2024-03-03", bars[0].Date.String())
}

func TestGridConfig_Validate(t *testing.T) {
	valid := GridConfig{
		Symbol:           "510300",
		InitialBasePrice: 3.5,
		GridMode:         GridModePercentage,
		RiseSellPercent:  5,
		FallBuyPercent:   -5,
		BuyAmount:        1000,
		SellAmount:       1000,
		InitialCash:      100000,
	}
	require.NoError(t, valid.Validate())

	// Zero cash with held stock is a legal starting point.
	zeroCash := valid
	zeroCash.InitialCash = 0
	zeroCash.InitialStock = 1000
	require.NoError(t, zeroCash.Validate())

	bad := valid
	bad.GridMode = "DIAGONAL"
	assert.Error(t, bad.Validate())

	bad = valid
	bad.InitialBasePrice = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.FallBuyPercent = 2
	assert.Error(t, bad.Validate())
}

func TestGridConfig_EffectiveFeeRate(t *testing.T) {
	var cfg GridConfig
	assert.Equal(t, DefaultFeeRate, cfg.EffectiveFeeRate())

	cfg.FeeRate = 0.001
	assert.Equal(t, 0.001, cfg.EffectiveFeeRate())
}

func TestGridConfig_InitialTotalAssetValue(t *testing.T) {
	cfg := GridConfig{InitialCash: 1000, InitialStock: 500, InitialBasePrice: 2.0}
	assert.Equal(t, 2000.0, cfg.InitialTotalAssetValue())
}
