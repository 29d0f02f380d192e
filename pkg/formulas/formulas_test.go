package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	sma := SMA(closes, 5)
	require.NotNil(t, sma)
	assert.InDelta(t, 3.0, *sma, 1e-9)

	sma = SMA(closes, 2)
	require.NotNil(t, sma)
	assert.InDelta(t, 4.5, *sma, 1e-9)

	assert.Nil(t, SMA(closes, 6), "insufficient history must be absent")
	assert.Nil(t, SMA(nil, 3))
	assert.Nil(t, SMA(closes, 0))
}

func TestRSI(t *testing.T) {
	// Alternating +2/-1 moves over 14 periods: avg gain 1, avg loss 0.5,
	// RS = 2, RSI = 100 - 100/3.
	closes := make([]float64, 0, 15)
	price := 100.0
	closes = append(closes, price)
	for i := 0; i < 14; i++ {
		if i%2 == 0 {
			price += 2
		} else {
			price -= 1
		}
		closes = append(closes, price)
	}

	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 100-100.0/3, *rsi, 1e-9)
}

func TestRSI_ZeroAverageLoss(t *testing.T) {
	// Strictly rising series: no losses, RSI is undefined and must be
	// reported as absent rather than forced to 100.
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	assert.Nil(t, RSI(closes, 14))
}

func TestRSI_InsufficientHistory(t *testing.T) {
	closes := []float64{100, 101, 99}
	assert.Nil(t, RSI(closes, 14))
	assert.Nil(t, RSI(closes, 0))
}

func TestMomentum(t *testing.T) {
	closes := []float64{100, 102, 104, 106, 108, 110}

	// 5 sessions back from 110 is 102.
	assert.InDelta(t, (110-102)/102.0*100, Momentum(closes, 5), 1e-9)

	// Short history falls back to the current price, yielding 0%.
	assert.Zero(t, Momentum([]float64{100, 105}, 21))
	assert.Zero(t, Momentum(nil, 5))
}

func TestVolumeRatio(t *testing.T) {
	volumes := []float64{100, 100, 100, 100, 200}
	assert.InDelta(t, 200.0/120.0, VolumeRatio(volumes, 5), 1e-9)

	// Missing or zero average defaults to 1.
	assert.Equal(t, 1.0, VolumeRatio(nil, 20))
	assert.Equal(t, 1.0, VolumeRatio([]float64{100, 200}, 20))
	assert.Equal(t, 1.0, VolumeRatio([]float64{0, 0, 0}, 3))
}

func TestPercentFrom(t *testing.T) {
	ref := 100.0
	pct := PercentFrom(110, &ref)
	require.NotNil(t, pct)
	assert.InDelta(t, 10.0, *pct, 1e-9)

	assert.Nil(t, PercentFrom(110, nil))
	zero := 0.0
	assert.Nil(t, PercentFrom(110, &zero))
}
