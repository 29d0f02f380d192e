package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// SMA calculates the simple moving average over the trailing window and
// returns the latest value, or nil when there is not enough history.
func SMA(values []float64, window int) *float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	sma := talib.Sma(values, window)
	last := sma[len(sma)-1]
	if math.IsNaN(last) {
		return nil
	}
	return &last
}

// RSI calculates the Relative Strength Index over the trailing window:
//
//	RSI = 100 - 100/(1 + avg_gain/avg_loss)
//
// where avg_gain and avg_loss are simple means of the up and down moves in
// the last `period` price changes. The result is nil (absent, not zero) when
// there is insufficient history or the average loss is zero.
func RSI(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period+1 {
		return nil
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains += delta
		} else {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return nil
	}

	rsi := 100 - 100/(1+avgGain/avgLoss)
	if math.IsNaN(rsi) {
		return nil
	}
	return &rsi
}

// Momentum calculates the percentage price change over the trailing number
// of sessions. With insufficient history the reference falls back to the
// current price, yielding 0%.
func Momentum(closes []float64, sessions int) float64 {
	if len(closes) == 0 {
		return 0
	}
	current := closes[len(closes)-1]
	reference := current
	if len(closes) >= sessions && sessions > 0 {
		reference = closes[len(closes)-sessions]
	}
	if reference == 0 {
		return 0
	}
	return (current - reference) / reference * 100
}

// VolumeRatio compares the latest volume against its trailing average,
// defaulting to 1 when the average is zero or absent.
func VolumeRatio(volumes []float64, window int) float64 {
	if len(volumes) == 0 {
		return 1
	}
	avg := SMA(volumes, window)
	if avg == nil || *avg == 0 {
		return 1
	}
	return volumes[len(volumes)-1] / *avg
}

// PercentFrom calculates the percentage deviation of price from reference.
// Returns nil when the reference is absent or zero.
func PercentFrom(price float64, reference *float64) *float64 {
	if reference == nil || *reference == 0 {
		return nil
	}
	pct := (price - *reference) / *reference * 100
	return &pct
}

