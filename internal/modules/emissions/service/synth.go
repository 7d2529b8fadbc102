package service

import (
	"math/rand"
	"time"

	"greenpulse/internal/modules/emissions/score"
	"greenpulse/internal/modules/emissions/types"
)

// Baseline concentrations for the synthetic generator; scaled by the
// traffic factor for the hour and multiplicative noise.
const (
	baseCO   = 2.5
	baseC6H6 = 8.0
	baseNOx  = 200.0
	baseNO2  = 110.0
	baseTemp = 22.0
	baseRH   = 50.0
)

// trafficFactor models rush-hour emission peaks and the overnight lull.
func trafficFactor(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9, hour >= 17 && hour <= 19:
		return 1.5
	case hour >= 22 || hour <= 5:
		return 0.6
	default:
		return 1.0
	}
}

// synthesizeReading generates one plausible reading for the given hour.
func synthesizeReading(stationID int, ts time.Time, rng *rand.Rand) types.StoredReading {
	factor := trafficFactor(ts.Hour())
	noise := 0.85 + 0.3*rng.Float64()

	co := baseCO * factor * noise
	c6h6 := baseC6H6 * factor * noise
	nox := baseNOx * factor * noise
	no2 := baseNO2 * factor * noise
	temp := baseTemp + (rng.Float64()*6 - 3)
	rh := baseRH + (rng.Float64()*20 - 10)

	return types.StoredReading{
		StationID: stationID,
		Time:      ts,
		CO:        round2(co),
		C6H6:      round2(c6h6),
		NOx:       round2(nox),
		NO2:       round2(no2),
		Temp:      round1(temp),
		RH:        round1(rh),
		Score:     round2(score.Composite(co, c6h6, nox, no2)),
	}
}
