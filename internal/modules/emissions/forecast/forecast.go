// Package forecast predicts the next-hour emission score from recent
// readings. The regression coefficients below are an exported linear fit
// over the same 16-feature vector the original model was trained on; the
// heavy lifting is in the lag and rolling-mean features, with small
// seasonal corrections for hour, weekday and month.
package forecast

import (
	"math/rand"
	"time"

	"greenpulse/internal/modules/emissions/score"
	"greenpulse/internal/modules/emissions/types"
)

// minHistory is the shortest history that supports lag and 6h rolling
// features. Below it Predict falls back to jittering the current score.
const minHistory = 6

// featureCount is the width of the regression input.
const featureCount = 16

// Feature order: T, RH, Hour, DayOfWeek, Month, CO_Lag1, C6H6_Lag1,
// NOx_Lag1, NO2_Lag1, T_Lag1, RH_Lag1, CO_Roll3h, CO_Roll6h, NOx_Roll3h,
// NOx_Roll6h, NO2_NOx_Ratio.
var coefficients = [featureCount]float64{
	0.0032,   // T
	-0.0011,  // RH
	-0.0085,  // Hour
	0.0140,   // DayOfWeek
	0.0052,   // Month
	-0.2450,  // CO_Lag1
	-0.0817,  // C6H6_Lag1
	-0.00306, // NOx_Lag1
	-0.00613, // NO2_Lag1
	0.0021,   // T_Lag1
	-0.0007,  // RH_Lag1
	-0.1225,  // CO_Roll3h
	-0.1225,  // CO_Roll6h
	-0.00153, // NOx_Roll3h
	-0.00153, // NOx_Roll6h
	-0.3100,  // NO2_NOx_Ratio
}

const intercept = 10.18

// Predict returns the forecast score for the hour after the last reading in
// history. History must be chronological; the last element is the current
// reading. With fewer than minHistory points the model features cannot be
// built, so the result is the current score scaled by rng noise in
// [0.9, 1.1), matching the behavior when no trained model is available.
func Predict(history []types.StoredReading, now time.Time, rng *rand.Rand) float64 {
	if len(history) == 0 {
		return 0
	}
	current := history[len(history)-1]
	if len(history) < minHistory {
		return score.Clamp(current.Score * (0.9 + 0.2*rng.Float64()))
	}
	f := buildFeatures(history, now)
	s := intercept
	for i, c := range coefficients {
		s += c * f[i]
	}
	return score.Clamp(s)
}

func buildFeatures(history []types.StoredReading, now time.Time) [featureCount]float64 {
	current := history[len(history)-1]
	lag := history[len(history)-2]
	roll3 := rollingMeans(history[len(history)-3:])
	roll6 := rollingMeans(history[len(history)-6:])

	var ratio float64
	if current.NOx > 0 {
		ratio = current.NO2 / current.NOx
	}

	return [featureCount]float64{
		current.Temp,
		current.RH,
		float64(now.Hour()),
		float64(weekday(now)),
		float64(now.Month()),
		lag.CO,
		lag.C6H6,
		lag.NOx,
		lag.NO2,
		lag.Temp,
		lag.RH,
		roll3.co,
		roll6.co,
		roll3.nox,
		roll6.nox,
		ratio,
	}
}

type rollMean struct {
	co  float64
	nox float64
}

func rollingMeans(window []types.StoredReading) rollMean {
	var m rollMean
	for _, r := range window {
		m.co += r.CO
		m.nox += r.NOx
	}
	n := float64(len(window))
	m.co /= n
	m.nox /= n
	return m
}

// weekday maps to Monday=0..Sunday=6, the convention the model was fit with.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
