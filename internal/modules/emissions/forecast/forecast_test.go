package forecast

import (
	"math/rand"
	"testing"
	"time"

	"greenpulse/internal/modules/emissions/types"
)

func makeHistory(n int, co, c6h6, nox, no2, temp, rh, sc float64) []types.StoredReading {
	out := make([]types.StoredReading, n)
	base := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = types.StoredReading{
			StationID: 1,
			Time:      base.Add(time.Duration(i) * time.Hour),
			CO:        co, C6H6: c6h6, NOx: nox, NO2: no2,
			Temp: temp, RH: rh, Score: sc,
		}
	}
	return out
}

func TestPredict_EmptyHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	got := Predict(nil, time.Now(), rng)
	if got != 0 {
		t.Errorf("Predict(nil) = %v; want 0", got)
	}
}

func TestPredict_ShortHistoryFallsBackToJitter(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	h := makeHistory(3, 2.5, 8, 200, 110, 22, 50, 5.0)
	got := Predict(h, time.Now(), rng)
	if got < 5.0*0.9 || got >= 5.0*1.1 {
		t.Errorf("Predict(short history) = %v; want within [4.5, 5.5)", got)
	}
}

func TestPredict_ClampedToScale(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

	clean := makeHistory(8, 0, 0, 0, 0, 20, 45, 10)
	if got := Predict(clean, now, rng); got < 0 || got > 10 {
		t.Errorf("Predict(clean) = %v; want within [0, 10]", got)
	}

	dirty := makeHistory(8, 25, 80, 2000, 1000, 30, 80, 0)
	if got := Predict(dirty, now, rng); got != 0 {
		t.Errorf("Predict(dirty) = %v; want clamp to 0", got)
	}
}

func TestPredict_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	h := makeHistory(10, 2.5, 8, 200, 110, 22, 50, 5.0)

	a := Predict(h, now, rand.New(rand.NewSource(1)))
	b := Predict(h, now, rand.New(rand.NewSource(2)))
	if a != b {
		t.Errorf("Predict with full history should not consume rng: %v != %v", a, b)
	}
}

func TestPredict_CleanerAirScoresHigher(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	clean := Predict(makeHistory(8, 1.0, 3, 80, 40, 22, 50, 8), now, rng)
	dirty := Predict(makeHistory(8, 4.0, 12, 350, 180, 22, 50, 2), now, rng)
	if clean <= dirty {
		t.Errorf("Predict: clean=%v should exceed dirty=%v", clean, dirty)
	}
}

func TestWeekday_MondayZero(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday
	if got := weekday(monday); got != 0 {
		t.Errorf("weekday(Monday) = %d; want 0", got)
	}
	sunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := weekday(sunday); got != 6 {
		t.Errorf("weekday(Sunday) = %d; want 6", got)
	}
}
