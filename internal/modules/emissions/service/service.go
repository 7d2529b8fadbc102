package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"greenpulse/internal/modules/emissions/forecast"
	"greenpulse/internal/modules/emissions/repository"
	"greenpulse/internal/modules/emissions/score"
	"greenpulse/internal/modules/emissions/types"
)

// historyHours is the chart window: one reading per hour for the past day.
const historyHours = 24

type Service struct {
	repository repository.EmissionsRepository
	stationID  int

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewService(repo repository.EmissionsRepository, stationID int) *Service {
	return &Service{
		repository: repo,
		stationID:  stationID,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:        time.Now,
	}
}

// Refresh assembles the dashboard payload: current reading, next-hour
// prediction and the 24h score series. Stores with less than a day of
// readings are backfilled with synthetic hours first, so a fresh install
// still renders a full chart.
func (s *Service) Refresh() (*types.RefreshResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.ensureHistory(now); err != nil {
		return nil, fmt.Errorf("backfill history: %w", err)
	}

	readings, err := s.repository.GetRecentReadings(s.stationID, historyHours)
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("no readings for station %d", s.stationID)
	}

	current := readings[len(readings)-1]
	currentScore := round2(current.Score)
	status, color := score.Band(currentScore)

	predicted := round2(forecast.Predict(readings, now, s.rng))
	predStatus, predColor := score.Band(predicted)

	historical := make([]types.HistoricalPoint, 0, len(readings))
	for _, r := range readings {
		historical = append(historical, types.HistoricalPoint{
			Time:  r.Time.Local().Format("15:04"),
			Score: r.Score,
		})
	}

	return &types.RefreshResponse{
		Success: true,
		Current: types.Reading{
			Score:     currentScore,
			Status:    status,
			Color:     color,
			Timestamp: current.Time.Local().Format("2006-01-02 15:04:05"),
			CO:        current.CO,
			C6H6:      current.C6H6,
			NOx:       current.NOx,
			NO2:       current.NO2,
			Temp:      current.Temp,
			RH:        current.RH,
		},
		Prediction: types.Prediction{
			Score:  predicted,
			Status: predStatus,
			Color:  predColor,
		},
		Historical: historical,
	}, nil
}

// ensureHistory backfills synthetic hourly readings until the past day is
// fully populated. Only hours with no stored reading are filled; real
// ingested readings are never replaced.
func (s *Service) ensureHistory(now time.Time) error {
	count, err := s.repository.GetReadingsCount(s.stationID, now.Add(-historyHours*time.Hour))
	if err != nil {
		return err
	}
	if count >= historyHours {
		return nil
	}

	existing, err := s.repository.GetRecentReadings(s.stationID, historyHours)
	if err != nil {
		return err
	}
	covered := make(map[int64]bool, len(existing))
	for _, r := range existing {
		covered[r.Time.Truncate(time.Hour).Unix()] = true
	}

	for i := historyHours; i >= 1; i-- {
		ts := now.Add(-time.Duration(i) * time.Hour).Truncate(time.Hour)
		if covered[ts.Unix()] {
			continue
		}
		if err := s.repository.InsertReading(synthesizeReading(s.stationID, ts, s.rng)); err != nil {
			return err
		}
	}
	return nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
