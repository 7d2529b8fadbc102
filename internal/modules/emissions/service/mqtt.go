package service

import (
	"log/slog"

	"greenpulse/internal/modules/emissions/score"
	"greenpulse/internal/modules/emissions/types"
)

// TelemetrySubscriber is the part of the MQTT subscriber the emissions
// module needs for attaching its handler.
type TelemetrySubscriber interface {
	SetMessageHandler(handler func(telemetry types.Telemetry) error)
}

// Broadcaster pushes a refresh notification to connected dashboard clients.
type Broadcaster interface {
	Broadcast(event any)
}

// RegisterIngest sets up the emissions module's MQTT message handler:
// fill gaps from the latest stored reading, score, store, notify.
func (s *Service) RegisterIngest(subscriber TelemetrySubscriber, hub Broadcaster, logger *slog.Logger) {
	subscriber.SetMessageHandler(func(t types.Telemetry) error {
		logger.Debug("processing telemetry message",
			"station_id", t.StationID,
			"timestamp", t.Timestamp,
		)

		rec := s.readingFromTelemetry(t)
		if err := s.repository.InsertReading(rec); err != nil {
			logger.Error("failed to insert reading",
				"station_id", t.StationID,
				"error", err,
			)
			return err
		}

		if hub != nil {
			hub.Broadcast(map[string]any{
				"type":       "reading",
				"station_id": rec.StationID,
				"ts":         rec.Time,
				"score":      rec.Score,
			})
		}

		logger.Debug("stored telemetry", "station_id", t.StationID, "score", rec.Score)
		return nil
	})
}

// readingFromTelemetry builds a stored reading from a live message.
// Sensors report partial field sets; missing values carry forward from the
// latest stored reading (or the synthetic baselines on an empty store) so
// the composite score always has all four pollutants.
func (s *Service) readingFromTelemetry(t types.Telemetry) types.StoredReading {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := types.StoredReading{
		CO: baseCO, C6H6: baseC6H6, NOx: baseNOx, NO2: baseNO2,
		Temp: baseTemp, RH: baseRH,
	}
	if latest, err := s.repository.GetRecentReadings(t.StationID, 1); err == nil && len(latest) == 1 {
		prev = latest[0]
	}

	rec := types.StoredReading{
		StationID: t.StationID,
		Time:      t.Timestamp,
		CO:        pick(t.CO, prev.CO),
		C6H6:      pick(t.C6H6, prev.C6H6),
		NOx:       pick(t.NOx, prev.NOx),
		NO2:       pick(t.NO2, prev.NO2),
		Temp:      pick(t.Temp, prev.Temp),
		RH:        pick(t.RH, prev.RH),
	}
	rec.Score = round2(score.Composite(rec.CO, rec.C6H6, rec.NOx, rec.NO2))
	rec.CO = round2(rec.CO)
	rec.C6H6 = round2(rec.C6H6)
	rec.NOx = round2(rec.NOx)
	rec.NO2 = round2(rec.NO2)
	rec.Temp = round1(rec.Temp)
	rec.RH = round1(rec.RH)
	return rec
}

func pick(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
