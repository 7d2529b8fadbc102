package types

import "time"

// Reading is one snapshot of pollutant and environmental sensor values plus
// the derived composite score (0-10, lower is worse).
type Reading struct {
	Score     float64 `json:"score"`
	Status    string  `json:"status"`
	Color     string  `json:"color"`
	Timestamp string  `json:"timestamp"`
	CO        float64 `json:"co"`
	C6H6      float64 `json:"c6h6,omitempty"`
	NOx       float64 `json:"nox"`
	NO2       float64 `json:"no2"`
	Temp      float64 `json:"temp"`
	RH        float64 `json:"rh"`
}

// Prediction is the forecast for the next hour.
type Prediction struct {
	Score  float64 `json:"score"`
	Status string  `json:"status"`
	Color  string  `json:"color"`
}

// HistoricalPoint is one chart point; Time is an "HH:MM" label and the
// sequence order is chronological.
type HistoricalPoint struct {
	Time  string  `json:"time"`
	Score float64 `json:"score"`
}

// RefreshResponse is the body of GET /api/refresh-data.
type RefreshResponse struct {
	Success    bool              `json:"success"`
	Current    Reading           `json:"current"`
	Prediction Prediction        `json:"prediction"`
	Historical []HistoricalPoint `json:"historical"`
	Error      string            `json:"error,omitempty"`
}

// StoredReading is a row in the readings table, before rounding and status
// derivation for the API.
type StoredReading struct {
	StationID int
	Time      time.Time
	CO        float64
	C6H6      float64
	NOx       float64
	NO2       float64
	Temp      float64
	RH        float64
	Score     float64
}

// Telemetry is a live sensor message received over MQTT.
type Telemetry struct {
	StationID int       `json:"station_id"`
	Timestamp time.Time `json:"ts"`
	CO        *float64  `json:"co"`
	C6H6      *float64  `json:"c6h6"`
	NOx       *float64  `json:"nox"`
	NO2       *float64  `json:"no2"`
	Temp      *float64  `json:"temp_c"`
	RH        *float64  `json:"rh_pct"`
}
