package repository

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"greenpulse/internal/modules/emissions/types"
)

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-recent-readings.sql
var getRecentReadingsSQL string

//go:embed sql/get-readings-count.sql
var getReadingsCountSQL string

type EmissionsRepository interface {
	GetRecentReadings(stationID int, limit int) ([]types.StoredReading, error)
	GetReadingsCount(stationID int, since time.Time) (int, error)
	InsertReading(r types.StoredReading) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) EmissionsRepository {
	return &repositoryImpl{db: db}
}

// GetRecentReadings returns up to limit readings for the station in
// chronological order (oldest first), ending at the most recent one.
func (r *repositoryImpl) GetRecentReadings(stationID int, limit int) ([]types.StoredReading, error) {
	rows, err := r.db.Query(getRecentReadingsSQL, stationID, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recent readings rows", "error", err)
		}
	}()

	out, err := scanReadings(rows)
	if err != nil {
		return nil, err
	}
	// The query returns newest-first; the chart and feature windows want
	// chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *repositoryImpl) GetReadingsCount(stationID int, since time.Time) (int, error) {
	sinceStr := since.UTC().Format(time.RFC3339Nano)
	var n int
	err := r.db.QueryRow(getReadingsCountSQL, stationID, sinceStr).Scan(&n)
	return n, err
}

func (r *repositoryImpl) InsertReading(rec types.StoredReading) error {
	if rec.Time.IsZero() {
		return fmt.Errorf("insert reading: zero timestamp")
	}
	if rec.RH < 0 || rec.RH > 100 {
		return fmt.Errorf("rh_pct out of range: %f (must be 0-100)", rec.RH)
	}
	tsStr := rec.Time.UTC().Format(time.RFC3339Nano)
	_, err := r.db.Exec(insertReadingSQL,
		rec.StationID, tsStr,
		rec.CO, rec.C6H6, rec.NOx, rec.NO2,
		rec.Temp, rec.RH, rec.Score,
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

func scanReadings(rows *sql.Rows) ([]types.StoredReading, error) {
	var out []types.StoredReading
	for rows.Next() {
		var rec types.StoredReading
		var ts string
		if err := rows.Scan(&rec.StationID, &ts, &rec.CO, &rec.C6H6, &rec.NOx, &rec.NO2, &rec.Temp, &rec.RH, &rec.Score); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			var err2 error
			t, err2 = time.Parse(time.RFC3339, ts)
			if err2 != nil {
				return nil, fmt.Errorf("parse timestamp %q: RFC3339Nano: %w; RFC3339: %w", ts, err, err2)
			}
		}
		rec.Time = t
		out = append(out, rec)
	}
	return out, rows.Err()
}
