package service

import (
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"greenpulse/internal/modules/emissions/types"
)

type fakeRepo struct {
	readings  []types.StoredReading
	inserted  []types.StoredReading
	countErr  error
	insertErr error
}

func (f *fakeRepo) GetRecentReadings(stationID int, limit int) ([]types.StoredReading, error) {
	var out []types.StoredReading
	for _, r := range f.readings {
		if r.StationID == stationID {
			out = append(out, r)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeRepo) GetReadingsCount(stationID int, since time.Time) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for _, r := range f.readings {
		if r.StationID == stationID && !r.Time.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) InsertReading(r types.StoredReading) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, r)
	f.readings = append(f.readings, r)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	s := NewService(repo, 1)
	s.rng = rand.New(rand.NewSource(1))
	s.now = func() time.Time { return time.Date(2026, 3, 4, 12, 30, 0, 0, time.UTC) }
	return s
}

func fullHistory(station int, now time.Time) []types.StoredReading {
	out := make([]types.StoredReading, 0, 24)
	for i := 24; i >= 1; i-- {
		out = append(out, types.StoredReading{
			StationID: station,
			Time:      now.Add(-time.Duration(i) * time.Hour),
			CO:        2.5, C6H6: 8, NOx: 200, NO2: 110,
			Temp: 22, RH: 50, Score: 4.79,
		})
	}
	return out
}

func TestRefresh_BackfillsEmptyStore(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)

	resp, err := s.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !resp.Success {
		t.Error("Refresh: success = false; want true")
	}
	if len(repo.inserted) != 24 {
		t.Errorf("backfill inserted %d readings; want 24", len(repo.inserted))
	}
	if len(resp.Historical) != 24 {
		t.Errorf("historical has %d points; want 24", len(resp.Historical))
	}
	for i := 1; i < len(repo.inserted); i++ {
		if !repo.inserted[i-1].Time.Before(repo.inserted[i].Time) {
			t.Fatalf("backfill not chronological at %d", i)
		}
	}
}

func TestRefresh_SkipsBackfillWhenPopulated(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)
	repo.readings = fullHistory(1, s.now())

	if _, err := s.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("backfill inserted %d readings into a populated store; want 0", len(repo.inserted))
	}
}

func TestRefresh_BackfillPreservesStoredReadings(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)

	// One ingested reading exactly on the hour, one mid-hour.
	onHour := types.StoredReading{
		StationID: 1,
		Time:      time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		CO:        0.11, C6H6: 1, NOx: 20, NO2: 10,
		Temp: 15, RH: 40, Score: 9.87,
	}
	midHour := types.StoredReading{
		StationID: 1,
		Time:      time.Date(2026, 3, 4, 9, 23, 0, 0, time.UTC),
		CO:        0.5, C6H6: 2, NOx: 30, NO2: 15,
		Temp: 16, RH: 45, Score: 9.1,
	}
	repo.readings = []types.StoredReading{midHour, onHour}

	if _, err := s.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if len(repo.inserted) != 22 {
		t.Errorf("backfill inserted %d readings; want 22 for the uncovered hours", len(repo.inserted))
	}
	for _, r := range repo.inserted {
		if h := r.Time.Truncate(time.Hour); h.Equal(onHour.Time) || h.Equal(midHour.Time.Truncate(time.Hour)) {
			t.Errorf("backfill wrote synthetic reading into covered hour %v", h)
		}
	}

	var kept *types.StoredReading
	for i := range repo.readings {
		if repo.readings[i].Time.Equal(onHour.Time) {
			kept = &repo.readings[i]
		}
	}
	if kept == nil {
		t.Fatal("stored reading at 10:00 disappeared")
	}
	if kept.CO != 0.11 || kept.Score != 9.87 {
		t.Errorf("stored reading replaced: co=%v score=%v; want co=0.11 score=9.87", kept.CO, kept.Score)
	}
}

func TestRefresh_ResponseShape(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)
	repo.readings = fullHistory(1, s.now())

	resp, err := s.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if resp.Current.Score < 0 || resp.Current.Score > 10 {
		t.Errorf("current score %v out of scale", resp.Current.Score)
	}
	if resp.Current.Status == "" || resp.Current.Color == "" {
		t.Errorf("current status/color empty: %+v", resp.Current)
	}
	if resp.Prediction.Score < 0 || resp.Prediction.Score > 10 {
		t.Errorf("predicted score %v out of scale", resp.Prediction.Score)
	}
	if resp.Prediction.Status == "" || resp.Prediction.Color == "" {
		t.Errorf("prediction status/color empty: %+v", resp.Prediction)
	}
	if got := resp.Historical[0].Time; len(got) != 5 || got[2] != ':' {
		t.Errorf("historical time label %q; want HH:MM", got)
	}
}

func TestRefresh_PropagatesRepoError(t *testing.T) {
	repo := &fakeRepo{countErr: errors.New("disk gone")}
	s := newTestService(repo)

	if _, err := s.Refresh(); err == nil {
		t.Fatal("Refresh with failing repo = nil error; want error")
	}
}

func TestRegisterIngest_StoresAndBroadcasts(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)

	sub := &fakeSubscriber{}
	hub := &fakeHub{}
	s.RegisterIngest(sub, hub, slog.Default())

	co := 3.0
	err := sub.handler(types.Telemetry{
		StationID: 1,
		Timestamp: time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
		CO:        &co,
	})
	if err != nil {
		t.Fatalf("ingest handler: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d readings; want 1", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.CO != 3.0 {
		t.Errorf("CO = %v; want 3.0", rec.CO)
	}
	// Missing fields carry forward from the synthetic baselines on an
	// empty store.
	if rec.NOx != baseNOx || rec.RH != baseRH {
		t.Errorf("carry-forward failed: nox=%v rh=%v", rec.NOx, rec.RH)
	}
	if rec.Score <= 0 || rec.Score >= 10 {
		t.Errorf("score = %v; want interior of (0,10)", rec.Score)
	}
	if len(hub.events) != 1 {
		t.Errorf("broadcast %d events; want 1", len(hub.events))
	}
}

func TestRegisterIngest_InsertErrorPropagates(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("locked")}
	s := newTestService(repo)

	sub := &fakeSubscriber{}
	s.RegisterIngest(sub, nil, slog.Default())

	err := sub.handler(types.Telemetry{
		StationID: 1,
		Timestamp: time.Now(),
	})
	if err == nil {
		t.Fatal("ingest handler with failing insert = nil; want error")
	}
}

type fakeSubscriber struct {
	handler func(types.Telemetry) error
}

func (f *fakeSubscriber) SetMessageHandler(h func(types.Telemetry) error) { f.handler = h }

type fakeHub struct {
	events []any
}

func (f *fakeHub) Broadcast(event any) { f.events = append(f.events, event) }
