package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

type fakeTracking struct {
	byTrain map[uint64]model.Tracking
}

func newFakeTracking() *fakeTracking { return &fakeTracking{byTrain: map[uint64]model.Tracking{}} }

func (f *fakeTracking) Get(_ context.Context, trainID uint64) (model.Tracking, error) {
	t, ok := f.byTrain[trainID]
	if !ok {
		return model.Tracking{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTracking) Create(_ context.Context, t *model.Tracking) error {
	f.byTrain[t.TrainID] = *t
	return nil
}

func TestTrackingGeneratesAndPersistsSnapshot(t *testing.T) {
	tracking := newFakeTracking()
	trains := newFakeTrains()
	km := int64(800)
	trains.Create(nil, &model.Train{
		Name: "Express1", Source: "Alpha", Destination: "Omega",
		DistanceKM: &km, Duration: "8h 10m",
	})
	h := NewTrackingHandler(tracking, trains)

	rec := invoke(t, h.Get, http.MethodGet, "/api/tracking/1", "", "train_id", "1")
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Tracking model.Tracking `json:"tracking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	got := resp.Tracking
	if got.Progress < 10 || got.Progress > 90 {
		t.Fatalf("progress = %d, want 10..90", got.Progress)
	}
	if got.Speed < 60 || got.Speed > 120 {
		t.Fatalf("speed = %d, want 60..120", got.Speed)
	}
	if got.DelayMinutes < 0 || got.DelayMinutes > 30 {
		t.Fatalf("delay = %d, want 0..30", got.DelayMinutes)
	}
	if got.Source != "Alpha" || got.Destination != "Omega" {
		t.Fatalf("endpoints = %q → %q", got.Source, got.Destination)
	}
	if got.DistanceKM == nil || *got.DistanceKM != 800 || got.Duration != "8h 10m" {
		t.Fatalf("distance/duration = %v/%q", got.DistanceKM, got.Duration)
	}

	// The snapshot is persisted: a second request returns the same values.
	stored, ok := tracking.byTrain[1]
	if !ok {
		t.Fatal("snapshot not persisted")
	}
	rec = invoke(t, h.Get, http.MethodGet, "/api/tracking/1", "", "train_id", "1")
	wantStatus(t, rec, http.StatusOK)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Tracking.Progress != stored.Progress || resp.Tracking.Speed != stored.Speed {
		t.Fatal("second read must return the stored snapshot, not a new mock")
	}
}

func TestTrackingDefaultsWhenTrainSparse(t *testing.T) {
	tracking := newFakeTracking()
	trains := newFakeTrains()
	trains.Create(nil, &model.Train{Name: "Local", Source: "A", Destination: "B"})
	h := NewTrackingHandler(tracking, trains)

	rec := invoke(t, h.Get, http.MethodGet, "/api/tracking/1", "", "train_id", "1")
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Tracking model.Tracking `json:"tracking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Tracking.DistanceKM == nil || *resp.Tracking.DistanceKM != 1000 {
		t.Fatalf("distance = %v, want default 1000", resp.Tracking.DistanceKM)
	}
	if resp.Tracking.Duration != "16h 30m" {
		t.Fatalf("duration = %q, want default", resp.Tracking.Duration)
	}
}

func TestTrackingTrainNotFound(t *testing.T) {
	h := NewTrackingHandler(newFakeTracking(), newFakeTrains())
	rec := invoke(t, h.Get, http.MethodGet, "/api/tracking/9", "", "train_id", "9")
	wantStatus(t, rec, http.StatusNotFound)
}
