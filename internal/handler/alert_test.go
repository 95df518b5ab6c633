package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/queue"
)

type fakeAlerts struct {
	nextID uint64
	all    []model.Alert // append order == creation order
}

func newFakeAlerts() *fakeAlerts { return &fakeAlerts{nextID: 1} }

func (f *fakeAlerts) Create(_ context.Context, a *model.Alert) (uint64, error) {
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now().UTC()
	f.all = append(f.all, *a)
	return a.ID, nil
}

func (f *fakeAlerts) ListRecent(_ context.Context, limit int) ([]model.Alert, error) {
	out := make([]model.Alert, 0, limit)
	for i := len(f.all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.all[i])
	}
	return out, nil
}

func (f *fakeAlerts) ListByTrain(_ context.Context, trainID uint64) ([]model.Alert, error) {
	out := make([]model.Alert, 0)
	for i := len(f.all) - 1; i >= 0; i-- {
		if f.all[i].TrainID != nil && *f.all[i].TrainID == trainID {
			out = append(out, f.all[i])
		}
	}
	return out, nil
}

func TestCreateRouteDeviationPublishes(t *testing.T) {
	alerts := newFakeAlerts()
	events := &fakePublisher{}
	h := NewAlertHandler(alerts, events)

	rec := invoke(t, h.CreateRouteDeviation, http.MethodPost, "/api/alerts/route_deviation",
		`{"train_id":3,"message":"Diverted via Midtown"}`)
	wantStatus(t, rec, http.StatusCreated)

	if len(alerts.all) != 1 || alerts.all[0].Type != model.AlertRouteDeviation {
		t.Fatalf("alerts = %+v", alerts.all)
	}
	if len(events.events) != 1 {
		t.Fatalf("%d events published, want 1", len(events.events))
	}
	ev, ok := events.events[0].(queue.RouteDeviationEvent)
	if !ok {
		t.Fatalf("event type = %T", events.events[0])
	}
	if ev.Type != queue.EventRouteDeviation || ev.TrainID != 3 || ev.AlertID != 1 {
		t.Fatalf("event = %+v", ev)
	}
}

func TestCreateRouteDeviationValidation(t *testing.T) {
	h := NewAlertHandler(newFakeAlerts(), &fakePublisher{})

	rec := invoke(t, h.CreateRouteDeviation, http.MethodPost, "/api/alerts/route_deviation",
		`{"message":"no train"}`)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = invoke(t, h.CreateRouteDeviation, http.MethodPost, "/api/alerts/route_deviation",
		`{"train_id":3,"message":"  "}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestCreateAdminAlertGlobal(t *testing.T) {
	alerts := newFakeAlerts()
	events := &fakePublisher{}
	h := NewAlertHandler(alerts, events)

	rec := invoke(t, h.CreateAdmin, http.MethodPost, "/api/admin/alerts",
		`{"message":"Network-wide maintenance tonight","type":"maintenance"}`)
	wantStatus(t, rec, http.StatusCreated)

	if alerts.all[0].TrainID != nil {
		t.Fatal("global alert must have no train scope")
	}
	// Only route deviations reach the notification sink.
	if len(events.events) != 0 {
		t.Fatalf("%d events published for admin alert, want 0", len(events.events))
	}

	rec = invoke(t, h.CreateAdmin, http.MethodPost, "/api/admin/alerts", `{"type":"delay"}`)
	wantStatus(t, rec, http.StatusBadRequest)
	rec = invoke(t, h.CreateAdmin, http.MethodPost, "/api/admin/alerts", `{"message":"late"}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestListAlertsCappedNewestFirst(t *testing.T) {
	alerts := newFakeAlerts()
	h := NewAlertHandler(alerts, &fakePublisher{})
	for i := 0; i < 15; i++ {
		trainID := uint64(1)
		alerts.Create(nil, &model.Alert{TrainID: &trainID, Message: "delay", Type: "delay"})
	}

	rec := invoke(t, h.List, http.MethodGet, "/api/alerts", "")
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Alerts) != recentAlertLimit {
		t.Fatalf("%d alerts listed, want %d", len(resp.Alerts), recentAlertLimit)
	}
	if resp.Alerts[0].ID != 15 {
		t.Fatalf("first alert id = %d, want newest (15)", resp.Alerts[0].ID)
	}
}

func TestListAlertsByTrain(t *testing.T) {
	alerts := newFakeAlerts()
	one, two := uint64(1), uint64(2)
	alerts.Create(nil, &model.Alert{TrainID: &one, Message: "a", Type: "delay"})
	alerts.Create(nil, &model.Alert{TrainID: &two, Message: "b", Type: "delay"})
	h := NewAlertHandler(alerts, &fakePublisher{})

	rec := invoke(t, h.ListByTrain, http.MethodGet, "/api/alerts/1", "", "train_id", "1")
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Alerts) != 1 || *resp.Alerts[0].TrainID != 1 {
		t.Fatalf("alerts = %+v", resp.Alerts)
	}
}
