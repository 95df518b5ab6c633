package handler

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// TrackingStore is the live-location persistence surface.
// *repository.TrackingRepo satisfies it.
type TrackingStore interface {
	Get(ctx context.Context, trainID uint64) (model.Tracking, error)
	Create(ctx context.Context, t *model.Tracking) error
}

type TrackingHandler struct {
	Tracking TrackingStore
	Trains   TrainFinder
}

func NewTrackingHandler(tracking TrackingStore, trains TrainFinder) *TrackingHandler {
	return &TrackingHandler{Tracking: tracking, Trains: trains}
}

// Get returns the train's tracking snapshot. Without a real GPS feed, the
// first request generates a mock snapshot from the train record and
// persists it; later requests return the stored row. Source and
// destination are attached from the train at response time.
func (h *TrackingHandler) Get(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	train, err := h.Trains.GetByID(ctx, trainID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	t, err := h.Tracking.Get(ctx, trainID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		t = mockTracking(train)
		if err := h.Tracking.Create(ctx, &t); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save tracking failed"})
		}
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	t.Source = train.Source
	t.Destination = train.Destination
	return c.JSON(http.StatusOK, echo.Map{"tracking": t})
}

// mockTracking fabricates a plausible in-transit snapshot for demo use.
func mockTracking(train model.Train) model.Tracking {
	distance := train.DistanceKM
	if distance == nil {
		d := int64(1000)
		distance = &d
	}
	duration := train.Duration
	if duration == "" {
		duration = "16h 30m"
	}
	return model.Tracking{
		TrainID:        train.ID,
		Status:         "Running",
		CurrentStation: train.Source,
		NextStation:    train.Destination,
		Progress:       10 + rand.Intn(81), // 10-90%
		Speed:          60 + rand.Intn(61), // 60-120 km/h
		DelayMinutes:   rand.Intn(31),      // 0-30 min
		DistanceKM:     distance,
		Duration:       duration,
		UpdatedAt:      time.Now().UTC(),
	}
}
