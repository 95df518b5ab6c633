package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/queue"
	"github.com/iliyamo/railway-reservation/internal/service"
)

// PositionStore is the coach-position persistence surface.
// *repository.PositionRepo satisfies it.
type PositionStore interface {
	ListByTrain(ctx context.Context, trainID uint64) ([]model.CoachPosition, error)
	Upsert(ctx context.Context, p model.CoachPosition) error
}

type PositionHandler struct {
	Positions PositionStore
	Events    service.Publisher
}

func NewPositionHandler(positions PositionStore, events service.Publisher) *PositionHandler {
	return &PositionHandler{Positions: positions, Events: events}
}

type updatePositionReq struct {
	PlatformNumber     string `json:"platform_number"`
	PositionOnPlatform string `json:"position_on_platform"`
	Station            string `json:"station"`
	ETA                string `json:"eta"`
}

// Get lists the latest position of every coach of a train.
func (h *PositionHandler) Get(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	positions, err := h.Positions.ListByTrain(ctx, trainID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"positions": positions})
}

// Update overwrites one coach's position (latest wins) and publishes a
// coach_position_update event for connected clients. A publish failure is
// logged by the publisher and does not fail the request.
func (h *PositionHandler) Update(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	var req updatePositionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for _, f := range []struct{ name, value string }{
		{"platform_number", req.PlatformNumber}, {"position_on_platform", req.PositionOnPlatform},
		{"station", req.Station}, {"eta", req.ETA},
	} {
		if f.value == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: " + f.name})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	p := model.CoachPosition{
		TrainID:            trainID,
		CoachNumber:        c.Param("coach_number"),
		PlatformNumber:     req.PlatformNumber,
		PositionOnPlatform: req.PositionOnPlatform,
		Station:            req.Station,
		ETA:                req.ETA,
	}
	if err := h.Positions.Upsert(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	_ = h.Events.Publish(ctx, queue.CoachPositionEvent{
		Type:               queue.EventCoachPosition,
		TrainID:            trainID,
		CoachNumber:        p.CoachNumber,
		PlatformNumber:     p.PlatformNumber,
		PositionOnPlatform: p.PositionOnPlatform,
		Station:            p.Station,
		ETA:                p.ETA,
		UpdatedAt:          time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Coach position updated"})
}
