package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/queue"
	"github.com/iliyamo/railway-reservation/internal/service"
)

// recentAlertLimit caps the unscoped alert listing.
const recentAlertLimit = 10

// AlertStore is the alert persistence surface. *repository.AlertRepo
// satisfies it.
type AlertStore interface {
	Create(ctx context.Context, a *model.Alert) (uint64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Alert, error)
	ListByTrain(ctx context.Context, trainID uint64) ([]model.Alert, error)
}

type AlertHandler struct {
	Alerts AlertStore
	Events service.Publisher
}

func NewAlertHandler(alerts AlertStore, events service.Publisher) *AlertHandler {
	return &AlertHandler{Alerts: alerts, Events: events}
}

type routeDeviationReq struct {
	TrainID uint64 `json:"train_id"`
	Message string `json:"message"`
}

type adminAlertReq struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	TrainID *uint64 `json:"train_id"`
}

// CreateRouteDeviation records a route-deviation alert for a train and
// publishes it to the notification sink.
func (h *AlertHandler) CreateRouteDeviation(c echo.Context) error {
	var req routeDeviationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TrainID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: train_id"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: message"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	a := model.Alert{TrainID: &req.TrainID, Message: req.Message, Type: model.AlertRouteDeviation}
	id, err := h.Alerts.Create(ctx, &a)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create alert failed"})
	}

	_ = h.Events.Publish(ctx, queue.RouteDeviationEvent{
		Type:      queue.EventRouteDeviation,
		AlertID:   id,
		TrainID:   req.TrainID,
		Message:   req.Message,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Route deviation alert created",
		"alert_id": id,
	})
}

// CreateAdmin records a general alert ("delay", "cancellation",
// "platform_change", ...), optionally scoped to one train.
func (h *AlertHandler) CreateAdmin(c echo.Context) error {
	var req adminAlertReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: message"})
	}
	if strings.TrimSpace(req.Type) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	a := model.Alert{TrainID: req.TrainID, Message: req.Message, Type: req.Type}
	id, err := h.Alerts.Create(ctx, &a)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create alert failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Alert created successfully",
		"alert_id": id,
	})
}

// List returns the 10 most recent alerts across all trains, newest first.
func (h *AlertHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	alerts, err := h.Alerts.ListRecent(ctx, recentAlertLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts})
}

// ListByTrain returns all alerts for one train, newest first.
func (h *AlertHandler) ListByTrain(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	alerts, err := h.Alerts.ListByTrain(ctx, trainID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts})
}
