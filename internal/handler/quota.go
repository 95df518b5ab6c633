package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// QuotaStore is the quota persistence surface. *repository.QuotaRepo
// satisfies it; Upsert must be idempotent for identical inputs.
type QuotaStore interface {
	List(ctx context.Context, trainID uint64, coachNumber string) ([]model.Quota, error)
	Upsert(ctx context.Context, q model.Quota) error
}

type QuotaHandler struct {
	Quotas QuotaStore
}

func NewQuotaHandler(quotas QuotaStore) *QuotaHandler { return &QuotaHandler{Quotas: quotas} }

type upsertQuotaReq struct {
	QuotaType      string `json:"quota_type"`
	TotalSeats     *int   `json:"total_seats"`
	AvailableSeats *int   `json:"available_seats"`
}

// Get lists the quota rows of one (train, coach).
func (h *QuotaHandler) Get(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	quotas, err := h.Quotas.List(ctx, trainID, c.Param("coach_number"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"quotas": quotas})
}

// Update upserts the (train, coach, quota type) counters. available_seats
// above total_seats is rejected instead of stored.
func (h *QuotaHandler) Update(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	var req upsertQuotaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch {
	case strings.TrimSpace(req.QuotaType) == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: quota_type"})
	case req.TotalSeats == nil:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: total_seats"})
	case req.AvailableSeats == nil:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: available_seats"})
	case *req.TotalSeats < 0 || *req.AvailableSeats < 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat counts must be non-negative"})
	case *req.AvailableSeats > *req.TotalSeats:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_seats cannot exceed total_seats"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	q := model.Quota{
		TrainID:        trainID,
		CoachNumber:    c.Param("coach_number"),
		QuotaType:      strings.TrimSpace(req.QuotaType),
		TotalSeats:     *req.TotalSeats,
		AvailableSeats: *req.AvailableSeats,
	}
	if err := h.Quotas.Upsert(ctx, q); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Quota updated"})
}
