package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// CoachStore is the coach/seat-map persistence surface.
// *repository.CoachRepo satisfies it.
type CoachStore interface {
	Create(ctx context.Context, trainID uint64, coachNumber string, seatMap map[string]string) (uint64, error)
	ListByTrain(ctx context.Context, trainID uint64) ([]model.Coach, error)
	SeatMap(ctx context.Context, trainID uint64, coachNumber string) (map[string]string, error)
	ReplaceSeatMap(ctx context.Context, trainID uint64, coachNumber string, seatMap map[string]string) error
}

type SeatMapHandler struct {
	Coaches CoachStore
	Trains  TrainFinder
}

func NewSeatMapHandler(coaches CoachStore, trains TrainFinder) *SeatMapHandler {
	return &SeatMapHandler{Coaches: coaches, Trains: trains}
}

type createCoachReq struct {
	CoachNumber string            `json:"coach_number"`
	SeatMap     map[string]string `json:"seat_map"`
}

type updateSeatMapReq struct {
	SeatMap map[string]string `json:"seat_map"`
}

// ListCoaches returns every coach of a train with its seat map.
func (h *SeatMapHandler) ListCoaches(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	coaches, err := h.Coaches.ListByTrain(ctx, trainID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"coaches": coaches})
}

// CreateCoach adds a coach to a train with an optional initial seat map.
func (h *SeatMapHandler) CreateCoach(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	var req createCoachReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.CoachNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: coach_number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if _, err := h.Trains.GetByID(ctx, trainID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	id, err := h.Coaches.Create(ctx, trainID, strings.TrimSpace(req.CoachNumber), req.SeatMap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create coach failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Coach added successfully",
		"coach_id": id,
	})
}

// GetSeatMap returns the seat-label → state mapping of one coach.
func (h *SeatMapHandler) GetSeatMap(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	coachNumber := c.Param("coach_number")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	m, err := h.Coaches.SeatMap(ctx, trainID, coachNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"seat_map": m})
}

// UpdateSeatMap replaces the whole seat map of one coach.
func (h *SeatMapHandler) UpdateSeatMap(c echo.Context) error {
	trainID, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	coachNumber := c.Param("coach_number")

	var req updateSeatMapReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatMap == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing seat_map"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Coaches.ReplaceSeatMap(ctx, trainID, coachNumber, req.SeatMap); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Seat map updated"})
}
