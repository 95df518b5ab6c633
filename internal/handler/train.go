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

// TrainStore is the train persistence the listing and admin endpoints use.
// *repository.TrainRepo satisfies it.
type TrainStore interface {
	Create(ctx context.Context, t *model.Train) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Train, error)
	List(ctx context.Context) ([]model.Train, error)
}

// TrainFinder is the read-only slice of TrainStore shared by handlers that
// only need existence checks and snapshots.
type TrainFinder interface {
	GetByID(ctx context.Context, id uint64) (model.Train, error)
}

type TrainHandler struct {
	Trains TrainStore
}

func NewTrainHandler(trains TrainStore) *TrainHandler { return &TrainHandler{Trains: trains} }

type createTrainReq struct {
	Name          string `json:"name"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	TotalSeats    *int   `json:"total_seats"`
	DistanceKM    *int64 `json:"distance"`
	Duration      string `json:"duration"`
}

// List returns every train.
func (h *TrainHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	trains, err := h.Trains.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"trains": trains})
}

// Get returns one train by id.
func (h *TrainHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "train_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	t, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"train": t})
}

// Create adds a train. All seats start available and the status is
// "scheduled"; distance and duration are optional.
func (h *TrainHandler) Create(c echo.Context) error {
	var req createTrainReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for _, f := range []struct{ name, value string }{
		{"name", req.Name}, {"source", req.Source}, {"destination", req.Destination},
		{"departure_time", req.DepartureTime}, {"arrival_time", req.ArrivalTime},
	} {
		if strings.TrimSpace(f.value) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: " + f.name})
		}
	}
	if req.TotalSeats == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: total_seats"})
	}
	if *req.TotalSeats <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	t := model.Train{
		Name:           strings.TrimSpace(req.Name),
		Source:         req.Source,
		Destination:    req.Destination,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		TotalSeats:     *req.TotalSeats,
		AvailableSeats: *req.TotalSeats,
		Status:         model.TrainStatusScheduled,
		DistanceKM:     req.DistanceKM,
		Duration:       req.Duration,
	}
	id, err := h.Trains.Create(ctx, &t)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create train failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Train added successfully",
		"train_id": id,
	})
}
