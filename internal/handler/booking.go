package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
)

// BookingStore is the booking persistence surface. *repository.BookingRepo
// satisfies it; Create is expected to lock the requested seats and write
// the booking atomically.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	Cancel(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
	Clear(ctx context.Context) (int64, error)
}

// SeatLocker is the seat-map mutation surface used for the standalone lock
// endpoint and for releasing seats on cancellation. *repository.CoachRepo
// satisfies it.
type SeatLocker interface {
	LockSeat(ctx context.Context, trainID uint64, coachNumber, seat string) error
	ReleaseSeat(ctx context.Context, trainID uint64, coachNumber, seat string) error
}

// UserFinder is the read-only user lookup bookings need.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

type BookingHandler struct {
	Bookings BookingStore
	Seats    SeatLocker
	Users    UserFinder
	Trains   TrainFinder
}

func NewBookingHandler(bookings BookingStore, seats SeatLocker, users UserFinder, trains TrainFinder) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Seats: seats, Users: users, Trains: trains}
}

type createBookingReq struct {
	UserID  uint64   `json:"user_id"`
	TrainID uint64   `json:"train_id"`
	Seats   []string `json:"seats"`
	Date    string   `json:"date"`
}

type lockSeatReq struct {
	TrainID     uint64 `json:"train_id"`
	CoachNumber string `json:"coach_number"`
	SeatNumber  string `json:"seat_number"`
}

// Create reserves the requested seats and records the booking in one
// atomic operation: if any seat is already taken nothing is written and
// the client gets 409. The train name is snapshotted onto the booking.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch {
	case req.UserID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: user_id"})
	case req.TrainID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: train_id"})
	case len(req.Seats) == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: seats"})
	case req.Date == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: date"})
	}
	for _, label := range req.Seats {
		if _, _, ok := repository.SplitSeatLabel(label); !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid seat entry: " + label})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	train, err := h.Trains.GetByID(ctx, req.TrainID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	b := model.Booking{
		UserID:    req.UserID,
		TrainID:   req.TrainID,
		TrainName: train.Name,
		Seats:     req.Seats,
		Date:      req.Date,
		Status:    model.BookingConfirmed,
	}
	id, err := h.Bookings.Create(ctx, &b)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Seat already locked"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Booking created successfully",
		"booking_id": id,
	})
}

// Lock marks a single seat unavailable ahead of booking. The flip is
// conditional on the seat being available, so concurrent lock attempts
// cannot both succeed.
func (h *BookingHandler) Lock(c echo.Context) error {
	var req lockSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	switch {
	case req.TrainID == 0:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: train_id"})
	case req.CoachNumber == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: coach_number"})
	case req.SeatNumber == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: seat_number"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Seats.LockSeat(ctx, req.TrainID, req.CoachNumber, req.SeatNumber); err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Seat already locked"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Coach not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lock failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Seat locked"})
}

// Cancel flips the booking to cancelled and releases every seat it held.
// Malformed seat entries are skipped with a log line rather than failing
// the cancellation: a corrupt label must not pin good seats forever.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, ok := pathID(c, "booking_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Bookings.Cancel(ctx, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	released := 0
	for _, label := range b.Seats {
		coachNumber, seatNumber, ok := repository.SplitSeatLabel(label)
		if !ok {
			log.Printf("booking %d: skipping malformed seat entry %q", id, label)
			continue
		}
		if err := h.Seats.ReleaseSeat(ctx, b.TrainID, coachNumber, seatNumber); err != nil {
			log.Printf("booking %d: release seat %q failed: %v", id, label, err)
			continue
		}
		released++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Booking cancelled and seats released",
		"released_seats": released,
	})
}

// ListByUser returns every booking of one user in storage order.
func (h *BookingHandler) ListByUser(c echo.Context) error {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// ListAll is the admin listing: bookings joined with user and train, with
// a derived price that is never persisted.
func (h *BookingHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	details, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	for i := range details {
		details[i].Price = bookingPrice(details[i].DistanceKM, len(details[i].Seats))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Clear wipes every booking. Seats are not released (the wipe predates the
// seat maps and is used to reset demo data).
func (h *BookingHandler) Clear(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if _, err := h.Bookings.Clear(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "All bookings cleared"})
}

// bookingPrice derives the fare at 10 per kilometre per seat. nil when the
// train's distance is unknown or negative.
func bookingPrice(distanceKM *int64, seatCount int) *int64 {
	if distanceKM == nil || *distanceKM < 0 {
		return nil
	}
	p := *distanceKM * 10 * int64(seatCount)
	return &p
}
