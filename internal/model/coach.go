package model

// Seat states stored in the `coach_seats` table. Only these two values are
// ever written; a seat that is part of an active booking is "unavailable".
const (
	SeatAvailable   = "available"
	SeatUnavailable = "unavailable"
)

// Coach is one physical coach of a train. The seat map is stored as one
// row per seat in `coach_seats` so that locking a seat can be a single
// conditional UPDATE instead of a read-modify-write of a whole document.
// When assembled for API responses the rows collapse back into the
// seat-label → state mapping clients expect.
type Coach struct {
	ID          uint64            `json:"id"`
	TrainID     uint64            `json:"train_id"`
	CoachNumber string            `json:"coach_number"`
	SeatMap     map[string]string `json:"seat_map"`
}
