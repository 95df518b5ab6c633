package model

import "time"

// Booking statuses. The lifecycle is one-way: confirmed -> cancelled.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking groups the seats reserved in a single request. Seat entries are
// "<coachNumber>-<seatNumber>" labels (e.g. "A1-12"); the coach half is
// resolved against the booking's train when seats are locked or released.
// TrainName is a snapshot taken at creation time so booking listings
// survive later train edits.
type Booking struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	TrainID   uint64    `json:"train_id"`
	TrainName string    `json:"train_name"`
	Seats     []string  `json:"seats"`
	Date      string    `json:"date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingDetail is the admin listing row: a booking joined with its user
// and train. Price is derived per request and never persisted; nil means
// the train's distance is unknown so no price can be computed.
type BookingDetail struct {
	ID          uint64   `json:"id"`
	UserName    string   `json:"user_name"`
	UserContact string   `json:"user_contact"`
	TrainName   string   `json:"train_name"`
	Source      string   `json:"from"`
	Destination string   `json:"to"`
	Date        string   `json:"date"`
	Seats       []string `json:"seats"`
	DistanceKM  *int64   `json:"distance"`
	Duration    string   `json:"duration"`
	Price       *int64   `json:"price"`
	Status      string   `json:"status"`
}
