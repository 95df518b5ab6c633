package model

import "time"

// Quota is a named allocation of seats within a coach reserved for a
// passenger category (e.g. "general", "ladies", "tatkal"). One row per
// (train, coach, quota type); writes are full replacements of the counts.
type Quota struct {
	TrainID        uint64    `json:"train_id"`
	CoachNumber    string    `json:"coach_number"`
	QuotaType      string    `json:"quota_type"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	UpdatedAt      time.Time `json:"updated_at"`
}
