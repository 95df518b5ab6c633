package model

import "time"

// Train represents a scheduled trip in the `trains` table. Departure and
// arrival times are kept as display strings (e.g. "10:00") the way the
// admin enters them; no timetable arithmetic is performed on them.
//
// DistanceKM is nullable: when it is unknown the derived booking price is
// reported as unavailable rather than guessed.
type Train struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Source         string    `json:"source"`
	Destination    string    `json:"destination"`
	DepartureTime  string    `json:"departure_time"`
	ArrivalTime    string    `json:"arrival_time"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"`
	DistanceKM     *int64    `json:"distance,omitempty"`
	Duration       string    `json:"duration,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrainStatusScheduled is the status assigned to newly created trains.
const TrainStatusScheduled = "scheduled"
