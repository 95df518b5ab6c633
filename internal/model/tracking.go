package model

import "time"

// Tracking is a live-location snapshot for a train, one row per train.
// Without a real GPS feed the first request for a train generates a mock
// snapshot and persists it; Source and Destination are attached from the
// train record at response time and not stored here.
type Tracking struct {
	TrainID        uint64    `json:"train_id"`
	Status         string    `json:"status"`
	CurrentStation string    `json:"current_station"`
	NextStation    string    `json:"next_station"`
	Progress       int       `json:"progress"`
	Speed          int       `json:"speed"`
	DelayMinutes   int       `json:"delay"`
	DistanceKM     *int64    `json:"distance,omitempty"`
	Duration       string    `json:"duration,omitempty"`
	Source         string    `json:"source,omitempty"`
	Destination    string    `json:"destination,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}
