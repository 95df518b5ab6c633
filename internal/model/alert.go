package model

import "time"

// AlertRouteDeviation is the alert type published to the notification sink.
// Other types ("delay", "cancellation", "platform_change", ...) are free-form
// strings chosen by the admin creating the alert.
const AlertRouteDeviation = "route_deviation"

// Alert is an append-only service notice, optionally scoped to one train.
type Alert struct {
	ID        uint64    `json:"id"`
	TrainID   *uint64   `json:"train_id,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
