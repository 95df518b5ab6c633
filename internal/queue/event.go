// Package queue defines the event payloads published to the message broker
// and the background consumer that drains them. Connected clients (or any
// downstream worker) consume these instead of polling the database.
package queue

// Event kinds carried in the Type field of every payload.
const (
	EventCoachPosition  = "coach_position_update"
	EventRouteDeviation = "route_deviation_alert"
)

// TrainEventsQueue is the durable queue all train events flow through.
const TrainEventsQueue = "train.events"

// CoachPositionEvent is published after a coach position upsert.
type CoachPositionEvent struct {
	Type               string `json:"type"`
	TrainID            uint64 `json:"train_id"`
	CoachNumber        string `json:"coach_number"`
	PlatformNumber     string `json:"platform_number"`
	PositionOnPlatform string `json:"position_on_platform"`
	Station            string `json:"station"`
	ETA                string `json:"eta"`
	UpdatedAt          string `json:"updated_at"`
}

// RouteDeviationEvent is published when a route-deviation alert is created.
type RouteDeviationEvent struct {
	Type      string `json:"type"`
	AlertID   uint64 `json:"alert_id"`
	TrainID   uint64 `json:"train_id"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
