package model

import "time"

// CoachPosition is the latest reported platform position of one coach.
// Updates are latest-wins overwrites keyed by (train, coach).
type CoachPosition struct {
	TrainID            uint64    `json:"train_id"`
	CoachNumber        string    `json:"coach_number"`
	PlatformNumber     string    `json:"platform_number"`
	PositionOnPlatform string    `json:"position_on_platform"`
	Station            string    `json:"station"`
	ETA                string    `json:"eta"`
	UpdatedAt          time.Time `json:"updated_at"`
}
