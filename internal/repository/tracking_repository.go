package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

type TrackingRepo struct{ DB *sql.DB }

func NewTrackingRepo(db *sql.DB) *TrackingRepo { return &TrackingRepo{DB: db} }

// Get fetches the tracking snapshot of one train.
func (r *TrackingRepo) Get(ctx context.Context, trainID uint64) (model.Tracking, error) {
	var (
		t        model.Tracking
		distance sql.NullInt64
		duration sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT train_id, status, current_station, next_station, progress, speed, delay_minutes, distance_km, duration, updated_at
		 FROM tracking WHERE train_id=? LIMIT 1`, trainID).
		Scan(&t.TrainID, &t.Status, &t.CurrentStation, &t.NextStation,
			&t.Progress, &t.Speed, &t.DelayMinutes, &distance, &duration, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Tracking{}, ErrNotFound
	}
	if err != nil {
		return model.Tracking{}, err
	}
	if distance.Valid {
		d := distance.Int64
		t.DistanceKM = &d
	}
	t.Duration = duration.String
	return t, nil
}

// Create stores a freshly generated snapshot. Only called when Get reported
// ErrNotFound; a concurrent duplicate insert is ignored (latest-wins data).
func (r *TrackingRepo) Create(ctx context.Context, t *model.Tracking) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO tracking (train_id, status, current_station, next_station, progress, speed, delay_minutes, distance_km, duration)
		 VALUES (?,?,?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE train_id = train_id`,
		t.TrainID, t.Status, t.CurrentStation, t.NextStation, t.Progress, t.Speed, t.DelayMinutes, t.DistanceKM, t.Duration)
	return err
}
