package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

type PositionRepo struct{ DB *sql.DB }

func NewPositionRepo(db *sql.DB) *PositionRepo { return &PositionRepo{DB: db} }

// ListByTrain returns the latest reported position of every coach of a train.
func (r *PositionRepo) ListByTrain(ctx context.Context, trainID uint64) ([]model.CoachPosition, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT train_id, coach_number, platform_number, position_on_platform, station, eta, updated_at
		 FROM coach_positions WHERE train_id=? ORDER BY coach_number`, trainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	positions := make([]model.CoachPosition, 0)
	for rows.Next() {
		var p model.CoachPosition
		if err := rows.Scan(&p.TrainID, &p.CoachNumber, &p.PlatformNumber, &p.PositionOnPlatform, &p.Station, &p.ETA, &p.UpdatedAt); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Upsert overwrites the (train, coach) position row, latest wins.
func (r *PositionRepo) Upsert(ctx context.Context, p model.CoachPosition) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO coach_positions (train_id, coach_number, platform_number, position_on_platform, station, eta)
		 VALUES (?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   platform_number = VALUES(platform_number),
		   position_on_platform = VALUES(position_on_platform),
		   station = VALUES(station),
		   eta = VALUES(eta),
		   updated_at = CURRENT_TIMESTAMP`,
		p.TrainID, p.CoachNumber, p.PlatformNumber, p.PositionOnPlatform, p.Station, p.ETA)
	return err
}
