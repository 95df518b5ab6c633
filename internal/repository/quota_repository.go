package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

type QuotaRepo struct{ DB *sql.DB }

func NewQuotaRepo(db *sql.DB) *QuotaRepo { return &QuotaRepo{DB: db} }

// List returns the quota rows of one (train, coach) pair.
func (r *QuotaRepo) List(ctx context.Context, trainID uint64, coachNumber string) ([]model.Quota, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT train_id, coach_number, quota_type, total_seats, available_seats, updated_at
		 FROM quotas WHERE train_id=? AND coach_number=? ORDER BY quota_type`,
		trainID, coachNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	quotas := make([]model.Quota, 0)
	for rows.Next() {
		var q model.Quota
		if err := rows.Scan(&q.TrainID, &q.CoachNumber, &q.QuotaType, &q.TotalSeats, &q.AvailableSeats, &q.UpdatedAt); err != nil {
			return nil, err
		}
		quotas = append(quotas, q)
	}
	return quotas, rows.Err()
}

// Upsert replaces the counts of the (train, coach, type) row, creating it
// when absent. The statement is idempotent: repeating identical inputs
// changes nothing but the timestamp.
func (r *QuotaRepo) Upsert(ctx context.Context, q model.Quota) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO quotas (train_id, coach_number, quota_type, total_seats, available_seats)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   total_seats = VALUES(total_seats),
		   available_seats = VALUES(available_seats),
		   updated_at = CURRENT_TIMESTAMP`,
		q.TrainID, q.CoachNumber, q.QuotaType, q.TotalSeats, q.AvailableSeats)
	return err
}
