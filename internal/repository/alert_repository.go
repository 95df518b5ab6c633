package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

type AlertRepo struct{ DB *sql.DB }

func NewAlertRepo(db *sql.DB) *AlertRepo { return &AlertRepo{DB: db} }

// Create appends an alert and returns its ID. TrainID may be nil for
// system-wide notices.
func (r *AlertRepo) Create(ctx context.Context, a *model.Alert) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO alerts (train_id, message, type) VALUES (?,?,?)",
		a.TrainID, a.Message, a.Type)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListRecent returns the newest alerts across all trains, capped at limit.
func (r *AlertRepo) ListRecent(ctx context.Context, limit int) ([]model.Alert, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, train_id, message, type, created_at FROM alerts ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	return scanAlerts(rows)
}

// ListByTrain returns all alerts for one train, newest first, unbounded.
func (r *AlertRepo) ListByTrain(ctx context.Context, trainID uint64) ([]model.Alert, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, train_id, message, type, created_at FROM alerts WHERE train_id=? ORDER BY created_at DESC, id DESC",
		trainID)
	if err != nil {
		return nil, err
	}
	return scanAlerts(rows)
}

func scanAlerts(rows *sql.Rows) ([]model.Alert, error) {
	defer rows.Close()
	alerts := make([]model.Alert, 0)
	for rows.Next() {
		var (
			a       model.Alert
			trainID sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &trainID, &a.Message, &a.Type, &a.CreatedAt); err != nil {
			return nil, err
		}
		if trainID.Valid {
			id := uint64(trainID.Int64)
			a.TrainID = &id
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
