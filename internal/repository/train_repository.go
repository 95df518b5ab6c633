package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

type TrainRepo struct{ DB *sql.DB }

func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{DB: db} }

const trainCols = "id,name,source,destination,departure_time,arrival_time,total_seats,available_seats,status,distance_km,duration,created_at"

// Create inserts a train and returns its ID. AvailableSeats and Status are
// taken from the model; the handler initializes them (all seats free,
// status "scheduled").
func (r *TrainRepo) Create(ctx context.Context, t *model.Train) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO trains (name, source, destination, departure_time, arrival_time,
		 total_seats, available_seats, status, distance_km, duration)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		t.Name, t.Source, t.Destination, t.DepartureTime, t.ArrivalTime,
		t.TotalSeats, t.AvailableSeats, t.Status, t.DistanceKM, t.Duration)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one train.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (model.Train, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+trainCols+" FROM trains WHERE id=? LIMIT 1", id)
	t, err := scanTrain(row)
	if err == sql.ErrNoRows {
		return model.Train{}, ErrNotFound
	}
	return t, err
}

// List returns all trains in insertion order.
func (r *TrainRepo) List(ctx context.Context) ([]model.Train, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+trainCols+" FROM trains ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trains := make([]model.Train, 0)
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanTrain(row rowScanner) (model.Train, error) {
	var (
		t        model.Train
		distance sql.NullInt64
		duration sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &t.Source, &t.Destination, &t.DepartureTime,
		&t.ArrivalTime, &t.TotalSeats, &t.AvailableSeats, &t.Status,
		&distance, &duration, &t.CreatedAt)
	if err != nil {
		return model.Train{}, err
	}
	if distance.Valid {
		d := distance.Int64
		t.DistanceKM = &d
	}
	t.Duration = duration.String
	return t, nil
}
