package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// CoachRepo manages coaches and their seat maps. A seat map is one
// `coach_seats` row per seat so that locking can be expressed as a single
// conditional UPDATE: two concurrent lock requests for the same seat cannot
// both succeed, which closes the read-modify-write race of treating the
// whole map as one document.
type CoachRepo struct{ DB *sql.DB }

func NewCoachRepo(db *sql.DB) *CoachRepo { return &CoachRepo{DB: db} }

// Create inserts a coach with an optional initial seat map.
func (r *CoachRepo) Create(ctx context.Context, trainID uint64, coachNumber string, seatMap map[string]string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO coaches (train_id, coach_number) VALUES (?,?)", trainID, coachNumber)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := insertSeats(ctx, tx, uint64(id), seatMap); err != nil {
		return 0, err
	}
	return uint64(id), tx.Commit()
}

// ListByTrain returns all coaches of a train with their seat maps assembled.
func (r *CoachRepo) ListByTrain(ctx context.Context, trainID uint64) ([]model.Coach, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.coach_number, s.seat_label, s.status
		 FROM coaches c
		 LEFT JOIN coach_seats s ON s.coach_id = c.id
		 WHERE c.train_id = ?
		 ORDER BY c.id`, trainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]model.Coach, 0)
	var cur *model.Coach
	for rows.Next() {
		var (
			id     uint64
			number string
			label  sql.NullString
			status sql.NullString
		)
		if err := rows.Scan(&id, &number, &label, &status); err != nil {
			return nil, err
		}
		if cur == nil || cur.ID != id {
			coaches = append(coaches, model.Coach{
				ID: id, TrainID: trainID, CoachNumber: number,
				SeatMap: map[string]string{},
			})
			cur = &coaches[len(coaches)-1]
		}
		if label.Valid {
			cur.SeatMap[label.String] = status.String
		}
	}
	return coaches, rows.Err()
}

// SeatMap returns the seat-label → state mapping of one coach.
func (r *CoachRepo) SeatMap(ctx context.Context, trainID uint64, coachNumber string) (map[string]string, error) {
	coachID, err := r.coachID(ctx, r.DB, trainID, coachNumber)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT seat_label, status FROM coach_seats WHERE coach_id=?", coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[string]string)
	for rows.Next() {
		var label, status string
		if err := rows.Scan(&label, &status); err != nil {
			return nil, err
		}
		m[label] = status
	}
	return m, rows.Err()
}

// ReplaceSeatMap swaps the coach's entire seat map for the given one
// inside a transaction.
func (r *CoachRepo) ReplaceSeatMap(ctx context.Context, trainID uint64, coachNumber string, seatMap map[string]string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	coachID, err := r.coachID(ctx, tx, trainID, coachNumber)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM coach_seats WHERE coach_id=?", coachID); err != nil {
		return err
	}
	if err := insertSeats(ctx, tx, coachID, seatMap); err != nil {
		return err
	}
	return tx.Commit()
}

// LockSeat atomically flips a seat from available to unavailable. It
// returns ErrSeatUnavailable when the seat is already taken and ErrNotFound
// when the coach or seat does not exist; in both cases nothing is written.
func (r *CoachRepo) LockSeat(ctx context.Context, trainID uint64, coachNumber, seat string) error {
	coachID, err := r.coachID(ctx, r.DB, trainID, coachNumber)
	if err != nil {
		return err
	}
	return lockSeatOn(ctx, r.DB, coachID, seat)
}

// ReleaseSeat marks a seat available. The write is unconditional and
// upserting, mirroring map-assignment semantics: releasing a label that
// was never in the map adds it as available.
func (r *CoachRepo) ReleaseSeat(ctx context.Context, trainID uint64, coachNumber, seat string) error {
	coachID, err := r.coachID(ctx, r.DB, trainID, coachNumber)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO coach_seats (coach_id, seat_label, status) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE status = VALUES(status)`,
		coachID, seat, model.SeatAvailable)
	return err
}

// execer covers *sql.DB and *sql.Tx for the statements shared between the
// direct methods and the booking transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *CoachRepo) coachID(ctx context.Context, q execer, trainID uint64, coachNumber string) (uint64, error) {
	return coachIDOn(ctx, q, trainID, coachNumber)
}

func coachIDOn(ctx context.Context, q execer, trainID uint64, coachNumber string) (uint64, error) {
	var id uint64
	err := q.QueryRowContext(ctx,
		"SELECT id FROM coaches WHERE train_id=? AND coach_number=? LIMIT 1",
		trainID, coachNumber).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return id, err
}

// lockSeatOn performs the conditional flip on any execer. With 0 rows
// affected the seat is either taken or absent; a follow-up existence check
// picks the right sentinel.
func lockSeatOn(ctx context.Context, q execer, coachID uint64, seat string) error {
	res, err := q.ExecContext(ctx,
		"UPDATE coach_seats SET status=? WHERE coach_id=? AND seat_label=? AND status=?",
		model.SeatUnavailable, coachID, seat, model.SeatAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var status string
	err = q.QueryRowContext(ctx,
		"SELECT status FROM coach_seats WHERE coach_id=? AND seat_label=? LIMIT 1",
		coachID, seat).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return ErrSeatUnavailable
}

// insertSeats bulk-inserts seat rows, one placeholder triple per seat.
func insertSeats(ctx context.Context, tx *sql.Tx, coachID uint64, seatMap map[string]string) error {
	if len(seatMap) == 0 {
		return nil
	}
	query := "INSERT INTO coach_seats (coach_id, seat_label, status) VALUES "
	args := make([]any, 0, len(seatMap)*3)
	first := true
	for label, status := range seatMap {
		if !first {
			query += ","
		}
		first = false
		query += "(?, ?, ?)"
		if status != model.SeatUnavailable {
			status = model.SeatAvailable
		}
		args = append(args, coachID, label, status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
