package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/railway-reservation/internal/model"
)

// SplitSeatLabel parses a "<coachNumber>-<seatNumber>" booking seat entry.
// ok is false when the separator is missing or either half is empty.
func SplitSeatLabel(label string) (coachNumber, seatNumber string, ok bool) {
	coachNumber, seatNumber, ok = strings.Cut(label, "-")
	if !ok || coachNumber == "" || seatNumber == "" {
		return "", "", false
	}
	return coachNumber, seatNumber, true
}

type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Create locks every requested seat and inserts the booking in a single
// transaction. If any seat is already unavailable (or does not exist) the
// whole transaction rolls back and nothing is written: seat locking and
// booking creation succeed or fail together. Seat errors are wrapped with
// the offending label and unwrap to ErrSeatUnavailable / ErrNotFound.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	coachIDs := make(map[string]uint64)
	for _, label := range b.Seats {
		coachNumber, seatNumber, ok := SplitSeatLabel(label)
		if !ok {
			return 0, fmt.Errorf("seat %q: %w", label, ErrNotFound)
		}
		coachID, found := coachIDs[coachNumber]
		if !found {
			coachID, err = coachIDOn(ctx, tx, b.TrainID, coachNumber)
			if err != nil {
				return 0, fmt.Errorf("seat %q: %w", label, err)
			}
			coachIDs[coachNumber] = coachID
		}
		if err := lockSeatOn(ctx, tx, coachID, seatNumber); err != nil {
			return 0, fmt.Errorf("seat %q: %w", label, err)
		}
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, train_id, train_name, travel_date, status) VALUES (?,?,?,?,?)",
		b.UserID, b.TrainID, b.TrainName, b.Date, b.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	bookingID := uint64(id)

	if len(b.Seats) > 0 {
		query := "INSERT INTO booking_seats (booking_id, seat_label) VALUES "
		args := make([]any, 0, len(b.Seats)*2)
		for i, label := range b.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?)"
			args = append(args, bookingID, label)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, err
		}
	}
	return bookingID, tx.Commit()
}

// GetByID fetches one booking with its seat labels.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	var b model.Booking
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,train_id,train_name,travel_date,status,created_at FROM bookings WHERE id=? LIMIT 1",
		id).Scan(&b.ID, &b.UserID, &b.TrainID, &b.TrainName, &b.Date, &b.Status, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrNotFound
	}
	if err != nil {
		return model.Booking{}, err
	}
	b.Seats, err = r.seatLabels(ctx, b.ID)
	return b, err
}

// Cancel flips the booking status to cancelled. Seat release is the
// caller's job; a cancelled booking's seats are returned to the seat map
// one by one so a single malformed label cannot block the cancellation.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=?", model.BookingCancelled, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns all bookings of one user in storage order, seats
// included. No pagination.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.train_id, b.train_name, b.travel_date, b.status, b.created_at, s.seat_label
		 FROM bookings b
		 LEFT JOIN booking_seats s ON s.booking_id = b.id
		 WHERE b.user_id = ?
		 ORDER BY b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	var cur *model.Booking
	for rows.Next() {
		var (
			b    model.Booking
			seat sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.TrainID, &b.TrainName, &b.Date, &b.Status, &b.CreatedAt, &seat); err != nil {
			return nil, err
		}
		if cur == nil || cur.ID != b.ID {
			b.Seats = []string{}
			bookings = append(bookings, b)
			cur = &bookings[len(bookings)-1]
		}
		if seat.Valid {
			cur.Seats = append(cur.Seats, seat.String)
		}
	}
	return bookings, rows.Err()
}

// ListAll returns every booking joined with its user and train for the
// admin listing. LEFT JOINs keep bookings visible even if the user or
// train row has since disappeared; missing values fall back to the
// snapshot or "-" at the handler level. Price is not computed here.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.train_name, b.travel_date, b.status,
		        u.name, u.email, u.phone,
		        t.name, t.source, t.destination, t.distance_km, t.duration,
		        s.seat_label
		 FROM bookings b
		 LEFT JOIN users u ON u.id = b.user_id
		 LEFT JOIN trains t ON t.id = b.train_id
		 LEFT JOIN booking_seats s ON s.booking_id = b.id
		 ORDER BY b.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]model.BookingDetail, 0)
	var cur *model.BookingDetail
	for rows.Next() {
		var (
			d                          model.BookingDetail
			userName, email, phone     sql.NullString
			trainName, source, dest    sql.NullString
			distance                   sql.NullInt64
			duration, seat             sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.TrainName, &d.Date, &d.Status,
			&userName, &email, &phone,
			&trainName, &source, &dest, &distance, &duration,
			&seat); err != nil {
			return nil, err
		}
		if cur == nil || cur.ID != d.ID {
			d.UserName = orDash(userName.String)
			d.UserContact = phone.String
			if d.UserContact == "" {
				d.UserContact = email.String
			}
			d.UserContact = orDash(d.UserContact)
			if trainName.Valid && trainName.String != "" {
				d.TrainName = trainName.String // live train name wins over snapshot
			}
			d.TrainName = orDash(d.TrainName)
			d.Source = orDash(source.String)
			d.Destination = orDash(dest.String)
			if distance.Valid {
				km := distance.Int64
				d.DistanceKM = &km
			}
			d.Duration = duration.String
			d.Seats = []string{}
			details = append(details, d)
			cur = &details[len(details)-1]
		}
		if seat.Valid {
			cur.Seats = append(cur.Seats, seat.String)
		}
	}
	return details, rows.Err()
}

// Clear deletes every booking and its seat rows. It does not touch seat
// maps: cleared bookings do not release seats, matching the destructive
// admin wipe this backs.
func (r *BookingRepo) Clear(ctx context.Context) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM booking_seats"); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM bookings")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (r *BookingRepo) seatLabels(ctx context.Context, bookingID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT seat_label FROM booking_seats WHERE booking_id=? ORDER BY id", bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	labels := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		labels = append(labels, s)
	}
	return labels, rows.Err()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
