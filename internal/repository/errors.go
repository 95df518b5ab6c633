// Package repository implements data access over MySQL. Sentinel errors
// defined here let handlers map failures to HTTP responses without knowing
// anything about SQL: ErrNotFound becomes 404, ErrSeatUnavailable and
// ErrEmailExists become 409. Repositories translate sql.ErrNoRows into
// ErrNotFound so callers only ever compare against these values.
package repository

import "errors"

// ErrNotFound is returned when a referenced entity (train, coach, seat,
// booking, user, tracking row) does not exist.
var ErrNotFound = errors.New("not found")

// ErrSeatUnavailable is returned when a seat lock fails because the seat
// is already marked unavailable. The seat map is left untouched.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrPhoneExists is returned when a phone-verified signup hits the unique
// phone index, i.e. another request created the account first.
var ErrPhoneExists = errors.New("phone already exists")
