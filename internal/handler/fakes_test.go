package handler

// In-memory fakes for the store interfaces. Each fake keeps just enough
// state to exercise the handler logic; none of them are safe for
// concurrent use, which is fine for these single-goroutine tests.

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/repository"
	"github.com/iliyamo/railway-reservation/internal/utils"
)

// ----- request helper -----

// invoke runs a handler against a synthetic JSON request and returns the
// recorder. pathParams follow the order name1, value1, name2, value2...
func invoke(t *testing.T, h echo.HandlerFunc, method, target, body string, pathParams ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var names, values []string
	for i := 0; i+1 < len(pathParams); i += 2 {
		names = append(names, pathParams[i])
		values = append(values, pathParams[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// ----- seats -----

type fakeSeats struct {
	// seat maps keyed by "<trainID>/<coachNumber>"
	coaches map[string]map[string]string
}

func newFakeSeats() *fakeSeats { return &fakeSeats{coaches: map[string]map[string]string{}} }

func (f *fakeSeats) addCoach(trainID uint64, coach string, seats map[string]string) {
	f.coaches[seatKey(trainID, coach)] = seats
}

func seatKey(trainID uint64, coach string) string { return fmt.Sprintf("%d/%s", trainID, coach) }

func (f *fakeSeats) LockSeat(_ context.Context, trainID uint64, coach, seat string) error {
	m, ok := f.coaches[seatKey(trainID, coach)]
	if !ok {
		return repository.ErrNotFound
	}
	switch m[seat] {
	case model.SeatAvailable:
		m[seat] = model.SeatUnavailable
		return nil
	case model.SeatUnavailable:
		return repository.ErrSeatUnavailable
	default:
		return repository.ErrNotFound
	}
}

func (f *fakeSeats) ReleaseSeat(_ context.Context, trainID uint64, coach, seat string) error {
	m, ok := f.coaches[seatKey(trainID, coach)]
	if !ok {
		return repository.ErrNotFound
	}
	m[seat] = model.SeatAvailable
	return nil
}

// ----- bookings -----

type fakeBookings struct {
	seats   *fakeSeats
	nextID  uint64
	byID    map[uint64]*model.Booking
	details []model.BookingDetail
}

func newFakeBookings(seats *fakeSeats) *fakeBookings {
	return &fakeBookings{seats: seats, nextID: 1, byID: map[uint64]*model.Booking{}}
}

// Create mimics the transactional repo: all requested seats must lock or
// nothing is written.
func (f *fakeBookings) Create(ctx context.Context, b *model.Booking) (uint64, error) {
	for _, label := range b.Seats {
		coach, seat, ok := repository.SplitSeatLabel(label)
		if !ok {
			return 0, fmt.Errorf("seat %q: %w", label, repository.ErrNotFound)
		}
		m, found := f.seats.coaches[seatKey(b.TrainID, coach)]
		if !found {
			return 0, fmt.Errorf("seat %q: %w", label, repository.ErrNotFound)
		}
		if m[seat] != model.SeatAvailable {
			if _, exists := m[seat]; !exists {
				return 0, fmt.Errorf("seat %q: %w", label, repository.ErrNotFound)
			}
			return 0, fmt.Errorf("seat %q: %w", label, repository.ErrSeatUnavailable)
		}
	}
	for _, label := range b.Seats {
		coach, seat, _ := repository.SplitSeatLabel(label)
		if err := f.seats.LockSeat(ctx, b.TrainID, coach, seat); err != nil {
			return 0, err
		}
	}
	id := f.nextID
	f.nextID++
	stored := *b
	stored.ID = id
	stored.CreatedAt = time.Now().UTC()
	f.byID[id] = &stored
	return id, nil
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	b, ok := f.byID[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return *b, nil
}

func (f *fakeBookings) Cancel(_ context.Context, id uint64) error {
	b, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = model.BookingCancelled
	return nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	ids := make([]uint64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if f.byID[id].UserID == userID {
			out = append(out, *f.byID[id])
		}
	}
	return out, nil
}

func (f *fakeBookings) ListAll(context.Context) ([]model.BookingDetail, error) {
	return append([]model.BookingDetail(nil), f.details...), nil
}

func (f *fakeBookings) Clear(context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = map[uint64]*model.Booking{}
	return n, nil
}

// ----- users -----

type fakeUsers struct {
	nextID uint64
	byID   map[uint64]model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{nextID: 1, byID: map[uint64]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, name, email, password, role string, _ int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	id := f.nextID
	f.nextID++
	f.byID[id] = model.User{ID: id, Name: name, Email: email, PasswordHash: testHash(password), Role: role}
	return id, nil
}

func (f *fakeUsers) CreateWithPhone(_ context.Context, name, phone, role string) (uint64, error) {
	id := f.nextID
	f.nextID++
	f.byID[id] = model.User{ID: id, Name: name, Phone: phone, Role: role}
	return id, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (model.User, error) {
	for _, u := range f.byID {
		if u.Phone == phone {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// ----- trains -----

type fakeTrains struct {
	nextID uint64
	byID   map[uint64]model.Train
}

func newFakeTrains() *fakeTrains { return &fakeTrains{nextID: 1, byID: map[uint64]model.Train{}} }

func (f *fakeTrains) Create(_ context.Context, t *model.Train) (uint64, error) {
	id := f.nextID
	f.nextID++
	t.ID = id
	t.CreatedAt = time.Now().UTC()
	f.byID[id] = *t
	return id, nil
}

func (f *fakeTrains) GetByID(_ context.Context, id uint64) (model.Train, error) {
	t, ok := f.byID[id]
	if !ok {
		return model.Train{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTrains) List(context.Context) ([]model.Train, error) {
	out := make([]model.Train, 0, len(f.byID))
	ids := make([]uint64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		out = append(out, f.byID[id])
	}
	return out, nil
}

// ----- publisher -----

type fakePublisher struct{ events []any }

func (f *fakePublisher) Publish(_ context.Context, event any) error {
	f.events = append(f.events, event)
	return nil
}

// ----- misc -----

// testHash pairs with utils.VerifyPassword; bcrypt.MinCost keeps the
// suite fast.
func testHash(password string) string {
	h, _ := utils.HashPassword(password, bcrypt.MinCost)
	return h
}
