package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iliyamo/railway-reservation/internal/model"
)

func newBookingFixture() (*BookingHandler, *fakeSeats, *fakeBookings, *fakeUsers, *fakeTrains) {
	seats := newFakeSeats()
	bookings := newFakeBookings(seats)
	users := newFakeUsers()
	trains := newFakeTrains()
	h := NewBookingHandler(bookings, seats, users, trains)
	return h, seats, bookings, users, trains
}

func TestCreateBookingMissingFields(t *testing.T) {
	h, _, _, _, _ := newBookingFixture()
	cases := []struct {
		name string
		body string
	}{
		{"user_id", `{"train_id":1,"seats":["A1-1"],"date":"2026-09-01"}`},
		{"train_id", `{"user_id":1,"seats":["A1-1"],"date":"2026-09-01"}`},
		{"seats", `{"user_id":1,"train_id":1,"date":"2026-09-01"}`},
		{"date", `{"user_id":1,"train_id":1,"seats":["A1-1"]}`},
	}
	for _, tc := range cases {
		rec := invoke(t, h.Create, http.MethodPost, "/api/bookings", tc.body)
		wantStatus(t, rec, http.StatusBadRequest)
	}
}

func TestCreateBookingTrainNotFound(t *testing.T) {
	h, _, _, users, _ := newBookingFixture()
	users.CreateWithPhone(nil, "Passenger", "+100", "passenger")

	rec := invoke(t, h.Create, http.MethodPost, "/api/bookings",
		`{"user_id":1,"train_id":99,"seats":["A1-1"],"date":"2026-09-01"}`)
	wantStatus(t, rec, http.StatusNotFound)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "Train not found" {
		t.Fatalf(`error = %q, want "Train not found"`, resp["error"])
	}
}

func TestCreateBookingUserNotFound(t *testing.T) {
	h, _, _, _, trains := newBookingFixture()
	trains.Create(nil, &model.Train{Name: "Express1"})

	rec := invoke(t, h.Create, http.MethodPost, "/api/bookings",
		`{"user_id":42,"train_id":1,"seats":["A1-1"],"date":"2026-09-01"}`)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestCreateBookingLocksSeatsAtomically(t *testing.T) {
	h, seats, bookings, users, trains := newBookingFixture()
	users.CreateWithPhone(nil, "Passenger", "+100", "passenger")
	trains.Create(nil, &model.Train{Name: "Express1"})
	seats.addCoach(1, "A1", map[string]string{
		"1": model.SeatAvailable,
		"2": model.SeatAvailable,
		"3": model.SeatUnavailable,
	})

	// Conflicting request: seat 3 is taken, so nothing may be written.
	rec := invoke(t, h.Create, http.MethodPost, "/api/bookings",
		`{"user_id":1,"train_id":1,"seats":["A1-1","A1-3"],"date":"2026-09-01"}`)
	wantStatus(t, rec, http.StatusConflict)
	if got := seats.coaches[seatKey(1, "A1")]["1"]; got != model.SeatAvailable {
		t.Fatalf("seat 1 = %q after failed booking, want available", got)
	}
	if len(bookings.byID) != 0 {
		t.Fatalf("bookings stored after conflict: %d", len(bookings.byID))
	}

	// Clean request succeeds, locks both seats, snapshots the train name.
	rec = invoke(t, h.Create, http.MethodPost, "/api/bookings",
		`{"user_id":1,"train_id":1,"seats":["A1-1","A1-2"],"date":"2026-09-01"}`)
	wantStatus(t, rec, http.StatusCreated)
	b := bookings.byID[1]
	if b == nil {
		t.Fatal("booking not stored")
	}
	if b.Status != model.BookingConfirmed || b.TrainName != "Express1" {
		t.Fatalf("stored booking = %+v", b)
	}
	for _, seat := range []string{"1", "2"} {
		if got := seats.coaches[seatKey(1, "A1")][seat]; got != model.SeatUnavailable {
			t.Fatalf("seat %s = %q after booking, want unavailable", seat, got)
		}
	}
}

func TestCreateBookingRejectsMalformedSeatEntry(t *testing.T) {
	h, _, _, users, trains := newBookingFixture()
	users.CreateWithPhone(nil, "Passenger", "+100", "passenger")
	trains.Create(nil, &model.Train{Name: "Express1"})

	rec := invoke(t, h.Create, http.MethodPost, "/api/bookings",
		`{"user_id":1,"train_id":1,"seats":["A112"],"date":"2026-09-01"}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestLockSeatTwice(t *testing.T) {
	h, seats, _, _, _ := newBookingFixture()
	seats.addCoach(1, "A1", map[string]string{"12": model.SeatAvailable})

	body := `{"train_id":1,"coach_number":"A1","seat_number":"12"}`
	rec := invoke(t, h.Lock, http.MethodPost, "/api/bookings/lock", body)
	wantStatus(t, rec, http.StatusOK)

	rec = invoke(t, h.Lock, http.MethodPost, "/api/bookings/lock", body)
	wantStatus(t, rec, http.StatusConflict)

	// The second attempt must not have mutated anything.
	if got := seats.coaches[seatKey(1, "A1")]["12"]; got != model.SeatUnavailable {
		t.Fatalf("seat = %q, want unavailable", got)
	}
}

func TestLockSeatCoachNotFound(t *testing.T) {
	h, _, _, _, _ := newBookingFixture()
	rec := invoke(t, h.Lock, http.MethodPost, "/api/bookings/lock",
		`{"train_id":1,"coach_number":"Z9","seat_number":"1"}`)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestLockSeatMissingField(t *testing.T) {
	h, _, _, _, _ := newBookingFixture()
	rec := invoke(t, h.Lock, http.MethodPost, "/api/bookings/lock",
		`{"train_id":1,"coach_number":"A1"}`)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestCancelReleasesEverySeat(t *testing.T) {
	h, seats, bookings, users, trains := newBookingFixture()
	users.CreateWithPhone(nil, "Passenger", "+100", "passenger")
	trains.Create(nil, &model.Train{Name: "Express1"})
	seats.addCoach(1, "A1", map[string]string{"1": model.SeatAvailable, "2": model.SeatAvailable})
	seats.addCoach(1, "B2", map[string]string{"5": model.SeatAvailable})

	rec := invoke(t, h.Create, http.MethodPost, "/api/bookings",
		`{"user_id":1,"train_id":1,"seats":["A1-1","A1-2","B2-5"],"date":"2026-09-01"}`)
	wantStatus(t, rec, http.StatusCreated)

	rec = invoke(t, h.Cancel, http.MethodPost, "/api/bookings/1/cancel", "", "booking_id", "1")
	wantStatus(t, rec, http.StatusOK)

	if bookings.byID[1].Status != model.BookingCancelled {
		t.Fatalf("status = %q, want cancelled", bookings.byID[1].Status)
	}
	for _, s := range [][2]string{{"A1", "1"}, {"A1", "2"}, {"B2", "5"}} {
		if got := seats.coaches[seatKey(1, s[0])][s[1]]; got != model.SeatAvailable {
			t.Fatalf("seat %s-%s = %q after cancel, want available", s[0], s[1], got)
		}
	}
}

func TestCancelSkipsMalformedSeatEntry(t *testing.T) {
	h, seats, bookings, _, _ := newBookingFixture()
	seats.addCoach(1, "A1", map[string]string{"1": model.SeatUnavailable})
	// Booking written by an earlier bug: one good label, one corrupt.
	bookings.byID[7] = &model.Booking{
		ID: 7, UserID: 1, TrainID: 1,
		Seats:  []string{"A1-1", "garbage"},
		Status: model.BookingConfirmed,
	}

	rec := invoke(t, h.Cancel, http.MethodPost, "/api/bookings/7/cancel", "", "booking_id", "7")
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Released int `json:"released_seats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Released != 1 {
		t.Fatalf("released_seats = %d, want 1", resp.Released)
	}
	if bookings.byID[7].Status != model.BookingCancelled {
		t.Fatal("cancellation must proceed despite the malformed entry")
	}
	if got := seats.coaches[seatKey(1, "A1")]["1"]; got != model.SeatAvailable {
		t.Fatalf("seat = %q after cancel, want available", got)
	}
}

func TestCancelNotFound(t *testing.T) {
	h, _, _, _, _ := newBookingFixture()
	rec := invoke(t, h.Cancel, http.MethodPost, "/api/bookings/5/cancel", "", "booking_id", "5")
	wantStatus(t, rec, http.StatusNotFound)
}

func TestListAllComputesPrice(t *testing.T) {
	h, _, bookings, _, _ := newBookingFixture()
	km := int64(1200)
	bookings.details = []model.BookingDetail{
		{ID: 1, Seats: []string{"A1-1", "A1-2"}, DistanceKM: &km},
		{ID: 2, Seats: []string{"B2-5"}}, // unknown distance
	}

	rec := invoke(t, h.ListAll, http.MethodGet, "/api/bookings/all", "")
	wantStatus(t, rec, http.StatusOK)

	var resp struct {
		Bookings []model.BookingDetail `json:"bookings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Bookings) != 2 {
		t.Fatalf("got %d bookings", len(resp.Bookings))
	}
	if resp.Bookings[0].Price == nil || *resp.Bookings[0].Price != 1200*10*2 {
		t.Fatalf("price = %v, want 24000", resp.Bookings[0].Price)
	}
	if resp.Bookings[1].Price != nil {
		t.Fatalf("price without distance = %v, want null", *resp.Bookings[1].Price)
	}
}

func TestBookingPrice(t *testing.T) {
	neg := int64(-5)
	km := int64(100)
	if p := bookingPrice(nil, 3); p != nil {
		t.Fatalf("nil distance: got %d", *p)
	}
	if p := bookingPrice(&neg, 3); p != nil {
		t.Fatalf("negative distance: got %d", *p)
	}
	if p := bookingPrice(&km, 3); p == nil || *p != 3000 {
		t.Fatalf("price = %v, want 3000", p)
	}
}

func TestClearBookings(t *testing.T) {
	h, _, bookings, _, _ := newBookingFixture()
	bookings.byID[1] = &model.Booking{ID: 1}
	bookings.byID[2] = &model.Booking{ID: 2}

	rec := invoke(t, h.Clear, http.MethodPost, "/api/admin/bookings/clear", "")
	wantStatus(t, rec, http.StatusOK)
	if len(bookings.byID) != 0 {
		t.Fatalf("%d bookings remain after clear", len(bookings.byID))
	}
}
