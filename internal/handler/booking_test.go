package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/model"
)

// fakeAPI returns canned results so handler behavior can be tested
// without a database.
type fakeAPI struct {
	availability booking.Availability
	created      model.Booking
	err          error
	cancelFound  bool
	bookings     []model.Booking
}

func (f *fakeAPI) CheckAvailability(context.Context, string, string) (booking.Availability, error) {
	return f.availability, f.err
}
func (f *fakeAPI) Create(context.Context, string, string, string, string, string) (model.Booking, error) {
	return f.created, f.err
}
func (f *fakeAPI) Update(context.Context, uint64, string, string, string, string, string) (model.Booking, error) {
	return f.created, f.err
}
func (f *fakeAPI) Cancel(context.Context, string, string, string, string, string) (bool, error) {
	return f.cancelFound, f.err
}
func (f *fakeAPI) CancelByID(context.Context, uint64) (model.Booking, error) {
	return f.created, f.err
}
func (f *fakeAPI) List(context.Context) ([]model.Booking, error) {
	return f.bookings, f.err
}
func (f *fakeAPI) ListByPIC(context.Context, string) ([]model.Booking, error) {
	return f.bookings, f.err
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCheckAvailability(t *testing.T) {
	t.Parallel()

	t.Run("returns windows and options", func(t *testing.T) {
		api := &fakeAPI{availability: booking.Availability{
			Room:    "Ballroom",
			Date:    "2024-01-01",
			Windows: []model.Window{{StartTime: "07:30", EndTime: "17:00"}},
			Options: []string{"07:30", "08:00"},
		}}
		h := NewBookingHandler(api, nil)

		rec := doJSON(t, h.CheckAvailability, http.MethodPost, "/api/check-availability",
			`{"room":"Ballroom","date":"2024-01-01"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decode(t, rec)
		if body["room"] != "Ballroom" || body["date"] != "2024-01-01" {
			t.Fatalf("unexpected body: %v", body)
		}
		if _, ok := body["available"].([]interface{}); !ok {
			t.Fatalf("expected available array, got %v", body["available"])
		}
	})

	t.Run("missing room or date is a 400", func(t *testing.T) {
		api := &fakeAPI{err: booking.ErrIncomplete}
		h := NewBookingHandler(api, nil)

		rec := doJSON(t, h.CheckAvailability, http.MethodPost, "/api/check-availability",
			`{"room":"Ballroom"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBook(t *testing.T) {
	t.Parallel()

	reqBody := `{"room":"Ballroom","date":"2024-01-01","startTime":"09:00","endTime":"10:00","pic":"budi"}`

	t.Run("success flattens the booking with its id", func(t *testing.T) {
		api := &fakeAPI{created: model.Booking{
			ID: 7, Room: "Ballroom", Date: "2024-01-01",
			StartTime: "09:00", EndTime: "10:00", PIC: "budi",
		}}
		h := NewBookingHandler(api, nil)

		rec := doJSON(t, h.Book, http.MethodPost, "/api/book", reqBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decode(t, rec)
		if body["success"] != true {
			t.Fatalf("expected success=true, got %v", body)
		}
		if body["_id"].(float64) != 7 || body["room"] != "Ballroom" {
			t.Fatalf("booking fields not flattened into response: %v", body)
		}
	})

	t.Run("overlap is a 409", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{err: booking.ErrSlotTaken}, nil)

		rec := doJSON(t, h.Book, http.MethodPost, "/api/book", reqBody)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if body := decode(t, rec); body["success"] != false {
			t.Fatalf("expected success=false, got %v", body)
		}
	})

	t.Run("missing field is a 400", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{err: booking.ErrIncomplete}, nil)

		rec := doJSON(t, h.Book, http.MethodPost, "/api/book", `{"room":"Ballroom"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()

	reqBody := `{"room":"Ballroom","date":"2024-01-01","startTime":"09:00","endTime":"10:00","pic":"budi"}`

	t.Run("unknown id is a 404", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{err: booking.ErrNotFound}, nil)

		rec := doJSON(t, h.UpdateBook, http.MethodPut, "/api/book/99", reqBody, "id", "99")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("non-numeric id is a 404", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{}, nil)

		rec := doJSON(t, h.UpdateBook, http.MethodPut, "/api/book/abc", reqBody, "id", "abc")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		api := &fakeAPI{created: model.Booking{ID: 3, Room: "Ballroom"}}
		h := NewBookingHandler(api, nil)

		rec := doJSON(t, h.UpdateBook, http.MethodPut, "/api/book/3", reqBody, "id", "3")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}

func TestCancelBooking(t *testing.T) {
	t.Parallel()

	reqBody := `{"room":"Ballroom","date":"2024-01-01","startTime":"09:00","endTime":"10:00","pic":"budi"}`

	t.Run("miss stays a 200 with success=false", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{cancelFound: false}, nil)

		rec := doJSON(t, h.CancelBooking, http.MethodPost, "/api/cancel-booking", reqBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		body := decode(t, rec)
		if body["success"] != false || body["message"] == "" {
			t.Fatalf("expected success=false with message, got %v", body)
		}
	})

	t.Run("match cancels", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{cancelFound: true}, nil)

		rec := doJSON(t, h.CancelBooking, http.MethodPost, "/api/cancel-booking", reqBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if body := decode(t, rec); body["success"] != true {
			t.Fatalf("expected success=true, got %v", body)
		}
	})
}

// fakeUsers resolves a single canned user record.
type fakeUsers struct {
	user model.User
	err  error
}

func (f *fakeUsers) GetByID(context.Context, uint64) (model.User, error) {
	return f.user, f.err
}

func TestMyBookings(t *testing.T) {
	t.Parallel()

	newCtx := func(uid interface{}) (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/my-bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if uid != nil {
			c.Set("user_id", uid)
		}
		return c, rec
	}

	t.Run("missing identity is a 401", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{}, &fakeUsers{})

		c, rec := newCtx(nil)
		if err := h.MyBookings(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("token for a deleted user is a 404", func(t *testing.T) {
		h := NewBookingHandler(&fakeAPI{}, &fakeUsers{err: errors.New("no such user")})

		c, rec := newCtx(float64(42))
		if err := h.MyBookings(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if body := decode(t, rec); body["message"] != "User not found" {
			t.Fatalf("unexpected body: %v", body)
		}
	})

	t.Run("returns the bookings of the token's user", func(t *testing.T) {
		api := &fakeAPI{bookings: []model.Booking{
			{ID: 2, Room: "Ballroom", Date: "2024-02-01", StartTime: "09:00", EndTime: "10:00", PIC: "budi"},
			{ID: 1, Room: "Ballroom", Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", PIC: "budi"},
		}}
		h := NewBookingHandler(api, &fakeUsers{user: model.User{ID: 42, Username: "budi"}})

		c, rec := newCtx(float64(42))
		if err := h.MyBookings(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var out []map[string]interface{}
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("expected array body, got %q", rec.Body.String())
		}
		if len(out) != 2 || out[0]["pic"] != "budi" {
			t.Fatalf("unexpected list: %v", out)
		}
	})
}

func TestListBookings(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{bookings: []model.Booking{
		{ID: 1, Room: "Ballroom", Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", PIC: "budi"},
	}}
	h := NewBookingHandler(api, nil)

	rec := doJSON(t, h.ListBookings, http.MethodGet, "/api/bookings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("expected array body, got %q", rec.Body.String())
	}
	if len(out) != 1 || out[0]["_id"].(float64) != 1 {
		t.Fatalf("unexpected list: %v", out)
	}
}
