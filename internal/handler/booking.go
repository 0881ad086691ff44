package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

// Messages returned to the web client.  The client displays these
// verbatim, so the wording is part of the API surface.
const (
    msgRoomDateRequired = "Room dan date wajib diisi"
    msgIncomplete       = "Data booking tidak lengkap"
    msgSlotTaken        = "⚠️ Ruangan ini sudah dibooking pada tanggal dan jam yang sama"
    msgNotFound         = "Booking tidak ditemukan"
    msgCreated          = "Booking berhasil dibuat"
    msgUpdated          = "Booking berhasil diupdate"
    msgCancelled        = "Booking berhasil dibatalkan"
    msgCreateFailed     = "Gagal simpan booking"
    msgUpdateFailed     = "Gagal update booking"
    msgCancelFailed     = "Gagal membatalkan booking"
)

// BookingAPI is the slice of the booking service the handlers use.
// Tests substitute a fake.
type BookingAPI interface {
    CheckAvailability(ctx context.Context, room, date string) (booking.Availability, error)
    Create(ctx context.Context, room, date, start, end, pic string) (model.Booking, error)
    Update(ctx context.Context, id uint64, room, date, start, end, pic string) (model.Booking, error)
    Cancel(ctx context.Context, room, date, start, end, pic string) (bool, error)
    CancelByID(ctx context.Context, id uint64) (model.Booking, error)
    List(ctx context.Context) ([]model.Booking, error)
    ListByPIC(ctx context.Context, pic string) ([]model.Booking, error)
}

// UserDirectory resolves the authenticated user record for
// /api/my-bookings.  repository.UserRepo is the production
// implementation; tests substitute a fake.
type UserDirectory interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// BookingHandler exposes the booking endpoints.  JWT middleware guards
// only /api/my-bookings; the remaining endpoints are open, as the
// original deployment runs on an intranet behind its own access
// control.
type BookingHandler struct {
    Svc   BookingAPI
    Users UserDirectory
}

func NewBookingHandler(svc BookingAPI, users UserDirectory) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc, Users: users}
}

type bookingReq struct {
    Room      string `json:"room"`
    Date      string `json:"date"`
    StartTime string `json:"startTime"`
    EndTime   string `json:"endTime"`
    PIC       string `json:"pic"`
}

type availabilityReq struct {
    Room string `json:"room"`
    Date string `json:"date"`
}

// CheckAvailability handles POST /api/check-availability.  It returns
// the free windows for a room and date plus the 30-minute instants the
// client offers in its time pickers.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
    var req availabilityReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msgRoomDateRequired})
    }
    avail, err := h.Svc.CheckAvailability(c.Request().Context(), req.Room, req.Date)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrIncomplete):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": msgRoomDateRequired})
        case errors.Is(err, booking.ErrUnknownRoom):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room":      avail.Room,
        "date":      avail.Date,
        "available": avail.Windows,
        "options":   avail.Options,
    })
}

// Book handles POST /api/book.
func (h *BookingHandler) Book(c echo.Context) error {
    var req bookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, failBody(msgIncomplete))
    }
    b, err := h.Svc.Create(c.Request().Context(), req.Room, req.Date, req.StartTime, req.EndTime, req.PIC)
    if err != nil {
        return bookingError(c, err, msgCreateFailed)
    }
    return c.JSON(http.StatusOK, successBody(msgCreated, b))
}

// UpdateBook handles PUT /api/book/:id.
func (h *BookingHandler) UpdateBook(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusNotFound, failBody(msgNotFound))
    }
    var req bookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, failBody(msgIncomplete))
    }
    b, err := h.Svc.Update(c.Request().Context(), id, req.Room, req.Date, req.StartTime, req.EndTime, req.PIC)
    if err != nil {
        return bookingError(c, err, msgUpdateFailed)
    }
    return c.JSON(http.StatusOK, successBody(msgUpdated, b))
}

// CancelBooking handles POST /api/cancel-booking.  The booking is
// located by exact match on all five fields; a miss is answered with
// 200 and success=false, which the client treats as "nothing to do".
func (h *BookingHandler) CancelBooking(c echo.Context) error {
    var req bookingReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusOK, failBody(msgNotFound))
    }
    found, err := h.Svc.Cancel(c.Request().Context(), req.Room, req.Date, req.StartTime, req.EndTime, req.PIC)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, failBody(msgCancelFailed))
    }
    if !found {
        return c.JSON(http.StatusOK, failBody(msgNotFound))
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msgCancelled})
}

// CancelByID handles DELETE /api/book/:id, the stricter cancel path.
func (h *BookingHandler) CancelByID(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusNotFound, failBody(msgNotFound))
    }
    if _, err := h.Svc.CancelByID(c.Request().Context(), id); err != nil {
        if errors.Is(err, booking.ErrNotFound) {
            return c.JSON(http.StatusNotFound, failBody(msgNotFound))
        }
        return c.JSON(http.StatusInternalServerError, failBody(msgCancelFailed))
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msgCancelled})
}

// ListBookings handles GET /api/bookings.
func (h *BookingHandler) ListBookings(c echo.Context) error {
    all, err := h.Svc.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
    }
    return c.JSON(http.StatusOK, all)
}

// MyBookings handles GET /api/my-bookings.  JWT middleware has already
// validated the token; the handler resolves the user and returns their
// bookings newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "No token"})
    }
    ctx := c.Request().Context()
    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
    }
    mine, err := h.Svc.ListByPIC(ctx, u.Username)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
    }
    return c.JSON(http.StatusOK, mine)
}

// bookingError maps service errors onto the status codes and messages
// the client expects.
func bookingError(c echo.Context, err error, fallback string) error {
    switch {
    case errors.Is(err, booking.ErrIncomplete):
        return c.JSON(http.StatusBadRequest, failBody(msgIncomplete))
    case errors.Is(err, booking.ErrBadTime),
        errors.Is(err, booking.ErrBadRange),
        errors.Is(err, booking.ErrUnknownRoom):
        return c.JSON(http.StatusBadRequest, failBody(err.Error()))
    case errors.Is(err, booking.ErrSlotTaken):
        return c.JSON(http.StatusConflict, failBody(msgSlotTaken))
    case errors.Is(err, booking.ErrNotFound):
        return c.JSON(http.StatusNotFound, failBody(msgNotFound))
    }
    return c.JSON(http.StatusInternalServerError, failBody(fallback))
}

// successBody flattens the booking into the response the way the
// Express predecessor spread `...booking.toObject()`.
func successBody(message string, b model.Booking) echo.Map {
    return echo.Map{
        "success":   true,
        "message":   message,
        "_id":       b.ID,
        "room":      b.Room,
        "date":      b.Date,
        "startTime": b.StartTime,
        "endTime":   b.EndTime,
        "pic":       b.PIC,
    }
}

func failBody(message string) echo.Map {
    return echo.Map{"success": false, "message": message}
}

// getUserID pulls the numeric subject claim stored by the JWT
// middleware.  Claims decode as float64 from JSON.
func getUserID(c echo.Context) (uint64, error) {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v), nil
    case string:
        return strconv.ParseUint(v, 10, 64)
    case uint64:
        return v, nil
    }
    return 0, errors.New("no user in context")
}
