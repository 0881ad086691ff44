package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

// BookingRepo provides CRUD operations over the bookings table.  It is
// the concrete booking.Store used in production.  The table carries a
// compound unique key on (room, date, start_time, end_time) so that a
// conflicting insert racing past the application-level overlap check is
// still rejected at commit time.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id, room, date, start_time, end_time, pic"

// Insert persists a new booking and populates its generated ID.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO bookings (room, date, start_time, end_time, pic) VALUES (?,?,?,?,?)",
        b.Room, b.Date, b.StartTime, b.EndTime, b.PIC)
    if err != nil {
        if isDuplicateKey(err) {
            return booking.ErrSlotTaken
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// GetByID fetches a booking by id.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    var b model.Booking
    err := r.db.QueryRowContext(ctx,
        "SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id).
        Scan(&b.ID, &b.Room, &b.Date, &b.StartTime, &b.EndTime, &b.PIC)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, booking.ErrNotFound
    }
    return b, err
}

// Update overwrites all five fields of the booking with the given id.
func (r *BookingRepo) Update(ctx context.Context, b model.Booking) error {
    _, err := r.db.ExecContext(ctx,
        "UPDATE bookings SET room=?, date=?, start_time=?, end_time=?, pic=? WHERE id=?",
        b.Room, b.Date, b.StartTime, b.EndTime, b.PIC, b.ID)
    if isDuplicateKey(err) {
        return booking.ErrSlotTaken
    }
    return err
}

// DeleteByID removes a booking.  Deleting an absent id is a no-op.
func (r *BookingRepo) DeleteByID(ctx context.Context, id uint64) error {
    _, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id=?", id)
    return err
}

// FindOverlap returns a booking for room/date whose [start_time,
// end_time) interval overlaps [start, end), or nil when none does.
// Times are fixed-width HH:mm strings, so the string comparison the
// database performs matches chronological order.  excludeID skips the
// booking being updated; 0 skips nothing since ids start at 1.
func (r *BookingRepo) FindOverlap(ctx context.Context, room, date, start, end string, excludeID uint64) (*model.Booking, error) {
    var b model.Booking
    err := r.db.QueryRowContext(ctx,
        "SELECT "+bookingCols+" FROM bookings WHERE room=? AND date=? AND start_time<? AND end_time>? AND id<>? LIMIT 1",
        room, date, end, start, excludeID).
        Scan(&b.ID, &b.Room, &b.Date, &b.StartTime, &b.EndTime, &b.PIC)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// FindExact returns the booking matching all five fields, or nil.
func (r *BookingRepo) FindExact(ctx context.Context, room, date, start, end, pic string) (*model.Booking, error) {
    var b model.Booking
    err := r.db.QueryRowContext(ctx,
        "SELECT "+bookingCols+" FROM bookings WHERE room=? AND date=? AND start_time=? AND end_time=? AND pic=? LIMIT 1",
        room, date, start, end, pic).
        Scan(&b.ID, &b.Room, &b.Date, &b.StartTime, &b.EndTime, &b.PIC)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// ListByRoomDate returns every booking for a room on a date, ordered by
// start time for stable availability output.
func (r *BookingRepo) ListByRoomDate(ctx context.Context, room, date string) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+bookingCols+" FROM bookings WHERE room=? AND date=? ORDER BY start_time", room, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanBookings(rows)
}

// ListAll returns every booking.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+bookingCols+" FROM bookings ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanBookings(rows)
}

// ListByPIC returns the bookings owned by pic, newest date first.
// Dates are zero-padded ISO strings, so the string sort is the
// chronological one.
func (r *BookingRepo) ListByPIC(ctx context.Context, pic string) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+bookingCols+" FROM bookings WHERE pic=? ORDER BY date DESC, start_time", pic)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]model.Booking, error) {
    out := []model.Booking{}
    for rows.Next() {
        var b model.Booking
        if err := rows.Scan(&b.ID, &b.Room, &b.Date, &b.StartTime, &b.EndTime, &b.PIC); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}
