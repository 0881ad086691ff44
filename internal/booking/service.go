package booking

import (
    "context"
    "fmt"
    "log"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/room-reservation/internal/availability"
    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/queue"
)

// Store is the persistence surface the service needs.  The MySQL
// implementation lives in internal/repository; tests supply a fake.
type Store interface {
    // Insert persists a new booking and assigns its ID.  It returns
    // ErrSlotTaken when the compound unique key rejects the row.
    Insert(ctx context.Context, b *model.Booking) error
    // GetByID returns ErrNotFound when no such booking exists.
    GetByID(ctx context.Context, id uint64) (model.Booking, error)
    // Update overwrites all five fields of an existing booking.
    Update(ctx context.Context, b model.Booking) error
    // DeleteByID removes a booking.
    DeleteByID(ctx context.Context, id uint64) error
    // FindOverlap returns a booking for room/date whose interval
    // overlaps [start, end), skipping excludeID (0 skips nothing), or
    // nil when the slot is free.
    FindOverlap(ctx context.Context, room, date, start, end string, excludeID uint64) (*model.Booking, error)
    // FindExact returns the booking matching all five fields, or nil.
    FindExact(ctx context.Context, room, date, start, end, pic string) (*model.Booking, error)
    // ListByRoomDate returns every booking for a room on a date.
    ListByRoomDate(ctx context.Context, room, date string) ([]model.Booking, error)
    // ListAll returns every booking.
    ListAll(ctx context.Context) ([]model.Booking, error)
    // ListByPIC returns a requester's bookings ordered by date descending.
    ListByPIC(ctx context.Context, pic string) ([]model.Booking, error)
}

// Publisher pushes booking events toward the side-effect consumers.
type Publisher interface {
    Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Settings carries the injected schedule configuration: which rooms
// exist, the daily working-hours window, and the slot granularity
// offered to clients.
type Settings struct {
    Rooms       []string
    DayStart    string // "HH:mm", e.g. "07:30"
    DayEnd      string // "HH:mm", e.g. "17:00"
    SlotMinutes int    // e.g. 30
}

// publishTimeout bounds how long a single event publish may take.
// Publishing is best effort: errors are logged and never surface to
// the caller of the primary operation.
const publishTimeout = 5 * time.Second

// Service owns the booking rules.  All methods are safe for concurrent
// use; the overlap invariant is enforced by a pre-check here plus the
// unique key in storage as the last line of defense.
type Service struct {
    store    Store
    pub      Publisher
    settings Settings
    // emits tracks in-flight event publishes so tests can wait for
    // them; production code never blocks on it.
    emits sync.WaitGroup
}

// NewService constructs a Service.  pub may be nil, in which case no
// events are emitted (used by tests and offline tooling).
func NewService(store Store, pub Publisher, s Settings) *Service {
    if store == nil {
        panic("nil store passed to NewService")
    }
    if s.SlotMinutes <= 0 {
        s.SlotMinutes = 30
    }
    return &Service{store: store, pub: pub, settings: s}
}

// Availability holds the result of an availability query: the free
// windows in accumulation order plus the discrete instants a client
// may pick at the configured granularity.
type Availability struct {
    Room    string
    Date    string
    Windows []model.Window
    Options []string
}

// CheckAvailability computes the free windows for a room on a date by
// subtracting its bookings from the working-hours window.  Purely a
// read-then-compute operation.
func (s *Service) CheckAvailability(ctx context.Context, room, date string) (Availability, error) {
    if room == "" {
        return Availability{}, fmt.Errorf("%w: room", ErrIncomplete)
    }
    if date == "" {
        return Availability{}, fmt.Errorf("%w: date", ErrIncomplete)
    }
    if !s.roomKnown(room) {
        return Availability{}, ErrUnknownRoom
    }
    existing, err := s.store.ListByRoomDate(ctx, room, date)
    if err != nil {
        return Availability{}, err
    }
    booked := make([]availability.Interval, 0, len(existing))
    for _, b := range existing {
        booked = append(booked, availability.Interval{StartTime: b.StartTime, EndTime: b.EndTime})
    }
    day := model.Window{StartTime: s.settings.DayStart, EndTime: s.settings.DayEnd}
    windows := availability.Windows(day, booked)
    return Availability{
        Room:    room,
        Date:    date,
        Windows: windows,
        Options: availability.SlotOptions(windows, s.settings.SlotMinutes),
    }, nil
}

// Create validates the candidate slot, rejects overlaps and persists a
// new booking.  The returned record carries the server-assigned ID.
func (s *Service) Create(ctx context.Context, room, date, start, end, pic string) (model.Booking, error) {
    b := model.Booking{Room: room, Date: date, StartTime: start, EndTime: end, PIC: pic}
    if err := s.validate(b); err != nil {
        return model.Booking{}, err
    }
    conflict, err := s.store.FindOverlap(ctx, room, date, start, end, 0)
    if err != nil {
        return model.Booking{}, err
    }
    if conflict != nil {
        return model.Booking{}, ErrSlotTaken
    }
    if err := s.store.Insert(ctx, &b); err != nil {
        return model.Booking{}, err
    }
    s.emit(queue.ActionCreated, b, nil)
    return b, nil
}

// Update overwrites all five fields of an existing booking after
// re-validating the overlap invariant.  The booking being updated is
// excluded from the conflict scan so a no-op update always succeeds.
func (s *Service) Update(ctx context.Context, id uint64, room, date, start, end, pic string) (model.Booking, error) {
    b := model.Booking{ID: id, Room: room, Date: date, StartTime: start, EndTime: end, PIC: pic}
    if err := s.validate(b); err != nil {
        return model.Booking{}, err
    }
    prev, err := s.store.GetByID(ctx, id)
    if err != nil {
        return model.Booking{}, err
    }
    conflict, err := s.store.FindOverlap(ctx, room, date, start, end, id)
    if err != nil {
        return model.Booking{}, err
    }
    if conflict != nil {
        return model.Booking{}, ErrSlotTaken
    }
    if err := s.store.Update(ctx, b); err != nil {
        return model.Booking{}, err
    }
    s.emit(queue.ActionUpdated, b, &prev)
    return b, nil
}

// Cancel deletes the booking matching all five fields exactly.  A miss
// is not an error: the method reports found=false and the caller tells
// the client nothing was cancelled.  This field-match contract is what
// the existing web client speaks; CancelByID is the stricter path.
func (s *Service) Cancel(ctx context.Context, room, date, start, end, pic string) (bool, error) {
    match, err := s.store.FindExact(ctx, room, date, start, end, pic)
    if err != nil {
        return false, err
    }
    if match == nil {
        return false, nil
    }
    if err := s.store.DeleteByID(ctx, match.ID); err != nil {
        return false, err
    }
    s.emit(queue.ActionCancelled, *match, nil)
    return true, nil
}

// CancelByID deletes a booking by its identifier and returns the
// removed record.  Returns ErrNotFound when the id is unknown.
func (s *Service) CancelByID(ctx context.Context, id uint64) (model.Booking, error) {
    b, err := s.store.GetByID(ctx, id)
    if err != nil {
        return model.Booking{}, err
    }
    if err := s.store.DeleteByID(ctx, id); err != nil {
        return model.Booking{}, err
    }
    s.emit(queue.ActionCancelled, b, nil)
    return b, nil
}

// List returns every booking.
func (s *Service) List(ctx context.Context) ([]model.Booking, error) {
    return s.store.ListAll(ctx)
}

// ListByPIC returns the bookings owned by pic, newest date first.
func (s *Service) ListByPIC(ctx context.Context, pic string) ([]model.Booking, error) {
    return s.store.ListByPIC(ctx, pic)
}

func (s *Service) roomKnown(room string) bool {
    for _, r := range s.settings.Rooms {
        if r == room {
            return true
        }
    }
    return false
}

func (s *Service) validate(b model.Booking) error {
    for _, f := range []struct{ name, val string }{
        {"room", b.Room},
        {"date", b.Date},
        {"startTime", b.StartTime},
        {"endTime", b.EndTime},
        {"pic", b.PIC},
    } {
        if f.val == "" {
            return fmt.Errorf("%w: %s", ErrIncomplete, f.name)
        }
    }
    if !s.roomKnown(b.Room) {
        return ErrUnknownRoom
    }
    if !availability.ValidTime(b.StartTime) || !availability.ValidTime(b.EndTime) {
        return ErrBadTime
    }
    if b.EndTime <= b.StartTime {
        return ErrBadRange
    }
    return nil
}

// emit publishes a booking event without making the caller wait for
// the broker.  The publish runs on its own goroutine under a bounded
// timeout; failures are logged and swallowed.  Side effects never
// decide, or delay, the outcome of the primary operation.
func (s *Service) emit(action string, b model.Booking, prev *model.Booking) {
    if s.pub == nil {
        return
    }
    ev := queue.BookingEvent{
        EventID:    uuid.NewString(),
        Action:     action,
        Booking:    b,
        Previous:   prev,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
    s.emits.Add(1)
    go func() {
        defer s.emits.Done()
        ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
        defer cancel()
        if err := s.pub.Publish(ctx, ev); err != nil {
            log.Printf("booking: publish %s event failed: %v", action, err)
        }
    }()
}
