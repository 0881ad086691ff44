// Package queue defines the message payloads exchanged over the broker
// and the background consumers that apply booking side effects.
package queue

import "github.com/iliyamo/room-reservation/internal/model"

// BookingEventsExchange is the durable fanout exchange all booking
// events go through.  Each subscriber binds its own queue named after
// the exchange ("booking.events.mirror", "booking.events.notify") so
// every subscriber sees every event.
const BookingEventsExchange = "booking.events"

// Actions carried by BookingEvent.
const (
    ActionCreated   = "created"
    ActionUpdated   = "updated"
    ActionCancelled = "cancelled"
)

// BookingEvent is published whenever a booking is created, updated or
// cancelled.  It carries the full record so downstream consumers (the
// spreadsheet mirror, the WhatsApp notifier) never have to query the
// primary database.  Previous holds the pre-update field values on
// "updated" events so the mirror can retract the old row.
type BookingEvent struct {
    EventID    string         `json:"event_id"`
    Action     string         `json:"action"`
    Booking    model.Booking  `json:"booking"`
    Previous   *model.Booking `json:"previous,omitempty"`
    OccurredAt string         `json:"occurred_at"`
}
