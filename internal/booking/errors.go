// Package booking implements the reservation rules of the service:
// input validation, the no-overlap invariant for a room and date, and
// the create/update/cancel state transitions.  Storage and transport
// live elsewhere; this package only talks to the Store and Publisher
// interfaces defined in service.go.
package booking

import "errors"

// ErrIncomplete is returned when a required field is missing or empty.
// The wrapped message names the field.  Handlers translate this into
// an HTTP 400 response.
var ErrIncomplete = errors.New("booking data incomplete")

// ErrBadTime is returned when a time field is not a strict zero-padded
// "HH:mm" string.  The fixed format is load-bearing: every comparison
// in the service is lexicographic.
var ErrBadTime = errors.New("time must be formatted HH:mm")

// ErrBadRange is returned when endTime is not after startTime.
var ErrBadRange = errors.New("endTime must be after startTime")

// ErrUnknownRoom is returned when the requested room is not part of
// the configured catalog.
var ErrUnknownRoom = errors.New("unknown room")

// ErrSlotTaken is returned when the requested interval overlaps an
// existing booking for the same room and date.  The storage layer also
// returns it when the compound unique key on (room, date, start, end)
// rejects a write that slipped past the pre-check.  Handlers translate
// it into an HTTP 409 response.
var ErrSlotTaken = errors.New("room already booked for that time")

// ErrNotFound is returned when no booking with the given id exists.
var ErrNotFound = errors.New("booking not found")
