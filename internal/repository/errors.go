// Package repository implements MySQL persistence for bookings and
// users.  Repositories translate driver-level failures into the
// domain's sentinel errors so higher layers never inspect MySQL error
// codes themselves: the duplicate-key rejection of the compound unique
// index on (room, date, start_time, end_time) surfaces as
// booking.ErrSlotTaken, and an empty by-id lookup surfaces as
// booking.ErrNotFound.
package repository

import (
    "errors"
    "strings"
)

// ErrUsernameExists is returned when registration collides with an
// existing username.  Handlers translate this into an HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// isDuplicateKey reports whether err is MySQL error 1062 (duplicate
// entry for a unique key).
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(err.Error(), "1062")
}
