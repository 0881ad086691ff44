package model

// Booking records a single room reservation for one calendar day.
// Date and the two time fields are stored as fixed-width strings
// ("YYYY-MM-DD" and "HH:mm") so that lexicographic comparison is
// equivalent to chronological comparison.  The JSON tags preserve
// the wire format expected by the existing web client, including
// the `_id` name for the identifier.
//
// Fields:
//  ID        – primary key identifier, assigned on insert.
//  Room      – room name from the configured catalog.
//  Date      – calendar date, "YYYY-MM-DD".
//  StartTime – start of the interval, "HH:mm" (inclusive).
//  EndTime   – end of the interval, "HH:mm" (exclusive).
//  PIC       – person in charge; the requester's name.
type Booking struct {
    ID        uint64 `json:"_id"`       // bookings.id
    Room      string `json:"room"`      // bookings.room
    Date      string `json:"date"`      // bookings.date
    StartTime string `json:"startTime"` // bookings.start_time
    EndTime   string `json:"endTime"`   // bookings.end_time
    PIC       string `json:"pic"`       // bookings.pic
}

// Window is a free contiguous time range within working hours for a
// given room and date.  Windows are derived per availability query
// and never persisted.
type Window struct {
    StartTime string `json:"startTime"`
    EndTime   string `json:"endTime"`
}
