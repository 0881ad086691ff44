// Package availability computes the free time windows of a room for a
// single day.  All times are fixed-width "HH:mm" strings; lexicographic
// comparison on that format orders the same way the clock does, so the
// package never parses times except when expanding slot options.
package availability

import (
    "fmt"
    "strconv"
    "strings"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Interval is a booked [start, end) range to subtract from the day.
type Interval struct {
    StartTime string
    EndTime   string
}

// Windows subtracts every booked interval from the single working-hours
// window and returns what survives.  Each interval splits any window it
// intersects into at most two remainders: the part before the booking
// and the part after it.  An interval covering a window entirely removes
// that window.  Intervals are applied in the order given and the output
// keeps accumulation order; callers that need time order must sort.
//
// With no booked intervals the result is the day window itself.
func Windows(day model.Window, booked []Interval) []model.Window {
    free := []model.Window{day}
    for _, b := range booked {
        next := make([]model.Window, 0, len(free)+1)
        for _, w := range free {
            // Entirely before or after this window: keep it untouched.
            if b.StartTime >= w.EndTime || b.EndTime <= w.StartTime {
                next = append(next, w)
                continue
            }
            if b.StartTime > w.StartTime {
                next = append(next, model.Window{StartTime: w.StartTime, EndTime: b.StartTime})
            }
            if b.EndTime < w.EndTime {
                next = append(next, model.Window{StartTime: b.EndTime, EndTime: w.EndTime})
            }
        }
        free = next
    }
    return free
}

// SlotOptions expands free windows into the discrete "HH:mm" instants a
// client may pick as a start or end time.  Instants step from each
// window's start in stepMinutes increments up to and including the
// window's end, so the closing bound of a window is itself selectable
// as an end time.  Malformed windows contribute nothing.
func SlotOptions(windows []model.Window, stepMinutes int) []string {
    if stepMinutes <= 0 {
        return nil
    }
    var opts []string
    for _, w := range windows {
        start, err := toMinutes(w.StartTime)
        if err != nil {
            continue
        }
        end, err := toMinutes(w.EndTime)
        if err != nil {
            continue
        }
        for cur := start; cur <= end; cur += stepMinutes {
            opts = append(opts, fromMinutes(cur))
        }
    }
    return opts
}

// ValidTime reports whether s is a strict zero-padded 24-hour "HH:mm"
// string.  The fixed width is what makes string comparison safe, so
// anything looser is rejected at the boundary.
func ValidTime(s string) bool {
    if len(s) != 5 || s[2] != ':' {
        return false
    }
    h, err := strconv.Atoi(s[:2])
    if err != nil || h < 0 || h > 23 {
        return false
    }
    m, err := strconv.Atoi(s[3:])
    if err != nil || m < 0 || m > 59 {
        return false
    }
    return true
}

func toMinutes(s string) (int, error) {
    if !ValidTime(s) {
        return 0, fmt.Errorf("bad time %q", s)
    }
    parts := strings.SplitN(s, ":", 2)
    h, _ := strconv.Atoi(parts[0])
    m, _ := strconv.Atoi(parts[1])
    return h*60 + m, nil
}

func fromMinutes(min int) string {
    return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
