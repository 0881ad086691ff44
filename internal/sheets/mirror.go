// Package sheets keeps a Google Sheets replica of the booking table.
// Each room mirrors into the sheet whose title equals the room name,
// one row per booking: room, date, start, end, pic.  The mirror is
// eventually consistent and strictly best effort; callers log errors
// and move on.
package sheets

import (
    "context"
    "fmt"
    "log"
    "strings"

    "google.golang.org/api/option"
    sheetsapi "google.golang.org/api/sheets/v4"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Mirror wraps the Sheets API for one spreadsheet.
type Mirror struct {
    svc           *sheetsapi.Service
    spreadsheetID string
}

// NewMirror builds a Mirror from a service-account credentials file.
func NewMirror(ctx context.Context, spreadsheetID, credentialsFile string) (*Mirror, error) {
    svc, err := sheetsapi.NewService(ctx,
        option.WithCredentialsFile(credentialsFile),
        option.WithScopes(sheetsapi.SpreadsheetsScope))
    if err != nil {
        return nil, fmt.Errorf("sheets service: %w", err)
    }
    return &Mirror{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Append adds one row for the booking to its room's sheet.
func (m *Mirror) Append(ctx context.Context, b model.Booking) error {
    vr := &sheetsapi.ValueRange{
        Values: [][]interface{}{{b.Room, b.Date, b.StartTime, b.EndTime, b.PIC}},
    }
    _, err := m.svc.Spreadsheets.Values.
        Append(m.spreadsheetID, roomRange(b.Room), vr).
        ValueInputOption("USER_ENTERED").
        Context(ctx).Do()
    if err != nil {
        return fmt.Errorf("append to sheet %q: %w", b.Room, err)
    }
    return nil
}

// Retract removes the row matching the booking from its room's sheet.
// Rows are matched on all five fields; the time cells tolerate the
// format drift a spreadsheet introduces ("9:00", "09:00", "09:00:00").
// A missing row is logged but not an error: the mirror may simply have
// never seen the booking.
func (m *Mirror) Retract(ctx context.Context, b model.Booking) error {
    resp, err := m.svc.Spreadsheets.Values.
        Get(m.spreadsheetID, roomRange(b.Room)).
        Context(ctx).Do()
    if err != nil {
        return fmt.Errorf("read sheet %q: %w", b.Room, err)
    }

    rowIndex := -1
    for i, row := range resp.Values {
        if RowMatches(row, b) {
            rowIndex = i
            break
        }
    }
    if rowIndex == -1 {
        log.Printf("sheets: no row found for booking %d in sheet %q", b.ID, b.Room)
        return nil
    }

    sheetID, err := m.sheetID(ctx, b.Room)
    if err != nil {
        return err
    }
    _, err = m.svc.Spreadsheets.BatchUpdate(m.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
        Requests: []*sheetsapi.Request{{
            DeleteDimension: &sheetsapi.DeleteDimensionRequest{
                Range: &sheetsapi.DimensionRange{
                    SheetId:    sheetID,
                    Dimension:  "ROWS",
                    StartIndex: int64(rowIndex),
                    EndIndex:   int64(rowIndex) + 1,
                },
            },
        }},
    }).Context(ctx).Do()
    if err != nil {
        return fmt.Errorf("delete row from sheet %q: %w", b.Room, err)
    }
    return nil
}

// sheetID resolves the numeric id of the sheet titled like the room.
func (m *Mirror) sheetID(ctx context.Context, room string) (int64, error) {
    meta, err := m.svc.Spreadsheets.Get(m.spreadsheetID).Context(ctx).Do()
    if err != nil {
        return 0, fmt.Errorf("spreadsheet metadata: %w", err)
    }
    for _, s := range meta.Sheets {
        if s.Properties != nil && s.Properties.Title == room {
            return s.Properties.SheetId, nil
        }
    }
    return 0, fmt.Errorf("no sheet titled %q", room)
}

func roomRange(room string) string { return room + "!A:E" }

// RowMatches reports whether a sheet row holds the given booking.
func RowMatches(row []interface{}, b model.Booking) bool {
    if len(row) < 5 {
        return false
    }
    return cell(row[0]) == strings.TrimSpace(b.Room) &&
        cell(row[1]) == strings.TrimSpace(b.Date) &&
        TimeMatches(cell(row[2]), b.StartTime) &&
        TimeMatches(cell(row[3]), b.EndTime) &&
        cell(row[4]) == strings.TrimSpace(b.PIC)
}

// TimeMatches compares a spreadsheet time cell against a canonical
// "HH:mm" value, accepting the unpadded and seconds-suffixed variants
// sheet editing tends to produce.
func TimeMatches(got, want string) bool {
    want = strings.TrimSpace(want)
    switch got {
    case want, want + ":00", strings.TrimPrefix(want, "0"):
        return true
    }
    return false
}

func cell(v interface{}) string {
    return strings.TrimSpace(fmt.Sprintf("%v", v))
}
