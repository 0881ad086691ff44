package sheets

import (
	"testing"

	"github.com/iliyamo/room-reservation/internal/model"
)

func TestTimeMatches(t *testing.T) {
	t.Parallel()

	cases := []struct {
		got, want string
		match     bool
	}{
		{"09:00", "09:00", true},
		{"9:00", "09:00", true},
		{"09:00:00", "09:00", true},
		{"10:00", "09:00", false},
		{"9:30", "09:00", false},
		{"13:00", "13:00", true},
		{"13:00:00", "13:00", true},
		// TrimPrefix only strips a leading zero, so an unpadded
		// afternoon time never appears; "3:00" is not 13:00.
		{"3:00", "13:00", false},
	}
	for _, tc := range cases {
		if got := TimeMatches(tc.got, tc.want); got != tc.match {
			t.Errorf("TimeMatches(%q, %q) = %v, want %v", tc.got, tc.want, got, tc.match)
		}
	}
}

func TestRowMatches(t *testing.T) {
	t.Parallel()

	b := model.Booking{
		Room:      "Ballroom",
		Date:      "2024-01-01",
		StartTime: "09:00",
		EndTime:   "10:00",
		PIC:       "budi",
	}

	t.Run("exact row", func(t *testing.T) {
		row := []interface{}{"Ballroom", "2024-01-01", "09:00", "10:00", "budi"}
		if !RowMatches(row, b) {
			t.Fatalf("expected match")
		}
	})

	t.Run("sheet-drifted time formats", func(t *testing.T) {
		row := []interface{}{"Ballroom", "2024-01-01", "9:00", "10:00:00", "budi"}
		if !RowMatches(row, b) {
			t.Fatalf("expected match with drifted times")
		}
	})

	t.Run("whitespace around cells", func(t *testing.T) {
		row := []interface{}{" Ballroom ", "2024-01-01 ", "09:00", "10:00", " budi"}
		if !RowMatches(row, b) {
			t.Fatalf("expected match with padded cells")
		}
	})

	t.Run("different pic is no match", func(t *testing.T) {
		row := []interface{}{"Ballroom", "2024-01-01", "09:00", "10:00", "sari"}
		if RowMatches(row, b) {
			t.Fatalf("expected no match")
		}
	})

	t.Run("short row is no match", func(t *testing.T) {
		if RowMatches([]interface{}{"Ballroom", "2024-01-01"}, b) {
			t.Fatalf("expected no match")
		}
	})
}
