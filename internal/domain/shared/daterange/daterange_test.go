package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestNewRejectsInvertedRange(t *testing.T) {
	if _, err := New(day("2024-06-10"), day("2024-06-05")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if _, err := New(day("2024-06-10"), day("2024-06-10")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("equal dates: err = %v, want ErrInvalidRange", err)
	}
}

func TestNights(t *testing.T) {
	r, err := New(day("2024-06-01"), day("2024-06-10"))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Nights(); got != 9 {
		t.Errorf("Nights() = %d, want 9", got)
	}
}

func TestOverlaps(t *testing.T) {
	base := DateRange{CheckIn: day("2024-06-05"), CheckOut: day("2024-06-10")}
	tests := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"inside", DateRange{day("2024-06-06"), day("2024-06-08")}, true},
		{"covers", DateRange{day("2024-06-01"), day("2024-06-20")}, true},
		{"starts at checkout", DateRange{day("2024-06-10"), day("2024-06-15")}, false},
		{"ends at checkin", DateRange{day("2024-06-01"), day("2024-06-05")}, false},
		{"disjoint", DateRange{day("2024-07-01"), day("2024-07-05")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps = %v, want %v", got, tt.overlaps)
			}
		})
	}
}

func TestContainsDate(t *testing.T) {
	r := DateRange{CheckIn: day("2024-06-05"), CheckOut: day("2024-06-10")}
	if !r.ContainsDate(day("2024-06-05")) {
		t.Error("check-in day should be contained")
	}
	if r.ContainsDate(day("2024-06-10")) {
		t.Error("checkout day should not be contained (half-open)")
	}
}

func TestDayTruncates(t *testing.T) {
	noisy := time.Date(2024, 6, 5, 17, 42, 3, 0, time.FixedZone("EST", -5*3600))
	got := Day(noisy)
	if got.Hour() != 0 || got.Location() != time.UTC {
		t.Errorf("Day() = %v, want midnight UTC", got)
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween(day("2024-06-01"), day("2024-06-10")); got != 9 {
		t.Errorf("DaysBetween = %d, want 9", got)
	}
	if got := DaysBetween(day("2024-06-10"), day("2024-06-01")); got != -9 {
		t.Errorf("reverse DaysBetween = %d, want -9", got)
	}
}

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2024-06-05")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(day("2024-06-05")) {
		t.Errorf("ParseDay = %v", got)
	}
	if _, err := ParseDay("June 5"); err == nil {
		t.Error("expected parse error")
	}
}
