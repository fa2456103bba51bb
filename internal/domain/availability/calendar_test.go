package availability

import (
	"errors"
	"testing"
	"time"

	"shiftstay/internal/domain/shared/daterange"
)

func day(value string) time.Time {
	t, err := daterange.ParseDay(value)
	if err != nil {
		panic(err)
	}
	return t
}

func testCalendar(blocks ...Block) *Calendar {
	cal := NewCalendar("lst-1", 250000, 7)
	cal.Blocks = blocks
	return cal
}

func blockedJune() Block {
	return Block{
		ID:        "blk-1",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-10"),
		Status:    StatusBlocked,
		Reason:    ReasonMaintenance,
	}
}

func TestIsRangeAvailable(t *testing.T) {
	cal := testCalendar(blockedJune())

	tests := []struct {
		name       string
		start, end string
		exclude    string
		want       bool
	}{
		{"inside block", "2024-06-05", "2024-06-07", "", false},
		{"covers block", "2024-05-20", "2024-06-20", "", false},
		{"checkin on block end", "2024-06-10", "2024-06-15", "", true},
		{"checkout on block start", "2024-05-25", "2024-06-01", "", true},
		{"disjoint", "2024-07-01", "2024-07-10", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.IsRangeAvailable(day(tt.start), day(tt.end), tt.exclude)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsRangeAvailable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRangeAvailableRejectsInvertedRange(t *testing.T) {
	cal := testCalendar()
	for _, tt := range []struct{ start, end string }{
		{"2024-06-10", "2024-06-05"},
		{"2024-06-10", "2024-06-10"},
	} {
		ok, err := cal.IsRangeAvailable(day(tt.start), day(tt.end), "")
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("%s..%s: err = %v, want ErrInvalidRange", tt.start, tt.end, err)
		}
		if ok {
			t.Errorf("%s..%s: must never report available", tt.start, tt.end)
		}
	}
}

func TestIsRangeAvailableIgnoresAvailableBlocks(t *testing.T) {
	cal := testCalendar(Block{
		ID:        "blk-open",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-30"),
		Status:    StatusAvailable,
	})
	ok, err := cal.IsRangeAvailable(day("2024-06-05"), day("2024-06-10"), "")
	if err != nil || !ok {
		t.Fatalf("available-status block must not conflict: ok=%v err=%v", ok, err)
	}
}

func TestIsRangeAvailableExcludesOwnBooking(t *testing.T) {
	cal := testCalendar(Block{
		ID:        "bk-b1",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-10"),
		Status:    StatusBooked,
		BookingID: "b1",
	})
	ok, err := cal.IsRangeAvailable(day("2024-06-03"), day("2024-06-12"), "b1")
	if err != nil || !ok {
		t.Fatalf("own booking must be excluded: ok=%v err=%v", ok, err)
	}
	ok, err = cal.IsRangeAvailable(day("2024-06-03"), day("2024-06-12"), "")
	if err != nil || ok {
		t.Fatalf("without exclusion range must conflict: ok=%v err=%v", ok, err)
	}
}

func TestDayAvailabilityRoundTrip(t *testing.T) {
	blk := Block{
		ID:        "blk-1",
		StartDate: day("2024-06-05"),
		EndDate:   day("2024-06-10"),
		Status:    StatusBlocked,
		Reason:    ReasonPersonalUse,
	}
	cal := testCalendar(blk)

	days := cal.DayAvailability(day("2024-06-01"), 1)
	if len(days) != 30 {
		t.Fatalf("window length = %d, want 30", len(days))
	}
	for _, entry := range days {
		wantBlocked := !entry.Date.Before(day("2024-06-05")) && !entry.Date.After(day("2024-06-10"))
		if wantBlocked && entry.Status != StatusBlocked {
			t.Errorf("%s: status = %s, want blocked", entry.Date.Format("2006-01-02"), entry.Status)
		}
		if !wantBlocked && entry.Status != StatusAvailable {
			t.Errorf("%s: status = %s, want available", entry.Date.Format("2006-01-02"), entry.Status)
		}
	}
}

func TestDayAvailabilityFallbacksAndOverrides(t *testing.T) {
	cal := testCalendar(Block{
		ID:               "blk-1",
		StartDate:        day("2024-06-05"),
		EndDate:          day("2024-06-10"),
		Status:           StatusBlocked,
		MonthlyRateCents: 310000,
		MinStayNights:    14,
	})
	days := cal.DayAvailability(day("2024-06-01"), 1)

	open := days[0]
	if open.MonthlyRateCents != 250000 || open.MinStayNights != 7 {
		t.Errorf("uncovered day should use fallbacks, got rate=%d minStay=%d", open.MonthlyRateCents, open.MinStayNights)
	}
	covered := days[4]
	if covered.MonthlyRateCents != 310000 || covered.MinStayNights != 14 {
		t.Errorf("covered day should use overrides, got rate=%d minStay=%d", covered.MonthlyRateCents, covered.MinStayNights)
	}
}

func TestDayAvailabilityMostRestrictiveWins(t *testing.T) {
	cal := testCalendar(
		Block{ID: "blk-1", StartDate: day("2024-06-01"), EndDate: day("2024-06-10"), Status: StatusBlocked},
		Block{ID: "bk-b1", StartDate: day("2024-06-05"), EndDate: day("2024-06-08"), Status: StatusBooked, BookingID: "b1"},
	)
	days := cal.DayAvailability(day("2024-06-01"), 1)
	if days[5].Status != StatusBooked {
		t.Errorf("overlapping day status = %s, want booked", days[5].Status)
	}
	if days[5].BookingID != "b1" {
		t.Errorf("overlapping day booking = %q, want b1", days[5].BookingID)
	}
	if days[1].Status != StatusBlocked {
		t.Errorf("blocked-only day status = %s, want blocked", days[1].Status)
	}
}

func TestBlockDatesThenUnblock(t *testing.T) {
	cal := testCalendar()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	block, err := cal.BlockDates(BlockDateParams{
		ID:        "blk-1",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-10"),
		Reason:    ReasonMaintenance,
		Notes:     "repainting",
		Now:       now,
	})
	if err != nil {
		t.Fatal(err)
	}
	if block.Status != StatusBlocked {
		t.Errorf("status = %s, want blocked", block.Status)
	}

	ok, err := cal.IsRangeAvailable(day("2024-06-01"), day("2024-06-10"), "")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("range must be unavailable right after blocking")
	}

	if err := cal.Unblock("blk-1", now); err != nil {
		t.Fatal(err)
	}
	ok, err = cal.IsRangeAvailable(day("2024-06-01"), day("2024-06-10"), "")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("range must be available again after unblocking")
	}
}

func TestBlockDatesRejectsConflict(t *testing.T) {
	cal := testCalendar(blockedJune())
	before := len(cal.Blocks)

	_, err := cal.BlockDates(BlockDateParams{
		ID:        "blk-2",
		StartDate: day("2024-06-05"),
		EndDate:   day("2024-06-20"),
		Now:       time.Now(),
	})
	if !errors.Is(err, ErrRangeConflict) {
		t.Fatalf("err = %v, want ErrRangeConflict", err)
	}
	if len(cal.Blocks) != before {
		t.Error("conflicting block must not be inserted")
	}
}

func TestUnblockBookedRejected(t *testing.T) {
	cal := testCalendar(Block{
		ID:        "bk-b1",
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-10"),
		Status:    StatusBooked,
		BookingID: "b1",
	})
	err := cal.Unblock("bk-b1", time.Now())
	if !errors.Is(err, ErrBookedRangeImmutable) {
		t.Fatalf("err = %v, want ErrBookedRangeImmutable", err)
	}
	if len(cal.Blocks) != 1 {
		t.Error("booked block must remain")
	}
}

func TestUnblockUnknownBlock(t *testing.T) {
	cal := testCalendar()
	if err := cal.Unblock("nope", time.Now()); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("err = %v, want ErrBlockNotFound", err)
	}
}

func TestReserveAndRelease(t *testing.T) {
	cal := testCalendar()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	stay, err := daterange.New(day("2024-06-01"), day("2024-06-10"))
	if err != nil {
		t.Fatal(err)
	}

	if err := cal.Reserve(stay, "b1", now); err != nil {
		t.Fatal(err)
	}
	if err := cal.Reserve(stay, "b2", now); !errors.Is(err, ErrRangeConflict) {
		t.Fatalf("double reserve: err = %v, want ErrRangeConflict", err)
	}
	if err := cal.Reserve(stay, "", now); !errors.Is(err, ErrBookingRefRequired) {
		t.Fatalf("missing booking ref: err = %v want ErrBookingRefRequired", err)
	}

	if err := cal.Release("b1", now); err != nil {
		t.Fatal(err)
	}
	ok, err := cal.IsRangeAvailable(stay.CheckIn, stay.CheckOut, "")
	if err != nil || !ok {
		t.Fatalf("released range must be free again: ok=%v err=%v", ok, err)
	}
	if err := cal.Release("b1", now); !errors.Is(err, ErrBlockNotFound) {
		t.Fatalf("second release: err = %v, want ErrBlockNotFound", err)
	}
}

func TestReserveRecordsOverbookingPrevented(t *testing.T) {
	cal := testCalendar(blockedJune())
	stay, _ := daterange.New(day("2024-06-05"), day("2024-06-12"))
	if err := cal.Reserve(stay, "b1", time.Now()); !errors.Is(err, ErrRangeConflict) {
		t.Fatalf("err = %v, want ErrRangeConflict", err)
	}
	events := cal.PendingEvents()
	found := false
	for _, ev := range events {
		if ev.EventName() == "calendar.overbooking_prevented" {
			found = true
		}
	}
	if !found {
		t.Error("expected calendar.overbooking_prevented event")
	}
}
