package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/labor-engine/generic"
)

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

func TestNewPeriod_EndBeforeStart(t *testing.T) {
	_, err := generic.NewPeriod(date(2025, time.March, 10), date(2025, time.March, 1))

	if !errors.Is(err, generic.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
	if !generic.IsClientError(err) {
		t.Error("period errors should be client errors")
	}
}

func TestNewPeriod_SingleDay(t *testing.T) {
	p, err := generic.NewPeriod(date(2025, time.March, 10), date(2025, time.March, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Contains(date(2025, time.March, 10)) || p.Contains(date(2025, time.March, 11)) {
		t.Errorf("expected %s to hold exactly one day", p)
	}
}

func TestPeriod_ContainsAndOverlaps(t *testing.T) {
	year := generic.CalendarYear(2025)

	if !year.Contains(date(2025, time.January, 1)) || !year.Contains(date(2025, time.December, 31)) {
		t.Error("calendar year should contain its bounds")
	}
	if year.Contains(date(2026, time.January, 1)) {
		t.Error("calendar year should not contain next year")
	}

	straddle := generic.Period{Start: date(2024, time.December, 28), End: date(2025, time.January, 3)}
	if !year.Overlaps(straddle) {
		t.Error("expected overlap across new year")
	}
}

func TestCalendarMonth_February(t *testing.T) {
	leap := generic.CalendarMonth(2024, time.February)
	if leap.End.Day() != 29 {
		t.Errorf("expected Feb 2024 to end on 29, got %d", leap.End.Day())
	}
	plain := generic.CalendarMonth(2025, time.February)
	if plain.End.Day() != 28 {
		t.Errorf("expected Feb 2025 to end on 28, got %d", plain.End.Day())
	}
}

func TestAnniversaryPeriod(t *testing.T) {
	admission := date(2019, time.August, 15)

	p := generic.AnniversaryPeriod(admission, date(2025, time.March, 1))
	if p.Start.String() != "2024-08-15" || p.End.String() != "2025-08-14" {
		t.Errorf("unexpected period %s", p)
	}

	p = generic.AnniversaryPeriod(admission, date(2025, time.August, 15))
	if p.Start.String() != "2025-08-15" {
		t.Errorf("anniversary day should open a new period, got %s", p)
	}
}

func TestAnniversaryPeriod_LeapDayAdmission(t *testing.T) {
	admission := date(2020, time.February, 29)

	p := generic.AnniversaryPeriod(admission, date(2025, time.March, 1))
	if p.Start.String() != "2025-02-28" || p.End.String() != "2026-02-27" {
		t.Errorf("unexpected period %s", p)
	}
}
