package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/labor-engine/generic"
)

// =============================================================================
// WEEK OF MONTH
// =============================================================================

func TestWeekOfMonth_MonthStartingOnSunday(t *testing.T) {
	// GIVEN: June 2025 starts on a Sunday
	// THEN: The 1st is alone in week 0 and weeks run Monday-Sunday after that
	cases := map[int]int{
		1:  0,
		2:  1,
		8:  1,
		9:  2,
		30: 5,
	}
	for day, want := range cases {
		got := generic.WeekOfMonth(generic.NewTimePoint(2025, time.June, day))
		if got != want {
			t.Errorf("June %d: expected week %d, got %d", day, want, got)
		}
	}
}

func TestWeekOfMonth_MonthStartingOnMonday(t *testing.T) {
	// GIVEN: September 2025 starts on a Monday
	cases := map[int]int{
		1:  1,
		7:  1,
		8:  2,
		30: 5,
	}
	for day, want := range cases {
		got := generic.WeekOfMonth(generic.NewTimePoint(2025, time.September, day))
		if got != want {
			t.Errorf("September %d: expected week %d, got %d", day, want, got)
		}
	}
}

func TestWeekOfMonth_ResetsEveryMonth(t *testing.T) {
	// January 31 2025 is a Friday, February 1 a Saturday: same ISO week, different report weeks.
	jan := generic.WeekOfMonth(generic.NewTimePoint(2025, time.January, 31))
	feb := generic.WeekOfMonth(generic.NewTimePoint(2025, time.February, 1))

	if jan != 5 {
		t.Errorf("expected Jan 31 in week 5, got %d", jan)
	}
	if feb != 1 {
		t.Errorf("expected Feb 1 in week 1, got %d", feb)
	}
}

// =============================================================================
// ANNIVERSARIES
// =============================================================================

func TestAnniversaryIn_LeapDayClampsToFeb28(t *testing.T) {
	admission := generic.NewTimePoint(2020, time.February, 29)

	got := generic.AnniversaryIn(admission, 2025)
	if !got.Equal(generic.NewTimePoint(2025, time.February, 28)) {
		t.Errorf("expected 2025-02-28, got %s", got)
	}

	got = generic.AnniversaryIn(admission, 2024)
	if !got.Equal(generic.NewTimePoint(2024, time.February, 29)) {
		t.Errorf("expected 2024-02-29 in a leap year, got %s", got)
	}
}

func TestAnniversaryIn_RegularDate(t *testing.T) {
	got := generic.AnniversaryIn(generic.NewTimePoint(2019, time.August, 15), 2025)
	if got.String() != "2025-08-15" {
		t.Errorf("expected 2025-08-15, got %s", got)
	}
}

func TestIsLeapYear(t *testing.T) {
	cases := map[int]bool{1900: false, 2000: true, 2024: true, 2025: false}
	for year, want := range cases {
		if generic.IsLeapYear(year) != want {
			t.Errorf("%d: expected leap=%v", year, want)
		}
	}
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseTimeOfDay(t *testing.T) {
	tod, err := generic.ParseTimeOfDay("08:20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.Hour() != 8 || tod.Minute() != 20 || tod.Second() != 0 {
		t.Errorf("expected 08:20:00, got %s", tod)
	}

	tod, err = generic.ParseTimeOfDay("16:00:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tod.String() != "16:00:30" {
		t.Errorf("expected 16:00:30, got %s", tod)
	}
}

func TestParseTimeOfDay_RejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "25:00", "8h20", "08:61"} {
		_, err := generic.ParseTimeOfDay(in)
		if !errors.Is(err, generic.ErrInvalidInput) {
			t.Errorf("%q: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestParseDate_RejectsNonNormalisedDates(t *testing.T) {
	_, err := generic.ParseDate("2025-02-30")
	if !errors.Is(err, generic.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	tp, err := generic.ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.Month() != time.February || tp.Day() != 29 {
		t.Errorf("expected Feb 29, got %s", tp)
	}
}

func TestTimeOfDay_Since(t *testing.T) {
	entry := generic.MustTimeOfDay(8, 0)
	late := generic.MustTimeOfDay(8, 20)

	// 20 minutes = 1/3 hour
	got := late.Since(entry)
	want := generic.NewAmountFromMinutes(20)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !entry.Since(late).IsNegative() {
		t.Error("expected negative difference when earlier")
	}
}
