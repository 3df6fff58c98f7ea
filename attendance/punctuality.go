package attendance

import (
	"github.com/warp/labor-engine/generic"
)

// PunctualityToleranceMinutes is how late an entry can be and still count as on time.
const PunctualityToleranceMinutes = 15

var punctualityTolerance = generic.NewAmountFromMinutes(PunctualityToleranceMinutes)

type Punctuality string

const (
	OnTime        Punctuality = "on_time"
	Late          Punctuality = "late"
	Unknown       Punctuality = "unknown"
	NotApplicable Punctuality = "not_applicable"
)

// ClassifyPunctuality classifies an entry mark against the scheduled entry.
// Only entry marks are classified; anything else is NotApplicable. Without a
// configured entry time the reading is Unknown.
func ClassifyPunctuality(mark Mark, scheduledEntry *generic.TimeOfDay) Punctuality {
	if mark.Type != MarkEntry {
		return NotApplicable
	}
	if scheduledEntry == nil {
		return Unknown
	}
	if mark.Time.Since(*scheduledEntry).GreaterThan(punctualityTolerance) {
		return Late
	}
	return OnTime
}

// =============================================================================
// PUNCTUALITY REPORT
// =============================================================================

type Reading struct {
	Mark        Mark
	Punctuality Punctuality
	// Lateness past the scheduled entry in hours; zero when early or unknown.
	Lateness generic.Amount
}

type PunctualityReport struct {
	Readings []Reading
	OnTime   int
	Late     int
	Unknown  int
}

// ClassifyMarks classifies every entry mark, in input order. Non-entry marks
// are skipped.
func ClassifyMarks(marks []Mark, scheduledEntry *generic.TimeOfDay) (PunctualityReport, error) {
	report := PunctualityReport{Readings: []Reading{}}
	for _, m := range marks {
		if err := m.Validate(); err != nil {
			return PunctualityReport{}, err
		}
		class := ClassifyPunctuality(m, scheduledEntry)
		if class == NotApplicable {
			continue
		}

		lateness := generic.ZeroAmount(generic.UnitHours)
		if scheduledEntry != nil {
			lateness = generic.NewAmountFromSeconds(max(0, m.Time.SecondsSince(*scheduledEntry)))
		}
		report.Readings = append(report.Readings, Reading{Mark: m, Punctuality: class, Lateness: lateness})

		switch class {
		case OnTime:
			report.OnTime++
		case Late:
			report.Late++
		case Unknown:
			report.Unknown++
		}
	}
	return report, nil
}
