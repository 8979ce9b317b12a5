package schedule

import (
	"iter"
	"slices"
	"time"

	"github.com/fastygo/loftplanner/domain"
)

const secondsPerDay = 24 * 60 * 60

// Occurrences yields the occurrence dates of tpl that fall inside
// [rangeStart, rangeEnd], in increasing order. The bounds are expected to be
// normalised to day boundaries already. The sequence is restartable: every
// range over it recomputes from the template.
//
// Inactive templates, unknown frequencies and templates whose end date
// precedes their start date yield nothing.
func Occurrences(tpl domain.TaskTemplate, rangeStart, rangeEnd time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if !tpl.IsActive || rangeEnd.Before(rangeStart) {
			return
		}

		anchor := domain.StartOfDay(tpl.StartDate)
		limit := rangeEnd
		if tpl.EndDate != nil {
			last := domain.EndOfDay(*tpl.EndDate)
			if last.Before(anchor) {
				return
			}
			if last.Before(limit) {
				limit = last
			}
		}

		if tpl.Frequency == domain.FrequencyNone {
			if !anchor.Before(rangeStart) && !anchor.After(limit) {
				yield(anchor)
			}
			return
		}
		if !isRecurring(tpl.Frequency) {
			return
		}

		for k := firstIndex(tpl.Frequency, anchor, rangeStart); ; k++ {
			at := nth(tpl.Frequency, anchor, k)
			if at.After(limit) {
				return
			}
			if !yield(at) {
				return
			}
		}
	}
}

// Expand collects Occurrences into a slice.
func Expand(tpl domain.TaskTemplate, rangeStart, rangeEnd time.Time) []time.Time {
	return slices.Collect(Occurrences(tpl, rangeStart, rangeEnd))
}

func isRecurring(f domain.Frequency) bool {
	switch f {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly:
		return true
	default:
		return false
	}
}

// nth returns occurrence k (k >= 0) of a sequence anchored at anchor.
// Every occurrence is derived from the anchor, never from its predecessor, so
// a month-end clamp does not carry into later months.
func nth(f domain.Frequency, anchor time.Time, k int) time.Time {
	switch f {
	case domain.FrequencyDaily:
		return anchor.AddDate(0, 0, k)
	case domain.FrequencyWeekly:
		return anchor.AddDate(0, 0, 7*k)
	case domain.FrequencyMonthly:
		return addMonthsClamped(anchor, k)
	default:
		return anchor
	}
}

// firstIndex returns the smallest k such that nth(k) >= from, computed from
// the elapsed days or months instead of stepping through every period.
func firstIndex(f domain.Frequency, anchor, from time.Time) int {
	if !from.After(anchor) {
		return 0
	}

	var k int
	switch f {
	case domain.FrequencyDaily:
		k = int((from.Unix() - anchor.Unix()) / secondsPerDay)
	case domain.FrequencyWeekly:
		k = int((from.Unix() - anchor.Unix()) / (7 * secondsPerDay))
	case domain.FrequencyMonthly:
		ay, am, _ := anchor.Date()
		fy, fm, _ := from.UTC().Date()
		k = (fy-ay)*12 + int(fm-am)
	}
	if k < 0 {
		k = 0
	}
	// the estimate is at most one period short
	for nth(f, anchor, k).Before(from) {
		k++
	}
	return k
}

// addMonthsClamped moves t forward by months calendar months, clamping the
// day to the last day of the target month (Jan 31 + 1 month = Feb 29 in 2024).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
