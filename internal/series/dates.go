package series

import "time"

// AddMonths behaves like Excel's EDATE, avoiding Go's month normalization
// surprises: Jan 31 + 1 month is Feb 28/29, not Mar 2/3.
func AddMonths(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	candidate := t.AddDate(0, months, 0)
	if candidate.Month() == target.Month() {
		return candidate
	}
	// Overflowed into the following month: roll back to the last day.
	d := candidate
	for d.Month() != target.Month() {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// MonthsForYears converts a year fraction into a whole number of months,
// rounding to the nearest month.
func MonthsForYears(years float64) int {
	months := years * 12
	whole := int(months)
	if months-float64(whole) >= 0.5 {
		whole++
	}
	return whole
}

// LastDayOfMonth returns the final calendar day of t's month.
func LastDayOfMonth(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1)
}
