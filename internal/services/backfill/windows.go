// Package backfill partitions a month into bounded fetch windows and drives
// the sequential fetch-and-store loop that fills the candle history.
package backfill

import "time"

// Window is one inclusive fetch range.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindows lazily partitions a UTC month into contiguous, non-overlapping
// windows of at most maxPoints candles each. Together the windows cover the
// month exactly, from its first instant to its last interval start. The
// iterator performs no I/O and can be restarted with Reset.
type MonthWindows struct {
	monthStart time.Time
	monthEnd   time.Time
	interval   time.Duration
	maxPoints  int
	from       time.Time
}

// NewMonthWindows builds the iterator for the given UTC month.
func NewMonthWindows(year int, month time.Month, maxPoints int, interval time.Duration) *MonthWindows {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// last interval start of the month, so the range is fully inclusive
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-interval)

	return &MonthWindows{
		monthStart: monthStart,
		monthEnd:   monthEnd,
		interval:   interval,
		maxPoints:  maxPoints,
		from:       monthStart,
	}
}

// Next returns the next window. The second return is false once the month is
// fully covered.
func (m *MonthWindows) Next() (Window, bool) {
	// inclusive bound: when the previous window ends one interval short of
	// monthEnd, the final point still gets its own window
	if m.from.After(m.monthEnd) {
		return Window{}, false
	}

	to := m.from.Add(m.interval * time.Duration(m.maxPoints-1))
	if to.After(m.monthEnd) {
		to = m.monthEnd
	}

	window := Window{Start: m.from, End: to}
	m.from = to.Add(m.interval)

	return window, true
}

// Reset rewinds the iterator to the start of the month.
func (m *MonthWindows) Reset() {
	m.from = m.monthStart
}
