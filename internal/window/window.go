// Package window implements the time- and count-bounded accumulator the
// COP services integrate energy into.
package window

import "time"

// Entry is one accepted sample's contribution to the window.
type Entry struct {
	Timestamp     time.Time
	ThermalKWh    float64
	ElectricalKWh float64
}

// Aggregate is the summary of the current window contents.
type Aggregate struct {
	SumThermalKWh    float64
	SumElectricalKWh float64
	Count            int
	SpanMinutes      float64
}

// Accumulator keeps an ordered sequence of energy increments bounded by a
// maximum age and a maximum count. Not safe for concurrent writers; each
// service owns exactly one.
type Accumulator struct {
	span     time.Duration
	maxCount int
	entries  []Entry
}

// New returns an empty accumulator evicting entries older than span and
// trimming to maxCount oldest-first.
func New(span time.Duration, maxCount int) *Accumulator {
	return &Accumulator{
		span:     span,
		maxCount: maxCount,
		entries:  make([]Entry, 0, maxCount),
	}
}

// Add appends an entry and applies the eviction policy. Timestamps are
// expected to be non-decreasing; the caller enforces monotonicity.
func (a *Accumulator) Add(ts time.Time, thermalKWh, electricalKWh float64) {
	a.entries = append(a.entries, Entry{
		Timestamp:     ts,
		ThermalKWh:    thermalKWh,
		ElectricalKWh: electricalKWh,
	})

	cutoff := ts.Add(-a.span)
	firstValid := 0
	for firstValid < len(a.entries) && a.entries[firstValid].Timestamp.Before(cutoff) {
		firstValid++
	}
	if firstValid > 0 {
		a.entries = a.entries[:copy(a.entries, a.entries[firstValid:])]
	}

	if excess := len(a.entries) - a.maxCount; excess > 0 {
		a.entries = a.entries[:copy(a.entries, a.entries[excess:])]
	}
}

// Aggregate sums the current window contents. Reading does not mutate the
// window, so repeated calls without an intervening Add are identical.
func (a *Accumulator) Aggregate() Aggregate {
	agg := Aggregate{Count: len(a.entries)}
	if agg.Count == 0 {
		return agg
	}

	for _, e := range a.entries {
		agg.SumThermalKWh += e.ThermalKWh
		agg.SumElectricalKWh += e.ElectricalKWh
	}

	first := a.entries[0].Timestamp
	last := a.entries[len(a.entries)-1].Timestamp
	agg.SpanMinutes = last.Sub(first).Minutes()

	return agg
}

// Oldest returns the timestamp of the oldest retained entry.
func (a *Accumulator) Oldest() (time.Time, bool) {
	if len(a.entries) == 0 {
		return time.Time{}, false
	}

	return a.entries[0].Timestamp, true
}

// Reset drops all entries.
func (a *Accumulator) Reset() {
	a.entries = a.entries[:0]
}
