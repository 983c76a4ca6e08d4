// Package terms decides which published academic terms a run should cover.
package terms

import (
	"strconv"
	"strings"
	"time"

	"github.com/daniel/timetable-agent/internal/types"
)

// termWindow is how long a term counts as live after the first day of its
// start month.
const termWindow = 90 * 24 * time.Hour

var monthNumbers = map[string]time.Month{
	"january":   time.January,
	"jan":       time.January,
	"february":  time.February,
	"feb":       time.February,
	"march":     time.March,
	"mar":       time.March,
	"april":     time.April,
	"apr":       time.April,
	"may":       time.May,
	"june":      time.June,
	"jun":       time.June,
	"july":      time.July,
	"jul":       time.July,
	"august":    time.August,
	"aug":       time.August,
	"september": time.September,
	"sep":       time.September,
	"sept":      time.September,
	"october":   time.October,
	"oct":       time.October,
	"november":  time.November,
	"nov":       time.November,
	"december":  time.December,
	"dec":       time.December,
}

// IsCurrentOrFuture reports whether the named term is still running or has
// yet to start, judged from today. Term names look like
// "2025 May Term 2": the first token is the year, the second the start
// month. The term counts as live until 90 days after the first day of
// that month; there is no separate "not yet started" check. Malformed
// names are simply not relevant, never an error.
func IsCurrentOrFuture(name string, today time.Time) bool {
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return false
	}

	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return false
	}

	month, ok := monthNumbers[strings.ToLower(fields[1])]
	if !ok {
		return false
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
	end := start.Add(termWindow)

	return !today.After(end)
}

// CurrentOrFuture filters all down to the terms whose names pass
// IsCurrentOrFuture, preserving order.
func CurrentOrFuture(all []types.Term, today time.Time) []types.Term {
	var kept []types.Term
	for _, t := range all {
		if IsCurrentOrFuture(t.Name, today) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Select applies an explicit term-id allowlist, preserving order. An
// empty allowlist keeps every term.
func Select(all []types.Term, ids []int) []types.Term {
	if len(ids) == 0 {
		return all
	}

	allowed := make(map[int]bool, len(ids))
	for _, id := range ids {
		allowed[id] = true
	}

	var kept []types.Term
	for _, t := range all {
		if allowed[t.ID] {
			kept = append(kept, t)
		}
	}
	return kept
}
