package terms

import (
	"testing"
	"time"

	"github.com/daniel/timetable-agent/internal/types"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsCurrentOrFuture(t *testing.T) {
	today := date(2025, time.June, 1)

	tests := []struct {
		name string
		term string
		want bool
	}{
		{"current term", "2025 May Term 2", true},
		{"future term", "2025 October Term 4", true},
		{"next year", "2026 January Term 1", true},
		{"long past", "2024 January Term 1", false},
		{"just inside 90 day window", "2025 March Term 1", true},
		{"just outside 90 day window", "2025 February Term 1", false},
		{"abbreviated month", "2025 Oct Term 4", true},
		{"sept abbreviation", "2025 Sept Term 3", true},
		{"case insensitive month", "2025 MAY Term 2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCurrentOrFuture(tt.term, today))
		})
	}
}

func TestIsCurrentOrFuture_WindowBoundary(t *testing.T) {
	// A term starting 2025-03-01 ends exactly 90 days later, on 2025-05-30.
	assert.True(t, IsCurrentOrFuture("2025 March Term 1", date(2025, time.May, 30)))
	assert.False(t, IsCurrentOrFuture("2025 March Term 1", date(2025, time.May, 31)))
}

func TestIsCurrentOrFuture_MalformedNames(t *testing.T) {
	today := date(2025, time.June, 1)

	malformed := []string{
		"",
		"Foo",
		"2025",
		"2025 Blorp",
		"twenty-five May Term 2",
		"   ",
	}

	for _, name := range malformed {
		assert.False(t, IsCurrentOrFuture(name, today), "name %q should not be relevant", name)
	}
}

func TestCurrentOrFuture(t *testing.T) {
	today := date(2025, time.June, 1)
	all := []types.Term{
		{ID: 1, Name: "2024 January Term 1", Code: "24T1"},
		{ID: 2, Name: "2025 May Term 2", Code: "25T2"},
		{ID: 3, Name: "garbage", Code: "G"},
		{ID: 4, Name: "2025 October Term 4", Code: "25T4"},
	}

	kept := CurrentOrFuture(all, today)
	assert.Len(t, kept, 2)
	assert.Equal(t, 2, kept[0].ID)
	assert.Equal(t, 4, kept[1].ID)
}

func TestSelect(t *testing.T) {
	all := []types.Term{{ID: 1}, {ID: 2}, {ID: 3}}

	assert.Equal(t, all, Select(all, nil))

	kept := Select(all, []int{3, 1})
	assert.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].ID)
	assert.Equal(t, 3, kept[1].ID)

	assert.Empty(t, Select(all, []int{99}))
}
