package analyze

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daniel/timetable-agent/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(date, start, end, desc string) types.ScheduleEvent {
	return types.ScheduleEvent{
		EventDate:        date,
		EventStartTime:   start,
		EventEndTime:     end,
		EventDescription: desc,
	}
}

func TestExpandHours_InclusiveBothEnds(t *testing.T) {
	// 2099-05-04 is a Monday.
	ev := event("2099-05-04T00:00:00", "2099-05-04T09:00:00", "2099-05-04T11:00:00", "ABC101 - Lecture")

	slots, err := ExpandHours(ev, "ABC101")
	require.NoError(t, err)
	require.Len(t, slots, 3)

	var hours []int
	for _, s := range slots {
		hours = append(hours, s.Hour)
		assert.Equal(t, "Monday", s.Day)
		assert.Equal(t, 9, s.StartHour)
		assert.Equal(t, 11, s.EndHour)
		assert.Equal(t, "2099-05-04", s.EventDate)
	}
	assert.Equal(t, []int{9, 10, 11}, hours)
}

func TestExpandHours_BadTimestamps(t *testing.T) {
	_, err := ExpandHours(event("not-a-date", "2099-05-04T09:00:00", "2099-05-04T10:00:00", "x"), "X")
	assert.Error(t, err)

	_, err = ExpandHours(event("2099-05-04T00:00:00", "", "2099-05-04T10:00:00", "x"), "X")
	assert.Error(t, err)
}

func TestResolveCourseCode_FallbackOrder(t *testing.T) {
	lookup := map[int]string{7: "LOOKED7"}

	tests := []struct {
		name string
		ev   types.ScheduleEvent
		want string
	}{
		{"explicit code wins", types.ScheduleEvent{CourseCode: "EXP1", CourseID: 7, EventDescription: "ABC101 - Lecture"}, "EXP1"},
		{"lookup by id", types.ScheduleEvent{CourseID: 7, EventDescription: "ABC101 - Lecture"}, "LOOKED7"},
		{"description split", types.ScheduleEvent{CourseID: 99, EventDescription: "ABC101 - Lecture"}, "ABC101"},
		{"no separator", types.ScheduleEvent{EventDescription: "just words"}, "Unknown"},
		{"empty event", types.ScheduleEvent{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveCourseCode(tt.ev, lookup))
		})
	}
}

func writeBatchFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyze_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	// One event Monday 09:00-10:00, one Monday 09:00-11:00, one malformed.
	batch := writeBatchFile(t, dir, "batch_1_timetable.json", `{"DataList":[
		{"EventDate":"2099-05-04T00:00:00","EventStartTime":"2099-05-04T09:00:00",
		 "EventEndTime":"2099-05-04T10:00:00","EventDescription":"ABC101 - Lecture"},
		{"EventDate":"2099-05-04T00:00:00","EventStartTime":"2099-05-04T09:00:00",
		 "EventEndTime":"2099-05-04T11:00:00","EventDescription":"DEF200 - Lab"},
		{"EventDate":"garbage","EventStartTime":"garbage","EventEndTime":"garbage",
		 "EventDescription":"broken"}]}`)

	a := Analyze(nil, []string{batch})

	assert.Equal(t, 2, a.TotalEvents)
	assert.Equal(t, 1, a.SkippedEvents)
	assert.Len(t, a.Slots, 5) // 2 + 3 hour slots

	assert.Equal(t, 2, a.Heatmap["Monday"][9])
	assert.Equal(t, 2, a.Heatmap["Monday"][10])
	assert.Equal(t, 1, a.Heatmap["Monday"][11])
	assert.Equal(t, 0, a.Heatmap["Tuesday"][9])

	assert.Equal(t, 2, a.CoursesPerDay["Monday"])
	assert.Equal(t, 2, a.CoursesPerHour[9])
	assert.Equal(t, 1, a.CoursesPerHour[11])

	require.Len(t, a.TopCourses, 2)
	assert.Equal(t, CourseHours{Code: "DEF200", Hours: 3}, a.TopCourses[0])
	assert.Equal(t, CourseHours{Code: "ABC101", Hours: 2}, a.TopCourses[1])
}

func TestAnalyze_WindowRestriction(t *testing.T) {
	dir := t.TempDir()
	// An early-morning event outside the 8..21 rendered window.
	batch := writeBatchFile(t, dir, "batch_1_timetable.json", `{"DataList":[
		{"EventDate":"2099-05-04T00:00:00","EventStartTime":"2099-05-04T06:00:00",
		 "EventEndTime":"2099-05-04T07:00:00","EventDescription":"EARLY1 - Lecture"}]}`)

	a := Analyze(nil, []string{batch})

	// Dropped from the rendered table but kept in totals and per-hour counts.
	assert.Equal(t, 0, a.Heatmap["Monday"][6])
	assert.Len(t, a.Slots, 2)
	assert.Equal(t, 1, a.CoursesPerHour[6])
	assert.Equal(t, 1, a.CoursesPerDay["Monday"])
}

func TestAnalyze_UsesSummaryLookup(t *testing.T) {
	dir := t.TempDir()
	batch := writeBatchFile(t, dir, "batch_1_timetable.json", `{"DataList":[
		{"EventDate":"2099-05-04T00:00:00","EventStartTime":"2099-05-04T09:00:00",
		 "EventEndTime":"2099-05-04T10:00:00","EventDescription":"no separator","CourseID":42}]}`)

	summary := &types.SummaryArtifact{Courses: []types.Course{{ID: 42, Code: "MAPPED42"}}}
	a := Analyze(summary, []string{batch})

	require.Len(t, a.TopCourses, 1)
	assert.Equal(t, "MAPPED42", a.TopCourses[0].Code)
}

func TestAnalyze_SkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	bad := writeBatchFile(t, dir, "batch_1_timetable.json", `not json at all`)
	empty := writeBatchFile(t, dir, "batch_2_timetable.json", `{"DataList":[]}`)
	missing := filepath.Join(dir, "batch_3_timetable.json")

	a := Analyze(nil, []string{bad, empty, missing})
	assert.Zero(t, a.TotalEvents)
	assert.Empty(t, a.Slots)
}

func TestRenderCharts_WritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	batch := writeBatchFile(t, dir, "batch_1_timetable.json", `{"DataList":[
		{"EventDate":"2099-05-04T00:00:00","EventStartTime":"2099-05-04T09:00:00",
		 "EventEndTime":"2099-05-04T11:00:00","EventDescription":"ABC101 - Lecture"}]}`)

	a := Analyze(nil, []string{batch})

	out := filepath.Join(dir, "charts")
	written, err := RenderCharts(a, out)
	require.NoError(t, err)
	require.Len(t, written, 4)

	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), "chart %s should not be empty", path)
	}
}
