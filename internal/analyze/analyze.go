// Package analyze derives day/hour occupancy aggregates from persisted
// batch schedule files for visualization.
package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/daniel/timetable-agent/internal/types"
)

// eventTimeLayout is the portal's fixed timestamp format.
const eventTimeLayout = "2006-01-02T15:04:05"

// The rendered heatmap window. Slots outside it are dropped from the
// table but still counted in totals and per-hour aggregates.
const (
	WindowStartHour = 8
	WindowEndHour   = 21
)

// DayOrder is the canonical weekday ordering for tables and charts.
var DayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CourseHours is one row of the top-courses ranking.
type CourseHours struct {
	Code  string `json:"code"`
	Hours int    `json:"hours"`
}

// Analysis holds every aggregate derived from the schedule files.
type Analysis struct {
	// Slots is every derived hour slot, including those outside the
	// rendered window.
	Slots []types.HourSlot

	// Heatmap counts slots per [day][hour] restricted to DayOrder x
	// [WindowStartHour, WindowEndHour].
	Heatmap map[string]map[int]int

	// CoursesPerDay and CoursesPerHour count unique course codes.
	CoursesPerDay  map[string]int
	CoursesPerHour map[int]int

	// TopCourses ranks course codes by total occupied-hour count,
	// descending, at most ten entries.
	TopCourses []CourseHours

	TotalEvents   int
	SkippedEvents int
}

// ResolveCourseCode determines the course code for a schedule event.
// Fallback order: the event's own code field, a summary lookup by course
// ID, the first " - " segment of the description, then "Unknown".
func ResolveCourseCode(ev types.ScheduleEvent, codeByID map[int]string) string {
	if ev.CourseCode != "" {
		return ev.CourseCode
	}
	if code, ok := codeByID[ev.CourseID]; ok && code != "" {
		return code
	}
	if strings.Contains(ev.EventDescription, " - ") {
		return strings.SplitN(ev.EventDescription, " - ", 2)[0]
	}
	return "Unknown"
}

// ExpandHours derives one HourSlot per integer hour the event spans, both
// bounds inclusive. An event ending exactly on the hour still produces a
// slot for that hour; the over-count keeps boundary classes visible on
// the heatmap.
func ExpandHours(ev types.ScheduleEvent, code string) ([]types.HourSlot, error) {
	date, err := time.Parse(eventTimeLayout, ev.EventDate)
	if err != nil {
		return nil, fmt.Errorf("bad event date %q: %w", ev.EventDate, err)
	}
	start, err := time.Parse(eventTimeLayout, ev.EventStartTime)
	if err != nil {
		return nil, fmt.Errorf("bad event start %q: %w", ev.EventStartTime, err)
	}
	end, err := time.Parse(eventTimeLayout, ev.EventEndTime)
	if err != nil {
		return nil, fmt.Errorf("bad event end %q: %w", ev.EventEndTime, err)
	}

	day := date.Weekday().String()
	var slots []types.HourSlot
	for hour := start.Hour(); hour <= end.Hour(); hour++ {
		slots = append(slots, types.HourSlot{
			Day:         day,
			Hour:        hour,
			CourseCode:  code,
			StartHour:   start.Hour(),
			EndHour:     end.Hour(),
			Description: ev.EventDescription,
			EventDate:   date.Format("2006-01-02"),
		})
	}
	return slots, nil
}

// Analyze loads every batch file, expands events into hour slots and
// tabulates the aggregates. Unreadable files and unparsable events are
// skipped with a warning; nothing here aborts the run.
func Analyze(summaryArtifact *types.SummaryArtifact, batchFiles []string) *Analysis {
	codeByID := map[int]string{}
	if summaryArtifact != nil {
		codeByID = summaryArtifact.CodeByCourseID()
	}

	a := &Analysis{
		Heatmap:        map[string]map[int]int{},
		CoursesPerDay:  map[string]int{},
		CoursesPerHour: map[int]int{},
	}
	for _, day := range DayOrder {
		a.Heatmap[day] = map[int]int{}
	}

	coursesByDay := map[string]map[string]bool{}
	coursesByHour := map[int]map[string]bool{}
	hoursByCourse := map[string]int{}
	inWindow := map[string]bool{}
	for _, day := range DayOrder {
		inWindow[day] = true
	}

	for _, file := range batchFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("  Warning: could not read %s: %v\n", filepath.Base(file), err)
			continue
		}

		var resp types.ScheduleResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			fmt.Printf("  Warning: could not parse %s: %v\n", filepath.Base(file), err)
			continue
		}
		if len(resp.DataList) == 0 {
			fmt.Printf("  Warning: no data list found in %s\n", filepath.Base(file))
			continue
		}

		for _, ev := range resp.DataList {
			code := ResolveCourseCode(ev, codeByID)
			slots, err := ExpandHours(ev, code)
			if err != nil {
				fmt.Printf("  Warning: skipped an event: %v\n", err)
				a.SkippedEvents++
				continue
			}
			a.TotalEvents++

			for _, slot := range slots {
				a.Slots = append(a.Slots, slot)

				if inWindow[slot.Day] && slot.Hour >= WindowStartHour && slot.Hour <= WindowEndHour {
					a.Heatmap[slot.Day][slot.Hour]++
				}

				if coursesByDay[slot.Day] == nil {
					coursesByDay[slot.Day] = map[string]bool{}
				}
				coursesByDay[slot.Day][slot.CourseCode] = true

				if coursesByHour[slot.Hour] == nil {
					coursesByHour[slot.Hour] = map[string]bool{}
				}
				coursesByHour[slot.Hour][slot.CourseCode] = true

				hoursByCourse[slot.CourseCode]++
			}
		}
	}

	for day, codes := range coursesByDay {
		a.CoursesPerDay[day] = len(codes)
	}
	for hour, codes := range coursesByHour {
		a.CoursesPerHour[hour] = len(codes)
	}

	a.TopCourses = topCourses(hoursByCourse, 10)

	return a
}

// Hours returns the heatmap window's hour values in order.
func Hours() []int {
	hours := make([]int, 0, WindowEndHour-WindowStartHour+1)
	for h := WindowStartHour; h <= WindowEndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// SortedHours returns every hour seen in the per-hour aggregate,
// ascending.
func (a *Analysis) SortedHours() []int {
	hours := make([]int, 0, len(a.CoursesPerHour))
	for h := range a.CoursesPerHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

func topCourses(hoursByCourse map[string]int, n int) []CourseHours {
	ranked := make([]CourseHours, 0, len(hoursByCourse))
	for code, hours := range hoursByCourse {
		ranked = append(ranked, CourseHours{Code: code, Hours: hours})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Hours != ranked[j].Hours {
			return ranked[i].Hours > ranked[j].Hours
		}
		return ranked[i].Code < ranked[j].Code
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
