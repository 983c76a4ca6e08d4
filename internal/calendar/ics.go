// Package calendar exports persisted schedule events as an iCalendar
// document so selected courses can be imported into any calendar app.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/daniel/timetable-agent/internal/analyze"
	"github.com/daniel/timetable-agent/internal/types"
)

const (
	prodID        = "-//Campus Timetable//ICS Generator//EN"
	eventLayout   = "2006-01-02T15:04:05"
	alarmLeadTime = "-PT15M"
)

// Build assembles a calendar from schedule events, keeping only the
// given course codes (an empty set keeps everything). Because per-course
// files duplicate whole batch payloads, events are deduplicated by
// (code, start, end) before emission. Returns the calendar and how many
// events it holds.
func Build(events []types.ScheduleEvent, codes []string, codeByID map[int]string, now time.Time) (*ics.Calendar, int) {
	include := make(map[string]bool, len(codes))
	for _, code := range codes {
		if code != "" {
			include[strings.ToUpper(code)] = true
		}
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")

	type keyed struct {
		code       string
		start, end time.Time
		desc       string
	}

	seen := map[string]bool{}
	var kept []keyed
	for _, ev := range events {
		code := analyze.ResolveCourseCode(ev, codeByID)
		if len(include) > 0 && !include[strings.ToUpper(code)] {
			continue
		}

		start, err := time.Parse(eventLayout, ev.EventStartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(eventLayout, ev.EventEndTime)
		if err != nil {
			continue
		}

		key := fmt.Sprintf("%s|%s|%s", code, ev.EventStartTime, ev.EventEndTime)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, keyed{code: code, start: start, end: end, desc: ev.EventDescription})
	}

	sort.Slice(kept, func(i, j int) bool {
		if !kept[i].start.Equal(kept[j].start) {
			return kept[i].start.Before(kept[j].start)
		}
		return kept[i].code < kept[j].code
	})

	for _, k := range kept {
		uid := fmt.Sprintf("%s-%s@timetable-agent", k.code, k.start.Format("20060102T150405"))
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now)
		event.SetStartAt(k.start)
		event.SetEndAt(k.end)
		if k.desc != "" {
			event.SetSummary(k.desc)
		} else {
			event.SetSummary(k.code)
		}
		event.SetDescription(k.code)

		alarm := event.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(alarmLeadTime)
	}

	return cal, len(kept)
}
