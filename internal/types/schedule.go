package types

// HourSlot is one derived record representing a class's occupancy of a
// single clock hour. An event spanning 9:00-11:00 yields slots for hours
// 9, 10 and 11: the upper bound is inclusive so boundary classes stay
// visible on the heatmap.
type HourSlot struct {
	Day         string `json:"day"`
	Hour        int    `json:"hour"`
	CourseCode  string `json:"course_code"`
	StartHour   int    `json:"start_hour"`
	EndHour     int    `json:"end_hour"`
	Description string `json:"description"`
	EventDate   string `json:"event_date"`
}
