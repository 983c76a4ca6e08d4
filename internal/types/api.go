package types

// The portal wraps every response in a DataList envelope. The raw payload
// bytes are persisted verbatim; these typed views exist for counting and
// aggregation only, so they name just the fields the pipeline reads.

// TermsResponse is the Published-Terms endpoint envelope.
type TermsResponse struct {
	DataList []TermEntry `json:"DataList"`
}

// TermEntry is one dropdown row from the Published-Terms response.
type TermEntry struct {
	DropdownID   int    `json:"DropdownId"`
	DropdownName string `json:"DropdownName"`
	DropdownCode string `json:"DropdownCode"`
}

// Term converts the dropdown row into the internal term representation.
func (e TermEntry) Term() Term {
	return Term{ID: e.DropdownID, Name: e.DropdownName, Code: e.DropdownCode}
}

// CourseListResponse is the course-list endpoint envelope.
type CourseListResponse struct {
	DataList []CourseEntry `json:"DataList"`
}

// CourseEntry is one course row from the course-list response.
// CourseDescription carries the human-readable course name; CourseName is
// a differently-populated legacy field and must not be used for display.
type CourseEntry struct {
	CourseID          int    `json:"CourseID"`
	CourseCode        string `json:"CourseCode"`
	CourseName        string `json:"CourseName"`
	CourseDescription string `json:"CourseDescription"`
}

// ScheduleResponse is the class-schedule endpoint envelope.
type ScheduleResponse struct {
	DataList []ScheduleEvent `json:"DataList"`
}

// ScheduleEvent is one class session instance. CourseCode and CourseID
// are optional on the wire; absent fields decode to their zero values and
// code resolution falls through to the event description.
type ScheduleEvent struct {
	EventDate        string `json:"EventDate"`
	EventStartTime   string `json:"EventStartTime"`
	EventEndTime     string `json:"EventEndTime"`
	EventDescription string `json:"EventDescription"`
	CourseCode       string `json:"CourseCode,omitempty"`
	CourseID         int    `json:"CourseID,omitempty"`
}
