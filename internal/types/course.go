package types

// Course is one row per course offered in one term. A course code may
// recur across multiple terms (re-offerings); identity within a term is
// by ID.
type Course struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	TermID   int    `json:"term_id"`
	TermName string `json:"term_name"`
	TermCode string `json:"term_code"`
}

// CourseTermMapping maps a course code to the ordered list of terms in
// which that code appeared in the term's course list.
type CourseTermMapping map[string][]TermRef

// SummaryArtifact is the consolidated cross-term course document produced
// by the summary builder. It is fully regenerated on every build and
// never partially updated.
type SummaryArtifact struct {
	Courses       []Course          `json:"courses"`
	TermMappings  CourseTermMapping `json:"term_mappings"`
	TotalCourses  int               `json:"total_courses"`
	UniqueCourses int               `json:"unique_courses"`
	Terms         []Term            `json:"terms"`
}

// CodeByCourseID builds a course-ID to course-code lookup from the
// summary. When the same ID appears in several terms the first entry
// wins; the code is identical across re-offerings.
func (s *SummaryArtifact) CodeByCourseID() map[int]string {
	lookup := make(map[int]string, len(s.Courses))
	for _, c := range s.Courses {
		if _, ok := lookup[c.ID]; !ok {
			lookup[c.ID] = c.Code
		}
	}
	return lookup
}
