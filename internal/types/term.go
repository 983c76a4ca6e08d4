// Package types provides type definitions for the structured data used
// throughout the timetable agent.
package types

// Term identifies one academic offering period. It is created from the
// Published-Terms API response and is immutable once fetched; its id and
// code key the per-term artifact directories.
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// TermRef points a course code at one term in which that course is offered.
type TermRef struct {
	TermID   int    `json:"term_id"`
	TermName string `json:"term_name"`
	TermCode string `json:"term_code"`
}

// Ref returns the mapping entry for this term.
func (t Term) Ref() TermRef {
	return TermRef{TermID: t.ID, TermName: t.Name, TermCode: t.Code}
}
