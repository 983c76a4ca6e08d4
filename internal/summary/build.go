// Package summary folds persisted course-list captures into the
// consolidated cross-term course summary artifact.
package summary

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/daniel/timetable-agent/internal/store"
	"github.com/daniel/timetable-agent/internal/types"
)

// Build scans the latest course-list capture of every given term and
// produces the summary artifact from scratch. Terms without a capture are
// logged and skipped, never fatal. The course name is read from the
// CourseDescription field of the source payload; CourseName carries
// different content and reading it was a bug in an earlier variant.
func Build(termList []types.Term, st *store.Store) (*types.SummaryArtifact, error) {
	artifact := &types.SummaryArtifact{
		Courses:      []types.Course{},
		TermMappings: types.CourseTermMapping{},
		Terms:        termList,
	}

	for _, term := range termList {
		raw, path, err := st.LatestCourseCapture(term.ID)
		if err != nil {
			if errors.Is(err, store.ErrNoCapture) {
				fmt.Printf("  No course capture for term %s (ID: %d), skipping\n", term.Name, term.ID)
			} else {
				fmt.Printf("  Error loading course data for term %d: %v\n", term.ID, err)
			}
			continue
		}

		var courseList types.CourseListResponse
		if err := json.Unmarshal(raw, &courseList); err != nil {
			fmt.Printf("  Error parsing course data from %s: %v\n", path, err)
			continue
		}

		fmt.Printf("  Loaded %d courses for term %s from %s\n", len(courseList.DataList), term.Name, path)

		for _, entry := range courseList.DataList {
			artifact.Courses = append(artifact.Courses, types.Course{
				ID:       entry.CourseID,
				Code:     entry.CourseCode,
				Name:     entry.CourseDescription,
				TermID:   term.ID,
				TermName: term.Name,
				TermCode: term.Code,
			})
			artifact.TermMappings[entry.CourseCode] = append(artifact.TermMappings[entry.CourseCode], term.Ref())
		}
	}

	artifact.TotalCourses = len(artifact.Courses)
	artifact.UniqueCourses = len(artifact.TermMappings)

	return artifact, nil
}

// BuildAndWrite builds the summary and overwrites any prior artifact.
func BuildAndWrite(termList []types.Term, st *store.Store) (*types.SummaryArtifact, string, error) {
	artifact, err := Build(termList, st)
	if err != nil {
		return nil, "", err
	}

	path, err := st.WriteSummary(artifact)
	if err != nil {
		return nil, "", fmt.Errorf("failed to write summary: %w", err)
	}
	return artifact, path, nil
}
