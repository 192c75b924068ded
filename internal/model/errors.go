package model

import (
	"fmt"

	"github.com/samber/lo"
)

// DataIntegrityError reports an input defect detected before search starts:
// a dangling course reference, a course without qualified instructors or a
// section without type-compatible rooms.
type DataIntegrityError struct {
	Reason   string
	Courses  []CourseID
	Sections []SectionID
}

func (err DataIntegrityError) Error() string {
	msg := fmt.Sprintf("data integrity: %v", err.Reason)
	if len(err.Courses) > 0 {
		msg += fmt.Sprintf(" (courses: %v)", lo.Map(err.Courses, func(id CourseID, _ int) string { return string(id) }))
	}
	if len(err.Sections) > 0 {
		msg += fmt.Sprintf(" (sections: %v)", lo.Map(err.Sections, func(id SectionID, _ int) string { return string(id) }))
	}
	return msg
}

// SearchFailureError reports an exhausted search: no complete conflict-free
// assignment exists for the given input. Blocking records, where derivable,
// the single constraint kind that ruled out every candidate of a section.
type SearchFailureError struct {
	Sections []SectionID
	Blocking map[SectionID]ConstraintKind
}

func (err SearchFailureError) Error() string {
	return fmt.Sprintf("no feasible assignment for sections %v", lo.Map(err.Sections, func(id SectionID, _ int) string { return string(id) }))
}

// BudgetExceededError reports that the step budget ran out before the search
// could prove or disprove feasibility.
type BudgetExceededError struct {
	Budget   uint64
	Assigned int
	Total    int
}

func (err BudgetExceededError) Error() string {
	return fmt.Sprintf("search exhausted budget of %v steps (%v/%v sections assigned)", err.Budget, err.Assigned, err.Total)
}
