package model

import (
	"slices"
	"strings"
)

// sortAssignments fixes the output contract order: day, start time, section.
func sortAssignments(assignments []Assignment) {
	rank := func(day string) int {
		if r, ok := dayRank[strings.ToLower(day)]; ok {
			return r
		}
		return len(dayRank)
	}
	slices.SortFunc(assignments, func(a, b Assignment) int {
		if comparison := rank(a.Day) - rank(b.Day); comparison != 0 {
			return comparison
		}
		if comparison := strings.Compare(a.Start, b.Start); comparison != 0 {
			return comparison
		}
		return strings.Compare(string(a.Section), string(b.Section))
	})
}

// verify replays the assignments through a fresh evaluator and schedule. The
// produced schedule must be accepted in full (idempotent re-validation) and
// cover every input section exactly once.
func verify(assignments []Assignment, input ModelInput) bool {
	relations, err := NewPreprocessor().BuildRelations(input)
	if err != nil {
		return false
	}

	evaluator := NewConstraintEvaluator(input, relations)
	schedule := NewSchedule()
	for _, assignment := range assignments {
		if evaluator.Evaluate(schedule, assignment) != Accept {
			return false
		}
		schedule.Commit(assignment)
	}

	if schedule.Len() != len(input.Sections) {
		return false
	}
	for _, section := range input.Sections {
		if !schedule.sectionAssigned[section.Id] {
			return false
		}
	}
	return true
}
