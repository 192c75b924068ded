package model

import "github.com/limaJavier/coursetabling/internal/logger"

// SchedulerOptions tune a scheduler instance.
type SchedulerOptions struct {
	// Budget caps the number of candidate trials during search; 0 means
	// unbounded. Exceeding it yields BudgetExceededError, distinct from an
	// exhausted search, since infeasibility is not proven.
	Budget uint64
	Log    logger.Logger
}

// Scheduler assigns every section a (room, timeslot, instructor) triple such
// that no resource is double-booked, capacities and room types suffice and
// instructors are qualified and available.
type Scheduler interface {
	// Build returns the complete conflict-free assignment list, ordered by
	// (day, start time, section), or an error: DataIntegrityError before
	// search, SearchFailureError or BudgetExceededError from search.
	Build(input ModelInput) ([]Assignment, error)

	// Verify replays a finished schedule through the constraint engine and
	// checks that every section is assigned exactly once.
	Verify(assignments []Assignment, input ModelInput) bool
}

func NewScheduler(options SchedulerOptions) Scheduler {
	return newBacktrackingScheduler(options)
}
