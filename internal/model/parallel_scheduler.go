package model

import (
	"errors"
	"slices"
	"sync"

	"github.com/limaJavier/coursetabling/internal/logger"
)

type parallelScheduler struct {
	options SchedulerOptions
	workers int
	log     logger.Logger
}

// NewParallelScheduler explores disjoint branches of the root variable's
// domain concurrently. Every branch owns a private copy of the schedule and
// pruning state; the first branch to succeed wins and the rest are stopped.
func NewParallelScheduler(options SchedulerOptions, workers int) Scheduler {
	if workers < 1 {
		workers = 1
	}
	log := options.Log
	if log == nil {
		log = logger.Nop()
	}
	return &parallelScheduler{options: options, workers: workers, log: log}
}

func (scheduler *parallelScheduler) Build(input ModelInput) ([]Assignment, error) {
	relations, err := NewPreprocessor().BuildRelations(input)
	if err != nil {
		return nil, err
	}

	vars := buildDomains(input, relations)
	if err := checkMatching(vars, relations, input); err != nil {
		return nil, err
	}
	if len(vars.sections) == 0 {
		return []Assignment{}, nil
	}

	evaluator := NewConstraintEvaluator(input, relations)

	// Every fresh search picks the same root variable, so partitioning its
	// candidate order yields disjoint branches.
	root := 0
	for i := range vars.domains {
		if len(vars.domains[i]) < len(vars.domains[root]) {
			root = i
		}
	}
	chunks := splitOrder(len(vars.domains[root]), scheduler.workers)
	scheduler.log.Debugf("parallel search: %v branches over %v root candidates", len(chunks), len(vars.domains[root]))

	type branchResult struct {
		schedule *Schedule
		err      error
	}
	results := make(chan branchResult, len(chunks))
	stop := make(chan struct{})
	var once sync.Once

	for _, chunk := range chunks {
		go func(order []int) {
			search := newSearch(vars, relations, evaluator, scheduler.options.Budget, scheduler.log)
			schedule, err := search.run(order, stop)
			if err == nil {
				once.Do(func() { close(stop) })
			}
			results <- branchResult{schedule: schedule, err: err}
		}(chunk)
	}

	var winner *Schedule
	failures := []error{}
	for range chunks {
		result := <-results
		if result.err == nil && winner == nil {
			winner = result.schedule
		} else if result.err != nil && !errors.Is(result.err, errStopped) {
			failures = append(failures, result.err)
		}
	}

	if winner != nil {
		assignments := winner.Assignments()
		sortAssignments(assignments)
		return assignments, nil
	}

	return nil, mergeFailures(failures)
}

func (scheduler *parallelScheduler) Verify(assignments []Assignment, input ModelInput) bool {
	return verify(assignments, input)
}

func splitOrder(size, workers int) [][]int {
	if workers > size {
		workers = size
	}
	chunks := make([][]int, workers)
	for i := 0; i < size; i++ {
		chunks[i%workers] = append(chunks[i%workers], i)
	}
	for _, chunk := range chunks {
		slices.Sort(chunk)
	}
	return chunks
}

// mergeFailures combines branch outcomes: a budget overrun anywhere means
// infeasibility was not proven, otherwise the per-branch failure diagnostics
// are merged.
func mergeFailures(failures []error) error {
	sections := []SectionID{}
	blocking := map[SectionID]ConstraintKind{}
	for _, failure := range failures {
		var budget BudgetExceededError
		if errors.As(failure, &budget) {
			return budget
		}
		var exhausted SearchFailureError
		if errors.As(failure, &exhausted) {
			for _, section := range exhausted.Sections {
				if !slices.Contains(sections, section) {
					sections = append(sections, section)
				}
			}
			for section, kind := range exhausted.Blocking {
				blocking[section] = kind
			}
			continue
		}
		return failure
	}
	slices.Sort(sections)
	return SearchFailureError{Sections: sections, Blocking: blocking}
}
