package model

import (
	"errors"
	"slices"

	"github.com/limaJavier/coursetabling/internal/logger"
)

// errStopped signals that a parallel sibling branch already found a solution.
var errStopped = errors.New("search stopped")

type backtrackingScheduler struct {
	options SchedulerOptions
	log     logger.Logger
}

func newBacktrackingScheduler(options SchedulerOptions) *backtrackingScheduler {
	log := options.Log
	if log == nil {
		log = logger.Nop()
	}
	return &backtrackingScheduler{options: options, log: log}
}

func (scheduler *backtrackingScheduler) Build(input ModelInput) ([]Assignment, error) {
	relations, err := NewPreprocessor().BuildRelations(input)
	if err != nil {
		return nil, err
	}

	vars := buildDomains(input, relations)
	if err := checkMatching(vars, relations, input); err != nil {
		return nil, err
	}

	evaluator := NewConstraintEvaluator(input, relations)
	search := newSearch(vars, relations, evaluator, scheduler.options.Budget, scheduler.log)

	schedule, err := search.run(nil, nil)
	if err != nil {
		return nil, err
	}

	assignments := schedule.Assignments()
	sortAssignments(assignments)
	return assignments, nil
}

func (scheduler *backtrackingScheduler) Verify(assignments []Assignment, input ModelInput) bool {
	return verify(assignments, input)
}

// frame is one level of the search stack: the selected variable, its
// candidate order, a cursor into it, the domain entries pruned by its commit
// and a tally of the constraint kinds that blocked its candidates.
type frame struct {
	variable int
	order    []int
	cursor   int
	pruned   [][2]int
	blocked  map[ConstraintKind]int
}

// search owns all mutable state of one backtracking run: the partial
// schedule, the alive/count bookkeeping of forward checking and the failure
// diagnostics. A search is never shared between goroutines.
type search struct {
	vars      variableDomains
	relations Relations
	evaluator ConstraintEvaluator
	budget    uint64
	log       logger.Logger

	schedule      *Schedule
	alive         [][]bool
	counts        []int
	assigned      []bool
	assignedCount int
	steps         uint64

	failedOrder   []SectionID
	failedBlocked map[SectionID]ConstraintKind
}

func newSearch(vars variableDomains, relations Relations, evaluator ConstraintEvaluator, budget uint64, log logger.Logger) *search {
	alive := make([][]bool, len(vars.domains))
	counts := make([]int, len(vars.domains))
	for i, domain := range vars.domains {
		alive[i] = make([]bool, len(domain))
		for j := range alive[i] {
			alive[i][j] = true
		}
		counts[i] = len(domain)
	}

	return &search{
		vars:          vars,
		relations:     relations,
		evaluator:     evaluator,
		budget:        budget,
		log:           log,
		schedule:      NewSchedule(),
		alive:         alive,
		counts:        counts,
		assigned:      make([]bool, len(vars.domains)),
		failedBlocked: make(map[SectionID]ConstraintKind),
	}
}

// run performs the depth-first search. rootOrder, when non-nil, restricts the
// candidate order of the first selected variable (used to split work across
// parallel branches); stop, when non-nil, aborts the search with errStopped.
func (s *search) run(rootOrder []int, stop <-chan struct{}) (*Schedule, error) {
	total := len(s.vars.sections)
	if total == 0 {
		return s.schedule, nil
	}

	stack := []*frame{s.newFrame(rootOrder)}
	for {
		if stop != nil {
			select {
			case <-stop:
				return nil, errStopped
			default:
			}
		}

		top := stack[len(stack)-1]
		committed, err := s.advance(top)
		if err != nil {
			return nil, err
		}

		if committed {
			if s.assignedCount == total {
				s.log.Debugf("search complete: %v sections in %v steps", total, s.steps)
				return s.schedule, nil
			}
			stack = append(stack, s.newFrame(nil))
			continue
		}

		// Domain exhausted at this level: record diagnostics and backtrack.
		s.recordFailure(top)
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			slices.Sort(s.failedOrder)
			return nil, SearchFailureError{Sections: s.failedOrder, Blocking: s.failedBlocked}
		}
		s.undo(stack[len(stack)-1])
	}
}

// newFrame selects the next variable by MRV. Sections are sorted by id, so
// the lowest index among minimum live counts is the deterministic tie-break.
func (s *search) newFrame(order []int) *frame {
	variable := -1
	for i := range s.vars.sections {
		if s.assigned[i] {
			continue
		}
		if variable == -1 || s.counts[i] < s.counts[variable] {
			variable = i
		}
	}

	if order == nil {
		order = make([]int, len(s.vars.domains[variable]))
		for i := range order {
			order[i] = i
		}
	}

	return &frame{
		variable: variable,
		order:    order,
		blocked:  map[ConstraintKind]int{},
	}
}

// advance tries the remaining candidates of the frame's variable and commits
// the first accepted one.
func (s *search) advance(top *frame) (bool, error) {
	for top.cursor < len(top.order) {
		index := top.order[top.cursor]
		top.cursor++
		if !s.alive[top.variable][index] {
			continue
		}

		s.steps++
		if s.budget > 0 && s.steps > s.budget {
			return false, BudgetExceededError{Budget: s.budget, Assigned: s.assignedCount, Total: len(s.vars.sections)}
		}
		if s.steps%1000 == 0 {
			s.log.Debugf("search progress: %v/%v sections, %v steps", s.assignedCount, len(s.vars.sections), s.steps)
		}

		cand := s.vars.domains[top.variable][index]
		assignment := s.vars.assignment(top.variable, cand, s.relations)
		if kind := s.evaluator.Evaluate(s.schedule, assignment); kind != Accept {
			top.blocked[kind]++
			continue
		}

		s.schedule.Commit(assignment)
		s.assigned[top.variable] = true
		s.assignedCount++
		top.pruned = s.forwardCheck(top.variable, cand)
		return true, nil
	}
	return false, nil
}

// forwardCheck prunes candidates of unassigned sections that the committed
// triple rules out, so future MRV counts shrink early. Pruned entries are
// recorded for restoration on backtrack. This is an optimization only; the
// evaluator re-validates every commit regardless.
func (s *search) forwardCheck(variable int, committed candidate) [][2]int {
	cohort := s.vars.sections[variable].Cohort
	pruned := [][2]int{}
	for j := range s.vars.sections {
		if j == variable || s.assigned[j] {
			continue
		}
		sameCohort := cohort != "" && s.vars.sections[j].Cohort == cohort
		for k, cand := range s.vars.domains[j] {
			if !s.alive[j][k] || cand.slot != committed.slot {
				continue
			}
			if cand.room == committed.room || cand.instructor == committed.instructor || sameCohort {
				s.alive[j][k] = false
				s.counts[j]--
				pruned = append(pruned, [2]int{j, k})
			}
		}
	}
	return pruned
}

// undo reverts the parent frame's commit after a child level failed.
func (s *search) undo(parent *frame) {
	for _, entry := range parent.pruned {
		s.alive[entry[0]][entry[1]] = true
		s.counts[entry[0]]++
	}
	parent.pruned = nil

	s.schedule.Revert()
	s.assigned[parent.variable] = false
	s.assignedCount--
}

// recordFailure notes a section whose domain was exhausted. The blocking kind
// is only derivable when a single constraint kind ruled out every tried
// candidate; domains wiped by forward checking stay unattributed.
func (s *search) recordFailure(top *frame) {
	section := s.vars.sections[top.variable].Id
	if slices.Contains(s.failedOrder, section) {
		return
	}
	s.failedOrder = append(s.failedOrder, section)
	if len(top.blocked) == 1 {
		for kind := range top.blocked {
			s.failedBlocked[section] = kind
		}
	}
}
