package model

// resourceSlot keys the occupancy indices: a resource identifier (room,
// instructor or cohort) paired with a timeslot.
type resourceSlot struct {
	resource string
	slot     TimeSlotID
}

// Schedule is an ordered collection of committed assignments together with
// occupancy indices for constant-time conflict checks. A schedule is owned by
// exactly one search; parallel branches work on clones.
type Schedule struct {
	assignments     []Assignment
	roomBusy        map[resourceSlot]bool
	instructorBusy  map[resourceSlot]bool
	cohortBusy      map[resourceSlot]bool
	sectionAssigned map[SectionID]bool
}

func NewSchedule() *Schedule {
	return &Schedule{
		assignments:     []Assignment{},
		roomBusy:        make(map[resourceSlot]bool),
		instructorBusy:  make(map[resourceSlot]bool),
		cohortBusy:      make(map[resourceSlot]bool),
		sectionAssigned: make(map[SectionID]bool),
	}
}

func (schedule *Schedule) Len() int {
	return len(schedule.assignments)
}

// Assignments returns a copy of the committed assignments in commit order.
func (schedule *Schedule) Assignments() []Assignment {
	assignments := make([]Assignment, len(schedule.assignments))
	copy(assignments, schedule.assignments)
	return assignments
}

// Commit appends an assignment. The caller must have validated it through a
// ConstraintEvaluator first: the schedule never holds a conflicting pair.
func (schedule *Schedule) Commit(assignment Assignment) {
	schedule.assignments = append(schedule.assignments, assignment)
	schedule.roomBusy[resourceSlot{string(assignment.Room), assignment.TimeSlot}] = true
	schedule.instructorBusy[resourceSlot{string(assignment.Instructor), assignment.TimeSlot}] = true
	if assignment.Cohort != "" {
		schedule.cohortBusy[resourceSlot{string(assignment.Cohort), assignment.TimeSlot}] = true
	}
	schedule.sectionAssigned[assignment.Section] = true
}

// Revert removes the most recently committed assignment.
func (schedule *Schedule) Revert() Assignment {
	last := len(schedule.assignments) - 1
	assignment := schedule.assignments[last]
	schedule.assignments = schedule.assignments[:last]

	delete(schedule.roomBusy, resourceSlot{string(assignment.Room), assignment.TimeSlot})
	delete(schedule.instructorBusy, resourceSlot{string(assignment.Instructor), assignment.TimeSlot})
	if assignment.Cohort != "" {
		delete(schedule.cohortBusy, resourceSlot{string(assignment.Cohort), assignment.TimeSlot})
	}
	delete(schedule.sectionAssigned, assignment.Section)

	return assignment
}

// Clone returns an independent copy for a parallel search branch.
func (schedule *Schedule) Clone() *Schedule {
	clone := NewSchedule()
	clone.assignments = append(clone.assignments, schedule.assignments...)
	for key, value := range schedule.roomBusy {
		clone.roomBusy[key] = value
	}
	for key, value := range schedule.instructorBusy {
		clone.instructorBusy[key] = value
	}
	for key, value := range schedule.cohortBusy {
		clone.cohortBusy[key] = value
	}
	for key, value := range schedule.sectionAssigned {
		clone.sectionAssigned[key] = value
	}
	return clone
}
