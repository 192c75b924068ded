package model

import "strings"

type ConstraintKind int

const (
	Accept ConstraintKind = iota
	RoomConflict
	InstructorConflict
	SectionConflict
	CohortConflict
	CapacityViolation
	QualificationViolation
	RoomTypeViolation
	AvailabilityViolation
)

var constraintNames = map[ConstraintKind]string{
	Accept:                 "accept",
	RoomConflict:           "room-conflict",
	InstructorConflict:     "instructor-conflict",
	SectionConflict:        "section-conflict",
	CohortConflict:         "cohort-conflict",
	CapacityViolation:      "capacity-violation",
	QualificationViolation: "qualification-violation",
	RoomTypeViolation:      "room-type-violation",
	AvailabilityViolation:  "availability-violation",
}

func (kind ConstraintKind) String() string {
	return constraintNames[kind]
}

// Assignment is the unit the constraint engine checks and the search commits
// or reverts. Day, Start, End and Enrollment are denormalized for consumers.
type Assignment struct {
	Section    SectionID
	Course     CourseID
	Cohort     CohortID
	Room       RoomID
	TimeSlot   TimeSlotID
	Instructor InstructorID
	Day        string
	Start      string
	End        string
	Enrollment uint64
}

// ConstraintEvaluator tests a candidate assignment against a partial schedule
// and returns Accept or the first violated constraint kind. A non-Accept
// result is normal control flow within the search, never an error.
type ConstraintEvaluator interface {
	Evaluate(schedule *Schedule, candidate Assignment) ConstraintKind
}

func NewConstraintEvaluator(input ModelInput, relations Relations) ConstraintEvaluator {
	return newIndexedConstraintEvaluator(input, relations)
}

type indexedConstraintEvaluator struct {
	courses   map[CourseID]Course
	rooms     map[RoomID]Room
	relations Relations
}

func newIndexedConstraintEvaluator(input ModelInput, relations Relations) *indexedConstraintEvaluator {
	evaluator := indexedConstraintEvaluator{
		courses:   make(map[CourseID]Course, len(input.Courses)),
		rooms:     make(map[RoomID]Room, len(input.Rooms)),
		relations: relations,
	}
	for _, course := range input.Courses {
		evaluator.courses[course.Id] = course
	}
	for _, room := range input.Rooms {
		evaluator.rooms[room.Id] = room
	}
	return &evaluator
}

// Evaluate short-circuits on the first failure, cheapest checks first. The
// schedule's occupancy indices make the conflict checks constant-time.
func (evaluator *indexedConstraintEvaluator) Evaluate(schedule *Schedule, candidate Assignment) ConstraintKind {
	if schedule.roomBusy[resourceSlot{string(candidate.Room), candidate.TimeSlot}] {
		return RoomConflict
	}
	if schedule.instructorBusy[resourceSlot{string(candidate.Instructor), candidate.TimeSlot}] {
		return InstructorConflict
	}
	if schedule.sectionAssigned[candidate.Section] {
		return SectionConflict
	}
	if candidate.Cohort != "" && schedule.cohortBusy[resourceSlot{string(candidate.Cohort), candidate.TimeSlot}] {
		return CohortConflict
	}

	room := evaluator.rooms[candidate.Room]
	course := evaluator.courses[candidate.Course]
	if room.Capacity < candidate.Enrollment {
		return CapacityViolation
	}
	if !evaluator.relations.Qualified(candidate.Course, candidate.Instructor) {
		return QualificationViolation
	}
	if !roomMatchesCourse(room.Type, course.RoomType) {
		return RoomTypeViolation
	}
	if !evaluator.relations.Available(candidate.Instructor, candidate.TimeSlot) {
		return AvailabilityViolation
	}

	return Accept
}

// roomMatchesCourse checks whether a room of the given type can host a course
// of the given type: exact match, lecture rooms for lecture courses, lab
// rooms for lab courses, and combined lecture-and-lab courses accept either.
func roomMatchesCourse(roomType, courseType string) bool {
	room := strings.ToLower(roomType)
	course := strings.ToLower(courseType)

	if room == course {
		return true
	}
	if strings.Contains(course, "lecture") && strings.Contains(course, "lab") {
		return true
	}
	if strings.Contains(course, "lecture") && strings.Contains(room, "lecture") {
		return true
	}
	if strings.Contains(course, "lab") && strings.Contains(room, "lab") {
		return true
	}
	return false
}
