package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lectureCourse(id CourseID) Course {
	return Course{Id: id, Name: string(id), Credits: 3, RoomType: "Lecture"}
}

func mondaySlots(n int) []TimeSlot {
	starts := []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00"}
	slots := make([]TimeSlot, n)
	for i := range slots {
		slots[i] = TimeSlot{
			Id:    TimeSlotID([]string{"T1", "T2", "T3", "T4", "T5", "T6"}[i]),
			Day:   "Monday",
			Start: starts[i],
			End:   starts[i+1],
		}
	}
	return slots
}

func TestBuild(t *testing.T) {
	t.Run("two sections share one instructor and one room across two timeslots", func(t *testing.T) {
		// Arrange
		input := ModelInput{
			Courses:     []Course{lectureCourse("CS101")},
			Instructors: []Instructor{{Id: "I1", Name: "Turing", Qualified: []CourseID{"CS101"}}},
			Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 40}},
			TimeSlots:   mondaySlots(2),
			Sections: []Section{
				{Id: "S1_CS101", Course: "CS101", Cohort: "S1", Enrollment: 30},
				{Id: "S2_CS101", Course: "CS101", Cohort: "S2", Enrollment: 30},
			},
		}
		scheduler := NewScheduler(SchedulerOptions{})

		// Act
		assignments, err := scheduler.Build(input)

		// Assert
		assert.Nil(t, err)
		assert.Len(t, assignments, 2)
		assert.NotEqual(t, assignments[0].TimeSlot, assignments[1].TimeSlot)
		assert.Equal(t, RoomID("R1"), assignments[0].Room)
		assert.Equal(t, RoomID("R1"), assignments[1].Room)
		assert.Equal(t, InstructorID("I1"), assignments[0].Instructor)
		assert.Equal(t, InstructorID("I1"), assignments[1].Instructor)
		assert.True(t, scheduler.Verify(assignments, input))
	})

	t.Run("two sections cannot share a single timeslot", func(t *testing.T) {
		// Arrange
		input := ModelInput{
			Courses:     []Course{lectureCourse("CS101")},
			Instructors: []Instructor{{Id: "I1", Qualified: []CourseID{"CS101"}}},
			Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 40}},
			TimeSlots:   mondaySlots(1),
			Sections: []Section{
				{Id: "S1_CS101", Course: "CS101", Cohort: "S1", Enrollment: 30},
				{Id: "S2_CS101", Course: "CS101", Cohort: "S2", Enrollment: 30},
			},
		}
		scheduler := NewScheduler(SchedulerOptions{})

		// Act
		_, err := scheduler.Build(input)

		// Assert
		var failure SearchFailureError
		assert.True(t, errors.As(err, &failure))
		assert.Contains(t, failure.Sections, SectionID("S1_CS101"))
		assert.Contains(t, failure.Sections, SectionID("S2_CS101"))
		assert.NotEmpty(t, failure.Blocking)
		for _, kind := range failure.Blocking {
			assert.Contains(t, []ConstraintKind{RoomConflict, InstructorConflict}, kind)
		}
	})

	t.Run("undersized only room fails with capacity violation", func(t *testing.T) {
		// Arrange
		input := ModelInput{
			Courses:     []Course{lectureCourse("CS101")},
			Instructors: []Instructor{{Id: "I1", Qualified: []CourseID{"CS101"}}},
			Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 20}},
			TimeSlots:   mondaySlots(2),
			Sections:    []Section{{Id: "S1_CS101", Course: "CS101", Cohort: "S1", Enrollment: 30}},
		}
		scheduler := NewScheduler(SchedulerOptions{})

		// Act
		_, err := scheduler.Build(input)

		// Assert
		var failure SearchFailureError
		assert.True(t, errors.As(err, &failure))
		assert.Equal(t, []SectionID{"S1_CS101"}, failure.Sections)
		assert.Equal(t, CapacityViolation, failure.Blocking["S1_CS101"])
	})

	t.Run("course without qualified instructor fails before search", func(t *testing.T) {
		// Arrange
		input := ModelInput{
			Courses:     []Course{lectureCourse("CS101")},
			Instructors: []Instructor{{Id: "I1", Qualified: []CourseID{"PH201"}}},
			Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 40}},
			TimeSlots:   mondaySlots(1),
			Sections:    []Section{{Id: "S1_CS101", Course: "CS101", Cohort: "S1", Enrollment: 30}},
		}
		scheduler := NewScheduler(SchedulerOptions{})

		// Act
		_, err := scheduler.Build(input)

		// Assert
		var integrity DataIntegrityError
		assert.True(t, errors.As(err, &integrity))
		assert.Equal(t, []CourseID{"CS101"}, integrity.Courses)
	})

	t.Run("budget exhaustion is distinct from infeasibility", func(t *testing.T) {
		// Arrange
		input := ModelInput{
			Courses:     []Course{lectureCourse("CS101")},
			Instructors: []Instructor{{Id: "I1", Qualified: []CourseID{"CS101"}}},
			Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 40}},
			TimeSlots:   mondaySlots(2),
			Sections: []Section{
				{Id: "S1_CS101", Course: "CS101", Cohort: "S1", Enrollment: 30},
				{Id: "S2_CS101", Course: "CS101", Cohort: "S2", Enrollment: 30},
			},
		}
		scheduler := NewScheduler(SchedulerOptions{Budget: 1})

		// Act
		_, err := scheduler.Build(input)

		// Assert
		var budget BudgetExceededError
		assert.True(t, errors.As(err, &budget))
		assert.Equal(t, uint64(1), budget.Budget)
	})

	t.Run("empty section list yields an empty schedule", func(t *testing.T) {
		// Arrange
		input := ModelInput{
			Courses:     []Course{lectureCourse("CS101")},
			Instructors: []Instructor{{Id: "I1", Qualified: []CourseID{"CS101"}}},
			Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 40}},
			TimeSlots:   mondaySlots(1),
		}
		scheduler := NewScheduler(SchedulerOptions{})

		// Act
		assignments, err := scheduler.Build(input)

		// Assert
		assert.Nil(t, err)
		assert.Empty(t, assignments)
	})
}

func TestBuildProperties(t *testing.T) {
	// Arrange
	input := ModelInput{
		Courses: []Course{
			lectureCourse("CS101"),
			lectureCourse("MA102"),
			{Id: "PH201", Name: "PH201", Credits: 4, RoomType: "Lab"},
		},
		Instructors: []Instructor{
			{Id: "I1", Qualified: []CourseID{"CS101", "MA102"}},
			{Id: "I2", Qualified: []CourseID{"PH201"}, Available: []TimeSlotID{"T1", "T2", "T3"}},
			{Id: "I3", Qualified: []CourseID{"MA102", "PH201"}},
		},
		Rooms: []Room{
			{Id: "R1", Type: "Lecture", Capacity: 60},
			{Id: "R2", Type: "Lecture", Capacity: 35},
			{Id: "R3", Type: "Lab", Capacity: 25},
		},
		TimeSlots: mondaySlots(4),
		Sections: []Section{
			{Id: "G1_CS101", Course: "CS101", Cohort: "G1", Enrollment: 50},
			{Id: "G1_MA102", Course: "MA102", Cohort: "G1", Enrollment: 50},
			{Id: "G1_PH201", Course: "PH201", Cohort: "G1", Enrollment: 20},
			{Id: "G2_CS101", Course: "CS101", Cohort: "G2", Enrollment: 30},
			{Id: "G2_PH201", Course: "PH201", Cohort: "G2", Enrollment: 25},
		},
	}
	scheduler := NewScheduler(SchedulerOptions{})

	// Act
	assignments, err := scheduler.Build(input)

	// Assert
	assert.Nil(t, err)
	assert.Len(t, assignments, len(input.Sections))

	roomBusy := map[[2]string]bool{}
	instructorBusy := map[[2]string]bool{}
	cohortBusy := map[[2]string]bool{}
	seen := map[SectionID]bool{}
	for _, assignment := range assignments {
		roomKey := [2]string{string(assignment.Room), string(assignment.TimeSlot)}
		instructorKey := [2]string{string(assignment.Instructor), string(assignment.TimeSlot)}
		cohortKey := [2]string{string(assignment.Cohort), string(assignment.TimeSlot)}
		assert.False(t, roomBusy[roomKey])
		assert.False(t, instructorBusy[instructorKey])
		assert.False(t, cohortBusy[cohortKey])
		assert.False(t, seen[assignment.Section])
		roomBusy[roomKey] = true
		instructorBusy[instructorKey] = true
		cohortBusy[cohortKey] = true
		seen[assignment.Section] = true
	}
	assert.True(t, scheduler.Verify(assignments, input))

	// Idempotent re-validation: replaying the schedule yields Accept throughout.
	relations, err := NewPreprocessor().BuildRelations(input)
	assert.Nil(t, err)
	evaluator := NewConstraintEvaluator(input, relations)
	replay := NewSchedule()
	for _, assignment := range assignments {
		assert.Equal(t, Accept, evaluator.Evaluate(replay, assignment))
		replay.Commit(assignment)
	}
}

func TestBuildDeterminism(t *testing.T) {
	// Arrange
	input := ModelInput{
		Courses: []Course{lectureCourse("CS101"), lectureCourse("MA102")},
		Instructors: []Instructor{
			{Id: "I1", Qualified: []CourseID{"CS101", "MA102"}},
			{Id: "I2", Qualified: []CourseID{"CS101", "MA102"}},
		},
		Rooms: []Room{
			{Id: "R1", Type: "Lecture", Capacity: 40},
			{Id: "R2", Type: "Lecture", Capacity: 40},
		},
		TimeSlots: mondaySlots(3),
		Sections: []Section{
			{Id: "G1_CS101", Course: "CS101", Cohort: "G1", Enrollment: 30},
			{Id: "G1_MA102", Course: "MA102", Cohort: "G1", Enrollment: 30},
			{Id: "G2_CS101", Course: "CS101", Cohort: "G2", Enrollment: 30},
			{Id: "G2_MA102", Course: "MA102", Cohort: "G2", Enrollment: 30},
		},
	}
	scheduler := NewScheduler(SchedulerOptions{})

	// Act
	first, err1 := scheduler.Build(input)
	second, err2 := scheduler.Build(input)

	// Assert
	assert.Nil(t, err1)
	assert.Nil(t, err2)
	assert.Equal(t, first, second)
}

func TestVerifyRejectsTamperedSchedule(t *testing.T) {
	// Arrange
	input := ModelInput{
		Courses:     []Course{lectureCourse("CS101")},
		Instructors: []Instructor{{Id: "I1", Qualified: []CourseID{"CS101"}}},
		Rooms:       []Room{{Id: "R1", Type: "Lecture", Capacity: 40}},
		TimeSlots:   mondaySlots(2),
		Sections: []Section{
			{Id: "S1_CS101", Course: "CS101", Cohort: "S1", Enrollment: 30},
			{Id: "S2_CS101", Course: "CS101", Cohort: "S2", Enrollment: 30},
		},
	}
	scheduler := NewScheduler(SchedulerOptions{})
	assignments, err := scheduler.Build(input)
	assert.Nil(t, err)

	// Act: force both sections into the same timeslot
	assignments[1].TimeSlot = assignments[0].TimeSlot

	// Assert
	assert.False(t, scheduler.Verify(assignments, input))
}
