package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// Typed identifier wrappers prevent mixing identifiers of different entities.
type (
	CourseID     string
	InstructorID string
	RoomID       string
	TimeSlotID   string
	SectionID    string
	CohortID     string
)

type Course struct {
	Id       CourseID
	Name     string
	Credits  uint64
	RoomType string `mapstructure:"roomType"`
}

type Instructor struct {
	Id        InstructorID
	Name      string
	Qualified []CourseID `mapstructure:"qualifiedCourses"`
	// Available lists the timeslots the instructor can teach in. Empty means
	// always available.
	Available []TimeSlotID `mapstructure:"availableSlots"`
}

type Room struct {
	Id       RoomID
	Type     string
	Capacity uint64
}

type TimeSlot struct {
	Id    TimeSlotID
	Day   string
	Start string `mapstructure:"startTime"`
	End   string `mapstructure:"endTime"`
}

// Section is one scheduling unit: a single course meeting for a cohort of
// students. Cohort ties together the sections expanded from one roster row.
type Section struct {
	Id         SectionID
	Course     CourseID
	Cohort     CohortID
	Enrollment uint64
}

type ModelInput struct {
	Courses     []Course
	Instructors []Instructor
	Rooms       []Room
	TimeSlots   []TimeSlot `mapstructure:"timeSlots"`
	Sections    []Section
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var input ModelInput
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %w", err)
	}

	return input, nil
}
