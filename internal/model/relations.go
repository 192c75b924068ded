package model

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// dayRank orders days Sunday-first for deterministic slot iteration.
var dayRank = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// Relations holds the derived lookup relations of the static data. They are
// pure functions of the input, computed once and reused for every section.
type Relations struct {
	// QualifiedInstructors maps each course to the instructors qualified to
	// teach it, sorted by identifier.
	QualifiedInstructors map[CourseID][]InstructorID
	// CompatibleRooms maps each section to its type-compatible rooms, sorted
	// by identifier. Capacity filtering is relaxed when no room is large
	// enough; the constraint engine still enforces capacity during search.
	CompatibleRooms map[SectionID][]RoomID
	// SlotOrder lists all timeslots ordered by (day rank, start time, id).
	SlotOrder []TimeSlot

	qualified map[CourseID]map[InstructorID]bool
	available map[InstructorID]map[TimeSlotID]bool // nil set = unrestricted
	slots     map[TimeSlotID]TimeSlot
}

func (relations Relations) Qualified(course CourseID, instructor InstructorID) bool {
	return relations.qualified[course][instructor]
}

// Available reports whether the instructor can teach at the slot. Instructors
// without availability data are unrestricted.
func (relations Relations) Available(instructor InstructorID, slot TimeSlotID) bool {
	set, ok := relations.available[instructor]
	if !ok || set == nil {
		return true
	}
	return set[slot]
}

func (relations Relations) Slot(id TimeSlotID) TimeSlot {
	return relations.slots[id]
}

func compareSlots(a, b TimeSlot) int {
	rankA, okA := dayRank[strings.ToLower(a.Day)]
	rankB, okB := dayRank[strings.ToLower(b.Day)]
	if !okA {
		rankA = len(dayRank)
	}
	if !okB {
		rankB = len(dayRank)
	}
	if rankA != rankB {
		return rankA - rankB
	}
	if comparison := strings.Compare(a.Start, b.Start); comparison != 0 {
		return comparison
	}
	return strings.Compare(string(a.Id), string(b.Id))
}

type preprocessorImplementation struct{}

func (preprocessor *preprocessorImplementation) BuildRelations(input ModelInput) (Relations, error) {
	courses := lo.KeyBy(input.Courses, func(course Course) CourseID { return course.Id })

	//** Referential integrity: every section must reference an existing course
	dangling := lo.FilterMap(input.Sections, func(section Section, _ int) (SectionID, bool) {
		_, ok := courses[section.Course]
		return section.Id, !ok
	})
	if len(dangling) > 0 {
		return Relations{}, DataIntegrityError{
			Reason:   "section references missing course",
			Sections: dangling,
		}
	}

	relations := Relations{
		QualifiedInstructors: make(map[CourseID][]InstructorID),
		CompatibleRooms:      make(map[SectionID][]RoomID),
		qualified:            make(map[CourseID]map[InstructorID]bool),
		available:            make(map[InstructorID]map[TimeSlotID]bool),
		slots:                make(map[TimeSlotID]TimeSlot),
	}

	//** Instructor qualifications and availability
	for _, instructor := range input.Instructors {
		for _, course := range instructor.Qualified {
			if relations.qualified[course] == nil {
				relations.qualified[course] = make(map[InstructorID]bool)
			}
			relations.qualified[course][instructor.Id] = true
			relations.QualifiedInstructors[course] = append(relations.QualifiedInstructors[course], instructor.Id)
		}
		if len(instructor.Available) > 0 {
			relations.available[instructor.Id] = make(map[TimeSlotID]bool, len(instructor.Available))
			for _, slot := range instructor.Available {
				relations.available[instructor.Id][slot] = true
			}
		}
	}
	for course := range relations.QualifiedInstructors {
		slices.Sort(relations.QualifiedInstructors[course])
	}

	//** Every course taught by some section needs at least one qualified instructor
	uncovered := lo.Uniq(lo.FilterMap(input.Sections, func(section Section, _ int) (CourseID, bool) {
		return section.Course, len(relations.QualifiedInstructors[section.Course]) == 0
	}))
	if len(uncovered) > 0 {
		slices.Sort(uncovered)
		return Relations{}, DataIntegrityError{
			Reason:  "course has no qualified instructor",
			Courses: uncovered,
		}
	}

	//** Compatible rooms per section: type match is mandatory, capacity is
	//** relaxed when no type-compatible room is large enough
	roomless := []SectionID{}
	for _, section := range input.Sections {
		course := courses[section.Course]
		typeMatched := lo.Filter(input.Rooms, func(room Room, _ int) bool {
			return roomMatchesCourse(room.Type, course.RoomType)
		})
		if len(typeMatched) == 0 {
			roomless = append(roomless, section.Id)
			continue
		}

		compatible := lo.Filter(typeMatched, func(room Room, _ int) bool {
			return room.Capacity >= section.Enrollment
		})
		if len(compatible) == 0 {
			compatible = typeMatched
		}

		ids := lo.Map(compatible, func(room Room, _ int) RoomID { return room.Id })
		slices.Sort(ids)
		relations.CompatibleRooms[section.Id] = ids
	}
	if len(roomless) > 0 {
		return Relations{}, DataIntegrityError{
			Reason:   "section has no type-compatible room",
			Sections: roomless,
		}
	}

	//** Deterministic slot order
	relations.SlotOrder = make([]TimeSlot, len(input.TimeSlots))
	copy(relations.SlotOrder, input.TimeSlots)
	slices.SortFunc(relations.SlotOrder, compareSlots)
	for _, slot := range relations.SlotOrder {
		relations.slots[slot.Id] = slot
	}

	return relations, nil
}
