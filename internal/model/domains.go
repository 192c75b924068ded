package model

import (
	"slices"
	"strings"
)

// candidate is one (room, timeslot, instructor) triple a section may be
// assigned to.
type candidate struct {
	room       RoomID
	slot       TimeSlotID
	instructor InstructorID
}

// variableDomains holds the CSP variables (sections, sorted by id) and the
// legal candidate triples of each, in fixed (timeslot, room, instructor)
// order so repeated runs produce identical schedules.
type variableDomains struct {
	sections []Section
	domains  [][]candidate
}

func buildDomains(input ModelInput, relations Relations) variableDomains {
	sections := make([]Section, len(input.Sections))
	copy(sections, input.Sections)
	slices.SortFunc(sections, func(a, b Section) int {
		return strings.Compare(string(a.Id), string(b.Id))
	})

	domains := make([][]candidate, len(sections))
	for i, section := range sections {
		domain := []candidate{}
		for _, slot := range relations.SlotOrder {
			for _, room := range relations.CompatibleRooms[section.Id] {
				for _, instructor := range relations.QualifiedInstructors[section.Course] {
					// Availability is static, so unavailable slots never
					// enter the domain.
					if !relations.Available(instructor, slot.Id) {
						continue
					}
					domain = append(domain, candidate{room: room, slot: slot.Id, instructor: instructor})
				}
			}
		}
		domains[i] = domain
	}

	return variableDomains{sections: sections, domains: domains}
}

func (vars variableDomains) assignment(variable int, cand candidate, relations Relations) Assignment {
	section := vars.sections[variable]
	slot := relations.Slot(cand.slot)
	return Assignment{
		Section:    section.Id,
		Course:     section.Course,
		Cohort:     section.Cohort,
		Room:       cand.room,
		TimeSlot:   cand.slot,
		Instructor: cand.instructor,
		Day:        slot.Day,
		Start:      slot.Start,
		End:        slot.End,
		Enrollment: section.Enrollment,
	}
}
