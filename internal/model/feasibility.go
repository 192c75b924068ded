package model

import (
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// roomSlot is one (room, timeslot) pair a section could occupy.
type roomSlot struct {
	room RoomID
	slot TimeSlotID
}

// checkMatching detects pigeonhole-infeasible instances before search: every
// section must occupy a distinct (room, timeslot) pair, so a maximum
// bipartite matching between sections and compatible pairs that leaves some
// section unmatched proves there is no complete assignment.
func checkMatching(vars variableDomains, relations Relations, input ModelInput) error {
	if len(vars.sections) == 0 {
		return nil
	}

	pairs := []roomSlot{}
	for _, slot := range relations.SlotOrder {
		for _, room := range input.Rooms {
			pairs = append(pairs, roomSlot{room: room.Id, slot: slot.Id})
		}
	}

	// A pair suits a section when the room is type-compatible and some
	// qualified instructor is available at the slot.
	neighbors := func(sectionAny any, pairAny any) (bool, error) {
		section := sectionAny.(Section)
		pair := pairAny.(roomSlot)

		if !slices.Contains(relations.CompatibleRooms[section.Id], pair.room) {
			return false, nil
		}
		return lo.SomeBy(relations.QualifiedInstructors[section.Course], func(instructor InstructorID) bool {
			return relations.Available(instructor, pair.slot)
		}), nil
	}

	sectionsAny := lo.Map(vars.sections, func(section Section, _ int) any { return section })
	pairsAny := lo.Map(pairs, func(pair roomSlot, _ int) any { return pair })

	graph, err := bipartitegraph.NewBipartiteGraph(sectionsAny, pairsAny, neighbors)
	if err != nil {
		return err
	}

	matching := graph.LargestMatching()
	if len(matching) >= len(vars.sections) {
		return nil
	}

	matched := make(map[int]bool, len(matching))
	for _, edge := range matching {
		matched[edge.Node1] = true
	}

	// Report the whole conflicting set: unmatched sections plus the matched
	// sections competing for the pairs the unmatched ones could use.
	contested := map[int]bool{}
	for i := range vars.sections {
		if matched[i] {
			continue
		}
		for j, pair := range pairs {
			if ok, _ := neighbors(vars.sections[i], pair); ok {
				contested[j] = true
			}
		}
	}
	blocked := []SectionID{}
	for i, section := range vars.sections {
		if !matched[i] {
			blocked = append(blocked, section.Id)
		}
	}
	for _, edge := range matching {
		if contested[edge.Node2-len(vars.sections)] {
			blocked = append(blocked, vars.sections[edge.Node1].Id)
		}
	}
	slices.Sort(blocked)

	// The deficit is over (room, timeslot) pairs, so room contention is the
	// blocking kind for every reported section.
	sections := lo.Uniq(blocked)
	blocking := make(map[SectionID]ConstraintKind, len(sections))
	for _, section := range sections {
		blocking[section] = RoomConflict
	}

	return SearchFailureError{Sections: sections, Blocking: blocking}
}
