package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/limaJavier/coursetabling/internal/config"
	"github.com/limaJavier/coursetabling/internal/model"
)

// Row shapes of the five dataset files.
type CourseCSV struct {
	CourseID   string `csv:"CourseID"`
	CourseName string `csv:"CourseName"`
	Type       string `csv:"Type"`
	Credits    uint64 `csv:"Credits"`
}

type InstructorCSV struct {
	InstructorID     string `csv:"InstructorID"`
	Name             string `csv:"Name"`
	QualifiedCourses string `csv:"QualifiedCourses"`
	// PreferredSlots are soft preferences; the engine does not optimize for
	// them and they are carried through untouched.
	PreferredSlots string `csv:"PreferredSlots"`
	AvailableSlots string `csv:"AvailableSlots"`
}

type RoomCSV struct {
	RoomID   string `csv:"RoomID"`
	Type     string `csv:"Type"`
	Capacity uint64 `csv:"Capacity"`
}

type TimeSlotCSV struct {
	TimeSlotID string `csv:"TimeSlotID"`
	Day        string `csv:"Day"`
	StartTime  string `csv:"StartTime"`
	EndTime    string `csv:"EndTime"`
}

type SectionCSV struct {
	SectionID    string `csv:"SectionID"`
	StudentCount uint64 `csv:"StudentCount"`
	Courses      string `csv:"Courses"`
}

// LoadDataset reads the five CSV files and normalizes them into a ModelInput.
// Each roster row lists the courses a section takes; every (section, course)
// pair becomes one scheduling section, keyed back to the roster row by its
// cohort identifier.
func LoadDataset(cfg config.DataConfig) (model.ModelInput, error) {
	delim := ','
	if runes := []rune(cfg.Delimiter); len(runes) > 0 {
		delim = runes[0]
	}
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		return r
	})

	var courses []*CourseCSV
	if err := readFile(cfg.CoursesFile, &courses); err != nil {
		return model.ModelInput{}, err
	}
	var instructors []*InstructorCSV
	if err := readFile(cfg.InstructorsFile, &instructors); err != nil {
		return model.ModelInput{}, err
	}
	var rooms []*RoomCSV
	if err := readFile(cfg.RoomsFile, &rooms); err != nil {
		return model.ModelInput{}, err
	}
	var slots []*TimeSlotCSV
	if err := readFile(cfg.TimeSlotsFile, &slots); err != nil {
		return model.ModelInput{}, err
	}
	var sections []*SectionCSV
	if err := readFile(cfg.SectionsFile, &sections); err != nil {
		return model.ModelInput{}, err
	}

	input := model.ModelInput{
		Courses: lo.Map(courses, func(row *CourseCSV, _ int) model.Course {
			return model.Course{
				Id:       model.CourseID(strings.TrimSpace(row.CourseID)),
				Name:     strings.TrimSpace(row.CourseName),
				Credits:  row.Credits,
				RoomType: strings.TrimSpace(row.Type),
			}
		}),
		Instructors: lo.Map(instructors, func(row *InstructorCSV, _ int) model.Instructor {
			return model.Instructor{
				Id:   model.InstructorID(strings.TrimSpace(row.InstructorID)),
				Name: strings.TrimSpace(row.Name),
				Qualified: lo.Map(splitList(row.QualifiedCourses), func(id string, _ int) model.CourseID {
					return model.CourseID(id)
				}),
				Available: lo.Map(splitList(row.AvailableSlots), func(id string, _ int) model.TimeSlotID {
					return model.TimeSlotID(id)
				}),
			}
		}),
		Rooms: lo.Map(rooms, func(row *RoomCSV, _ int) model.Room {
			return model.Room{
				Id:       model.RoomID(strings.TrimSpace(row.RoomID)),
				Type:     strings.TrimSpace(row.Type),
				Capacity: row.Capacity,
			}
		}),
		TimeSlots: lo.Map(slots, func(row *TimeSlotCSV, _ int) model.TimeSlot {
			return model.TimeSlot{
				Id:    model.TimeSlotID(strings.TrimSpace(row.TimeSlotID)),
				Day:   strings.TrimSpace(row.Day),
				Start: strings.TrimSpace(row.StartTime),
				End:   strings.TrimSpace(row.EndTime),
			}
		}),
	}

	for _, row := range sections {
		sectionID := strings.TrimSpace(row.SectionID)
		for _, courseID := range splitList(row.Courses) {
			input.Sections = append(input.Sections, model.Section{
				Id:         model.SectionID(sectionID + "_" + courseID),
				Course:     model.CourseID(courseID),
				Cohort:     model.CohortID(sectionID),
				Enrollment: row.StudentCount,
			})
		}
	}

	return input, nil
}

func readFile(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, out); err != nil {
		return fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return nil
}

// splitList parses the comma-separated identifier lists of the dataset,
// dropping surrounding whitespace and empty entries.
func splitList(raw string) []string {
	return lo.FilterMap(strings.Split(raw, ","), func(entry string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(entry)
		return trimmed, trimmed != ""
	})
}
