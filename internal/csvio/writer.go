package csvio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/limaJavier/coursetabling/internal/model"
)

// ScheduleCSVRow mirrors the timetable layout consumed by the report and
// viewer collaborators.
type ScheduleCSVRow struct {
	SectionID    string `csv:"Section_ID"`
	CourseCode   string `csv:"Course_Code"`
	CourseName   string `csv:"Course_Name"`
	ActivityType string `csv:"Activity_Type"`
	Day          string `csv:"Day"`
	StartTime    string `csv:"Start_Time"`
	EndTime      string `csv:"End_Time"`
	Room         string `csv:"Room"`
	Instructor   string `csv:"Instructor"`
	StudentCount uint64 `csv:"Student_Count"`
}

func buildRows(assignments []model.Assignment, input model.ModelInput) []*ScheduleCSVRow {
	courses := lo.KeyBy(input.Courses, func(course model.Course) model.CourseID { return course.Id })
	instructors := lo.KeyBy(input.Instructors, func(instructor model.Instructor) model.InstructorID { return instructor.Id })

	return lo.Map(assignments, func(assignment model.Assignment, _ int) *ScheduleCSVRow {
		course := courses[assignment.Course]

		// Report the roster section, not the expanded (section, course) id.
		sectionID := string(assignment.Cohort)
		if sectionID == "" {
			sectionID = string(assignment.Section)
		}
		instructorName := instructors[assignment.Instructor].Name
		if instructorName == "" {
			instructorName = string(assignment.Instructor)
		}

		return &ScheduleCSVRow{
			SectionID:    sectionID,
			CourseCode:   string(assignment.Course),
			CourseName:   course.Name,
			ActivityType: course.RoomType,
			Day:          assignment.Day,
			StartTime:    assignment.Start,
			EndTime:      assignment.End,
			Room:         string(assignment.Room),
			Instructor:   instructorName,
			StudentCount: assignment.Enrollment,
		}
	})
}

// ExportSchedule writes the generated timetable to the CSV file at path.
func ExportSchedule(assignments []model.Assignment, input model.ModelInput, path string) error {
	rows := buildRows(assignments, input)

	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open %v: %w", path, err)
	}
	defer out.Close()

	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return fmt.Errorf("cannot write %v: %w", path, err)
	}
	return nil
}

// ExportScheduleString renders the generated timetable as a CSV document.
func ExportScheduleString(assignments []model.Assignment, input model.ModelInput) (string, error) {
	rows := buildRows(assignments, input)
	return gocsv.MarshalString(&rows)
}
