package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limaJavier/coursetabling/internal/model"
)

func scheduleFixture() ([]model.Assignment, model.ModelInput) {
	input := model.ModelInput{
		Courses: []model.Course{
			{Id: "CS101", Name: "Intro to Computing", Credits: 3, RoomType: "Lecture"},
		},
		Instructors: []model.Instructor{{Id: "I1", Name: "Grace Hopper"}},
	}
	assignments := []model.Assignment{{
		Section:    "G1_CS101",
		Course:     "CS101",
		Cohort:     "G1",
		Room:       "R1",
		TimeSlot:   "T1",
		Instructor: "I1",
		Day:        "Monday",
		Start:      "09:00",
		End:        "10:00",
		Enrollment: 35,
	}}
	return assignments, input
}

func TestExportScheduleString(t *testing.T) {
	t.Run("rows carry the roster section and resolved names", func(t *testing.T) {
		// Arrange
		assignments, input := scheduleFixture()

		// Act
		document, err := ExportScheduleString(assignments, input)

		// Assert
		assert.Nil(t, err)
		lines := strings.Split(strings.TrimSpace(document), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t,
			"Section_ID,Course_Code,Course_Name,Activity_Type,Day,Start_Time,End_Time,Room,Instructor,Student_Count",
			lines[0])
		assert.Equal(t,
			"G1,CS101,Intro to Computing,Lecture,Monday,09:00,10:00,R1,Grace Hopper,35",
			lines[1])
	})

	t.Run("unknown instructors fall back to their identifier", func(t *testing.T) {
		// Arrange
		assignments, input := scheduleFixture()
		assignments[0].Instructor = "I9"

		// Act
		document, err := ExportScheduleString(assignments, input)

		// Assert
		assert.Nil(t, err)
		assert.Contains(t, document, ",I9,")
	})
}

func TestExportSchedule(t *testing.T) {
	// Arrange
	assignments, input := scheduleFixture()
	path := filepath.Join(t.TempDir(), "timetable.csv")

	// Act
	err := ExportSchedule(assignments, input, path)

	// Assert
	assert.Nil(t, err)
	content, readErr := os.ReadFile(path)
	assert.Nil(t, readErr)
	assert.Contains(t, string(content), "G1,CS101,Intro to Computing")
}
