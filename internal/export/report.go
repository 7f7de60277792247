package export

import (
	"fmt"
	"strconv"

	"github.com/pfrederiksen/qguide/internal/aggregate"
)

// Kind selects a report.
type Kind string

const (
	KindSections Kind = "sections"
	KindCourses  Kind = "courses"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Keep header order EXACT, downstream visualisations read columns by name.
var sectionHeader = []string{
	"fas_id",
	"course_code",
	"course_title",
	"department",
	"professor",
	"semester",
	"course_rating",
	"hours_per_week",
	"num_students",
	"rating_category",
	"workload_category",
	"size_category",
}

var courseHeader = []string{
	"fas_id",
	"course_code",
	"course_title",
	"department",
	"rating",
	"hours_per_week",
	"num_students",
	"semester",
	"num_semesters_offered",
	"rating_category",
	"workload_category",
	"size_category",
}

// Table is a report as header plus rows of cell text
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Build creates the report of the given kind from snapshot.
func Build(snapshot *aggregate.Snapshot, kind Kind) (*Table, error) {
	switch kind {
	case KindSections:
		return sectionsTable(snapshot), nil
	case KindCourses:
		return coursesTable(snapshot), nil
	default:
		return nil, fmt.Errorf("unknown report: %s (must be 'sections' or 'courses')", kind)
	}
}

func sectionsTable(snapshot *aggregate.Snapshot) *Table {
	t := &Table{Name: string(KindSections), Header: sectionHeader}
	for _, c := range snapshot.Courses {
		for _, sem := range c.Semesters {
			for _, s := range sem.Sections {
				t.Rows = append(t.Rows, []string{
					c.FasID,
					s.CourseCode,
					s.CourseTitle,
					Department(s.CourseCode),
					s.ProfessorName(),
					sem.Semester,
					formatFloat(s.CourseRating),
					formatFloat(s.HoursPerWeek),
					strconv.Itoa(s.NumStudents),
					RatingCategory(s.CourseRating),
					WorkloadCategory(s.HoursPerWeek),
					SizeCategory(s.NumStudents),
				})
			}
		}
	}
	return t
}

func coursesTable(snapshot *aggregate.Snapshot) *Table {
	t := &Table{Name: string(KindCourses), Header: courseHeader}
	for _, c := range snapshot.Courses {
		t.Rows = append(t.Rows, []string{
			c.FasID,
			c.LatestCourseCode,
			c.LatestCourseTitle,
			Department(c.LatestCourseCode),
			formatFloat(c.LatestRating),
			formatFloat(c.LatestHours),
			strconv.Itoa(c.LatestStudents),
			c.LatestSemester,
			strconv.Itoa(len(c.Semesters)),
			RatingCategory(c.LatestRating),
			WorkloadCategory(c.LatestHours),
			SizeCategory(c.LatestStudents),
		})
	}
	return t
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
