package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/pfrederiksen/qguide/internal/aggregate"
	"github.com/pfrederiksen/qguide/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSnapshot() *aggregate.Snapshot {
	return aggregate.Aggregate([]record.Record{
		{FasID: "101", Semester: "2024Fall", Professor: "David_J._Malan", CourseCode: "COMPSCI 50", CourseTitle: "Intro CS", NumStudents: 300, CourseRating: 4.6, HoursPerWeek: 12},
		{FasID: "101", Semester: "2023Fall", Professor: "David_J._Malan", CourseCode: "COMPSCI 50", CourseTitle: "Intro CS", NumStudents: 280, CourseRating: 4.1, HoursPerWeek: 11.5},
		{FasID: "202", Semester: "2022Spring", Professor: "Jane_Roe", CourseCode: "EXPOS", CourseTitle: "Writing", NumStudents: 12},
	})
}

func TestCategories(t *testing.T) {
	ratings := map[float64]string{
		5: "Excellent", 4.5: "Excellent", 4.49: "Good", 4: "Good",
		3.5: "Satisfactory", 3.2: "Below Average", 0: "No Data",
	}
	for in, want := range ratings {
		assert.Equal(t, want, RatingCategory(in), "rating %v", in)
	}

	hours := map[float64]string{
		0: "No Data", 2: "Light", 4: "Moderate", 8: "Moderate", 8.5: "Heavy",
	}
	for in, want := range hours {
		assert.Equal(t, want, WorkloadCategory(in), "hours %v", in)
	}

	sizes := map[int]string{
		0: "No Data", 14: "Small", 15: "Medium", 50: "Medium", 51: "Large",
	}
	for in, want := range sizes {
		assert.Equal(t, want, SizeCategory(in), "students %d", in)
	}
}

func TestDepartment(t *testing.T) {
	assert.Equal(t, "COMPSCI", Department("COMPSCI 50"))
	assert.Equal(t, "GENED", Department("GENED 1004"))
	assert.Equal(t, "EXPOS", Department("EXPOS"))
	assert.Equal(t, "UNKNOWN", Department("UNKNOWN"))
	assert.Equal(t, "", Department(""))
}

func TestBuild_Sections(t *testing.T) {
	table, err := Build(sampleSnapshot(), KindSections)
	require.NoError(t, err)

	assert.Equal(t, sectionHeader, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{
		"101", "COMPSCI 50", "Intro CS", "COMPSCI", "David J. Malan", "2023Fall",
		"4.1", "11.5", "280", "Good", "Heavy", "Large",
	}, table.Rows[0])
	assert.Equal(t, "2024Fall", table.Rows[1][5])
	assert.Equal(t, []string{
		"202", "EXPOS", "Writing", "EXPOS", "Jane Roe", "2022Spring",
		"0", "0", "12", "No Data", "No Data", "Small",
	}, table.Rows[2])
}

func TestBuild_Courses(t *testing.T) {
	table, err := Build(sampleSnapshot(), KindCourses)
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{
		"101", "COMPSCI 50", "Intro CS", "COMPSCI", "4.6", "12", "300", "2024Fall", "2",
		"Excellent", "Heavy", "Large",
	}, table.Rows[0])
	assert.Equal(t, "1", table.Rows[1][8])
}

func TestBuild_UnknownKind(t *testing.T) {
	_, err := Build(sampleSnapshot(), Kind("professors"))
	assert.Error(t, err)
}

func TestWrite_CSV(t *testing.T) {
	table, err := Build(sampleSnapshot(), KindCourses)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table, FormatCSV))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, courseHeader, rows[0])
	assert.Equal(t, table.Rows[1], rows[2])
}

func TestWrite_XLSX(t *testing.T) {
	table, err := Build(sampleSnapshot(), KindSections)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, table, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"sections"}, f.GetSheetList())
	rows, err := f.GetRows("sections")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, sectionHeader, rows[0])
	assert.Equal(t, "David J. Malan", rows[1][4])
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, &Table{}, Format("pdf")))
}
