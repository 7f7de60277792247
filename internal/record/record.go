package record

import "strings"

// UnknownCode is used when no course code can be resolved for a course id.
const UnknownCode = "UNKNOWN"

// Record is the statistics extracted from a single report page
type Record struct {
	FasID        string  `json:"fas_id"`
	Semester     string  `json:"semester_year"`
	Professor    string  `json:"professor"` // as encoded in the filename, underscores kept
	CourseCode   string  `json:"course_code"`
	CourseTitle  string  `json:"course_title"`
	NumStudents  int     `json:"num_students"`   // invited count, 0 if unknown
	CourseRating float64 `json:"course_rating"`  // mean overall rating, 0 if unknown
	HoursPerWeek float64 `json:"hours_per_week"` // mean workload, 0 if unknown
}

// ProfessorName returns the professor label with underscores turned back into spaces.
func (r Record) ProfessorName() string {
	return strings.ReplaceAll(r.Professor, "_", " ")
}

// HasRating reports whether the rating was computable.
func (r Record) HasRating() bool {
	return r.CourseRating > 0
}

// HasHours reports whether the workload was computable.
func (r Record) HasHours() bool {
	return r.HoursPerWeek > 0
}

// HasStudents reports whether the invited count was computable.
func (r Record) HasStudents() bool {
	return r.NumStudents > 0
}

// Less orders records by every field so that a set of records can be listed
// the same way regardless of the order in which they were produced.
func Less(a, b Record) bool {
	switch {
	case a.FasID != b.FasID:
		return a.FasID < b.FasID
	case a.Semester != b.Semester:
		return a.Semester < b.Semester
	case a.Professor != b.Professor:
		return a.Professor < b.Professor
	case a.CourseCode != b.CourseCode:
		return a.CourseCode < b.CourseCode
	case a.CourseTitle != b.CourseTitle:
		return a.CourseTitle < b.CourseTitle
	case a.CourseRating != b.CourseRating:
		return a.CourseRating < b.CourseRating
	case a.HoursPerWeek != b.HoursPerWeek:
		return a.HoursPerWeek < b.HoursPerWeek
	default:
		return a.NumStudents < b.NumStudents
	}
}
