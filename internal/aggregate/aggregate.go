package aggregate

import (
	"math"
	"sort"

	"github.com/pfrederiksen/qguide/internal/record"
)

// Fallback values for a course without any semester.
const (
	NoSemester = "N/A"
)

// SemesterAggregate summarizes every section of one course in one semester.
// Averages only include known (non-zero) values and are 0 when none are known.
type SemesterAggregate struct {
	Semester     string          `json:"-"`
	CourseCode   string          `json:"course_code"`
	CourseCodes  []string        `json:"course_codes"`
	CourseTitle  string          `json:"course_title"`
	CourseTitles []string        `json:"course_titles"`
	AvgRating    float64         `json:"avg_course_rating"`
	AvgHours     float64         `json:"avg_hours_per_week"`
	AvgStudents  int             `json:"avg_num_students"`
	NumSections  int             `json:"num_sections"`
	Professors   []string        `json:"professors"`
	Sections     []record.Record `json:"individual_sections"`
}

// CourseAggregate summarizes one course across semesters. The Latest fields
// are copied from the newest semester.
type CourseAggregate struct {
	FasID             string    `json:"-"`
	Semesters         Semesters `json:"semesters"`
	AllCourseCodes    []string  `json:"all_course_codes"`
	AllCourseTitles   []string  `json:"all_course_titles"`
	LatestSemester    string    `json:"latest_semester"`
	LatestCourseCode  string    `json:"latest_course_code"`
	LatestCourseTitle string    `json:"latest_course_title"`
	LatestRating      float64   `json:"latest_course_rating"`
	LatestHours       float64   `json:"latest_hours_per_week"`
	LatestStudents    int       `json:"latest_num_students"`
}

// Semester returns the aggregate for key, or nil.
func (c *CourseAggregate) Semester(key string) *SemesterAggregate {
	for _, s := range c.Semesters {
		if s.Semester == key {
			return s
		}
	}
	return nil
}

// Snapshot is the complete aggregation result, ordered by FAS id.
type Snapshot struct {
	Courses []*CourseAggregate
}

// Course returns the aggregate for fasID, or nil.
func (s *Snapshot) Course(fasID string) *CourseAggregate {
	for _, c := range s.Courses {
		if c.FasID == fasID {
			return c
		}
	}
	return nil
}

// TotalSections counts sections over every course and semester.
func (s *Snapshot) TotalSections() int {
	total := 0
	for _, c := range s.Courses {
		for _, sem := range c.Semesters {
			total += sem.NumSections
		}
	}
	return total
}

// Aggregate groups records by FAS id and semester and computes the summary.
// The input order does not matter.
func Aggregate(records []record.Record) *Snapshot {
	grouped := make(map[string]map[string][]record.Record)
	for _, r := range records {
		bySemester, ok := grouped[r.FasID]
		if !ok {
			bySemester = make(map[string][]record.Record)
			grouped[r.FasID] = bySemester
		}
		bySemester[r.Semester] = append(bySemester[r.Semester], r)
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snapshot := &Snapshot{Courses: make([]*CourseAggregate, 0, len(ids))}
	for _, id := range ids {
		snapshot.Courses = append(snapshot.Courses, aggregateCourse(id, grouped[id]))
	}
	return snapshot
}

func aggregateCourse(fasID string, bySemester map[string][]record.Record) *CourseAggregate {
	keys := make([]string, 0, len(bySemester))
	for k := range bySemester {
		keys = append(keys, k)
	}
	SortSemesters(keys)

	course := &CourseAggregate{
		FasID:     fasID,
		Semesters: make(Semesters, 0, len(keys)),
	}

	codes := newStringSet()
	titles := newStringSet()
	for _, key := range keys {
		sem := aggregateSemester(key, bySemester[key])
		codes.addAll(sem.CourseCodes)
		titles.addAll(sem.CourseTitles)
		course.Semesters = append(course.Semesters, sem)
	}
	course.AllCourseCodes = codes.sorted()
	course.AllCourseTitles = titles.sorted()

	latest, ok := LatestSemester(keys)
	if ok {
		if sem := course.Semester(latest); sem != nil {
			course.LatestSemester = latest
			course.LatestCourseCode = sem.CourseCode
			course.LatestCourseTitle = sem.CourseTitle
			course.LatestRating = sem.AvgRating
			course.LatestHours = sem.AvgHours
			course.LatestStudents = sem.AvgStudents
			return course
		}
	}

	course.LatestSemester = NoSemester
	course.LatestCourseCode = record.UnknownCode
	return course
}

func aggregateSemester(key string, sections []record.Record) *SemesterAggregate {
	// Sorting first fixes both the listing order and the float summation
	// order, so the result does not depend on arrival order.
	sorted := make([]record.Record, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool { return record.Less(sorted[i], sorted[j]) })

	var ratings, hours, students []float64
	codes := newStringSet()
	titles := newStringSet()
	professors := newStringSet()

	for _, r := range sorted {
		if r.HasRating() {
			ratings = append(ratings, r.CourseRating)
		}
		if r.HasHours() {
			hours = append(hours, r.HoursPerWeek)
		}
		if r.HasStudents() {
			students = append(students, float64(r.NumStudents))
		}
		if r.CourseCode != "" {
			codes.add(r.CourseCode)
		}
		if r.CourseTitle != "" {
			titles.add(r.CourseTitle)
		}
		professors.add(r.Professor)
	}

	sem := &SemesterAggregate{
		Semester:     key,
		CourseCodes:  codes.sorted(),
		CourseTitles: titles.sorted(),
		AvgRating:    roundTo(mean(ratings), 2),
		AvgHours:     roundTo(mean(hours), 2),
		AvgStudents:  int(roundTo(mean(students), 0)),
		NumSections:  len(sorted),
		Professors:   professors.sorted(),
		Sections:     sorted,
	}

	// The representative code and title is the lexically smallest one seen.
	sem.CourseCode = record.UnknownCode
	if len(sem.CourseCodes) > 0 {
		sem.CourseCode = sem.CourseCodes[0]
	}
	if len(sem.CourseTitles) > 0 {
		sem.CourseTitle = sem.CourseTitles[0]
	}
	return sem
}

// mean returns the arithmetic mean of values, or 0 for no values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// roundTo rounds half to even at the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.RoundToEven(v*p) / p
}

type stringSet map[string]struct{}

func newStringSet() stringSet {
	return make(stringSet)
}

func (s stringSet) add(v string) {
	s[v] = struct{}{}
}

func (s stringSet) addAll(vs []string) {
	for _, v := range vs {
		s.add(v)
	}
}

// sorted returns the members in lexical order, never nil.
func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
