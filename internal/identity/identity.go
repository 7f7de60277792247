package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/qguide/internal/record"
)

// ErrTableNotFound is returned by Load when the mapping file does not exist.
var ErrTableNotFound = errors.New("course identity table not found")

// Offering is one semester/professor instance of a course
type Offering struct {
	SemesterYear string  `json:"semester_year"`
	CourseCode   *string `json:"course_code,omitempty"`
	CourseTitle  *string `json:"course_title,omitempty"`
	Professor    string  `json:"professor"`
	Link         string  `json:"link,omitempty"`
	ElementID    string  `json:"element_id,omitempty"`
}

// Entry holds everything known about a single course id
type Entry struct {
	CourseCodes  []string   `json:"course_codes"`
	CourseTitles []string   `json:"course_titles"`
	Offerings    []Offering `json:"offerings"`
}

// Table maps FAS course id to its catalog entry
type Table map[string]*Entry

// Load reads a course identity table from a JSON file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, path)
		}
		return nil, fmt.Errorf("reading identity table: %w", err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing identity table: %w", err)
	}
	if table == nil {
		table = make(Table)
	}

	return table, nil
}

// Resolve returns the course code and title for a page of fasID taught by
// professor in semester. professor is the filename label; underscores are
// compared as spaces. An offering that matches both semester and professor
// wins, otherwise the first code and title listed for the id are used.
func (t Table) Resolve(fasID, semester, professor string) (code, title string) {
	entry, ok := t[fasID]
	if !ok || entry == nil {
		return record.UnknownCode, ""
	}

	name := strings.ReplaceAll(professor, "_", " ")
	for _, o := range entry.Offerings {
		if o.SemesterYear == semester && o.Professor == name {
			return valueOr(o.CourseCode, record.UnknownCode), valueOr(o.CourseTitle, "")
		}
	}

	code, title = record.UnknownCode, ""
	if len(entry.CourseCodes) > 0 {
		code = entry.CourseCodes[0]
	}
	if len(entry.CourseTitles) > 0 {
		title = entry.CourseTitles[0]
	}
	return code, title
}

// valueOr dereferences s, falling back to def when the field was absent
func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
