package analyzer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/pfrederiksen/qguide/internal/extract"
	"github.com/pfrederiksen/qguide/internal/identity"
	"github.com/pfrederiksen/qguide/internal/record"
)

// MinTables is the number of table bodies below which a page is not treated
// as a report.
const MinTables = 3

var (
	ErrUnreadable   = errors.New("report unreadable")
	ErrUnparsable   = errors.New("report unparsable")
	ErrTooFewTables = errors.New("too few tables in report")
)

// Analyzer builds records from report pages. It only reads the identity table,
// so one Analyzer may be used from several goroutines.
type Analyzer struct {
	courses identity.Table
}

// New creates an Analyzer resolving course identity through courses
func New(courses identity.Table) *Analyzer {
	return &Analyzer{courses: courses}
}

// Analyze reads and analyzes the report page at path. Any returned error means
// the page is not analyzable.
func (a *Analyzer) Analyze(path string) (record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, brotliExt) {
		r = brotli.NewReader(f)
	}

	return a.AnalyzeReader(path, r)
}

// AnalyzeReader analyzes a report page read from r. path is only used for its
// filename.
func (a *Analyzer) AnalyzeReader(path string, r io.Reader) (record.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}

	tables := extract.Tables(doc)
	if tables.Length() < MinTables {
		return record.Record{}, fmt.Errorf("%w: found %d", ErrTooFewTables, tables.Length())
	}

	name, err := ParseFilename(path)
	if err != nil {
		return record.Record{}, err
	}

	code, title := a.courses.Resolve(name.FasID, name.Semester, name.Professor)
	stats := extract.All(tables)

	return record.Record{
		FasID:        name.FasID,
		Semester:     name.Semester,
		Professor:    name.Professor,
		CourseCode:   code,
		CourseTitle:  title,
		NumStudents:  stats.NumStudents,
		CourseRating: stats.CourseRating,
		HoursPerWeek: stats.HoursPerWeek,
	}, nil
}
