package extract

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Header labels of the report tables we read from.
const (
	HeaderInvited       = "Invited"
	HeaderResponded     = "Responded"
	HeaderCourseOverall = "Evaluate the course overall."
	HeaderHoursPerWeek  = "Hours per week"
	HeaderResponseCount = "Response Count"
)

const (
	ratingBuckets    = 5
	hoursTailCells   = 4
	notApplicable    = "N/A"
	respondedCellIdx = 1
)

// Stats holds the statistics found on one page. A zero field means the value
// could not be computed.
type Stats struct {
	NumStudents  int
	CourseRating float64
	HoursPerWeek float64
}

// Tables returns every table body of the document. Report pages keep each
// question in its own tbody, so these are the units FindTable searches.
func Tables(doc *goquery.Document) *goquery.Selection {
	return doc.Find("tbody")
}

// All runs every extraction rule against tables.
func All(tables *goquery.Selection) Stats {
	var s Stats
	if n, ok := InvitedCount(tables); ok {
		s.NumStudents = n
	}
	if r, ok := CourseRating(tables); ok {
		s.CourseRating = r
	}
	if h, ok := WeeklyHours(tables); ok {
		s.HoursPerWeek = h
	}
	return s
}

// FindTable returns the first table whose first header cell, trimmed, equals
// header exactly. It returns nil if there is no such table.
func FindTable(tables *goquery.Selection, header string) *goquery.Selection {
	var found *goquery.Selection
	tables.EachWithBreak(func(_ int, table *goquery.Selection) bool {
		th := table.Find("tr").First().Find("th").First()
		if th.Length() == 0 {
			return true
		}
		if strings.TrimSpace(th.Text()) == header {
			found = table
			return false
		}
		return true
	})
	return found
}

// CellTexts returns the trimmed text of every td under sel, in document order.
func CellTexts(sel *goquery.Selection) []string {
	cells := sel.Find("td")
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, td *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(td.Text()))
	})
	return texts
}

// InvitedCount reads the number of students invited to fill in the
// evaluation. The "Invited" table holds it in its first cell; older pages only
// have a "Responded" table with the count in the second cell.
func InvitedCount(tables *goquery.Selection) (int, bool) {
	if table := FindTable(tables, HeaderInvited); table != nil {
		cells := CellTexts(table)
		if len(cells) == 0 {
			return 0, false
		}
		return parseCount(cells[0])
	}

	if table := FindTable(tables, HeaderResponded); table != nil {
		cells := CellTexts(table)
		if len(cells) <= respondedCellIdx {
			return 0, false
		}
		return parseCount(cells[respondedCellIdx])
	}

	return 0, false
}

// CourseRating reads the mean answer to "Evaluate the course overall."
func CourseRating(tables *goquery.Selection) (float64, bool) {
	table := FindTable(tables, HeaderCourseOverall)
	if table == nil {
		return 0, false
	}
	return ParseRating(CellTexts(table.Find("tr").First()))
}

// ParseRating interprets the cells of a rating distribution row:
//
//	[responses, "p5%", "p4%", "p3%", "p2%", "p1%", mean, ...]
//
// The first cell is the number of responses and a value of 0 means nobody
// answered. The bucket percentages are listed from the highest score down.
// The second-to-last cell is the precomputed mean, which is what gets
// returned once at least one bucket is non-empty.
func ParseRating(cells []string) (float64, bool) {
	if len(cells) == 0 {
		return 0, false
	}
	responses, err := strconv.Atoi(cells[0])
	if err != nil || responses == 0 {
		return 0, false
	}
	if len(cells) < 3 {
		return 0, false
	}

	raw := cells[1 : len(cells)-2]
	freqs := make([]int, len(raw))
	for i, cell := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(dropLastRune(cell)))
		if err != nil {
			return 0, false
		}
		freqs[i] = n
	}
	if len(freqs) < ratingBuckets {
		return 0, false
	}

	// Reversed, bucket i holds the share of score i+1.
	slices.Reverse(freqs)
	answered := false
	for i := 0; i < ratingBuckets; i++ {
		if freqs[i] > 0 {
			answered = true
			break
		}
	}
	if !answered {
		return 0, false
	}

	mean, err := strconv.ParseFloat(strings.TrimSpace(cells[len(cells)-2]), 64)
	if err != nil {
		return 0, false
	}
	return positive(mean)
}

// WeeklyHours reads the mean weekly workload in hours.
func WeeklyHours(tables *goquery.Selection) (float64, bool) {
	table := FindTable(tables, HeaderHoursPerWeek)
	if table == nil {
		table = FindTable(tables, HeaderResponseCount)
	}
	if table == nil {
		return 0, false
	}
	return ParseHours(CellTexts(table))
}

// ParseHours scans the last four cells for the first one holding a number.
// Empty and "N/A" cells are skipped, as are cells that do not parse. Only the
// text before the first comma is considered.
func ParseHours(cells []string) (float64, bool) {
	start := len(cells) - hoursTailCells
	if start < 0 {
		start = 0
	}

	for _, cell := range cells[start:] {
		if cell == "" || cell == notApplicable {
			continue
		}
		head, _, _ := strings.Cut(cell, ",")
		hours, err := strconv.ParseFloat(strings.TrimSpace(head), 64)
		if err != nil {
			continue
		}
		return positive(hours)
	}
	return 0, false
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// positive rejects zero, negative and non-finite values, none of which can be
// written as a known statistic.
func positive(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}

func dropLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
