package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/qguide/internal/aggregate"
	"github.com/pfrederiksen/qguide/internal/runner"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// TopCourse is one entry of the top rated list, taken from a course's latest
// semester.
type TopCourse struct {
	FasID      string  `json:"fas_id"`
	CourseCode string  `json:"course_code"`
	Semester   string  `json:"semester"`
	Rating     float64 `json:"rating"`
	Students   int     `json:"num_students"`
}

// RatingStats describes the ratings of every analyzed section with a rating.
type RatingStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	Min    float64 `json:"min"`
}

// RunSummary contains data to be output after an analyze run
type RunSummary struct {
	RunID         string       `json:"run_id"`
	CompletedAt   time.Time    `json:"completed_at"`
	OutputFile    string       `json:"output_file"`
	Documents     int          `json:"documents"`
	Analyzed      int          `json:"analyzed"`
	Skipped       int          `json:"skipped"`
	FailedBatches int          `json:"failed_batches"`
	Workers       int          `json:"workers"`
	Courses       int          `json:"courses"`
	Sections      int          `json:"sections"`
	TopCourses    []TopCourse  `json:"top_courses"`
	Ratings       *RatingStats `json:"rating_stats,omitempty"`
}

// Summarize builds the summary of a finished run. topN bounds the top rated
// list.
func Summarize(result *runner.Result, snapshot *aggregate.Snapshot, topN int) *RunSummary {
	s := &RunSummary{
		Documents:     result.Documents,
		Analyzed:      result.Analyzed(),
		Skipped:       result.Skipped,
		FailedBatches: len(result.FailedBatches),
		Workers:       result.Workers,
		Courses:       len(snapshot.Courses),
		Sections:      snapshot.TotalSections(),
		TopCourses:    topCourses(snapshot, topN),
	}

	var ratings []float64
	for _, rec := range result.Records {
		if rec.HasRating() {
			ratings = append(ratings, rec.CourseRating)
		}
	}
	s.Ratings = ratingStats(ratings)

	return s
}

// WriteSummary writes the summary in the specified format
func WriteSummary(w io.Writer, summary *RunSummary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeText(w, summary)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, summary *RunSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, s *RunSummary) error {
	fmt.Fprintf(w, "Found %d report pages, analyzed %d (%d skipped, %d failed batches)\n",
		s.Documents, s.Analyzed, s.Skipped, s.FailedBatches)
	fmt.Fprintf(w, "Total courses (FAS IDs) analyzed: %d\n", s.Courses)
	fmt.Fprintf(w, "Total sections analyzed: %d\n", s.Sections)

	if len(s.TopCourses) > 0 {
		fmt.Fprintf(w, "\nTop %d highest-rated courses (based on latest semester):\n", len(s.TopCourses))
		for _, c := range s.TopCourses {
			fmt.Fprintf(w, "  %s\n", formatTopCourse(c))
		}
	}

	if s.Ratings != nil {
		fmt.Fprintf(w, "\nRating statistics (%d sections):\n", s.Ratings.Count)
		fmt.Fprintf(w, "  Average: %.2f/5.0\n", s.Ratings.Mean)
		fmt.Fprintf(w, "  Median: %.2f/5.0\n", s.Ratings.Median)
		fmt.Fprintf(w, "  Highest: %.2f/5.0\n", s.Ratings.Max)
		fmt.Fprintf(w, "  Lowest: %.2f/5.0\n", s.Ratings.Min)
	}

	if s.OutputFile != "" {
		fmt.Fprintf(w, "\nData saved to %s\n", s.OutputFile)
	}
	return nil
}

func formatTopCourse(c TopCourse) string {
	return fmt.Sprintf("%s (FAS-%s, %s): %.2f/5.0 (%d students)",
		c.CourseCode, c.FasID, c.Semester, c.Rating, c.Students)
}
