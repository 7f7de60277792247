package cli

import (
	"sort"

	"github.com/pfrederiksen/qguide/internal/aggregate"
)

// topCourses ranks courses by latest rating, highest first. Courses without a
// latest rating are left out and ties are broken by FAS id.
func topCourses(snapshot *aggregate.Snapshot, n int) []TopCourse {
	if n <= 0 {
		return nil
	}

	ranked := make([]TopCourse, 0, len(snapshot.Courses))
	for _, c := range snapshot.Courses {
		if c.LatestRating <= 0 {
			continue
		}
		ranked = append(ranked, TopCourse{
			FasID:      c.FasID,
			CourseCode: c.LatestCourseCode,
			Semester:   c.LatestSemester,
			Rating:     c.LatestRating,
			Students:   c.LatestStudents,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return compareByRating(ranked[i], ranked[j])
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// compareByRating orders by rating descending, then FAS id ascending.
func compareByRating(a, b TopCourse) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.FasID < b.FasID
}

// ratingStats returns nil when there are no ratings.
func ratingStats(ratings []float64) *RatingStats {
	if len(ratings) == 0 {
		return nil
	}

	sorted := append([]float64(nil), ratings...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, r := range sorted {
		sum += r
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return &RatingStats{
		Count:  n,
		Mean:   sum / float64(n),
		Median: median,
		Max:    sorted[n-1],
		Min:    sorted[0],
	}
}
