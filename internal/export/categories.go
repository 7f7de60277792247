package export

import "strings"

const noData = "No Data"

// RatingCategory buckets a mean course rating.
func RatingCategory(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Excellent"
	case rating >= 4.0:
		return "Good"
	case rating >= 3.5:
		return "Satisfactory"
	case rating > 0:
		return "Below Average"
	default:
		return noData
	}
}

// WorkloadCategory buckets weekly hours. 0 means unknown.
func WorkloadCategory(hours float64) string {
	switch {
	case hours <= 0:
		return noData
	case hours < 4:
		return "Light"
	case hours <= 8:
		return "Moderate"
	default:
		return "Heavy"
	}
}

// SizeCategory buckets the invited count. 0 means unknown.
func SizeCategory(students int) string {
	switch {
	case students <= 0:
		return noData
	case students < 15:
		return "Small"
	case students <= 50:
		return "Medium"
	default:
		return "Large"
	}
}

// Department is the subject prefix of a course code, "COMPSCI" for
// "COMPSCI 50". Codes without a space are returned whole.
func Department(code string) string {
	if !strings.Contains(code, " ") {
		return code
	}
	fields := strings.Fields(code)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
