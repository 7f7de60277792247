// Package identity loads the course catalog mapping produced by the catalog
// scraper and resolves the course code and title for a report page.
//
// The table is keyed by FAS course id. Each entry lists every course code and
// title seen for the id plus the individual offerings (semester, professor,
// code, title). A Table is read-only once loaded and safe to share across
// goroutines.
package identity
