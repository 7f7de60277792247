// Package export flattens an analytics snapshot into tabular reports for
// spreadsheets and visualisations.
//
// Two reports exist: one row per analyzed section, and one row per course
// built from its latest semester. Either can be written as CSV or as an XLSX
// workbook.
package export
