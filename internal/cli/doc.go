// Package cli implements the command-line interface for qguide.
//
// The cli package provides the Cobra-based CLI. The analyze command discovers
// downloaded Q guide report pages, analyzes them in parallel, aggregates the
// results per course and semester, writes the analytics snapshot and prints a
// run summary (text/JSON). The export command flattens a snapshot into CSV or
// XLSX reports.
package cli
