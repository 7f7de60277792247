// Package analyzer turns a single downloaded Q guide report page into a
// record.Record.
//
// Report pages are stored as {fas_id}_{semester}_{professor}.html, optionally
// brotli compressed with a trailing .br. The professor part may itself contain
// underscores. A page that cannot be read, parsed or decoded is reported as
// not analyzable and left out of the run.
package analyzer
