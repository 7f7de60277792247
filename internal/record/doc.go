// Package record defines the per-document evaluation record.
//
// A Record is produced once per Q guide report page by the analyzer and is
// never modified afterwards. Zero is the sentinel for "unknown" in every
// numeric field: a measured rating or workload is always strictly positive.
package record
