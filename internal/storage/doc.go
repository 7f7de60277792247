// Package storage provides JSON-based persistence for the analytics snapshot.
//
// The snapshot is a single JSON file mapping FAS course id to its aggregate.
// It is written atomically: the document is encoded to a temporary file in the
// destination directory and renamed over the target, so readers never see a
// partially written snapshot. The default location is
// results/course_analytics.json.
package storage
