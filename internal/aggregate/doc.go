// Package aggregate folds per-page records into the per-course, per-semester
// summary written as the analytics snapshot.
//
// Aggregation is order independent: any permutation of the same records, in
// any batch partitioning, yields an identical Snapshot and identical JSON.
// Courses are ordered by FAS id and semesters by the canonical semester
// sequence, with unknown semester keys appended in lexical order.
package aggregate
