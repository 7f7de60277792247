// Package extract locates labelled tables in a parsed Q guide report page and
// turns their cell text into statistics.
//
// Every statistic is extracted independently. A missing table, a missing cell
// or a cell that does not parse yields ok == false for that statistic only; no
// function in this package returns an error or panics on malformed input.
package extract
