// Package history keeps the calculation tape: a bounded, most-recent-last
// list of the evaluations the calculator has completed.
//
// Entries are appended from engine evaluations (usually via the
// calc.result event) and shown in the history panel. When the tape is
// full the oldest entry is dropped.
package history
