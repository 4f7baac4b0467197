// Package kanban defines the board, column, task and comment entities, the
// Store interface that persists them, and the errors shared by stores and
// the board service.
//
// Columns are ordered within their board and tasks within their column by
// fractional position keys (see package fracdex). A position is assigned on
// create or move and replaced wholesale; siblings are never renumbered.
package kanban
