// Package form implements the application form controller: it owns field
// values, validates them, drives the submission lifecycle and hands the
// finished application to a submit.Submitter.
//
// Scalar fields hold strings. Single choice fields hold a choice.Choice;
// picking the "Other" sentinel leaves the value pending until free text is
// committed. Multi choice fields hold an ordered set of unique entries fed
// by toggling catalog options and by free-text additions.
//
// The lifecycle is idle -> pending -> succeeded|failed, with failed ->
// pending on retry. Once a submission succeeds the form is frozen and every
// mutation returns ErrFrozen. A Controller is safe for concurrent use; at
// most one submission is in flight at a time.
package form
