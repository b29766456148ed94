// Package validation turns the rule descriptors of a form definition into
// executable validators. Values are either strings (scalar and single choice
// fields) or string slices (multi choice fields). Each field reports at most
// one message: the first failing rule wins, and a required check always runs
// first.
package validation
