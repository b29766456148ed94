// Package submit posts finished applications to the submission
// collaborator and decodes its acknowledgement.
//
// The collaborator answers with a JSON object carrying a boolean "success".
// A missing or non-boolean flag counts as a rejection. Non-2xx statuses,
// unreadable bodies and network failures are reported as transport
// SubmissionErrors. The client never retries and sets no timeout of its own;
// cancellation comes from the caller's context.
package submit
