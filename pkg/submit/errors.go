package submit

import (
	"errors"
	"fmt"
)

// ErrRejected marks an acknowledgement whose success flag was not true.
var ErrRejected = errors.New("submit: rejected by collaborator")

// Kind classifies a SubmissionError.
type Kind string

const (
	// KindRejected means the collaborator answered but did not accept.
	KindRejected Kind = "rejected"
	// KindTransport covers network failures, cancellations, non-2xx
	// statuses and undecodable bodies.
	KindTransport Kind = "transport"
	// KindContract means the payload did not satisfy the request contract
	// and was never sent.
	KindContract Kind = "contract"
)

// SubmissionError is returned when an application could not be accepted.
// Every kind is recoverable by submitting again.
type SubmissionError struct {
	Kind       Kind
	StatusCode int
	RequestID  string
	Err        error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("submit: %s failure", e.Kind)
	case e.StatusCode != 0:
		return fmt.Sprintf("submit: %s failure (status %d): %v", e.Kind, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("submit: %s failure: %v", e.Kind, e.Err)
	}
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Rejected builds the error for a negative acknowledgement.
func Rejected(resp Response) *SubmissionError {
	return &SubmissionError{
		Kind:       KindRejected,
		StatusCode: resp.StatusCode,
		RequestID:  resp.RequestID,
		Err:        ErrRejected,
	}
}

// IsRejected reports whether err is a negative acknowledgement.
func IsRejected(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se) && se.Kind == KindRejected
}

func transportError(requestID string, status int, err error) *SubmissionError {
	return &SubmissionError{Kind: KindTransport, StatusCode: status, RequestID: requestID, Err: err}
}
