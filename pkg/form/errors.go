package form

import "errors"

var (
	// ErrUnknownField is returned for names absent from the definition.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrFieldKind is returned when an operation does not apply to the
	// field's kind, for example toggling a scalar field.
	ErrFieldKind = errors.New("form: operation not supported by field kind")
	// ErrFrozen is returned for mutations after a successful submission.
	ErrFrozen = errors.New("form: application already accepted, fields are read-only")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("form: controller closed")
	// ErrSubmissionInFlight is returned by Submit while another attempt is
	// pending. The extra call never reaches the collaborator.
	ErrSubmissionInFlight = errors.New("form: submission already in flight")
	// ErrAlreadySubmitted is returned by Submit after success.
	ErrAlreadySubmitted = errors.New("form: application already submitted")
)
