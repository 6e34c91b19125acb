package order

// ValidationError is a user-correctable input problem. Validation stops at the
// first failing rule, so callers only ever see one at a time.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrMissingContact     = ValidationError("missing contact")
	ErrMissingLocation    = ValidationError("missing location")
	ErrIncompleteUrban    = ValidationError("incomplete urban address")
	ErrIncompleteRegional = ValidationError("incomplete regional address")
)

// TransportError means the notification send failed. The order is retryable;
// nothing was cleared.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "order transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
