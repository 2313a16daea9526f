package types

// ValidationError is returned by blocking guardrail checks. Message is safe
// to surface to an end user and maps onto a 4xx response; Err carries the
// detection detail and must only reach the audit log.
type ValidationError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
