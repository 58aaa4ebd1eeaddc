package model

import "fmt"

// UpstreamFetchError reports a failed or malformed response from a generative
// endpoint: transport error, timeout, or an envelope missing the message body.
type UpstreamFetchError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: malformed response", e.Provider, e.Op)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// ExtractionParseError reports an extraction response that was received but
// is not valid JSON of the expected shape.
type ExtractionParseError struct {
	Reason string
	Err    error
}

func (e *ExtractionParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse extraction response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse extraction response: %s", e.Reason)
}

func (e *ExtractionParseError) Unwrap() error { return e.Err }

// VerificationParseError reports a verification response that was received
// but is not valid JSON or lacks required fields.
type VerificationParseError struct {
	Reason string
	Err    error
}

func (e *VerificationParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse verification response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse verification response: %s", e.Reason)
}

func (e *VerificationParseError) Unwrap() error { return e.Err }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ValidationError reports caller input missing or violating a required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
