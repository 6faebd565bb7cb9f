package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind is the outcome of classifying a failed call.
type Kind int

const (
	// KindAuthRequired: 401, the user is sent to OTP verification.
	KindAuthRequired Kind = iota + 1
	// KindValidation: 400, the body is handed to the caller as data.
	KindValidation
	// KindFailure: any other status, or no response at all.
	KindFailure
)

func (k Kind) String() string {
	switch k {
	case KindAuthRequired:
		return "auth_required"
	case KindValidation:
		return "validation"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

var (
	ErrAuthRequired = errors.New("authentication required")
	ErrFailure      = errors.New("request failed")
)

// Error is what callers receive on their failure path.
type Error struct {
	Kind   Kind
	Method string
	URL    string
	// Status is 0 when no response was received.
	Status int
	// Message is the server-provided message or the generic fallback.
	Message string
	Body    []byte
	// Err is the transport error for calls that got no response.
	Err error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.URL, e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthRequired:
		return e.Kind == KindAuthRequired
	case ErrFailure:
		return e.Kind == KindFailure
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// MessageOf returns the user-facing message carried by err.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Problem is the error body shape. Embed it in a response type to receive
// validation results on the success path.
type Problem struct {
	Message string          `json:"message,omitempty" yaml:"message,omitempty"`
	Reason  string          `json:"error,omitempty" yaml:"error,omitempty"`
	Details json.RawMessage `json:"details,omitempty" yaml:"-"`
}

// Invalid reports whether the payload was a validation response.
func (p Problem) Invalid() bool {
	return p.Message != "" || p.Reason != "" || len(p.Details) > 0
}

// Text is the best human-readable summary of the problem.
func (p Problem) Text() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Reason
}

// serverMessage extracts {"message": "..."} from an error body.
func serverMessage(body []byte) string {
	var p struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return ""
	}
	return p.Message
}
