package api

import (
	"net/mail"
	"sort"
	"strings"
)

// FieldError is one failed input rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects client-side input failures before a request is sent.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Message returns the first message for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validator accumulates field errors; the zero value is ready to use.
type Validator struct {
	fields []FieldError
}

func (v *Validator) Add(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *Validator) Required(field, value, message string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, message)
	}
}

func (v *Validator) MinLen(field, value string, n int, message string) {
	if len(value) < n {
		v.Add(field, message)
	}
}

func (v *Validator) Email(field, value, message string) {
	if !IsEmail(value) {
		v.Add(field, message)
	}
}

func (v *Validator) Min(field string, value, min float64, message string) {
	if value < min {
		v.Add(field, message)
	}
}

func (v *Validator) OneOf(field, value string, allowed []string, message string) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	v.Add(field, message)
}

// Err returns nil when nothing failed. Fields are ordered by name so output
// is stable.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	out := append([]FieldError(nil), v.fields...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return &ValidationError{Fields: out}
}

// IsEmail accepts a bare address with a dotted domain.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
