package apiclient

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Normalize strips the envelope from a 2xx response and decodes the body as T.
func Normalize[T any](env *Envelope) (T, error) {
	var zero T
	if !env.OK() {
		return zero, fmt.Errorf("normalize: status %d is not a success", env.Status)
	}
	return decodeInto[T](env.Body)
}

// decodeInto decodes JSON into T. An empty body yields the zero value. A
// non-JSON body is accepted verbatim when T is a string or implements
// encoding.TextUnmarshaler.
func decodeInto[T any](body []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		switch p := any(&out).(type) {
		case *string:
			*p = string(body)
			return out, nil
		case encoding.TextUnmarshaler:
			if terr := p.UnmarshalText(body); terr == nil {
				return out, nil
			}
		}
		return out, fmt.Errorf("decode body: %w", err)
	}
	return out, nil
}

var problemType = reflect.TypeOf(Problem{})

// decodeValidation is decodeInto for 400 bodies, which always resolve. A body
// that does not decode yields zero T, with the trimmed text as the message
// when T is or embeds Problem.
func decodeValidation[T any](body []byte) T {
	out, err := decodeInto[T](body)
	if err == nil {
		return out
	}
	var zero T
	text := strings.TrimSpace(string(body))
	v := reflect.ValueOf(&zero).Elem()
	switch {
	case v.Type() == problemType:
		v.FieldByName("Message").SetString(text)
	case v.Kind() == reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if f.Anonymous && f.Type == problemType {
				v.Field(i).FieldByName("Message").SetString(text)
				break
			}
		}
	}
	return zero
}
