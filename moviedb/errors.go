package moviedb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrMalformedResponse matches every error caused by a payload that could not be decoded
	// into the expected shape.
	ErrMalformedResponse = errors.New("moviedb: malformed response")
	// ErrMissingField matches errors caused by a required key being absent from a payload.
	ErrMissingField = errors.New("moviedb: missing field")
	// ErrOutOfRange is returned when indexing a page outside of its results.
	ErrOutOfRange = errors.New("moviedb: index out of range")
)

// FieldError reports a payload that did not match the shape of Object. Field is empty when
// the payload as a whole could not be decoded. Err is nil when Field was missing.
type FieldError struct {
	Object string
	Field  string
	Err    error
}

func (err *FieldError) Error() string {
	switch {
	case err.Field == "":
		return fmt.Sprintf("moviedb: malformed %s: %v", err.Object, err.Err)
	case err.Err == nil:
		return fmt.Sprintf("moviedb: %s is missing required field %q", err.Object, err.Field)
	default:
		return fmt.Sprintf("moviedb: %s has malformed field %q: %v", err.Object, err.Field, err.Err)
	}
}

func (err *FieldError) Unwrap() []error {
	errs := []error{ErrMalformedResponse}
	if err.Err == nil {
		return append(errs, ErrMissingField)
	}

	return append(errs, err.Err)
}

// RequestError is the error payload TMDB returns alongside a non-2xx status code.
type RequestError struct {
	StatusMessage string `json:"status_message"`
	StatusCode    int    `json:"status_code"`
	Success       *bool  `json:"success,omitempty"`

	// HTTPStatus is the status code of the HTTP response itself.
	HTTPStatus int `json:"-"`
}

func (err *RequestError) Error() string {
	return fmt.Sprintf("moviedb: %s (status_code=%d)", err.StatusMessage, err.StatusCode)
}

// maxErrorBodySize bounds how much of an error response is read. TMDB error payloads are a
// handful of short fields.
const maxErrorBodySize = 8 << 10

// newRequestError reads the error payload from resp. The caller closes the body.
func newRequestError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return err
	}

	fields, err := newObjectFields("error response", body)
	if err != nil {
		return err
	}

	reqErr := &RequestError{HTTPStatus: resp.StatusCode}
	err = fields.decode(
		required("status_message", &reqErr.StatusMessage),
		required("status_code", &reqErr.StatusCode),
		optional("success", &reqErr.Success),
	)
	if err != nil {
		return err
	}

	return reqErr
}

var errUnexpectedNull = errors.New("unexpected null")

type fieldSpec struct {
	name     string
	dst      any
	optional bool
	nullable bool
}

func required(name string, dst any) fieldSpec {
	return fieldSpec{name: name, dst: dst}
}

func nullable(name string, dst any) fieldSpec {
	return fieldSpec{name: name, dst: dst, nullable: true}
}

func optional(name string, dst any) fieldSpec {
	return fieldSpec{name: name, dst: dst, optional: true, nullable: true}
}

// objectFields holds the raw members of a JSON object so that each one can be checked for
// presence before being decoded.
type objectFields struct {
	object string
	raw    map[string]json.RawMessage
}

func newObjectFields(object string, data []byte) (objectFields, error) {
	of := objectFields{object: object}
	if err := json.Unmarshal(data, &of.raw); err != nil {
		return of, &FieldError{Object: object, Err: err}
	}
	if of.raw == nil {
		return of, &FieldError{Object: object, Err: errors.New("expected object, got null")}
	}

	return of, nil
}

func (of objectFields) decode(specs ...fieldSpec) error {
	for _, spec := range specs {
		raw, ok := of.raw[spec.name]
		if !ok {
			if spec.optional {
				continue
			}

			return &FieldError{Object: of.object, Field: spec.name}
		}

		if string(raw) == "null" && !spec.nullable {
			return &FieldError{Object: of.object, Field: spec.name, Err: errUnexpectedNull}
		}

		if err := json.Unmarshal(raw, spec.dst); err != nil {
			return &FieldError{Object: of.object, Field: spec.name, Err: err}
		}
	}

	return nil
}
