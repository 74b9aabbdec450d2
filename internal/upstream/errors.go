package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies a failed upstream call.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindDecode
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport_error"
	case KindDecode:
		return "decode_error"
	case KindShape:
		return "shape_error"
	default:
		return "unknown_error"
	}
}

// TransportError means the request never produced a readable response:
// DNS, refused connection, cancelled context, or a body that could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the response body was not valid JSON.
type DecodeError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("upstream %s: decode (status %d): %v", e.Op, e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ShapeError means the body was well-formed JSON but not the expected
// envelope, or one of its records had a field that could not be parsed or
// broke a field constraint.
type ShapeError struct {
	Op  string
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("upstream %s: unexpected shape: %v", e.Op, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// KindOf returns the failure class of err, or KindUnknown if err did not
// come from this package.
func KindOf(err error) Kind {
	var transportErr *TransportError
	var decodeErr *DecodeError
	var shapeErr *ShapeError
	switch {
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &shapeErr):
		return KindShape
	default:
		return KindUnknown
	}
}
