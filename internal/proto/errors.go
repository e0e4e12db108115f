package proto

import "fmt"

type DecodeErrorKind int

const (
	// KindMalformed: the datagram is not valid structured data at all.
	KindMalformed DecodeErrorKind = iota
	// KindMissingField: a known variant arrived without a required payload field.
	KindMissingField
)

// DecodeError describes why an inbound datagram could not be decoded. It is
// always recoverable: the receive loop reports it and keeps reading.
type DecodeError struct {
	Kind   DecodeErrorKind
	MsgTag string // server message tag, when the envelope got that far
	Field  string // missing field name (KindMissingField only)

	cause error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("proto: decode %s: missing field %q", e.MsgTag, e.Field)
	default:
		if e.MsgTag != "" {
			return fmt.Sprintf("proto: decode %s: malformed payload: %v", e.MsgTag, e.cause)
		}
		return fmt.Sprintf("proto: malformed datagram: %v", e.cause)
	}
}

func (e *DecodeError) Unwrap() error { return e.cause }

func missingField(tag, field string) *DecodeError {
	return &DecodeError{Kind: KindMissingField, MsgTag: tag, Field: field}
}
