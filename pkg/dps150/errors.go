// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Voltbench

package dps150

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the encoder and session.
var (
	// ErrPayloadTooLarge is returned when a payload exceeds the one-byte
	// length field.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrClosed is returned for operations on a closed session.
	ErrClosed = errors.New("session closed")

	// ErrOutOfRange is returned when a caller-supplied argument is outside
	// the protocol's accepted range. The request is rejected before any I/O.
	ErrOutOfRange = errors.New("value out of range")
)

// DecodeError reports a field payload that could not be mapped to a
// snapshot value. It is local to the offending field: other fields in the
// same bulk frame still decode.
type DecodeError struct {
	FieldID byte
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("field 0x%02X: %s", e.FieldID, e.Message)
}

func decodeErrorf(fieldID byte, format string, args ...interface{}) *DecodeError {
	return &DecodeError{FieldID: fieldID, Message: fmt.Sprintf(format, args...)}
}
