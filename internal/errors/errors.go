// Copyright Project Contour Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errors defines the SDK's error taxonomy. Construction-time
// errors surface to the caller unchanged; runtime errors are wrapped
// here so callers can branch on Kind without parsing message text.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an SDK error. See spec §7.
type Kind string

const (
	SchemaNotFound     Kind = "SchemaNotFound"
	SchemaParseError   Kind = "SchemaParseError"
	TypeHashMismatch   Kind = "TypeHashMismatch"
	SerializationError Kind = "SerializationError"
	TransportError     Kind = "TransportError"
	ProtocolError      Kind = "ProtocolError"
	CallbackError      Kind = "CallbackError"
	Timeout            Kind = "Timeout"
)

// Error is an SDK error carrying a Kind for caller dispatch plus an
// optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
