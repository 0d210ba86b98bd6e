/*
Copyright The Ratify Authors.
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	nextCode     = 1000
	registerLock sync.Mutex
)

var errorCodeToDescriptors = map[ErrorCode]ErrorDescriptor{}

// ErrorCode identifies a class of failure. Codes are compared by value and
// rendered through their descriptor; the integer itself is never exported.
type ErrorCode int

// Error is an ErrorCode decorated with a detail, an optional wrapped error
// and an optional remediation hint.
type Error struct {
	code          ErrorCode
	detail        any
	originalError error
	remediation   string
}

// ErrorDescriptor provides relevant information about a given error code.
type ErrorDescriptor struct {
	// Code is the error code that this descriptor describes.
	Code ErrorCode

	// Value is a unique upper-case key, such as ELEMENT_NOT_FOUND, used as
	// the prefix of rendered messages.
	Value string

	// Description explains when the error is returned.
	Description string
}

// Descriptor returns the descriptor for the error code.
func (ec ErrorCode) Descriptor() ErrorDescriptor {
	d, ok := errorCodeToDescriptors[ec]
	if !ok {
		return errorCodeToDescriptors[ErrorCodeUnknown]
	}
	return d
}

// String returns the descriptor value of the code.
func (ec ErrorCode) String() string {
	return ec.Descriptor().Value
}

// WithDetail returns a new Error with the given detail.
func (ec ErrorCode) WithDetail(detail any) Error {
	return Error{code: ec}.WithDetail(detail)
}

// WithError returns a new Error wrapping err.
func (ec ErrorCode) WithError(err error) Error {
	return Error{code: ec}.WithError(err)
}

// Code returns the error code of e.
func (e Error) Code() ErrorCode {
	return e.code
}

// Is reports whether target is an Error carrying the same code.
func (e Error) Is(target error) bool {
	var t Error
	if errors.As(target, &t) {
		return e.code == t.code
	}
	return false
}

// Unwrap returns the wrapped error, if any.
func (e Error) Unwrap() error {
	return e.originalError
}

// Error renders the code value followed by the detail, the wrapped error and
// the remediation, separated by ": ".
func (e Error) Error() string {
	var parts []string
	if e.detail != nil {
		parts = append(parts, fmt.Sprintf("%v", e.detail))
	}
	if e.originalError != nil {
		parts = append(parts, e.originalError.Error())
	}
	if e.remediation != "" {
		parts = append(parts, e.remediation)
	}
	if len(parts) == 0 {
		return e.code.Descriptor().Value
	}
	return fmt.Sprintf("%s: %s", e.code.Descriptor().Value, strings.Join(parts, ": "))
}

// Detail returns the detail attached to e.
func (e Error) Detail() any {
	return e.detail
}

// WithDetail returns a copy of e with the detail replaced.
func (e Error) WithDetail(detail any) Error {
	e.detail = detail
	return e
}

// WithError returns a copy of e wrapping err.
func (e Error) WithError(err error) Error {
	e.originalError = err
	return e
}

// WithRemediation returns a copy of e with a remediation hint.
func (e Error) WithRemediation(remediation string) Error {
	e.remediation = remediation
	return e
}

// Register makes the descriptor known and returns its newly allocated code.
// It panics if the descriptor value has already been registered.
func Register(descriptor ErrorDescriptor) ErrorCode {
	registerLock.Lock()
	defer registerLock.Unlock()

	for _, d := range errorCodeToDescriptors {
		if d.Value == descriptor.Value {
			panic(fmt.Sprintf("error value %s is already registered", descriptor.Value))
		}
	}

	descriptor.Code = ErrorCode(nextCode)
	errorCodeToDescriptors[descriptor.Code] = descriptor
	nextCode++
	return descriptor.Code
}
