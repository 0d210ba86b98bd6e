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
	"testing"
)

func TestError_Error(t *testing.T) {
	cause := errors.New("disk on fire")
	tests := []struct {
		name string
		err  Error
		want string
	}{
		{
			name: "code only",
			err:  Error{code: ErrorCodeElementNotFound},
			want: "ELEMENT_NOT_FOUND",
		},
		{
			name: "with detail",
			err:  ErrorCodeElementNotFound.WithDetail("element 99"),
			want: "ELEMENT_NOT_FOUND: element 99",
		},
		{
			name: "with detail, error and remediation",
			err:  ErrorCodeGraphWalkFailed.WithDetail("sha256:abc").WithError(cause).WithRemediation("check the layout"),
			want: "ARTIFACT_GRAPH_WALK_FAILED: sha256:abc: disk on fire: check the layout",
		},
		{
			name: "unregistered code",
			err:  Error{code: ErrorCode(1)},
			want: "UNKNOWN",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	notFound := ErrorCodeElementNotFound.WithDetail("generic")
	err := fmt.Errorf("lookup failed: %w", ErrorCodeElementNotFound.WithDetail(42))

	if !errors.Is(err, notFound) {
		t.Errorf("errors.Is() = false, want true for the same code")
	}
	if errors.Is(err, ErrorCodeGraphWalkFailed.WithDetail("generic")) {
		t.Errorf("errors.Is() = true, want false for a different code")
	}
	if errors.Is(err, errors.New("ELEMENT_NOT_FOUND")) {
		t.Errorf("errors.Is() = true, want false for a plain error")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := ErrorCodeGraphWalkFailed.WithError(cause)
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false, want true")
	}
	var e Error
	if !errors.As(fmt.Errorf("wrapped: %w", err), &e) {
		t.Fatalf("errors.As() = false, want true")
	}
	if e.Code() != ErrorCodeGraphWalkFailed {
		t.Errorf("Code() = %v, want %v", e.Code(), ErrorCodeGraphWalkFailed)
	}
}

func TestRegister_DuplicateValue_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected to panic")
		}
	}()
	Register(ErrorDescriptor{Value: "ELEMENT_NOT_FOUND"})
}

func TestErrorCode_String(t *testing.T) {
	if got := ErrorCodeInvalidBenchmarkConfig.String(); got != "INVALID_BENCHMARK_CONFIG" {
		t.Errorf("String() = %q, want %q", got, "INVALID_BENCHMARK_CONFIG")
	}
}
