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

var (
	// ErrorCodeUnknown is the fallback for codes without a descriptor.
	ErrorCodeUnknown = Register(ErrorDescriptor{
		Value:       "UNKNOWN",
		Description: "An unknown error occurred.",
	})

	// ErrorCodeElementNotFound is returned when an operation references an
	// element that was never inserted into the disjoint set.
	ErrorCodeElementNotFound = Register(ErrorDescriptor{
		Value:       "ELEMENT_NOT_FOUND",
		Description: "The element was never inserted into the disjoint set.",
	})

	// ErrorCodeInvalidBenchmarkConfig is returned when a benchmark
	// configuration is rejected before running.
	ErrorCodeInvalidBenchmarkConfig = Register(ErrorDescriptor{
		Value:       "INVALID_BENCHMARK_CONFIG",
		Description: "The benchmark configuration is invalid.",
	})

	// ErrorCodeGraphWalkFailed is returned when successors or predecessors
	// of an OCI node cannot be read from the content storage.
	ErrorCodeGraphWalkFailed = Register(ErrorDescriptor{
		Value:       "ARTIFACT_GRAPH_WALK_FAILED",
		Description: "Reading the artifact graph from the content storage failed.",
	})
)
