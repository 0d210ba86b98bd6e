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

package stack

// Stack is a generic LIFO work stack. It is not safe for concurrent use.
type Stack[T any] struct {
	items []T
}

// Push pushes items to the stack. The last item is popped first.
func (s *Stack[T]) Push(items ...T) {
	s.items = append(s.items, items...)
}

// TryPop pops an item from the stack.
// Returns the popped item and true if successful, zero value and false if empty.
func (s *Stack[T]) TryPop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	last := len(s.items) - 1
	t := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return t, true
}

// Drain pops every item in LIFO order and leaves the stack empty.
func (s *Stack[T]) Drain() []T {
	n := len(s.items)
	out := make([]T, n)
	for i := range out {
		out[i] = s.items[n-1-i]
	}
	s.items = s.items[:0]
	return out
}

// Len returns the number of elements in the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// IsEmpty returns true if the stack is empty.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}
