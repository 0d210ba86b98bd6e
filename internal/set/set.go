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

package set

// Set is a generic set backed by a map with empty struct values.
type Set[E comparable] map[E]struct{}

// New returns a set holding elems.
func New[E comparable](elems ...E) Set[E] {
	s := make(Set[E], len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e and reports whether it was not already present.
func (s Set[E]) Add(e E) bool {
	if _, ok := s[e]; ok {
		return false
	}
	s[e] = struct{}{}
	return true
}

// Contains reports whether e is in the set.
func (s Set[E]) Contains(e E) bool {
	_, ok := s[e]
	return ok
}

// Len returns the number of elements.
func (s Set[E]) Len() int {
	return len(s)
}
