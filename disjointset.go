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

// Package disjointset provides a generic disjoint-set (union-find) container
// with union by rank and full path compression.
package disjointset

import (
	"fmt"

	"github.com/fwilliams/disjoint-set/internal/errors"
)

// noParent marks a node that is the root of its set.
const noParent = -1

// node is the membership record of one inserted element.
type node[E comparable] struct {
	value  E
	rank   uint
	parent int // arena index of the parent, or noParent for a root
}

// DisjointSet partitions inserted elements into disjoint sets.
//
// Nodes live in an append-only arena and link to their parents by arena
// index. A node is created once per distinct element and is never removed.
//
// A DisjointSet is not safe for concurrent use. Find mutates the structure
// through path compression, so even concurrent lookups need external
// synchronization.
type DisjointSet[E comparable] struct {
	indexes  map[E]int
	nodes    []node[E]
	setCount int
}

// New creates an empty DisjointSet.
func New[E comparable]() *DisjointSet[E] {
	return NewWithCapacity[E](0)
}

// NewWithCapacity creates an empty DisjointSet with room for n elements.
func NewWithCapacity[E comparable](n int) *DisjointSet[E] {
	if n < 0 {
		n = 0
	}
	return &DisjointSet[E]{
		indexes: make(map[E]int, n),
		nodes:   make([]node[E], 0, n),
	}
}

// Insert adds value as a new single-element set. It returns false, and does
// nothing, if value is already a member.
func (d *DisjointSet[E]) Insert(value E) bool {
	if _, ok := d.indexes[value]; ok {
		return false
	}
	d.indexes[value] = len(d.nodes)
	d.nodes = append(d.nodes, node[E]{
		value:  value,
		parent: noParent,
	})
	d.setCount++
	return true
}

// Union merges the sets containing a and b. It returns true exactly when two
// distinct sets were merged.
//
// A false result means either that a or b was never inserted or that both
// were already in the same set. Use [DisjointSet.Merge] to tell the two
// apart.
func (d *DisjointSet[E]) Union(a, b E) bool {
	merged, _ := d.Merge(a, b)
	return merged
}

// Merge merges the sets containing a and b.
//
// It returns (true, nil) if two sets were merged and (false, nil) if a and b
// were already in the same set. If either element was never inserted, it
// returns an error matching [ErrElementNotFound] and leaves the structure
// untouched.
func (d *DisjointSet[E]) Merge(a, b E) (bool, error) {
	ia, okA := d.indexes[a]
	ib, okB := d.indexes[b]
	switch {
	case !okA && !okB:
		return false, errors.ErrorCodeElementNotFound.WithDetail(fmt.Sprintf("elements %v and %v do not exist", a, b))
	case !okA:
		return false, elementNotFound(a)
	case !okB:
		return false, elementNotFound(b)
	}

	rootA, rootB := d.root(ia), d.root(ib)
	if rootA == rootB {
		return false, nil
	}

	na, nb := &d.nodes[rootA], &d.nodes[rootB]
	switch {
	case na.rank == nb.rank:
		na.parent = rootB
		nb.rank++
	case na.rank < nb.rank:
		na.parent = rootB
	default:
		nb.parent = rootA
	}
	d.setCount--
	return true, nil
}

// Find returns the representative element of the set containing value.
// It returns an error matching [ErrElementNotFound] if value was never
// inserted.
//
// Every node visited on the way to the root is repointed directly at the
// root, so repeated lookups get cheaper.
func (d *DisjointSet[E]) Find(value E) (E, error) {
	i, ok := d.indexes[value]
	if !ok {
		var zero E
		return zero, elementNotFound(value)
	}
	return d.nodes[d.root(i)].value, nil
}

// MustFind is like Find but panics if value was never inserted.
func (d *DisjointSet[E]) MustFind(value E) E {
	rep, err := d.Find(value)
	if err != nil {
		panic(err)
	}
	return rep
}

// Connected reports whether a and b are in the same set.
func (d *DisjointSet[E]) Connected(a, b E) (bool, error) {
	ra, err := d.Find(a)
	if err != nil {
		return false, err
	}
	rb, err := d.Find(b)
	if err != nil {
		return false, err
	}
	return ra == rb, nil
}

// Contains reports whether value has been inserted.
func (d *DisjointSet[E]) Contains(value E) bool {
	_, ok := d.indexes[value]
	return ok
}

// Len returns the number of inserted elements.
func (d *DisjointSet[E]) Len() int {
	return len(d.nodes)
}

// SetCount returns the number of disjoint sets.
func (d *DisjointSet[E]) SetCount() int {
	return d.setCount
}

// root returns the arena index of the root above node i and compresses the
// path from i to it.
func (d *DisjointSet[E]) root(i int) int {
	r := i
	for d.nodes[r].parent != noParent {
		r = d.nodes[r].parent
	}
	for i != r {
		next := d.nodes[i].parent
		d.nodes[i].parent = r
		i = next
	}
	return r
}

func elementNotFound(value any) error {
	return errors.ErrorCodeElementNotFound.WithDetail(fmt.Sprintf("element %v does not exist", value))
}
