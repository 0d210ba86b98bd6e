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

// Package ocigraph splits the manifests of an OCI content store into
// connected artifact graphs, such as an image index together with its
// platform images and their signatures and SBOMs.
package ocigraph

import (
	"context"
	"fmt"

	disjointset "github.com/fwilliams/disjoint-set"
	"github.com/fwilliams/disjoint-set/internal/errors"
	"github.com/fwilliams/disjoint-set/internal/set"
	"github.com/fwilliams/disjoint-set/internal/stack"
	"github.com/fwilliams/disjoint-set/internal/syncutil"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry"
)

// defaultConcurrency is the number of nodes whose neighbours are fetched at
// once when PartitionOptions.Concurrency is not set.
const defaultConcurrency = 4

// Docker media types that are manifests but are not defined by image-spec.
const (
	mediaTypeDockerManifest     = "application/vnd.docker.distribution.manifest.v2+json"
	mediaTypeDockerManifestList = "application/vnd.docker.distribution.manifest.list.v2+json"
)

// PartitionOptions configures a [Partitioner].
type PartitionOptions struct {
	// Concurrency is the maximum number of concurrent storage reads.
	// Optional. Defaults to 4.
	Concurrency int

	// ArtifactTypes restricts the referrers that are followed to the given
	// artifact types. Empty means all referrers are followed. Subjects and
	// index relations are always followed. Optional.
	ArtifactTypes []string
}

// Partitioner groups manifests of a content storage by their relations:
// index to child manifest, referrer to subject.
type Partitioner struct {
	storage       content.ReadOnlyGraphStorage
	concurrency   int
	artifactTypes set.Set[string]
}

// NewPartitioner creates a [Partitioner] reading from storage.
func NewPartitioner(storage content.ReadOnlyGraphStorage, opts PartitionOptions) *Partitioner {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Partitioner{
		storage:       storage,
		concurrency:   concurrency,
		artifactTypes: set.New(opts.ArtifactTypes...),
	}
}

// neighbours are the manifests directly related to node.
type neighbours struct {
	node    ocispec.Descriptor
	related []ocispec.Descriptor
}

// Partition walks the storage from roots and returns the manifests reached,
// grouped into artifact graphs. Roots that are not manifests are ignored.
//
// Blobs never join the partition: two artifacts sharing a config or layer
// stay apart unless a manifest relation connects them.
func (p *Partitioner) Partition(ctx context.Context, roots ...ocispec.Descriptor) (*Partition, error) {
	part := newPartition()
	var pending stack.Stack[ocispec.Descriptor]
	for _, root := range roots {
		if isManifest(root) && part.add(root) {
			pending.Push(root)
		}
	}

	for !pending.IsEmpty() {
		results, err := p.fetchNeighbours(ctx, pending.Drain())
		if err != nil {
			return nil, err
		}
		// All mutation of the partition happens here, on the calling
		// goroutine.
		for _, r := range results {
			for _, desc := range r.related {
				if part.add(desc) {
					pending.Push(desc)
				}
				part.sets.Union(r.node.Digest, desc.Digest)
			}
		}
	}
	return part, nil
}

// fetchNeighbours reads the neighbours of every node in batch concurrently.
// Results are in batch order.
func (p *Partitioner) fetchNeighbours(ctx context.Context, batch []ocispec.Descriptor) ([]neighbours, error) {
	pool, poolCtx := syncutil.NewWorkerPool[neighbours](ctx, p.concurrency)
	for _, node := range batch {
		node := node
		err := pool.Go(func() (neighbours, error) {
			related, err := p.related(poolCtx, node)
			return neighbours{node: node, related: related}, err
		})
		if err != nil {
			// drain the running tasks; the submission error is reported.
			pool.Wait()
			return nil, err
		}
	}
	return pool.Wait()
}

// related returns the manifests adjacent to node: its subject, its index
// children, the indexes listing it and its referrers.
func (p *Partitioner) related(ctx context.Context, node ocispec.Descriptor) ([]ocispec.Descriptor, error) {
	var related []ocispec.Descriptor

	successors, err := content.Successors(ctx, p.storage, node)
	if err != nil {
		return nil, walkError(node, "failed to fetch successors", err)
	}
	for _, desc := range successors {
		if isManifest(desc) {
			related = append(related, desc)
		}
	}

	predecessors, err := p.storage.Predecessors(ctx, node)
	if err != nil {
		return nil, walkError(node, "failed to fetch predecessors", err)
	}
	for _, desc := range predecessors {
		if isIndex(desc) {
			related = append(related, desc)
		}
	}

	referrers, err := registry.Referrers(ctx, p.storage, node, "")
	if err != nil {
		return nil, walkError(node, "failed to list referrers", err)
	}
	for _, desc := range referrers {
		if p.artifactTypes.Len() > 0 && !p.artifactTypes.Contains(desc.ArtifactType) {
			continue
		}
		related = append(related, desc)
	}
	return related, nil
}

// Partition is the outcome of [Partitioner.Partition].
type Partition struct {
	sets  *disjointset.DisjointSet[digest.Digest]
	nodes map[digest.Digest]ocispec.Descriptor
	order []digest.Digest
}

func newPartition() *Partition {
	return &Partition{
		sets:  disjointset.New[digest.Digest](),
		nodes: make(map[digest.Digest]ocispec.Descriptor),
	}
}

// add records desc and reports whether it was seen for the first time.
func (p *Partition) add(desc ocispec.Descriptor) bool {
	if !p.sets.Insert(desc.Digest) {
		return false
	}
	p.nodes[desc.Digest] = desc
	p.order = append(p.order, desc.Digest)
	return true
}

// Count returns the number of artifact graphs.
func (p *Partition) Count() int {
	return p.sets.SetCount()
}

// Len returns the number of manifests reached.
func (p *Partition) Len() int {
	return p.sets.Len()
}

// Representative returns the descriptor representing the artifact graph of
// the manifest dgst.
func (p *Partition) Representative(dgst digest.Digest) (ocispec.Descriptor, error) {
	rep, err := p.sets.Find(dgst)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	return p.nodes[rep], nil
}

// Related reports whether manifests a and b belong to the same artifact
// graph.
func (p *Partition) Related(a, b digest.Digest) (bool, error) {
	return p.sets.Connected(a, b)
}

// Groups returns the artifact graphs. Groups, and the manifests within
// each group, are ordered by discovery.
func (p *Partition) Groups() [][]ocispec.Descriptor {
	var groups [][]ocispec.Descriptor
	groupOf := make(map[digest.Digest]int, p.Count())
	for _, dgst := range p.order {
		rep := p.sets.MustFind(dgst)
		i, ok := groupOf[rep]
		if !ok {
			i = len(groups)
			groupOf[rep] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], p.nodes[dgst])
	}
	return groups
}

func isManifest(desc ocispec.Descriptor) bool {
	switch desc.MediaType {
	case ocispec.MediaTypeImageManifest, mediaTypeDockerManifest:
		return true
	}
	return isIndex(desc)
}

func isIndex(desc ocispec.Descriptor) bool {
	switch desc.MediaType {
	case ocispec.MediaTypeImageIndex, mediaTypeDockerManifestList:
		return true
	}
	return false
}

func walkError(node ocispec.Descriptor, msg string, err error) error {
	return errors.ErrorCodeGraphWalkFailed.WithDetail(fmt.Sprintf("%s of %s", msg, node.Digest)).WithError(err)
}
