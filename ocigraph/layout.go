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

package ocigraph

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/fwilliams/disjoint-set/internal/set"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/registry"
)

// TaggedStorage is a storage that can enumerate and resolve its tags, such
// as an OCI image layout.
type TaggedStorage interface {
	content.Resolver
	registry.TagLister
}

// OpenLayout opens the OCI image layout in fsys for reading.
func OpenLayout(ctx context.Context, fsys fs.FS) (*oci.ReadOnlyStore, error) {
	store, err := oci.NewFromFS(ctx, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCI image layout: %w", err)
	}
	return store, nil
}

// OpenLayoutTar opens the OCI image layout tarball at path for reading.
func OpenLayoutTar(ctx context.Context, path string) (*oci.ReadOnlyStore, error) {
	store, err := oci.NewFromTar(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OCI image layout tarball %s: %w", path, err)
	}
	return store, nil
}

// TaggedRoots resolves every tag of storage. Descriptors are returned in tag
// order and a manifest carrying several tags appears once.
func TaggedRoots(ctx context.Context, storage TaggedStorage) ([]ocispec.Descriptor, error) {
	var tags []string
	err := storage.Tags(ctx, "", func(page []string) error {
		tags = append(tags, page...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	var roots []ocispec.Descriptor
	seen := set.New[digest.Digest]()
	for _, tag := range tags {
		desc, err := storage.Resolve(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag %s: %w", tag, err)
		}
		if seen.Add(desc.Digest) {
			roots = append(roots, desc)
		}
	}
	return roots, nil
}
