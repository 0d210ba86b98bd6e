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
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/opencontainers/go-digest"
	specs "github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
)

const (
	artifactTypeSignature = "application/vnd.example.signature.v1"
	artifactTypeSBOM      = "application/vnd.example.sbom.v1+json"
)

// graphFixture is a small content graph:
//
//	index ──► imageAmd64 ◄── signature
//	  │             ▲
//	  │             └────── sbom ◄── sbomSignature
//	  └──► imageArm64
//
//	imageB                  (shares no manifest relation)
//	artifactC               (shares only the empty config blob)
type graphFixture struct {
	blobs map[digest.Digest][]byte
	// manifests lists every manifest in push order.
	manifests []ocispec.Descriptor
	tags      map[string]ocispec.Descriptor

	index, imageAmd64, imageArm64  ocispec.Descriptor
	signature, sbom, sbomSignature ocispec.Descriptor
	imageB, artifactC              ocispec.Descriptor
}

func newGraphFixture(t *testing.T) *graphFixture {
	t.Helper()
	f := &graphFixture{
		blobs: make(map[digest.Digest][]byte),
		tags:  make(map[string]ocispec.Descriptor),
	}
	empty := f.blob(ocispec.MediaTypeEmptyJSON, []byte(`{}`))

	image := func(arch string) ocispec.Descriptor {
		config := f.blob(ocispec.MediaTypeImageConfig, []byte(`{"architecture":"`+arch+`","os":"linux"}`))
		layer := f.blob(ocispec.MediaTypeImageLayer, []byte("layer-"+arch))
		return f.manifest(t, ocispec.Manifest{
			MediaType: ocispec.MediaTypeImageManifest,
			Config:    config,
			Layers:    []ocispec.Descriptor{layer},
		})
	}
	artifact := func(artifactType, payload string, subject *ocispec.Descriptor) ocispec.Descriptor {
		layer := f.blob("application/octet-stream", []byte(payload))
		return f.manifest(t, ocispec.Manifest{
			MediaType:    ocispec.MediaTypeImageManifest,
			ArtifactType: artifactType,
			Config:       empty,
			Layers:       []ocispec.Descriptor{layer},
			Subject:      subject,
		})
	}

	f.imageAmd64 = image("amd64")
	f.imageArm64 = image("arm64")
	f.index = f.indexManifest(t, f.imageAmd64, f.imageArm64)
	f.signature = artifact(artifactTypeSignature, "sig-a", &f.imageAmd64)
	f.sbom = artifact(artifactTypeSBOM, "sbom-a", &f.imageAmd64)
	f.sbomSignature = artifact(artifactTypeSignature, "sig-sbom-a", &f.sbom)
	f.imageB = image("riscv64")
	f.artifactC = artifact("application/vnd.example.note", "note", nil)

	f.tags["v1"] = f.index
	f.tags["b"] = f.imageB
	f.tags["b-latest"] = f.imageB
	f.tags["c"] = f.artifactC
	return f
}

func (f *graphFixture) blob(mediaType string, data []byte) ocispec.Descriptor {
	desc := content.NewDescriptorFromBytes(mediaType, data)
	f.blobs[desc.Digest] = data
	return desc
}

func (f *graphFixture) manifest(t *testing.T, m ocispec.Manifest) ocispec.Descriptor {
	t.Helper()
	m.Versioned = specs.Versioned{SchemaVersion: 2}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	desc := f.blob(m.MediaType, data)
	desc.ArtifactType = m.ArtifactType
	f.manifests = append(f.manifests, desc)
	return desc
}

func (f *graphFixture) indexManifest(t *testing.T, manifests ...ocispec.Descriptor) ocispec.Descriptor {
	t.Helper()
	idx := ocispec.Index{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageIndex,
		Manifests: manifests,
	}
	data, err := json.Marshal(idx)
	if err != nil {
		t.Fatalf("failed to marshal index: %v", err)
	}
	desc := f.blob(idx.MediaType, data)
	f.manifests = append(f.manifests, desc)
	return desc
}

// memoryStore pushes every blob and manifest into an in-memory store.
func (f *graphFixture) memoryStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	isManifestDigest := make(map[digest.Digest]bool)
	for _, desc := range f.manifests {
		isManifestDigest[desc.Digest] = true
	}
	for dgst, data := range f.blobs {
		if isManifestDigest[dgst] {
			continue
		}
		desc := ocispec.Descriptor{MediaType: "application/octet-stream", Digest: dgst, Size: int64(len(data))}
		if err := store.Push(ctx, desc, bytes.NewReader(f.blobs[dgst])); err != nil {
			t.Fatalf("failed to push blob %s: %v", dgst, err)
		}
	}
	for _, desc := range f.manifests {
		if err := store.Push(ctx, desc, bytes.NewReader(f.blobs[desc.Digest])); err != nil {
			t.Fatalf("failed to push manifest %s: %v", desc.Digest, err)
		}
	}
	for tag, desc := range f.tags {
		if err := store.Tag(ctx, desc, tag); err != nil {
			t.Fatalf("failed to tag %s: %v", tag, err)
		}
	}
	return store
}

// layoutFS renders the fixture as an OCI image layout.
func (f *graphFixture) layoutFS(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{
		ocispec.ImageLayoutFile: &fstest.MapFile{
			Data: []byte(`{"imageLayoutVersion":"1.0.0"}`),
		},
	}
	for dgst, data := range f.blobs {
		fsys["blobs/"+dgst.Algorithm().String()+"/"+dgst.Encoded()] = &fstest.MapFile{Data: data}
	}

	refNames := make(map[digest.Digest][]string)
	for tag, desc := range f.tags {
		refNames[desc.Digest] = append(refNames[desc.Digest], tag)
	}
	var entries []ocispec.Descriptor
	for _, desc := range f.manifests {
		names := refNames[desc.Digest]
		if len(names) == 0 {
			entries = append(entries, desc)
			continue
		}
		for _, name := range names {
			tagged := desc
			tagged.Annotations = map[string]string{ocispec.AnnotationRefName: name}
			entries = append(entries, tagged)
		}
	}
	idx := ocispec.Index{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: ocispec.MediaTypeImageIndex,
		Manifests: entries,
	}
	data, err := json.Marshal(idx)
	if err != nil {
		t.Fatalf("failed to marshal index.json: %v", err)
	}
	fsys[ocispec.ImageIndexFile] = &fstest.MapFile{Data: data}
	return fsys
}

// digests returns the digests of descs as a set.
func digests(descs []ocispec.Descriptor) map[digest.Digest]bool {
	out := make(map[digest.Digest]bool, len(descs))
	for _, desc := range descs {
		out[desc.Digest] = true
	}
	return out
}
