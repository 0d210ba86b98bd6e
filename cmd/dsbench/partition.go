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

package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/fwilliams/disjoint-set/ocigraph"
	"github.com/olekukonko/tablewriter"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sirupsen/logrus"
	"oras.land/oras-go/v2/content/oci"
)

var (
	partitionCmd           = app.Command("partition", "group the manifests of an OCI image layout into artifact graphs")
	partitionPath          = partitionCmd.Arg("path", "OCI image layout directory, or tarball with --tar").Required().String()
	partitionTar           = partitionCmd.Flag("tar", "read the layout from a tarball").Bool()
	partitionConcurrency   = partitionCmd.Flag("concurrency", "maximum concurrent storage reads").Default("4").Int()
	partitionArtifactTypes = partitionCmd.Flag("artifact-type", "follow only referrers of this artifact type; repeatable").Strings()
)

func partitionFn(ctx context.Context, log logrus.FieldLogger) error {
	var (
		store *oci.ReadOnlyStore
		err   error
	)
	if *partitionTar {
		store, err = ocigraph.OpenLayoutTar(ctx, *partitionPath)
	} else {
		store, err = ocigraph.OpenLayout(ctx, os.DirFS(*partitionPath))
	}
	if err != nil {
		return err
	}

	roots, err := ocigraph.TaggedRoots(ctx, store)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"path": *partitionPath, "roots": len(roots)}).Info("Partitioning layout...")

	partitioner := ocigraph.NewPartitioner(store, ocigraph.PartitionOptions{
		Concurrency:   *partitionConcurrency,
		ArtifactTypes: *partitionArtifactTypes,
	})
	partition, err := partitioner.Partition(ctx, roots...)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"manifests": partition.Len(), "graphs": partition.Count()}).Debug("Partitioned layout")

	printGroups(os.Stdout, partition.Groups())
	return nil
}

// printGroups writes one row per manifest, numbering groups from 1.
func printGroups(w io.Writer, groups [][]ocispec.Descriptor) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Group", "Digest", "Media type", "Artifact type"})
	for i, group := range groups {
		for _, desc := range group {
			table.Append([]string{strconv.Itoa(i + 1), desc.Digest.String(), desc.MediaType, desc.ArtifactType})
		}
	}
	table.Render()
}
