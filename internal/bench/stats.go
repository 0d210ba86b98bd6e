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

package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// maxTrackedLatency bounds the latency histograms. Slower operations are
// recorded at the bound.
const maxTrackedLatency = 10 * time.Second

// Stats summarizes a benchmark run.
type Stats struct {
	Elements int
	Unions   int
	Finds    int
	Seed     uint64

	// FailedUnions counts unions that merged nothing, including
	// UnknownUnions.
	FailedUnions int
	// UnknownUnions counts unions with an argument that was never inserted.
	UnknownUnions int
	// Sets is the number of disjoint sets after the run.
	Sets int

	InsertTime time.Duration
	UnionTime  time.Duration
	FindTime   time.Duration

	// Per-operation latency in nanoseconds. Nil unless latency recording
	// was enabled.
	InsertLatency *hdrhistogram.Histogram
	UnionLatency  *hdrhistogram.Histogram
	FindLatency   *hdrhistogram.Histogram
}

func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, int64(maxTrackedLatency), 3)
}

func recordLatency(h *hdrhistogram.Histogram, d time.Duration) {
	ns := d.Nanoseconds()
	if ns > h.HighestTrackableValue() {
		ns = h.HighestTrackableValue()
	}
	// ns is within the trackable range, so recording cannot fail.
	_ = h.RecordValue(ns)
}

// Print writes the summary table, followed by the latency percentiles when
// they were recorded.
func (s *Stats) Print(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value", "Per operation"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.AppendBulk([][]string{
		{"Num elements", humanize.Comma(int64(s.Elements)), ""},
		{"Num unions", humanize.Comma(int64(s.Unions)), ""},
		{"Num finds", humanize.Comma(int64(s.Finds)), ""},
		{"Insert time", micros(s.InsertTime), perOp(s.InsertTime, s.Elements, "insert")},
		{"Union time", micros(s.UnionTime), perOp(s.UnionTime, s.Unions, "union")},
		{"Find time", micros(s.FindTime), perOp(s.FindTime, s.Finds, "find")},
		{"Failed union", humanize.Comma(int64(s.FailedUnions)), fmt.Sprintf("%s unknown", humanize.Comma(int64(s.UnknownUnions)))},
		{"Num sets", humanize.Comma(int64(s.Sets)), ""},
	})
	table.Render()

	if s.InsertLatency == nil {
		return
	}
	latency := tablewriter.NewWriter(w)
	latency.SetHeader([]string{"Operation", "p50", "p99", "p99.9", "Max"})
	latency.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, row := range []struct {
		name string
		h    *hdrhistogram.Histogram
	}{
		{"insert", s.InsertLatency},
		{"union", s.UnionLatency},
		{"find", s.FindLatency},
	} {
		latency.Append([]string{
			row.name,
			nanos(row.h.ValueAtQuantile(50)),
			nanos(row.h.ValueAtQuantile(99)),
			nanos(row.h.ValueAtQuantile(99.9)),
			nanos(row.h.Max()),
		})
	}
	latency.Render()
}

func micros(d time.Duration) string {
	return humanize.Comma(d.Microseconds()) + " us"
}

func nanos(v int64) string {
	return humanize.Comma(v) + " ns"
}

func perOp(d time.Duration, n int, op string) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%.4f us/%s", float64(d.Nanoseconds())/1e3/float64(n), op)
}
