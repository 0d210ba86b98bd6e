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

// Package bench times inserts, random unions and random finds against a
// disjoint set.
package bench

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	disjointset "github.com/fwilliams/disjoint-set"
	"github.com/sirupsen/logrus"
)

// checkInterval is the number of operations between context checks.
const checkInterval = 1 << 16

// Run executes the benchmark described by cfg.
//
// A find on an element that was never inserted aborts the run with an error
// matching [disjointset.ErrElementNotFound].
func Run(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	sampleRange := cfg.sampleRange()

	stats := &Stats{
		Elements: cfg.Elements,
		Unions:   cfg.Unions,
		Finds:    cfg.Finds,
		Seed:     seed,
	}
	if cfg.RecordLatency {
		stats.InsertLatency = newLatencyHistogram()
		stats.UnionLatency = newLatencyHistogram()
		stats.FindLatency = newLatencyHistogram()
	}

	sets := disjointset.NewWithCapacity[int](cfg.Elements)

	log.WithFields(logrus.Fields{"elements": cfg.Elements}).Info("Inserting elements...")
	start := time.Now()
	for i := 0; i < cfg.Elements; i++ {
		if err := checkContext(ctx, i); err != nil {
			return nil, err
		}
		if stats.InsertLatency != nil {
			t := time.Now()
			sets.Insert(i)
			recordLatency(stats.InsertLatency, time.Since(t))
		} else {
			sets.Insert(i)
		}
	}
	stats.InsertTime = time.Since(start)
	log.WithField("elapsed", stats.InsertTime).Debug("Inserted elements")

	log.WithFields(logrus.Fields{"unions": cfg.Unions, "range": sampleRange}).Info("Performing unions...")
	start = time.Now()
	for i := 0; i < cfg.Unions; i++ {
		if err := checkContext(ctx, i); err != nil {
			return nil, err
		}
		a, b := rng.IntN(sampleRange), rng.IntN(sampleRange)
		var merged bool
		var err error
		if stats.UnionLatency != nil {
			t := time.Now()
			merged, err = sets.Merge(a, b)
			recordLatency(stats.UnionLatency, time.Since(t))
		} else {
			merged, err = sets.Merge(a, b)
		}
		switch {
		case err != nil:
			stats.UnknownUnions++
			stats.FailedUnions++
		case !merged:
			stats.FailedUnions++
		}
	}
	stats.UnionTime = time.Since(start)
	log.WithFields(logrus.Fields{"elapsed": stats.UnionTime, "failed": stats.FailedUnions}).Debug("Performed unions")

	log.WithFields(logrus.Fields{"finds": cfg.Finds}).Info("Performing finds...")
	start = time.Now()
	for i := 0; i < cfg.Finds; i++ {
		if err := checkContext(ctx, i); err != nil {
			return nil, err
		}
		v := rng.IntN(sampleRange)
		var err error
		if stats.FindLatency != nil {
			t := time.Now()
			_, err = sets.Find(v)
			recordLatency(stats.FindLatency, time.Since(t))
		} else {
			_, err = sets.Find(v)
		}
		if err != nil {
			return nil, fmt.Errorf("find %d of %d failed: %w", i+1, cfg.Finds, err)
		}
	}
	stats.FindTime = time.Since(start)
	log.WithField("elapsed", stats.FindTime).Debug("Performed finds")

	stats.Sets = sets.SetCount()
	return stats, nil
}

func checkContext(ctx context.Context, i int) error {
	if i%checkInterval != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("benchmark interrupted: %w", err)
	}
	return nil
}
