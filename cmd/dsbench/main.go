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

// Command dsbench benchmarks the disjoint set and partitions OCI image
// layouts into artifact graphs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fwilliams/disjoint-set/internal/bench"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

var (
	app   = kingpin.New("dsbench", "disjoint-set benchmark and OCI artifact partitioning tool")
	debug = app.Flag("debug", "enable debug logging").Envar("DSBENCH_DEBUG").Bool()
)

var (
	defaults = bench.DefaultConfig()

	benchCmd        = app.Command("bench", "time inserts, random unions and random finds")
	benchConfigPath = benchCmd.Flag("config", "YAML benchmark configuration; flags given on the command line override it").
			Envar("DSBENCH_CONFIG").ExistingFile()
	benchElementsSet, benchUnionsSet, benchFindsSet, benchRangeSet, benchSeedSet, benchLatencySet bool

	benchElements = benchCmd.Flag("elements", "number of elements to insert").
			Envar("DSBENCH_ELEMENTS").Default(strconv.Itoa(defaults.Elements)).IsSetByUser(&benchElementsSet).Int()
	benchUnions = benchCmd.Flag("unions", "number of random unions").
			Envar("DSBENCH_UNIONS").Default(strconv.Itoa(defaults.Unions)).IsSetByUser(&benchUnionsSet).Int()
	benchFinds = benchCmd.Flag("finds", "number of random finds").
			Envar("DSBENCH_FINDS").Default(strconv.Itoa(defaults.Finds)).IsSetByUser(&benchFindsSet).Int()
	benchRange = benchCmd.Flag("range", "exclusive upper bound of random samples, 0 for the number of unions").
			Envar("DSBENCH_RANGE").Default("0").IsSetByUser(&benchRangeSet).Int()
	benchSeed = benchCmd.Flag("seed", "random seed, 0 to seed from the clock").
			Envar("DSBENCH_SEED").Default("0").IsSetByUser(&benchSeedSet).Uint64()
	benchLatency = benchCmd.Flag("latency", "record per-operation latency percentiles").
			Envar("DSBENCH_LATENCY").IsSetByUser(&benchLatencySet).Bool()
	benchProfile = benchCmd.Flag("profile", "write a cpu or mem profile to the current directory").
			Envar("DSBENCH_PROFILE").Enum("cpu", "mem")
)

// benchConfig merges the configuration file, if any, with the flags.
func benchConfig() (bench.Config, error) {
	cfg := bench.DefaultConfig()
	fromFile := *benchConfigPath != ""
	if fromFile {
		var err error
		if cfg, err = bench.LoadConfig(*benchConfigPath); err != nil {
			return cfg, err
		}
	}
	if !fromFile || benchElementsSet {
		cfg.Elements = *benchElements
	}
	if !fromFile || benchUnionsSet {
		cfg.Unions = *benchUnions
	}
	if !fromFile || benchFindsSet {
		cfg.Finds = *benchFinds
	}
	if !fromFile || benchRangeSet {
		cfg.SampleRange = *benchRange
	}
	if !fromFile || benchSeedSet {
		cfg.Seed = *benchSeed
	}
	if !fromFile || benchLatencySet {
		cfg.RecordLatency = *benchLatency
	}
	return cfg, nil
}

func benchFn(ctx context.Context, log logrus.FieldLogger) error {
	cfg, err := benchConfig()
	if err != nil {
		return err
	}
	switch *benchProfile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	stats, err := bench.Run(ctx, cfg, log)
	if err != nil {
		return err
	}
	log.WithField("seed", stats.Seed).Debug("Benchmark completed")
	stats.Print(os.Stdout)
	return nil
}

func dispatch(ctx context.Context, log *logrus.Logger) error {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}
	switch cmd {
	case benchCmd.FullCommand():
		return benchFn(ctx, log)
	case partitionCmd.FullCommand():
		return partitionFn(ctx, log)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := dispatch(ctx, log)
	stop()
	if err != nil {
		log.WithError(err).Error("dsbench failed")
		os.Exit(1)
	}
}
