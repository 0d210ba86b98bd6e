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
	"os"

	"github.com/fwilliams/disjoint-set/internal/errors"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is matched by every error returned from
// [Config.Validate].
var ErrInvalidConfig error = errors.ErrorCodeInvalidBenchmarkConfig.WithDetail("invalid benchmark configuration")

// Config describes one benchmark run.
type Config struct {
	// Elements is the number of distinct elements inserted, 0 to Elements-1.
	Elements int `yaml:"elements"`

	// Unions is the number of random unions performed.
	Unions int `yaml:"unions"`

	// Finds is the number of random finds performed.
	Finds int `yaml:"finds"`

	// SampleRange is the exclusive upper bound of the random union and find
	// arguments. Zero means Unions, or Elements when Unions is zero. A range
	// beyond Elements produces unknown elements: those unions fail and the
	// first such find aborts the run.
	SampleRange int `yaml:"sample_range"`

	// Seed seeds the random source. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`

	// RecordLatency enables per-operation latency histograms.
	RecordLatency bool `yaml:"record_latency"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Elements: 1_000_000,
		Unions:   100_000,
		Finds:    200 * 100_000,
	}
}

// LoadConfig reads a YAML configuration file. Fields absent from the file
// keep their [DefaultConfig] values; unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read benchmark config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse benchmark config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	switch {
	case c.Elements <= 0:
		return invalidConfig("elements must be positive, got %d", c.Elements)
	case c.Unions < 0:
		return invalidConfig("unions must not be negative, got %d", c.Unions)
	case c.Finds < 0:
		return invalidConfig("finds must not be negative, got %d", c.Finds)
	case c.SampleRange < 0:
		return invalidConfig("sample range must not be negative, got %d", c.SampleRange)
	}
	return nil
}

// sampleRange returns the effective exclusive upper bound of samples.
func (c Config) sampleRange() int {
	switch {
	case c.SampleRange > 0:
		return c.SampleRange
	case c.Unions > 0:
		return c.Unions
	}
	return c.Elements
}

func invalidConfig(format string, args ...any) error {
	return errors.ErrorCodeInvalidBenchmarkConfig.WithDetail(fmt.Sprintf(format, args...))
}
