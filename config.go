package fec

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CoderSpec names one coder variant and its constructor parameters, as
// loaded from a scenario file. Only the fields relevant to Variant are
// read; the rest are ignored.
type CoderSpec struct {
	Variant string `yaml:"variant"` // "cyclic", "hamming", "reedmuller", "fountain"

	K          int    `yaml:"k,omitempty"`
	Generator  uint64 `yaml:"generator,omitempty"`   // cyclic
	Order      int    `yaml:"order,omitempty"`       // reed-muller
	Dimension  int    `yaml:"dimension,omitempty"`   // reed-muller (m)
	BlockSize  int    `yaml:"block_size,omitempty"`  // fountain (s)
	NumBlocks  int    `yaml:"num_blocks,omitempty"`  // fountain (c)
	Seed       int64  `yaml:"seed,omitempty"`
}

// Build constructs the Coder this spec describes.
func (s CoderSpec) Build() (Coder, error) {
	switch s.Variant {
	case "cyclic":
		return NewCyclicCoder(s.K, s.Generator)
	case "hamming":
		return NewHammingCoder(s.K)
	case "reedmuller":
		return NewReedMullerCoder(s.Order, s.Dimension)
	case "fountain":
		return NewFountainCoder(s.BlockSize, s.NumBlocks, s.K, s.Seed)
	default:
		return nil, errors.Errorf("fec: unknown coder variant %q", s.Variant)
	}
}

// ScenarioFile is the YAML-loadable description of a sweep or cascade
// scenario, consumed by cmd/fecsim and convertible into the SweepConfig
// and CascadeConfig structs a programmatic caller would build by hand.
type ScenarioFile struct {
	Outer CoderSpec  `yaml:"outer"`
	Inner *CoderSpec `yaml:"inner,omitempty"` // non-nil selects cascade mode

	InterleaverLength int   `yaml:"interleaver_length,omitempty"`
	InterleaverSeed   int64 `yaml:"interleaver_seed,omitempty"`

	NoiseStart  float64 `yaml:"noise_start"`
	NoiseEnd    float64 `yaml:"noise_end"`
	NoiseStep   float64 `yaml:"noise_step,omitempty"`
	NoiseType   string  `yaml:"noise_type"` // "single" or "block"
	BurstLength int     `yaml:"burst_length,omitempty"`
	Period      int     `yaml:"period,omitempty"`

	CountTest int    `yaml:"count_test"`
	Seed      int64  `yaml:"seed"`
	Info      []byte `yaml:"info"` // payload bits as 0/1 bytes
}

// ParseScenarioFile unmarshals a ScenarioFile from YAML bytes.
func ParseScenarioFile(data []byte) (ScenarioFile, error) {
	var sf ScenarioFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return ScenarioFile{}, errors.Wrap(err, "fec: parsing scenario file")
	}
	return sf, nil
}

// SweepConfig converts the scenario's noise sweep parameters into a
// SweepConfig, suitable for TestDriver.RunSweep/RunCascadeSweep.
func (sf ScenarioFile) SweepConfig() SweepConfig {
	noiseType := NoiseSingle
	if sf.NoiseType == "block" {
		noiseType = NoiseBlock
	}
	return SweepConfig{
		NoiseStart:  sf.NoiseStart,
		NoiseEnd:    sf.NoiseEnd,
		NoiseStep:   sf.NoiseStep,
		CountTest:   sf.CountTest,
		NoiseType:   noiseType,
		BurstLength: sf.BurstLength,
		Period:      sf.Period,
		Seed:        sf.Seed,
	}
}

// InfoBits converts the scenario's payload byte array (each byte 0 or 1)
// into a Bits value.
func (sf ScenarioFile) InfoBits() Bits {
	bits := make(Bits, len(sf.Info))
	copy(bits, sf.Info)
	return bits
}

// BuildInterleaver constructs the scenario's interleaver, or returns nil if
// none was configured.
func (sf ScenarioFile) BuildInterleaver() (*Interleaver, error) {
	if sf.InterleaverLength <= 0 {
		return nil, nil
	}
	return NewInterleaver(sf.InterleaverLength, sf.InterleaverSeed)
}

// IsCascade reports whether the scenario configures two coders.
func (sf ScenarioFile) IsCascade() bool {
	return sf.Inner != nil
}
