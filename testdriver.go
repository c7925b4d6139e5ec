package fec

import (
	"math/rand"

	"github.com/charmbracelet/log"
)

// defaultNoiseStep is the fixed sweep step spec §4.8 names as the default.
const defaultNoiseStep = 20.0

// SweepConfig parameterizes a noise-level sweep: one Channel trial batch
// per step from NoiseStart to NoiseEnd (inclusive), incrementing by
// NoiseStep (defaulting to 20 when <= 0).
type SweepConfig struct {
	NoiseStart  float64
	NoiseEnd    float64
	NoiseStep   float64
	CountTest   int
	NoiseType   NoiseType
	BurstLength int
	Period      int
	Seed        int64
}

func (s SweepConfig) step() float64 {
	if s.NoiseStep <= 0 {
		return defaultNoiseStep
	}
	return s.NoiseStep
}

// CascadeConfig selects two coders composed outer+inner (spec §4.8).
type CascadeConfig struct {
	Outer Coder
	Inner Coder
}

// TestDriver sweeps a channel (or a cascade of two coders) across noise
// levels, tallying the four transfer outcomes at each level.
type TestDriver struct {
	logger *log.Logger
}

// NewTestDriver constructs a test driver.
func NewTestDriver() *TestDriver {
	return &TestDriver{logger: log.Default().With("component", "testdriver")}
}

// RunSweep runs cfg.CountTest trials of a single (non-cascade) channel at
// every noise level from cfg.NoiseStart to cfg.NoiseEnd, emitting one
// TestResult per level.
func (d *TestDriver) RunSweep(coder Coder, interleaver *Interleaver, cfg SweepConfig, info Bits) ([]TestResult, error) {
	results := []TestResult{}
	seeder := rand.New(NewMersenneTwister(cfg.Seed))

	for level := cfg.NoiseStart; level <= cfg.NoiseEnd; level += cfg.step() {
		noise := NoiseConfig{Type: cfg.NoiseType, Probability: level, BurstLength: cfg.BurstLength, Period: cfg.Period}
		channel := NewChannel(coder, interleaver, noise, cfg.CountTest, false)

		d.logger.Debug("running sweep step", "level", level, "trials", cfg.CountTest)
		tally := StatusTally{}
		for trial := 0; trial < cfg.CountTest; trial++ {
			status, err := channel.TransferOneStep(info, seeder.Int63())
			if err != nil {
				return results, err
			}
			tally.Record(status)
		}

		results = append(results, TestResult{
			Cascade:        false,
			OuterCoder:     coder.Describe(),
			NoiseType:      cfg.NoiseType,
			NoiseLevel:     level,
			StatusTally:    tally,
		})
	}
	return results, nil
}

// RunCascadeSweep is RunSweep's cascade counterpart: outer.Encode wraps the
// message, inner.Encode wraps that, a single noise injection corrupts the
// innermost codeword, and decoding proceeds inner-first so the outer coder
// sees whatever residual the inner coder's correction left behind.
func (d *TestDriver) RunCascadeSweep(cascade CascadeConfig, interleaver *Interleaver, cfg SweepConfig, info Bits) ([]TestResult, error) {
	results := []TestResult{}
	seeder := rand.New(NewMersenneTwister(cfg.Seed))

	for level := cfg.NoiseStart; level <= cfg.NoiseEnd; level += cfg.step() {
		noise := NoiseConfig{Type: cfg.NoiseType, Probability: level, BurstLength: cfg.BurstLength, Period: cfg.Period}
		runner := &cascadeRunner{outer: cascade.Outer, inner: cascade.Inner, interleaver: interleaver, noise: noise}

		d.logger.Debug("running cascade sweep step", "level", level, "trials", cfg.CountTest)
		tally := StatusTally{}
		for trial := 0; trial < cfg.CountTest; trial++ {
			status, err := runner.transferOneStep(info, seeder.Int63())
			if err != nil {
				return results, err
			}
			tally.Record(status)
		}

		inner := cascade.Inner.Describe()
		results = append(results, TestResult{
			Cascade:        true,
			OuterCoder:     cascade.Outer.Describe(),
			InnerCoder:     &inner,
			NoiseType:      cfg.NoiseType,
			NoiseLevel:     level,
			StatusTally:    tally,
		})
	}
	return results, nil
}

// StatusTally counts one-shot transfer outcomes by classification.
type StatusTally struct {
	Clean             int
	CorruptedRepaired int
	Uncorrectable     int
	SilentError       int
}

// Record increments the counter matching status.
func (t *StatusTally) Record(status Status) {
	switch status {
	case StatusClean:
		t.Clean++
	case StatusCorruptedRepaired:
		t.CorruptedRepaired++
	case StatusUncorrectable:
		t.Uncorrectable++
	case StatusSilentError:
		t.SilentError++
	}
}

// Total returns the number of outcomes recorded.
func (t StatusTally) Total() int {
	return t.Clean + t.CorruptedRepaired + t.Uncorrectable + t.SilentError
}

// TestResult is one noise-level step's record (spec §3/§6): cascade flag,
// coder references, noise parameters, and outcome tally.
type TestResult struct {
	Cascade     bool
	OuterCoder  Description
	InnerCoder  *Description
	NoiseType   NoiseType
	NoiseLevel  float64
	StatusTally StatusTally
}

// cascadeRunner performs the outer+inner composed transfer spec §4.8
// describes: encode outer, encode inner, corrupt the innermost codeword
// once, decode inner, decode outer.
type cascadeRunner struct {
	outer       Coder
	inner       Coder
	interleaver *Interleaver
	noise       NoiseConfig
}

func (r *cascadeRunner) transferOneStep(info Bits, seed int64) (Status, error) {
	normalized := r.outer.TryNormalize(info)

	outerEncoded, err := r.outer.Encode(normalized)
	if err != nil {
		return StatusUncorrectable, err
	}

	innerEncoded, err := r.inner.Encode(outerEncoded)
	if err != nil {
		return StatusUncorrectable, err
	}

	working := innerEncoded
	if r.interleaver != nil {
		working, err = r.interleaver.Shuffle(working)
		if err != nil {
			return StatusUncorrectable, err
		}
	}

	random := rand.New(NewMersenneTwister(seed))
	corrupted, flipped := injectNoiseWith(r.noise, working, random)

	if r.interleaver != nil {
		corrupted, err = r.interleaver.Reestablish(corrupted)
		if err != nil {
			return StatusUncorrectable, err
		}
	}

	innerDecoded, err := r.inner.Decode(corrupted)
	if err != nil {
		return StatusUncorrectable, nil
	}

	outerDecoded, err := r.outer.Decode(innerDecoded)
	if err != nil {
		return StatusUncorrectable, nil
	}

	if outerDecoded.Equal(normalized) {
		if flipped > 0 {
			return StatusCorruptedRepaired, nil
		}
		return StatusClean, nil
	}
	return StatusSilentError, nil
}

// injectNoiseWith applies noise using the same injection rules Channel
// uses, without requiring a *Channel receiver (the cascade runner has no
// single coder to own one).
func injectNoiseWith(noise NoiseConfig, data Bits, random *rand.Rand) (Bits, int) {
	if noise.Type == NoiseBlock {
		return injectBlockNoise(data, random, noise.BurstLength, noise.Period)
	}
	return injectSingleNoise(data, random, noise.Probability)
}
