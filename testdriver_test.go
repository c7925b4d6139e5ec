package fec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusTallyRecordAndTotal(t *testing.T) {
	var tally StatusTally
	tally.Record(StatusClean)
	tally.Record(StatusClean)
	tally.Record(StatusCorruptedRepaired)
	tally.Record(StatusUncorrectable)
	tally.Record(StatusSilentError)

	require.Equal(t, 2, tally.Clean)
	require.Equal(t, 1, tally.CorruptedRepaired)
	require.Equal(t, 1, tally.Uncorrectable)
	require.Equal(t, 1, tally.SilentError)
	require.Equal(t, 5, tally.Total())
}

func TestSweepConfigDefaultsStep(t *testing.T) {
	cfg := SweepConfig{}
	require.Equal(t, defaultNoiseStep, cfg.step())

	cfg.NoiseStep = 5
	require.Equal(t, 5.0, cfg.step())
}

func TestRunSweepAtZeroNoiseIsEntirelyClean(t *testing.T) {
	c, err := NewHammingCoder(4)
	require.NoError(t, err)

	driver := NewTestDriver()
	cfg := SweepConfig{NoiseStart: 0, NoiseEnd: 0, NoiseStep: 20, CountTest: 10, Seed: 1}
	results, err := driver.RunSweep(c, nil, cfg, IntToBits(0b1010, 4, false))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 10, results[0].StatusTally.Clean)
	require.Equal(t, 10, results[0].StatusTally.Total())
	require.False(t, results[0].Cascade)
	require.Equal(t, "Hamming", results[0].OuterCoder.Name)
	require.Nil(t, results[0].InnerCoder)
}

func TestRunSweepCoversEveryStep(t *testing.T) {
	c, err := NewHammingCoder(4)
	require.NoError(t, err)

	driver := NewTestDriver()
	cfg := SweepConfig{NoiseStart: 0, NoiseEnd: 40, NoiseStep: 20, CountTest: 2, Seed: 1}
	results, err := driver.RunSweep(c, nil, cfg, IntToBits(0b1010, 4, false))
	require.NoError(t, err)
	require.Len(t, results, 3) // 0, 20, 40
	require.Equal(t, 0.0, results[0].NoiseLevel)
	require.Equal(t, 20.0, results[1].NoiseLevel)
	require.Equal(t, 40.0, results[2].NoiseLevel)
}

func TestRunCascadeSweepAtZeroNoiseIsEntirelyClean(t *testing.T) {
	outer, err := NewHammingCoder(4)
	require.NoError(t, err)
	inner, err := NewCyclicCoder(outer.N(), 0xB)
	require.NoError(t, err)

	driver := NewTestDriver()
	cfg := SweepConfig{NoiseStart: 0, NoiseEnd: 0, NoiseStep: 20, CountTest: 10, Seed: 1}
	results, err := driver.RunCascadeSweep(CascadeConfig{Outer: outer, Inner: inner}, nil, cfg, IntToBits(0b1010, 4, false))
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Cascade)
	require.NotNil(t, results[0].InnerCoder)
	require.Equal(t, "Cyclic", results[0].InnerCoder.Name)
	require.Equal(t, 10, results[0].StatusTally.Clean)
}

func TestMemorySinkAccumulatesResults(t *testing.T) {
	sink := NewMemorySink()
	require.NoError(t, sink.SaveTestResult(TestResult{NoiseLevel: 20}))
	require.NoError(t, sink.SaveCaseResult(CaseResult{CorrectBits: 4}))
	require.NoError(t, sink.SaveTestResult(TestResult{NoiseLevel: 40}))

	require.Len(t, sink.TestResults(), 2)
	require.Len(t, sink.CaseResults(), 1)
	require.Equal(t, 20.0, sink.TestResults()[0].NoiseLevel)
}
