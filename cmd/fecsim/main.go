// Command fecsim drives the channel coding simulation harness from the
// command line: it builds one or two coders from flags (or a scenario
// file), runs a noise sweep, and writes the resulting TestResult records
// as JSON to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/banifest/fec"
)

type coderFlags struct {
	hammingLength  int
	fountainLength int
	fountainBlock  int
	fountainCount  int
	cyclicLength   int
	cyclicGen      uint64
	rmOrder        int
	rmDimension    int
	seed           int64
	variant        string
}

func registerCoderFlags(prefix string) *coderFlags {
	f := &coderFlags{}
	pflag.StringVar(&f.variant, prefix+"coder", "hamming", "coder variant: cyclic, hamming, reedmuller, fountain")
	pflag.IntVar(&f.hammingLength, prefix+"hamming_package_length", 4, "hamming k")
	pflag.IntVar(&f.fountainLength, prefix+"fountain_package_length", 12, "fountain k")
	pflag.IntVar(&f.fountainBlock, prefix+"fountain_block_size", 4, "fountain block size s")
	pflag.IntVar(&f.fountainCount, prefix+"fountain_quantity_block", 8, "fountain coding block count c")
	pflag.IntVar(&f.cyclicLength, prefix+"cyclic_package_length", 8, "cyclic k")
	pflag.Uint64Var(&f.cyclicGen, prefix+"cyclic_generator", 0xB, "cyclic generator polynomial")
	pflag.IntVar(&f.rmOrder, prefix+"reedmuller_order", 1, "reed-muller order r")
	pflag.IntVar(&f.rmDimension, prefix+"reedmuller_dimension", 3, "reed-muller dimension m")
	pflag.Int64Var(&f.seed, prefix+"seed", 1, "coder construction seed (fountain only)")
	return f
}

func (f *coderFlags) build() (fec.Coder, error) {
	switch f.variant {
	case "cyclic":
		return fec.NewCyclicCoder(f.cyclicLength, f.cyclicGen)
	case "hamming":
		return fec.NewHammingCoder(f.hammingLength)
	case "reedmuller":
		return fec.NewReedMullerCoder(f.rmOrder, f.rmDimension)
	case "fountain":
		return fec.NewFountainCoder(f.fountainBlock, f.fountainCount, f.fountainLength, f.seed)
	default:
		return nil, fmt.Errorf("fecsim: unknown coder variant %q", f.variant)
	}
}

func main() {
	codecType := pflag.String("codec_type", "single", "SINGLE or CASCADE")
	noiseStart := pflag.Float64("noise_start", 0, "noise sweep start, percent")
	noiseEnd := pflag.Float64("noise_end", 100, "noise sweep end, percent")
	noiseType := pflag.String("noise_type", "single", "SINGLE or BLOCK")
	noisePackageLength := pflag.Int("noise_package_length", 2, "BLOCK mode burst length")
	noisePackagePeriod := pflag.Int("noise_package_period", 8, "BLOCK mode burst period")
	testQuantityCycles := pflag.Int("test_quantity_cycles", 100, "trials per noise level")
	infoForTest := pflag.String("info_for_test", "10110010", "payload bits, as a string of 0/1")
	scenarioPath := pflag.String("scenario", "", "YAML scenario file; overrides the flags above")
	help := pflag.Bool("help", false, "display help text")

	outerFlags := registerCoderFlags("outer_")
	innerFlags := registerCoderFlags("inner_")

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	if *scenarioPath != "" {
		runScenario(*scenarioPath)
		return
	}

	outer, err := outerFlags.build()
	if err != nil {
		fail(err)
	}

	cascade := *codecType == "CASCADE" || *codecType == "cascade"
	var inner fec.Coder
	if cascade {
		inner, err = innerFlags.build()
		if err != nil {
			fail(err)
		}
	}

	info := parseBits(*infoForTest)

	nt := fec.NoiseSingle
	if *noiseType == "BLOCK" || *noiseType == "block" {
		nt = fec.NoiseBlock
	}

	cfg := fec.SweepConfig{
		NoiseStart:  *noiseStart,
		NoiseEnd:    *noiseEnd,
		CountTest:   *testQuantityCycles,
		NoiseType:   nt,
		BurstLength: *noisePackageLength,
		Period:      *noisePackagePeriod,
		Seed:        1,
	}

	driver := fec.NewTestDriver()

	var results []fec.TestResult
	if cascade {
		results, err = driver.RunCascadeSweep(fec.CascadeConfig{Outer: outer, Inner: inner}, nil, cfg, info)
	} else {
		results, err = driver.RunSweep(outer, nil, cfg, info)
	}
	if err != nil {
		fail(err)
	}

	sink := fec.NewMemorySink()
	persist(sink, results)
	emit(sink.TestResults())
}

func runScenario(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}
	sf, err := fec.ParseScenarioFile(data)
	if err != nil {
		fail(err)
	}

	outer, err := sf.Outer.Build()
	if err != nil {
		fail(err)
	}
	interleaver, err := sf.BuildInterleaver()
	if err != nil {
		fail(err)
	}

	driver := fec.NewTestDriver()
	var results []fec.TestResult
	if sf.IsCascade() {
		inner, err := sf.Inner.Build()
		if err != nil {
			fail(err)
		}
		results, err = driver.RunCascadeSweep(fec.CascadeConfig{Outer: outer, Inner: inner}, interleaver, sf.SweepConfig(), sf.InfoBits())
		if err != nil {
			fail(err)
		}
	} else {
		results, err = driver.RunSweep(outer, interleaver, sf.SweepConfig(), sf.InfoBits())
		if err != nil {
			fail(err)
		}
	}

	sink := fec.NewMemorySink()
	persist(sink, results)
	emit(sink.TestResults())
}

// persist writes every sweep result through sink, the same ResultSink
// boundary a database-backed deployment would write through (spec §6).
func persist(sink fec.ResultSink, results []fec.TestResult) {
	for _, r := range results {
		if err := sink.SaveTestResult(r); err != nil {
			fail(err)
		}
	}
}

func parseBits(s string) fec.Bits {
	bits := make(fec.Bits, 0, len(s))
	for _, r := range s {
		if r == '1' {
			bits = append(bits, 1)
		} else if r == '0' {
			bits = append(bits, 0)
		}
	}
	return bits
}

func emit(results []fec.TestResult) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		fail(err)
	}
}

func fail(err error) {
	log.Error("fecsim configuration error", "error", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
