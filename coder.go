/*
Package fec implements a small forward-error-correction toolkit: four
coder families (cyclic, Hamming, Reed-Muller, Luby-Transform fountain), a
block interleaver, and a channel simulator that measures packet survival
under parameterised bit-flip noise.

The package follows the same overall shape as a classic FEC teaching
library: coders are constructed once with fixed parameters, then used to
encode information words into longer codewords, transmit them through a
channel (optionally interleaved, always corrupted by some noise model),
and decode them back, with the channel simulator and test driver
classifying and tallying the outcome.
*/
package fec

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status classifies the outcome of a single channel transfer.
type Status int

const (
	// StatusClean means the codeword was decoded correctly and no bits
	// were flipped in transit.
	StatusClean Status = iota
	// StatusCorruptedRepaired means bits were flipped in transit but the
	// decoder recovered the original payload.
	StatusCorruptedRepaired
	// StatusUncorrectable means the decoder detected an error it could
	// not correct.
	StatusUncorrectable
	// StatusSilentError means the decoded payload differs from the
	// original without the decoder detecting anything wrong.
	StatusSilentError
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "CLEAN"
	case StatusCorruptedRepaired:
		return "CORRUPTED_REPAIRED"
	case StatusUncorrectable:
		return "UNCORRECTABLE"
	case StatusSilentError:
		return "SILENT_ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// CodingError is raised by Decode when the code's correction capacity is
// exceeded. It is always recovered locally by the channel simulator and
// mapped to StatusUncorrectable; it is never meant to escape to a caller
// unhandled. Status mirrors the original Python CodingException's optional
// status field.
type CodingError struct {
	Message string
	Status  int
}

func (e *CodingError) Error() string {
	return e.Message
}

// Uncorrectable constructs a CodingError for decode paths that have
// exhausted their correction capacity, wrapped with a stack trace recording
// where the failure originated.
func Uncorrectable(format string, args ...interface{}) error {
	return errors.WithStack(&CodingError{
		Message: fmt.Sprintf(format, args...),
		Status:  int(StatusUncorrectable),
	})
}

// AsCodingError unwraps err (following any errors.Wrap chain) and reports
// whether it is a CodingError, returning it if so.
func AsCodingError(err error) (*CodingError, bool) {
	if err == nil {
		return nil, false
	}
	if ce, ok := errors.Cause(err).(*CodingError); ok {
		return ce, true
	}
	return nil, false
}

// Description is the structured, persistence/display-ready record a coder
// produces via Describe. Field names are contractual (spec §6): they are
// serialised as-is to JSON/DB columns.
type Description struct {
	Name               string  `json:"name" yaml:"name"`
	LengthInformation  int     `json:"length_information" yaml:"length_information"`
	LengthAdditional   int     `json:"length_additional" yaml:"length_additional"`
	LengthTotal        int     `json:"length_total" yaml:"length_total"`
	Speed              float64 `json:"speed" yaml:"speed"`
	Polynomial         Bits    `json:"polynomial,omitempty" yaml:"polynomial,omitempty"`
	MatrixOfGenerating [][]int `json:"matrix_of_generating,omitempty" yaml:"matrix_of_generating,omitempty"`
}

// Coder is the capability every coder variant exposes: Cyclic, Hamming,
// ReedMuller and Fountain. It is expressed as an interface (rather than the
// original's abstract-base-class inheritance) per the FEC toolkit's design
// guidance: there are exactly four variants and no open-ended hierarchy is
// wanted.
type Coder interface {
	// Encode accepts a payload of length <= K (see K()), left-pads it with
	// zeros to exactly K bits, and returns a codeword of length N.
	Encode(info Bits) (Bits, error)

	// Decode accepts a codeword of length N and returns a payload of
	// length K, or a CodingError (via Uncorrectable) if the codeword's
	// errors exceed the code's correction capacity.
	Decode(word Bits) (Bits, error)

	// TryNormalize prepares a payload for comparison against a decoded
	// result: it left-pads bits to length K, the same padding Encode
	// applies internally.
	TryNormalize(bits Bits) Bits

	// K returns the number of information bits consumed per codeword.
	K() int
	// R returns the number of redundancy bits introduced per codeword.
	R() int
	// N returns the total codeword length (K+R).
	N() int

	// Redundancy returns R/N.
	Redundancy() float64
	// Speed returns K/N. Speed+Redundancy == 1.
	Speed() float64

	// Describe returns a structured, persistence-ready record of the
	// coder's parameters.
	Describe() Description
}

// baseRates implements Redundancy/Speed/N in terms of K and R, embedded by
// every concrete coder so the arithmetic is defined exactly once.
type baseRates struct {
	k, r int
}

func (b baseRates) K() int { return b.k }
func (b baseRates) R() int { return b.r }
func (b baseRates) N() int { return b.k + b.r }

func (b baseRates) Redundancy() float64 {
	n := b.N()
	if n == 0 {
		return 0
	}
	return float64(b.r) / float64(n)
}

func (b baseRates) Speed() float64 {
	n := b.N()
	if n == 0 {
		return 0
	}
	return float64(b.k) / float64(n)
}
