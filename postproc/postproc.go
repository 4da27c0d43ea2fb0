// Package postproc implements the per-track effect chain: FIR filters,
// gain, convolution reverb, and a compressor extension point. Effects
// process one sample at a time between mix scaling and track summation.
package postproc

import (
	"math"

	"github.com/mielpeeters/breaker/parameter"
)

// Effect is one element of a track's effect chain. The set of effects is
// closed: the unexported marker keeps implementations inside this
// package so the pipeline can construct them exhaustively.
type Effect interface {
	// Process transforms a single sample.
	Process(input float32) float32

	effect()
}

// FIR is a finite-impulse-response filter: a weighted sum of the most
// recent len(coeffs) input samples.
type FIR struct {
	coeffs []float32
	state  []float32
}

func (f *FIR) effect() {}

// newFIR creates a filter with zeroed state.
func newFIR(coeffs []float32) *FIR {
	return &FIR{
		coeffs: coeffs,
		state:  make([]float32, len(coeffs)),
	}
}

// Coeffs exposes the designed coefficients.
func (f *FIR) Coeffs() []float32 {
	return f.coeffs
}

// Process shifts the input into a most-recent-first register and returns
// the dot product with the coefficients, an O(n) convolution per sample.
func (f *FIR) Process(input float32) float32 {
	copy(f.state[1:], f.state)
	f.state[0] = input

	var output float32
	for i, c := range f.coeffs {
		output += c * f.state[i]
	}
	return output
}

// FIRBuilder designs filter coefficients.
type FIRBuilder struct {
	coeffs []float32
}

// NewFIRBuilder returns an empty builder.
func NewFIRBuilder() *FIRBuilder {
	return &FIRBuilder{}
}

// length is min(floor(2*rate/cutoff), MaxFIRLength).
func firLength(cutoff, sampleRate float64) int {
	n := int(2 * sampleRate / cutoff)
	if n > parameter.MaxFIRLength {
		n = parameter.MaxFIRLength
	}
	if n < 1 {
		n = 1
	}
	return n
}

// sinc with sinc(0) = 1.
func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}

// LowPass designs low-pass coefficients: sinc(i*cutoff/rate) shaped by a
// Hann window sin(pi*i/n)^2.
func (b *FIRBuilder) LowPass(cutoff, sampleRate float64) *FIRBuilder {
	n := firLength(cutoff, sampleRate)
	coeffs := make([]float32, n)
	for i := range coeffs {
		x := float64(i) * cutoff / sampleRate
		if x == 0 {
			// center tap, window not applied
			coeffs[i] = 1
			continue
		}
		hann := math.Pow(math.Sin(math.Pi*float64(i)/float64(n)), 2)
		coeffs[i] = float32(sinc(x) * hann)
	}
	b.coeffs = coeffs
	return b
}

// HighPass designs high-pass coefficients: alternating-sign sinc,
// unwindowed.
func (b *FIRBuilder) HighPass(cutoff, sampleRate float64) *FIRBuilder {
	n := firLength(cutoff, sampleRate)
	coeffs := make([]float32, n)
	sign := 1.0
	for i := range coeffs {
		x := float64(i) * cutoff / sampleRate
		if x == 0 {
			coeffs[i] = 1
		} else {
			coeffs[i] = float32(sign * sinc(x))
		}
		sign = -sign
	}
	b.coeffs = coeffs
	return b
}

// Build creates the filter.
func (b *FIRBuilder) Build() *FIR {
	coeffs := make([]float32, len(b.coeffs))
	copy(coeffs, b.coeffs)
	return newFIR(coeffs)
}

// Gain scales every sample by a constant amount.
type Gain struct {
	amount float32
}

func (g *Gain) effect() {}

// NewGain creates a gain stage.
func NewGain(amount float32) *Gain {
	return &Gain{amount: amount}
}

// Process scales the input.
func (g *Gain) Process(input float32) float32 {
	return input * g.amount
}
