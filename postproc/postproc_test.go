package postproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielpeeters/breaker/parameter"
)

// TestLowPassDesign verifies filter length 2*rate/cutoff truncated, and
// the untouched center tap
func TestLowPassDesign(t *testing.T) {
	fir := NewFIRBuilder().LowPass(2800, 44100).Build()

	coeffs := fir.Coeffs()
	require.Len(t, coeffs, 31)
	assert.Equal(t, float32(1.0), coeffs[0])

	// Hann window zeroes nothing but the tail stays small
	for _, c := range coeffs {
		assert.LessOrEqual(t, float64(c), 1.0)
		assert.GreaterOrEqual(t, float64(c), -1.0)
	}
}

// TestFIRLengthCap verifies low cutoffs cap the filter at the maximum
// length
func TestFIRLengthCap(t *testing.T) {
	fir := NewFIRBuilder().LowPass(100, 48000).Build()
	assert.Len(t, fir.Coeffs(), parameter.MaxFIRLength)
}

// TestHighPassDesign verifies the alternating-sign structure
func TestHighPassDesign(t *testing.T) {
	fir := NewFIRBuilder().HighPass(8000, 44100).Build()

	coeffs := fir.Coeffs()
	require.Len(t, coeffs, 11)
	assert.Equal(t, float32(1.0), coeffs[0])
	assert.Negative(t, coeffs[1])
	assert.Positive(t, coeffs[2])
}

// TestFIRImpulseResponse verifies processing a unit impulse replays the
// coefficients in order
func TestFIRImpulseResponse(t *testing.T) {
	fir := NewFIRBuilder().LowPass(2800, 44100).Build()
	coeffs := fir.Coeffs()

	assert.Equal(t, coeffs[0], fir.Process(1))
	for i := 1; i < len(coeffs); i++ {
		assert.Equal(t, coeffs[i], fir.Process(0))
	}
	assert.Equal(t, float32(0.0), fir.Process(0))
}

// TestGain verifies constant scaling
func TestGain(t *testing.T) {
	g := NewGain(0.5)
	assert.InDelta(t, 0.4, g.Process(0.8), 1e-7)
	assert.InDelta(t, -0.25, g.Process(-0.5), 1e-7)
	assert.Equal(t, float32(0.0), g.Process(0))
}

// TestReverbMask verifies the derived mask: leading silence trimmed,
// peak-normalized with the onset tap at exactly one
func TestReverbMask(t *testing.T) {
	r := NewReverb()
	mask := r.Mask()

	require.Len(t, mask, reverbTaps-reverbPreDelay)
	assert.Equal(t, float32(1.0), mask[0])

	var sawNegative bool
	for _, m := range mask {
		assert.LessOrEqual(t, float64(m), 1.0)
		assert.GreaterOrEqual(t, float64(m), -1.0)
		if m < 0 {
			sawNegative = true
		}
	}
	assert.True(t, sawNegative, "sign-alternating taps expected")

	// tail decays well below the onset
	last := mask[len(mask)-1]
	assert.Less(t, float64(last)*float64(last), 0.01)
}

// TestReverbImpulseResponse verifies convolution replays the mask
func TestReverbImpulseResponse(t *testing.T) {
	r := NewReverb()
	mask := r.Mask()

	assert.Equal(t, mask[0], r.Process(1))
	assert.Equal(t, mask[1], r.Process(0))
	assert.Equal(t, mask[2], r.Process(0))
}

// TestCompressorPassThrough verifies the stub forwards the signal
// unchanged
func TestCompressorPassThrough(t *testing.T) {
	c := NewCompressor(4, -12, 64)
	for _, v := range []float32{0, 0.3, -0.9, 1.0} {
		assert.Equal(t, v, c.Process(v))
	}
}

// TestEnergyWindow verifies the moving sum of squares and its decibel
// conversion
func TestEnergyWindow(t *testing.T) {
	w := newEnergyWindow(4)

	w.add(1)
	w.add(1)
	w.add(1)
	// full window of unit samples: 10*log10(100*4/4) = 20 dB
	assert.InDelta(t, 20.0, w.addAndGet(1), 1e-4)

	// oldest sample falls out as new ones shift in
	w.add(0)
	assert.InDelta(t, float32(3), w.energy, 1e-6)
}
