package postproc

import "math"

// reverbTaps is the length of the synthetic reference impulse before
// trimming.
const reverbTaps = 72

// reverbPreDelay is the number of near-silent leading taps in the
// reference impulse; they model the reference asset's onset and are
// trimmed away when the mask is derived.
const reverbPreDelay = 6

// silenceFloor is the fraction of peak below which leading taps count as
// silence.
const silenceFloor = 0.01

// Reverb convolves the signal against a fixed, pre-computed decaying
// impulse-response mask, using the same shift-register structure as FIR.
type Reverb struct {
	mask  []float32
	state []float32
}

func (r *Reverb) effect() {}

// NewReverb derives the impulse mask once from the reference impulse:
// leading near-silence is trimmed and the remainder is peak-normalized.
func NewReverb() *Reverb {
	mask := deriveMask(referenceImpulse())
	return &Reverb{
		mask:  mask,
		state: make([]float32, len(mask)),
	}
}

// Mask exposes the derived impulse-response taps.
func (r *Reverb) Mask() []float32 {
	return r.mask
}

// Process shifts the input into the register and returns the dot product
// with the mask.
func (r *Reverb) Process(input float32) float32 {
	copy(r.state[1:], r.state)
	r.state[0] = input

	var output float32
	for i, m := range r.mask {
		output += m * r.state[i]
	}
	return output
}

// referenceImpulse generates the deterministic decaying impulse the mask
// is derived from: a short quiet onset followed by an exponentially
// decaying, sign-alternating tail.
func referenceImpulse() []float32 {
	impulse := make([]float32, reverbTaps)
	for i := range impulse {
		if i < reverbPreDelay {
			impulse[i] = 1e-4
			continue
		}
		t := float64(i - reverbPreDelay)
		decay := math.Exp(-t / 12.0)
		// alternate tap signs to avoid a pure comb response
		if i%3 == 1 {
			decay = -decay * 0.6
		}
		impulse[i] = float32(0.8 * decay)
	}
	return impulse
}

// deriveMask trims leading taps below the silence floor and normalizes
// the remainder so the peak magnitude is 1.
func deriveMask(impulse []float32) []float32 {
	var peak float32
	for _, v := range impulse {
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return []float32{1}
	}

	start := 0
	for start < len(impulse) && float32(math.Abs(float64(impulse[start]))) < silenceFloor*peak {
		start++
	}

	mask := make([]float32, len(impulse)-start)
	for i, v := range impulse[start:] {
		mask[i] = v / peak
	}
	return mask
}
