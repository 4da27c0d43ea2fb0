package postproc

import "math"

// Compressor is an intentionally unfinished extension point. The intended
// design: track a moving sum of squared recent samples, convert it to a
// decibel-like energy measure, and when the measure exceeds threshold,
// apply gain reduction proportional to ratio. Until that lands, Process
// passes the signal through unchanged while keeping the energy window
// warm.
type Compressor struct {
	ratio     float32
	threshold float32
	energy    *energyWindow
	current   float32
}

func (c *Compressor) effect() {}

// NewCompressor creates a pass-through compressor with an energy window
// of the given length.
func NewCompressor(ratio, threshold float32, windowLen int) *Compressor {
	return &Compressor{
		ratio:     ratio,
		threshold: threshold,
		energy:    newEnergyWindow(windowLen),
		current:   1.0,
	}
}

// Process is pass-through. TODO: apply gain reduction from the energy
// measure once the attack/release shape is settled.
func (c *Compressor) Process(input float32) float32 {
	c.energy.addAndGet(input)
	return input
}

// energyWindow keeps a moving sum of squared samples.
type energyWindow struct {
	state  []float32
	energy float32
}

func newEnergyWindow(length int) *energyWindow {
	if length < 1 {
		length = 1
	}
	return &energyWindow{state: make([]float32, length)}
}

// add shifts the input in and updates the running sum of squares.
func (w *energyWindow) add(input float32) {
	out := w.state[len(w.state)-1]
	copy(w.state[1:], w.state)
	w.state[0] = input
	w.energy += input*input - out*out
}

// addAndGet adds the input and returns the window energy in decibels.
func (w *energyWindow) addAndGet(input float32) float32 {
	w.add(input)
	return float32(10 * math.Log10(float64(100*w.energy/float32(len(w.state)))))
}
