package parameter

import "time"

// Audio Output
const (
	// DefaultSampleRate used when no output device dictates one
	DefaultSampleRate = 48000

	// QueueCapacity is the bounded hand-off queue between the producer
	// and the output device. The producer blocks when it is full, which
	// paces sample production to real-time consumption.
	QueueCapacity = 2048

	// OutputBufferDuration determines speaker latency
	OutputBufferDuration = 50 * time.Millisecond
)

// Sequencing
const (
	DefaultBPM      = 120
	DefaultBeats    = 4
	DefaultBeatUnit = 4

	// Default slot duration as a fraction of a beat
	DefaultNoteLengthNumer = 1
	DefaultNoteLengthDenom = 16

	// SwapBars is the hot-reload alignment unit: a proposed pipeline is
	// swapped in only when the sample clock crosses a SwapBars boundary.
	SwapBars = 4

	// ProbScale is the denominator of probabilistic grid tokens (percent)
	ProbScale = 100
)

// Synthesis
const (
	// Partials is the number of odd-harmonic sine partials summed per note
	Partials = 5

	// MaxFIRLength caps designed FIR filter lengths
	MaxFIRLength = 100
)

// Live Editing
const (
	// ReloadDebounce batches editor write bursts into one rebuild
	ReloadDebounce = 100 * time.Millisecond
)
