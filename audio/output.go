// Package audio connects the pipeline's sample queue to the system
// audio device via beep's speaker.
package audio

import (
	"fmt"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/pipeline"
)

// Output streams the pipeline's mono samples to the speaker, one sample
// per output frame, fanned out to both channels.
type Output struct {
	queue   *pipeline.Queue
	rate    beep.SampleRate
	stopped atomic.Bool
}

// Start initializes the speaker at the given rate and begins pulling
// from the queue.
func Start(queue *pipeline.Queue, sampleRate int) (*Output, error) {
	rate := beep.SampleRate(sampleRate)
	if err := speaker.Init(rate, rate.N(parameter.OutputBufferDuration)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}

	o := &Output{queue: queue, rate: rate}
	speaker.Play(o)
	return o, nil
}

// Stream fills the speaker buffer, dequeuing exactly one sample per
// frame.
func (o *Output) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.stopped.Load() {
			return i, false
		}

		select {
		case v := <-o.queue.C:
			f := float64(v)
			samples[i][0] = f
			samples[i][1] = f
		case <-o.queue.Done():
			return i, false
		}
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (o *Output) Err() error { return nil }

// Stop halts playback and disconnects the queue, which terminates the
// producer loop.
func (o *Output) Stop() {
	if o.stopped.CompareAndSwap(false, true) {
		o.queue.Close()
		speaker.Clear()
	}
}
