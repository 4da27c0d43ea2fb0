package chromatic

import (
	"math"

	"github.com/mielpeeters/breaker/parameter"
)

// Synthesize renders the note at an absolute sample index by additive
// synthesis: parameter.Partials odd-harmonic sine partials with 1/h
// amplitude, normalized by the partial count. Pure function of the
// index, so renders are reproducible.
func (n Note) Synthesize(index uint64, sampleRate int) float32 {
	t := float64(index) / float64(sampleRate)
	freq := n.Frequency()

	var sum float64
	for k := 0; k < parameter.Partials; k++ {
		h := float64(2*k + 1)
		sum += math.Sin(2*math.Pi*freq*h*t) / h
	}
	return float32(sum / parameter.Partials)
}

// Synthesize renders the chord by synthesizing each constituent note and
// averaging across them.
func (c Chord) Synthesize(index uint64, sampleRate int) float32 {
	notes := c.ToNotes()
	if len(notes) == 0 {
		return 0
	}

	var sum float32
	for _, note := range notes {
		sum += note.Synthesize(index, sampleRate)
	}
	return sum / float32(len(notes))
}
