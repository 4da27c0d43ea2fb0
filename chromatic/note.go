// Package chromatic implements the music theory layer: pitch classes,
// notes, chords, and their additive synthesis.
package chromatic

import "math"

// PitchClass is one of the 12 chromatic tones, independent of octave.
type PitchClass int

const (
	C PitchClass = iota
	Cs
	D
	Ds
	E
	F
	Fs
	G
	Gs
	A
	As
	B
)

// frequencies holds the octave-4 frequency of every pitch class,
// twelve-tone equal temperament anchored at A4 = 440 Hz.
var frequencies [12]float64

func init() {
	for i := range frequencies {
		frequencies[i] = 440.0 * math.Pow(2, (float64(i)-9.0)/12.0)
	}
}

// Add transposes the pitch class by a number of semitones, modulo 12.
func (pc PitchClass) Add(semitones int) PitchClass {
	return PitchClass(((int(pc)+semitones)%12 + 12) % 12)
}

// Frequency returns the pitch class frequency in the reference octave (4).
func (pc PitchClass) Frequency() float64 {
	return frequencies[((int(pc)%12)+12)%12]
}

var classNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (pc PitchClass) String() string {
	return classNames[((int(pc)%12)+12)%12]
}

// Octave is a piano octave, one through seven.
type Octave int

const (
	MinOctave     Octave = 1
	DefaultOctave Octave = 4
	MaxOctave     Octave = 7
)

// Up returns the next octave, clamped at MaxOctave. Octave arithmetic
// never errors.
func (o Octave) Up() Octave {
	if o >= MaxOctave {
		return MaxOctave
	}
	return o + 1
}

// Down returns the previous octave, clamped at MinOctave.
func (o Octave) Down() Octave {
	if o <= MinOctave {
		return MinOctave
	}
	return o - 1
}

// Note is a pitch class placed in an octave. Immutable value type.
type Note struct {
	Class  PitchClass
	Octave Octave
}

// NewNote builds a note from a pitch class and octave, clamping the
// octave into the playable range.
func NewNote(class PitchClass, octave Octave) Note {
	if octave < MinOctave {
		octave = MinOctave
	} else if octave > MaxOctave {
		octave = MaxOctave
	}
	return Note{Class: class, Octave: octave}
}

// Frequency scales the pitch class frequency by the octave distance from
// the reference octave: each octave doubles or halves it.
func (n Note) Frequency() float64 {
	return n.Class.Frequency() * math.Pow(2, float64(n.Octave-DefaultOctave))
}

// Transpose adds semitones to the pitch class, modulo 12, and moves the
// note one octave up whenever the raw sum exceeds 11. The single-octave
// carry is deliberate: stacked chord offsets past 23 semitones still
// raise the octave only once.
func (n Note) Transpose(semitones int) Note {
	raw := int(n.Class) + semitones
	octave := n.Octave
	if raw > 11 {
		octave = octave.Up()
	}
	return Note{Class: PitchClass(((raw % 12) + 12) % 12), Octave: octave}
}

func (n Note) String() string {
	if n.Octave != DefaultOctave {
		return "[" + string('0'+rune(n.Octave)) + "]" + n.Class.String()
	}
	return n.Class.String()
}
