package chromatic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielpeeters/breaker/syntax"
)

// TestNoteFrequency verifies equal temperament anchored at A4 = 440 Hz
func TestNoteFrequency(t *testing.T) {
	assert.InDelta(t, 261.63, NewNote(C, 4).Frequency(), 0.01)
	assert.InDelta(t, 440.0, NewNote(A, 4).Frequency(), 1e-9)
	assert.InDelta(t, 880.0, NewNote(A, 5).Frequency(), 1e-9)
	assert.InDelta(t, 220.0, NewNote(A, 3).Frequency(), 1e-9)
}

// TestChordFrequencies verifies the C major triad
func TestChordFrequencies(t *testing.T) {
	notes := Chord{Root: NewNote(C, 4)}.ToNotes()
	require.Len(t, notes, 3)

	want := []float64{261.63, 329.63, 392.00}
	for i, note := range notes {
		assert.InDelta(t, want[i], note.Frequency(), 0.01)
	}
}

// TestChordLengthInvariant checks
// len == 1 + |mode offsets| + sum of extension offsets + bass
func TestChordLengthInvariant(t *testing.T) {
	bass := NewNote(E, 4)

	cases := []struct {
		name  string
		chord Chord
	}{
		{"major", Chord{Root: NewNote(C, 4)}},
		{"minor seven", Chord{Root: NewNote(A, 3), Mode: Minor, Exts: []Ext{Seven}}},
		{"sus4 nine thirteen", Chord{Root: NewNote(D, 4), Mode: Sus4, Exts: []Ext{Nine, Thirteen}}},
		{"dim over bass", Chord{Root: NewNote(G, 4), Mode: Dim, Bass: &bass}},
		{"full", Chord{Root: NewNote(F, 4), Mode: Aug, Exts: []Ext{Seven, Nine, MajSeven}, Bass: &bass}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := 1 + len(tc.chord.Mode.Offsets())
			for _, ext := range tc.chord.Exts {
				want += len(ext.Offsets())
			}
			if tc.chord.Bass != nil {
				want++
			}
			assert.Len(t, tc.chord.ToNotes(), want)
		})
	}
}

// TestBassOctave verifies the bass is forced one octave below the root
func TestBassOctave(t *testing.T) {
	bass := NewNote(E, 6)
	notes := Chord{Root: NewNote(C, 4), Bass: &bass}.ToNotes()

	last := notes[len(notes)-1]
	assert.Equal(t, E, last.Class)
	assert.Equal(t, Octave(3), last.Octave)
}

// TestTransposeCarry verifies the single-octave carry rule: the octave
// goes up once whenever the raw semitone sum exceeds 11, never more
func TestTransposeCarry(t *testing.T) {
	assert.Equal(t, NewNote(C, 5), NewNote(B, 4).Transpose(1))
	assert.Equal(t, NewNote(E, 4), NewNote(C, 4).Transpose(4))

	// raw sum 21 exceeds 11 by almost two octaves, carry is still one
	assert.Equal(t, NewNote(A, 5), NewNote(C, 4).Transpose(21))

	// octave arithmetic clamps at seven
	assert.Equal(t, NewNote(D, 7), NewNote(C, 7).Transpose(14))
}

// TestOctaveClamp verifies construction clamps out-of-range octaves
func TestOctaveClamp(t *testing.T) {
	assert.Equal(t, MaxOctave, NewNote(C, 12).Octave)
	assert.Equal(t, MinOctave, NewNote(C, 0).Octave)
}

// TestPitchClassAdd verifies modular transposition
func TestPitchClassAdd(t *testing.T) {
	assert.Equal(t, C, B.Add(1))
	assert.Equal(t, B, C.Add(-1))
	assert.Equal(t, Fs, C.Add(18))
}

// TestSynthesizePure verifies synthesis is a pure function of the
// absolute sample index
func TestSynthesizePure(t *testing.T) {
	note := NewNote(A, 4)

	assert.Zero(t, note.Synthesize(0, 48000))
	assert.Equal(t, note.Synthesize(1234, 48000), note.Synthesize(1234, 48000))

	chord := Chord{Root: NewNote(C, 4), Mode: Minor}
	assert.Zero(t, chord.Synthesize(0, 48000))
	assert.Equal(t, chord.Synthesize(999, 44100), chord.Synthesize(999, 44100))
}

// TestSynthesizeBounded verifies sample magnitudes stay in audio range
func TestSynthesizeBounded(t *testing.T) {
	note := NewNote(E, 5)
	for i := uint64(0); i < 2000; i++ {
		v := note.Synthesize(i, 48000)
		assert.LessOrEqual(t, v, float32(1.0))
		assert.GreaterOrEqual(t, v, float32(-1.0))
	}
}

func noteNode(white, acc, oct string) *syntax.Tree {
	node := syntax.NewNode("note", white+acc)
	node.Append("white", syntax.NewNode("name", white))
	if acc != "" {
		node.Append("acc", syntax.NewNode("name", acc))
	}
	if oct != "" {
		node.Append("oct", syntax.NewNode("number", oct))
	}
	return node
}

// TestNoteFromNode verifies node consumption with accidentals and octaves
func TestNoteFromNode(t *testing.T) {
	note, err := NoteFromNode(noteNode("C", "#", "3"))
	require.NoError(t, err)
	assert.Equal(t, NewNote(Cs, 3), note)

	note, err = NoteFromNode(noteNode("C", "b", ""))
	require.NoError(t, err)
	assert.Equal(t, NewNote(B, 4), note)

	_, err = NoteFromNode(noteNode("H", "", ""))
	assert.Error(t, err)

	_, err = NoteFromNode(syntax.NewNode("note", ""))
	assert.Error(t, err)
}

// TestChordFromNode verifies chord node consumption
func TestChordFromNode(t *testing.T) {
	node := syntax.NewNode("chord", "[3]Am7/E")
	node.Append("root", noteNode("A", "", "3"))
	node.Append("mode", syntax.NewNode("name", "m"))
	node.Append("augm", syntax.NewNode("name", "7"))
	node.Append("bass", noteNode("E", "", ""))

	chord, err := ChordFromNode(node)
	require.NoError(t, err)

	assert.Equal(t, NewNote(A, 3), chord.Root)
	assert.Equal(t, Minor, chord.Mode)
	assert.Equal(t, []Ext{Seven}, chord.Exts)
	require.NotNil(t, chord.Bass)
	assert.Equal(t, E, chord.Bass.Class)

	// root + 2 mode offsets + 1 extension offset + bass
	assert.Len(t, chord.ToNotes(), 5)
}

// TestChordString verifies display rendering
func TestChordString(t *testing.T) {
	bass := NewNote(E, 4)
	chord := Chord{Root: NewNote(A, 3), Mode: Minor, Exts: []Ext{Seven}, Bass: &bass}
	assert.Equal(t, "[3]Am7/E", chord.String())

	assert.Equal(t, "C", Chord{Root: NewNote(C, 4)}.String())
}
