package chromatic

import (
	"fmt"
	"strconv"

	"github.com/mielpeeters/breaker/syntax"
)

// whiteClasses maps the white piano keys to their pitch classes.
var whiteClasses = map[string]PitchClass{
	"A": A, "B": B, "C": C, "D": D, "E": E, "F": F, "G": G,
}

// NoteFromNode builds a note from a "note" syntax node with fields
// white (required), acc and oct (optional). An unrecognized accidental
// is ignored and a missing octave defaults to the reference octave.
func NoteFromNode(node syntax.Node) (Note, error) {
	white := node.Child("white")
	if white == nil {
		return Note{}, fmt.Errorf("note node without white field: %q", node.Text())
	}
	class, ok := whiteClasses[white.Text()]
	if !ok {
		return Note{}, fmt.Errorf("invalid note letter %q", white.Text())
	}

	if acc := node.Child("acc"); acc != nil {
		switch acc.Text() {
		case "#":
			class = class.Add(1)
		case "b":
			class = class.Add(-1)
		}
	}

	octave := DefaultOctave
	if oct := node.Child("oct"); oct != nil {
		if v, err := strconv.Atoi(oct.Text()); err == nil {
			octave = Octave(v)
		}
	}

	return NewNote(class, octave), nil
}

// ChordFromNode builds a chord from a "chord" syntax node with fields
// root (a note node, required), mode, repeated augm, and bass (a note
// node). Unrecognized modes default to Major; unrecognized extensions
// are dropped.
func ChordFromNode(node syntax.Node) (Chord, error) {
	rootNode := node.Child("root")
	if rootNode == nil {
		return Chord{}, fmt.Errorf("chord node without root: %q", node.Text())
	}
	root, err := NoteFromNode(rootNode)
	if err != nil {
		return Chord{}, err
	}

	chord := Chord{Root: root}

	if mode := node.Child("mode"); mode != nil {
		chord.Mode = ModeFromText(mode.Text())
	}

	for _, augm := range node.Children("augm") {
		if ext, ok := ExtFromText(augm.Text()); ok {
			chord.Exts = append(chord.Exts, ext)
		}
	}

	if bassNode := node.Child("bass"); bassNode != nil {
		bass, err := NoteFromNode(bassNode)
		if err != nil {
			return Chord{}, err
		}
		chord.Bass = &bass
	}

	return chord, nil
}
