package chromatic

import "strings"

// Mode is the quality of a chord. The set is closed: every mode maps to
// a fixed list of semitone offsets from the root.
type Mode int

const (
	Major Mode = iota
	Minor
	Dim
	Aug
	Sus4
	Sus2
)

var modeOffsets = [...][]int{
	Major: {4, 7},
	Minor: {3, 7},
	Dim:   {3, 6},
	Aug:   {4, 8},
	Sus4:  {5, 7},
	Sus2:  {2, 7},
}

// Offsets returns the semitone offsets from the root for this mode.
func (m Mode) Offsets() []int {
	return modeOffsets[m]
}

// ModeFromText parses the textual mode tag; unrecognized text falls back
// to Major, like the original defaulting.
func ModeFromText(s string) Mode {
	switch s {
	case "m":
		return Minor
	case "dim":
		return Dim
	case "aug":
		return Aug
	case "sus4":
		return Sus4
	case "sus2":
		return Sus2
	default:
		return Major
	}
}

func (m Mode) String() string {
	switch m {
	case Minor:
		return "m"
	case Dim:
		return "dim"
	case Aug:
		return "aug"
	case Sus4:
		return "sus4"
	case Sus2:
		return "sus2"
	default:
		return ""
	}
}

// Ext is a chord extension. Each extension contributes one or more
// semitone offsets on top of the mode.
type Ext int

const (
	Seven Ext = iota
	Nine
	Eleven
	Thirteen
	MajSeven
	Five
	Six
)

var extOffsets = [...][]int{
	Seven:    {10},
	Nine:     {14},
	Eleven:   {17},
	Thirteen: {21},
	MajSeven: {11},
	Five:     {7},
	Six:      {9},
}

// Offsets returns the semitone offsets this extension adds.
func (e Ext) Offsets() []int {
	return extOffsets[e]
}

// ExtFromText parses an extension tag; ok is false for unknown text.
func ExtFromText(s string) (Ext, bool) {
	switch s {
	case "7":
		return Seven, true
	case "9":
		return Nine, true
	case "11":
		return Eleven, true
	case "13":
		return Thirteen, true
	case "M7":
		return MajSeven, true
	case "5":
		return Five, true
	case "6":
		return Six, true
	default:
		return 0, false
	}
}

func (e Ext) String() string {
	switch e {
	case Seven:
		return "7"
	case Nine:
		return "9"
	case Eleven:
		return "11"
	case Thirteen:
		return "13"
	case MajSeven:
		return "M7"
	case Five:
		return "5"
	case Six:
		return "6"
	default:
		return ""
	}
}

// Chord is a root note with a mode, ordered extensions, and an optional
// bass note.
type Chord struct {
	Root Note
	Mode Mode
	Exts []Ext
	Bass *Note
}

// ToNotes expands the chord: the root, one transposed note per mode
// offset, one per extension offset (in declared order), and finally the
// bass note forced one octave below the root. The order matters for
// display and for synthesis summation.
func (c Chord) ToNotes() []Note {
	notes := []Note{c.Root}
	for _, off := range c.Mode.Offsets() {
		notes = append(notes, c.Root.Transpose(off))
	}
	for _, ext := range c.Exts {
		for _, off := range ext.Offsets() {
			notes = append(notes, c.Root.Transpose(off))
		}
	}
	if c.Bass != nil {
		notes = append(notes, Note{Class: c.Bass.Class, Octave: c.Root.Octave.Down()})
	}
	return notes
}

func (c Chord) String() string {
	var b strings.Builder
	b.WriteString(c.Root.String())
	b.WriteString(c.Mode.String())
	for _, e := range c.Exts {
		b.WriteString(e.String())
	}
	if c.Bass != nil {
		b.WriteString("/")
		b.WriteString(c.Bass.Class.String())
	}
	return b.String()
}
