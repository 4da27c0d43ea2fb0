package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mielpeeters/breaker/chromatic"
	"github.com/mielpeeters/breaker/sampler"
)

// TokenKind tags the closed set of grid token variants.
type TokenKind uint8

const (
	// KindPause is a silent slot that still takes over the active index.
	KindPause TokenKind = iota
	// KindHit retriggers its sample player on every slot edge.
	KindHit
	// KindProb retriggers with a probability drawn once per slot edge.
	KindProb
	// KindChord synthesizes a chord while active.
	KindChord
	// KindNote synthesizes a single note while active.
	KindNote
	// KindRepeat sustains whatever was last actively triggered.
	KindRepeat
	// KindUnresolved is a named placeholder; it only exists between
	// parsing and the resolution pass.
	KindUnresolved
)

// Token is one rhythmic slot entry, a tagged variant over the closed
// token set.
type Token struct {
	Kind    TokenKind
	Player  *sampler.Player  // KindHit, KindProb
	Prob    int              // KindProb (and carried on KindUnresolved), percent
	HasProb bool             // KindUnresolved: a probability was written, 0 included
	Chord   *chromatic.Chord // KindChord
	Note    *chromatic.Note  // KindNote
	Name    string           // KindUnresolved
}

// tokenFromText parses one grid slot: "_" pause, "-" repeat, "name" an
// unresolved reference, "name?NN" an unresolved reference with an NN%
// trigger probability.
func tokenFromText(text string) (Token, error) {
	switch text {
	case "_":
		return Token{Kind: KindPause}, nil
	case "-":
		return Token{Kind: KindRepeat}, nil
	}

	name, probText, found := strings.Cut(text, "?")
	if name == "" {
		return Token{}, fmt.Errorf("invalid grid token %q", text)
	}
	if !found {
		return Token{Kind: KindUnresolved, Name: name}, nil
	}

	prob, err := strconv.Atoi(probText)
	if err != nil || prob < 0 || prob > 100 {
		return Token{}, fmt.Errorf("invalid probability in grid token %q", text)
	}
	return Token{Kind: KindUnresolved, Name: name, Prob: prob, HasProb: true}, nil
}

// HitToken binds a sample player behind a name mapping.
func HitToken(player *sampler.Player) Token {
	return Token{Kind: KindHit, Player: player}
}

// ChordToken binds a chord behind a name mapping.
func ChordToken(chord chromatic.Chord) Token {
	return Token{Kind: KindChord, Chord: &chord}
}

// NoteToken binds a single note behind a name mapping.
func NoteToken(note chromatic.Note) Token {
	return Token{Kind: KindNote, Note: &note}
}
