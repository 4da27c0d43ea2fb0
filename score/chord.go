package score

import (
	"strings"

	"github.com/mielpeeters/breaker/syntax"
)

// classifyValue turns a mapping value word into a syntax node. Words
// starting with '[' or a capital A-G are chord text; a pitch with no
// mode, extension or bass becomes a bare note node; anything that fails
// to scan, or starts otherwise, names a sample.
func classifyValue(word string) syntax.Node {
	if len(word) > 0 && (word[0] == '[' || (word[0] >= 'A' && word[0] <= 'G')) {
		if node, ok := scanChordWord(word); ok {
			return node
		}
	}
	return syntax.NewNode("name", word)
}

// chordScanner consumes chord text like "[3]C#m7/E" piecewise.
type chordScanner struct {
	rest string
}

// scanChordWord parses chord text into either a "note" node (fields
// white, acc, oct) or a "chord" node (fields root, mode, augm..., bass).
func scanChordWord(word string) (syntax.Node, bool) {
	s := chordScanner{rest: word}

	root, ok := s.scanNote(true)
	if !ok {
		return nil, false
	}

	mode := s.scanMode()
	augs := s.scanExtensions()

	var bass syntax.Node
	if s.eat("/") {
		bass, ok = s.scanNote(false)
		if !ok {
			return nil, false
		}
	}

	if s.rest != "" {
		return nil, false
	}

	if mode == "" && len(augs) == 0 && bass == nil {
		return root, true
	}

	chord := syntax.NewNode("chord", word)
	chord.Append("root", root)
	if mode != "" {
		chord.Append("mode", syntax.NewNode("name", mode))
	}
	for _, aug := range augs {
		chord.Append("augm", syntax.NewNode("name", aug))
	}
	if bass != nil {
		chord.Append("bass", bass)
	}
	return chord, true
}

// scanNote consumes an optional "[d]" octave (root position only), a
// pitch letter A-G, and an optional accidental.
func (s *chordScanner) scanNote(withOctave bool) (syntax.Node, bool) {
	start := s.rest

	var oct string
	if withOctave && strings.HasPrefix(s.rest, "[") {
		end := strings.IndexByte(s.rest, ']')
		if end < 2 {
			return nil, false
		}
		oct = s.rest[1:end]
		s.rest = s.rest[end+1:]
	}

	if s.rest == "" || s.rest[0] < 'A' || s.rest[0] > 'G' {
		return nil, false
	}
	white := s.rest[:1]
	s.rest = s.rest[1:]

	var acc string
	if strings.HasPrefix(s.rest, "#") || strings.HasPrefix(s.rest, "b") {
		acc = s.rest[:1]
		s.rest = s.rest[1:]
	}

	node := syntax.NewNode("note", strings.TrimSuffix(start, s.rest))
	node.Append("white", syntax.NewNode("name", white))
	if acc != "" {
		node.Append("acc", syntax.NewNode("name", acc))
	}
	if oct != "" {
		node.Append("oct", syntax.NewNode("number", oct))
	}
	return node, true
}

// chord modes, longest tags first so "sus4" wins over a bare "s" miss
var modeTags = []string{"sus4", "sus2", "dim", "aug", "m"}

func (s *chordScanner) scanMode() string {
	for _, tag := range modeTags {
		// lowercase m only: "M7" is the major-seven extension
		if strings.HasPrefix(s.rest, tag) {
			s.rest = s.rest[len(tag):]
			return tag
		}
	}
	return ""
}

// extension tags, longest first
var extTags = []string{"M7", "13", "11", "9", "7", "6", "5"}

func (s *chordScanner) scanExtensions() []string {
	var augs []string
	for {
		matched := false
		for _, tag := range extTags {
			if strings.HasPrefix(s.rest, tag) {
				augs = append(augs, tag)
				s.rest = s.rest[len(tag):]
				matched = true
				break
			}
		}
		if !matched {
			return augs
		}
	}
}

func (s *chordScanner) eat(prefix string) bool {
	if strings.HasPrefix(s.rest, prefix) {
		s.rest = s.rest[len(prefix):]
		return true
	}
	return false
}
