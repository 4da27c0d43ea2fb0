// Package grid implements the step sequencer: a fixed-length token
// sequence stepped by the global sample clock, with edge-triggered
// scheduling decisions.
package grid

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/syntax"
)

// Grid is an ordered token sequence with tempo-derived timing. The token
// list is fixed after resolution; only the scheduling cursor and the
// lazily recomputed slot timing mutate during playback.
type Grid struct {
	tokens []Token

	bpm      float64
	beats    int
	beatUnit int
	noteNum  int
	noteDen  int

	// derived timing, recomputed when tempo/signature/length change
	perSlot     uint64
	perSlotRate int
	dirty       bool

	next   int // next slot index awaiting its scheduling decision
	active int // currently rendered slot, -1 before the first trigger

	rng *rand.Rand
}

// New creates a grid over the tokens with default tempo, signature and
// note length. The probability source is seeded from the clock; tests
// override it with SetRand.
func New(tokens []Token) *Grid {
	return &Grid{
		tokens:   tokens,
		bpm:      parameter.DefaultBPM,
		beats:    parameter.DefaultBeats,
		beatUnit: parameter.DefaultBeatUnit,
		noteNum:  parameter.DefaultNoteLengthNumer,
		noteDen:  parameter.DefaultNoteLengthDenom,
		dirty:    true,
		active:   -1,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FromNode builds a grid from a "grid" syntax node's repeated tokens
// field.
func FromNode(node syntax.Node) (*Grid, error) {
	var tokens []Token
	for _, child := range node.Children("tokens") {
		token, err := tokenFromText(child.Text())
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("grid %q has no tokens", node.Text())
	}
	return New(tokens), nil
}

// SetRand injects a seedable probability source.
func (g *Grid) SetRand(rng *rand.Rand) {
	g.rng = rng
}

// SetTempo sets BPM and time signature.
func (g *Grid) SetTempo(bpm float64, beats, beatUnit int) {
	if bpm <= 0 || beats <= 0 || beatUnit <= 0 {
		return
	}
	g.bpm = bpm
	g.beats = beats
	g.beatUnit = beatUnit
	g.dirty = true
}

// SetNoteLength sets the slot duration as a fraction of a beat.
func (g *Grid) SetNoteLength(numer, denom int) {
	if numer <= 0 || denom <= 0 {
		return
	}
	g.noteNum = numer
	g.noteDen = denom
	g.dirty = true
}

// SamplesPerSlot returns the slot length in output samples:
// (noteNum/noteDen) * beatUnit * 60 * rate / bpm, truncated.
func (g *Grid) SamplesPerSlot(sampleRate int) uint64 {
	if g.dirty || g.perSlotRate != sampleRate {
		slot := float64(g.noteNum) / float64(g.noteDen) *
			float64(g.beatUnit) * 60.0 * float64(sampleRate) / g.bpm
		g.perSlot = uint64(slot)
		g.perSlotRate = sampleRate
		g.dirty = false
	}
	return g.perSlot
}

// Tokens exposes the token list (read-only use).
func (g *Grid) Tokens() []Token {
	return g.tokens
}

// Active returns the currently rendered slot index, -1 before the first
// trigger.
func (g *Grid) Active() int {
	return g.active
}

// Resolve rewrites every unresolved token in place using the bindings
// built from the score's mapping declarations. Names with no binding
// degrade to silent pauses. Sample bindings are cloned so every slot
// owns its own playback voice; a written probability carries onto
// sample hits, 0 included, while melodic bindings trigger
// unconditionally.
func (g *Grid) Resolve(bindings map[string]Token) {
	for i := range g.tokens {
		token := &g.tokens[i]
		if token.Kind != KindUnresolved {
			continue
		}

		bound, ok := bindings[token.Name]
		if !ok {
			*token = Token{Kind: KindPause}
			continue
		}

		resolved := bound
		if resolved.Player != nil {
			resolved.Player = resolved.Player.Clone()
		}
		if token.HasProb && resolved.Kind == KindHit {
			resolved.Kind = KindProb
			resolved.Prob = token.Prob
		}
		*token = resolved
	}
}

// GetSample advances the scheduler to the slot containing time and
// renders the currently active token. Scheduling decisions happen only
// on the first sample of a new slot.
func (g *Grid) GetSample(time uint64, sampleRate int) float32 {
	perSlot := g.SamplesPerSlot(sampleRate)
	if perSlot == 0 || len(g.tokens) == 0 {
		return 0
	}

	slot := int(time/perSlot) % len(g.tokens)
	if slot == g.next {
		g.trigger(slot, time)
		g.next = (slot + 1) % len(g.tokens)
	}

	if g.active < 0 {
		return 0
	}

	switch token := &g.tokens[g.active]; token.Kind {
	case KindHit, KindProb:
		return token.Player.GetSample(time, sampleRate)
	case KindChord:
		return token.Chord.Synthesize(time, sampleRate)
	case KindNote:
		return token.Note.Synthesize(time, sampleRate)
	default:
		// KindPause; KindRepeat and KindUnresolved are never active
		return 0
	}
}

// trigger applies the per-token scheduling policy at a slot edge.
func (g *Grid) trigger(slot int, time uint64) {
	switch token := &g.tokens[slot]; token.Kind {
	case KindHit:
		token.Player.Hit(time)
		g.active = slot
	case KindProb:
		// one Bernoulli draw per edge; failure sustains the previous hit
		if g.rng.Intn(parameter.ProbScale) < token.Prob {
			token.Player.Hit(time)
			g.active = slot
		}
	case KindRepeat:
		// sustain whatever was last actively triggered
	default:
		// melodic and silent tokens always take over
		g.active = slot
	}
}
