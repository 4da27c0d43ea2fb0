package pipeline

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/mielpeeters/breaker/chromatic"
	"github.com/mielpeeters/breaker/grid"
	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/postproc"
	"github.com/mielpeeters/breaker/sampler"
	"github.com/mielpeeters/breaker/syntax"
)

// playableKinds lists the statement kinds that declare playables.
var playableKinds = []string{"grid"}

// Config carries build inputs that do not come from the score itself.
type Config struct {
	// SamplesDir is the WAV sample directory; file stems become bound
	// names. A missing directory degrades to an empty sample set.
	SamplesDir string

	// SampleRate of the output device. Defaults to
	// parameter.DefaultSampleRate.
	SampleRate int

	// Seed for probabilistic grid tokens; 0 seeds from the clock.
	Seed int64
}

func (c *Config) sampleRate() int {
	if c == nil || c.SampleRate <= 0 {
		return parameter.DefaultSampleRate
	}
	return c.SampleRate
}

// Build walks the score tree's top-level statements and assembles a
// pipeline plus the hand-off queue its consumer reads from. A first pass
// instantiates named playables; a second applies map, tempo, speed, mix
// and setter statements; finally the mix weights are rescaled to sum to
// one. Unrecognized statements and undeclared targets abort the build.
func Build(root syntax.Node, cfg *Config) (*Pipeline, *Queue, error) {
	rate := cfg.sampleRate()

	p := &Pipeline{
		playables: make(map[string]Playable),
		effects:   make(map[string][]postproc.Effect),
		mix:       make(map[string]float32),
		rate:      rate,
		barLength: samplesPerBar(parameter.DefaultBPM, parameter.DefaultBeats, rate),
		queue:     newQueue(),
	}

	seed := time.Now().UnixNano()
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	var samples *sampler.Set
	if cfg != nil && cfg.SamplesDir != "" {
		samples = sampler.LoadDir(cfg.SamplesDir)
	}

	statements := root.Children("statements")

	// pass 1: declare playables, validate statement kinds
	for _, stmt := range statements {
		switch kind := stmt.Kind(); {
		case isPlayableKind(kind):
			name := stmt.Child("name")
			if name == nil {
				return nil, nil, fmt.Errorf("%s statement without a name", kind)
			}
			playable, err := buildPlayable(kind, stmt, rng)
			if err != nil {
				return nil, nil, err
			}
			p.playables[name.Text()] = playable
			p.mix[name.Text()] = 1.0

		case kind == "map" || kind == "tempo" || kind == "speed" ||
			kind == "mix" || kind == "setter":
			// handled in pass 2

		default:
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStatement, kind)
		}
	}

	// pass 2: apply modifiers in document order
	for _, stmt := range statements {
		var err error
		switch stmt.Kind() {
		case "map":
			err = p.applyMap(stmt, samples)
		case "tempo":
			err = p.applyTempo(stmt)
		case "speed":
			err = p.applySpeed(stmt)
		case "mix":
			err = p.applyMix(stmt)
		case "setter":
			err = p.applySetter(stmt)
		}
		if err != nil {
			return nil, nil, err
		}
	}

	rescaleMix(p.mix)

	return p, p.queue, nil
}

func isPlayableKind(kind string) bool {
	for _, k := range playableKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func buildPlayable(kind string, stmt syntax.Node, rng *rand.Rand) (Playable, error) {
	switch kind {
	case "grid":
		g, err := grid.FromNode(stmt)
		if err != nil {
			return nil, err
		}
		g.SetRand(rng)
		return g, nil
	default:
		return nil, fmt.Errorf("%w: playable kind %q", ErrUnknownStatement, kind)
	}
}

// target resolves a statement's name field to a declared grid.
func (p *Pipeline) target(stmt syntax.Node) (string, *grid.Grid, error) {
	name := stmt.Child("name")
	if name == nil {
		return "", nil, fmt.Errorf("%s statement without a target", stmt.Kind())
	}
	playable, ok := p.playables[name.Text()]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownTarget, name.Text())
	}
	g, ok := playable.(*grid.Grid)
	if !ok {
		return "", nil, fmt.Errorf("%s target %q is not a grid", stmt.Kind(), name.Text())
	}
	return name.Text(), g, nil
}

// applyMap resolves a grid's named tokens against samples and chords.
// Sample names absent from the sample set are skipped, leaving their
// tokens to degrade to silence.
func (p *Pipeline) applyMap(stmt syntax.Node, samples *sampler.Set) error {
	_, g, err := p.target(stmt)
	if err != nil {
		return err
	}

	bindings := make(map[string]grid.Token)
	for _, pair := range stmt.Children("pairs") {
		key := pair.Child("key")
		value := pair.Child("value")
		if key == nil || value == nil {
			return fmt.Errorf("malformed mapping pair %q", pair.Text())
		}

		switch value.Kind() {
		case "chord":
			chord, err := chromatic.ChordFromNode(value)
			if err != nil {
				return err
			}
			bindings[key.Text()] = grid.ChordToken(chord)
		case "note":
			note, err := chromatic.NoteFromNode(value)
			if err != nil {
				return err
			}
			bindings[key.Text()] = grid.NoteToken(note)
		default:
			sample := samples.Get(value.Text())
			if sample == nil {
				continue
			}
			bindings[key.Text()] = grid.HitToken(sampler.NewPlayer(sample))
		}
	}

	g.Resolve(bindings)
	return nil
}

// applyTempo sets BPM and time signature on every grid and recomputes
// the bar length.
func (p *Pipeline) applyTempo(stmt syntax.Node) error {
	bpm, err := numberField(stmt, "bpm")
	if err != nil {
		return err
	}
	count, err := intField(stmt, "count")
	if err != nil {
		return err
	}
	unit, err := intField(stmt, "note")
	if err != nil {
		return err
	}

	p.barLength = samplesPerBar(bpm, count, p.rate)
	for _, playable := range p.playables {
		if g, ok := playable.(*grid.Grid); ok {
			g.SetTempo(bpm, count, unit)
		}
	}
	return nil
}

func (p *Pipeline) applySpeed(stmt syntax.Node) error {
	_, g, err := p.target(stmt)
	if err != nil {
		return err
	}
	numer, err := intField(stmt, "numer")
	if err != nil {
		return err
	}
	denom, err := intField(stmt, "denom")
	if err != nil {
		return err
	}
	g.SetNoteLength(numer, denom)
	return nil
}

func (p *Pipeline) applyMix(stmt syntax.Node) error {
	name, _, err := p.target(stmt)
	if err != nil {
		return err
	}
	value, err := numberField(stmt, "value")
	if err != nil {
		return err
	}
	p.mix[name] = float32(value)
	return nil
}

// applySetter appends a constructed effect to the target's chain.
// Unknown property keys are ignored.
func (p *Pipeline) applySetter(stmt syntax.Node) error {
	name, _, err := p.target(stmt)
	if err != nil {
		return err
	}
	prop := stmt.Child("prop")
	if prop == nil {
		return fmt.Errorf("setter without a property")
	}
	value, err := numberField(stmt, "value")
	if err != nil {
		return err
	}

	switch prop.Text() {
	case "lp_cutoff":
		fir := postproc.NewFIRBuilder().LowPass(value, float64(p.rate)).Build()
		p.effects[name] = append(p.effects[name], fir)
	case "hp_cutoff":
		fir := postproc.NewFIRBuilder().HighPass(value, float64(p.rate)).Build()
		p.effects[name] = append(p.effects[name], fir)
	case "gain":
		p.effects[name] = append(p.effects[name], postproc.NewGain(float32(value)))
	}
	return nil
}

// samplesPerBar is the bar length in output samples.
func samplesPerBar(bpm float64, beats, sampleRate int) uint64 {
	return uint64(60.0 * float64(sampleRate) * float64(beats) / bpm)
}

func numberField(stmt syntax.Node, field string) (float64, error) {
	node := stmt.Child(field)
	if node == nil {
		return 0, fmt.Errorf("%s statement without %s", stmt.Kind(), field)
	}
	v, err := strconv.ParseFloat(node.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, node.Text(), err)
	}
	return v, nil
}

func intField(stmt syntax.Node, field string) (int, error) {
	node := stmt.Child(field)
	if node == nil {
		return 0, fmt.Errorf("%s statement without %s", stmt.Kind(), field)
	}
	v, err := strconv.Atoi(node.Text())
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, node.Text(), err)
	}
	return v, nil
}
