package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielpeeters/breaker/chromatic"
	"github.com/mielpeeters/breaker/score"
	"github.com/mielpeeters/breaker/syntax"
)

// buildScore parses and builds a score at a small sample rate so tests
// can cross phrase boundaries without filling the queue.
func buildScore(t *testing.T, source string, rate int) (*Pipeline, *Queue) {
	t.Helper()
	tree, err := score.Parse(source)
	require.NoError(t, err)
	p, q, err := Build(tree, &Config{SampleRate: rate, Seed: 1})
	require.NoError(t, err)
	return p, q
}

// TestBuildTracksAndMix verifies declared tracks, bar length from tempo,
// and mix weights rescaled to sum to one
func TestBuildTracksAndMix(t *testing.T) {
	p, _ := buildScore(t, `
tempo 120 4/4
grid beat { k _ _ _ }
grid keys { c _ _ _ }
mix beat 0.8
set keys lp_cutoff 2800
set keys gain 0.5
set keys unknown_prop 3
`, 1000)

	// 60 * 1000 * 4 / 120
	assert.Equal(t, uint64(2000), p.BarLength())
	assert.Equal(t, 1000, p.SampleRate())

	snap := p.Snapshot()
	require.Len(t, snap.Tracks, 2)
	assert.Equal(t, "beat", snap.Tracks[0].Name)
	assert.Equal(t, "keys", snap.Tracks[1].Name)

	// weights 0.8 and 1.0 rescaled
	assert.InDelta(t, 0.8/1.8, snap.Tracks[0].Mix, 1e-3)
	assert.InDelta(t, 1.0/1.8, snap.Tracks[1].Mix, 1e-3)

	var sum float32
	for _, track := range snap.Tracks {
		sum += track.Mix
	}
	assert.InDelta(t, 1.0, sum, 1e-3)

	// unknown setter properties are ignored
	assert.Equal(t, 0, snap.Tracks[0].Effects)
	assert.Equal(t, 2, snap.Tracks[1].Effects)
}

// TestSetMixRescales verifies a live mix override keeps the sum at one
func TestSetMixRescales(t *testing.T) {
	p, _ := buildScore(t, `
grid a { _ }
grid b { _ }
`, 1000)

	p.SetMix("a", 3)

	snap := p.Snapshot()
	var sum float32
	for _, track := range snap.Tracks {
		sum += track.Mix
	}
	assert.InDelta(t, 1.0, sum, 1e-3)
	assert.InDelta(t, 3.0/3.5, snap.Tracks[0].Mix, 1e-3)

	// overriding an undeclared track is a no-op
	p.SetMix("nope", 1)
	assert.InDelta(t, 1.0, sum, 1e-3)
}

// TestBuildUnknownStatement verifies unrecognized statement kinds abort
// the build
func TestBuildUnknownStatement(t *testing.T) {
	root := syntax.NewNode("source", "")
	bogus := syntax.NewNode("sequence", "beat")
	bogus.Append("name", syntax.NewNode("name", "beat"))
	root.Append("statements", bogus)

	_, _, err := Build(root, &Config{SampleRate: 1000})
	assert.ErrorIs(t, err, ErrUnknownStatement)
}

// TestBuildUnknownTarget verifies modifiers on undeclared tracks abort
// the build
func TestBuildUnknownTarget(t *testing.T) {
	tree, err := score.Parse("grid beat { _ }\nmix ghost 0.5\n")
	require.NoError(t, err)

	_, _, err = Build(tree, &Config{SampleRate: 1000})
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

// TestAdvanceDeliversFIFO verifies samples cross the queue in production
// order and match the synthesized track
func TestAdvanceDeliversFIFO(t *testing.T) {
	p, q := buildScore(t, `
grid keys { c }
map keys { c = C }
`, 1000)

	const n = 16
	for i := 0; i < n; i++ {
		require.NoError(t, p.Advance())
	}

	note := chromatic.NewNote(chromatic.C, 4)
	for i := uint64(0); i < n; i++ {
		assert.Equal(t, note.Synthesize(i, 1000), <-q.C, "sample %d", i)
	}
}

// TestAdvanceAfterClose verifies the producer loop terminates once the
// consumer disconnects
func TestAdvanceAfterClose(t *testing.T) {
	p, q := buildScore(t, "grid beat { _ }\n", 1000)

	require.NoError(t, p.Advance())
	q.Close()
	q.Close() // idempotent

	assert.ErrorIs(t, p.Advance(), ErrQueueClosed)
	assert.ErrorIs(t, p.Run(), ErrQueueClosed)
}

// TestProposeSwapsAtPhraseBoundary verifies a proposed replacement is
// adopted exactly at the next 4-bar boundary, with the clock restarted
func TestProposeSwapsAtPhraseBoundary(t *testing.T) {
	// bar length 60*100*4/120 = 200 samples, phrase 800
	p, _ := buildScore(t, "tempo 120 4/4\ngrid beat { _ }\n", 100)
	next, _ := buildScore(t, "tempo 120 4/4\ngrid beat { _ }\ngrid keys { _ }\n", 100)

	require.NoError(t, p.Advance())
	p.Propose(next)

	snap := p.Snapshot()
	assert.True(t, snap.Pending)
	require.Len(t, snap.Tracks, 1)

	// up to the boundary the old state keeps playing
	for i := 0; i < 799; i++ {
		require.NoError(t, p.Advance())
	}
	snap = p.Snapshot()
	assert.True(t, snap.Pending)
	assert.Len(t, snap.Tracks, 1)
	assert.Equal(t, uint64(800), snap.Time)

	// the advance that lands on the boundary swaps and restarts the clock
	require.NoError(t, p.Advance())
	snap = p.Snapshot()
	assert.False(t, snap.Pending)
	assert.Len(t, snap.Tracks, 2)
	assert.Equal(t, uint64(1), snap.Time)
}

// TestProposeBeforeStart verifies a replacement proposed before playback
// begins is adopted on the first advance
func TestProposeBeforeStart(t *testing.T) {
	p, _ := buildScore(t, "grid beat { _ }\n", 100)
	next, _ := buildScore(t, "grid beat { _ }\ngrid keys { _ }\n", 100)

	p.Propose(next)
	require.NoError(t, p.Advance())

	snap := p.Snapshot()
	assert.False(t, snap.Pending)
	assert.Len(t, snap.Tracks, 2)
}

// TestMapMissingSampleSilent verifies names absent from the sample set
// degrade to silent tracks instead of failing the build
func TestMapMissingSampleSilent(t *testing.T) {
	p, q := buildScore(t, `
grid beat { k k k k }
map beat { k = no_such_sample }
`, 1000)

	for i := 0; i < 8; i++ {
		require.NoError(t, p.Advance())
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, float32(0.0), <-q.C)
	}
}
