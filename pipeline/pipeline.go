// Package pipeline builds named tracks from a score's syntax tree, mixes
// them into one mono sample stream, and hot-swaps to edited scores at
// 4-bar boundaries.
package pipeline

import (
	"sort"
	"sync"

	"github.com/mielpeeters/breaker/parameter"
	"github.com/mielpeeters/breaker/postproc"
)

// Playable is a named, independently timed audio-generating track. The
// set is currently just grids, but the pipeline only needs sampling.
type Playable interface {
	GetSample(time uint64, sampleRate int) float32
}

// Pipeline owns the live tracks, their effect chains and mix weights,
// and the global sample clock. Mutable state is guarded by one mutex
// shared between the producer loop and the edit watcher; the watcher
// builds replacements entirely outside the lock and holds it only for
// Propose.
type Pipeline struct {
	mu sync.Mutex

	playables map[string]Playable
	effects   map[string][]postproc.Effect
	mix       map[string]float32

	time      uint64
	barLength uint64
	rate      int

	next *Pipeline

	queue *Queue
}

// Propose stores a replacement pipeline without touching live state. The
// replacement's playables, effects, mix and bar length are swapped in at
// the next 4-bar boundary.
func (p *Pipeline) Propose(next *Pipeline) {
	p.mu.Lock()
	p.next = next
	p.mu.Unlock()
}

// swap adopts the pending replacement and restarts the sample clock so
// the new state always begins exactly on a phrase boundary. Caller holds
// the lock.
func (p *Pipeline) swap() {
	next := p.next
	p.next = nil
	p.time = 0
	p.playables = next.playables
	p.effects = next.effects
	p.mix = next.mix
	p.barLength = next.barLength
}

// Advance renders one mixed sample and enqueues it. Each track's dry
// sample is scaled by its mix weight, pushed through its effect chain in
// declared order, and summed. Returns ErrQueueClosed once the consumer
// has disconnected.
func (p *Pipeline) Advance() error {
	p.mu.Lock()

	if p.next != nil && p.barLength > 0 && p.time%(parameter.SwapBars*p.barLength) == 0 {
		p.swap()
	}

	var sum float32
	for name, playable := range p.playables {
		wet := playable.GetSample(p.time, p.rate) * p.mix[name]
		for _, effect := range p.effects[name] {
			wet = effect.Process(wet)
		}
		sum += wet
	}
	p.time++

	queue := p.queue
	p.mu.Unlock()

	// send outside the lock so a full queue never blocks Propose
	select {
	case <-queue.done:
		return ErrQueueClosed
	default:
	}
	select {
	case queue.ch <- sum:
		return nil
	case <-queue.done:
		return ErrQueueClosed
	}
}

// Run advances until the queue's consumer disconnects.
func (p *Pipeline) Run() error {
	for {
		if err := p.Advance(); err != nil {
			return err
		}
	}
}

// SetMix overrides one track's mix weight and rescales all weights so
// they sum to one again.
func (p *Pipeline) SetMix(name string, weight float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.mix[name]; !ok {
		return
	}
	p.mix[name] = weight
	rescaleMix(p.mix)
}

// Time returns the global sample clock.
func (p *Pipeline) Time() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.time
}

// BarLength returns the bar length in samples.
func (p *Pipeline) BarLength() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.barLength
}

// SampleRate returns the output sample rate the pipeline renders at.
func (p *Pipeline) SampleRate() int {
	return p.rate
}

// TrackInfo describes one track for monitoring.
type TrackInfo struct {
	Name    string
	Mix     float32
	Effects int
}

// Snapshot is a consistent read of the pipeline's public state.
type Snapshot struct {
	Tracks    []TrackInfo
	Time      uint64
	BarLength uint64
	Pending   bool
}

// Snapshot captures the live state for display and tests. Tracks are
// sorted by name.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := Snapshot{
		Time:      p.time,
		BarLength: p.barLength,
		Pending:   p.next != nil,
	}
	for name := range p.playables {
		snap.Tracks = append(snap.Tracks, TrackInfo{
			Name:    name,
			Mix:     p.mix[name],
			Effects: len(p.effects[name]),
		})
	}
	sort.Slice(snap.Tracks, func(i, j int) bool {
		return snap.Tracks[i].Name < snap.Tracks[j].Name
	})
	return snap
}

// rescaleMix normalizes weights so they sum to one.
func rescaleMix(mix map[string]float32) {
	var total float32
	for _, w := range mix {
		total += w
	}
	if total == 0 {
		return
	}
	for name, w := range mix {
		mix[name] = w / total
	}
}
