// Package sampler stores decoded audio samples and plays them back with
// per-voice cursors, resampling by index scaling.
package sampler

import (
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Sample is immutable decoded mono PCM, normalized to [-1, 1]. One
// Sample is shared by reference across every voice that plays it.
type Sample struct {
	Name string
	Data []float32
	Rate int
}

// New downmixes interleaved multi-channel integer PCM by taking every
// channel-count-th value, and normalizes to float range by the bit
// depth.
func New(name string, pcm []int, channels, bitDepth, rate int) *Sample {
	if channels < 1 {
		channels = 1
	}
	if bitDepth < 1 {
		bitDepth = 1
	}
	scale := float32(int64(1) << (bitDepth - 1))

	data := make([]float32, 0, len(pcm)/channels)
	for i := 0; i < len(pcm); i += channels {
		data = append(data, float32(pcm[i])/scale)
	}

	return &Sample{Name: name, Data: data, Rate: rate}
}

// FromBuffer converts a decoded PCM buffer into a Sample.
func FromBuffer(name string, buf *audio.IntBuffer, bitDepth int) *Sample {
	return New(name, buf.Data, buf.Format.NumChannels, bitDepth, buf.Format.SampleRate)
}

// LoadWAV decodes a WAV file into a Sample. The file stem becomes the
// sample name.
func LoadWAV(path string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromBuffer(name, buf, int(dec.BitDepth)), nil
}

// Set is the collection of samples available to a build pass, keyed by
// file stem.
type Set struct {
	Samples map[string]*Sample
}

// LoadDir loads every WAV file in dir. A missing directory degrades to
// an empty set, and files that fail to decode are skipped individually.
func LoadDir(dir string) *Set {
	set := &Set{Samples: make(map[string]*Sample)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("no samples directory at %s, skipping sample loading", dir)
		return set
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}
		sample, err := LoadWAV(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Printf("skipping sample %s: %v", entry.Name(), err)
			continue
		}
		set.Samples[sample.Name] = sample
	}

	return set
}

// Get returns the named sample, or nil.
func (s *Set) Get(name string) *Sample {
	if s == nil {
		return nil
	}
	return s.Samples[name]
}

// Player is a mutable per-voice playback cursor over a shared Sample.
type Player struct {
	Sample *Sample
	start  uint64
	speed  float64
}

// NewPlayer creates a voice over the sample at normal speed.
func NewPlayer(sample *Sample) *Player {
	return &Player{Sample: sample, speed: 1.0}
}

// Clone returns an independent voice over the same shared sample.
func (p *Player) Clone() *Player {
	cp := *p
	return &cp
}

// SetSpeed sets the playback speed factor.
func (p *Player) SetSpeed(speed float64) {
	if speed > 0 {
		p.speed = speed
	}
}

// Hit re-triggers playback from the beginning at the given time.
func (p *Player) Hit(time uint64) {
	p.start = time
}

// GetSample reads the voice at an absolute time. The read position is
// (time-start)*speed, additionally rescaled by the source/output rate
// ratio when they differ; neighbouring samples are linearly
// interpolated. Out-of-range reads are silence.
func (p *Player) GetSample(time uint64, outputRate int) float32 {
	if p.Sample == nil || time < p.start {
		return 0
	}

	index := float64(time-p.start) * p.speed
	if p.Sample.Rate != 0 && p.Sample.Rate != outputRate {
		index *= float64(p.Sample.Rate) / float64(outputRate)
	}

	low := int(math.Floor(index))
	if low < 0 || low >= len(p.Sample.Data) {
		return 0
	}
	frac := float32(index - float64(low))

	a := p.Sample.Data[low]
	if frac < 1e-4 {
		return a
	}

	var b float32
	if low+1 < len(p.Sample.Data) {
		b = p.Sample.Data[low+1]
	}
	return a + (b-a)*frac
}
