// Package audio synthesises the short tone cues and the biome music loop
// requested by the simulation through sound events.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/vovakirdan/loopy/internal/core"
)

// SampleRate is the output rate for every generated stream.
const SampleRate = beep.SampleRate(44100)

// toneAttack is the fade-in applied to every tone.
const toneAttack = 20 * time.Millisecond

// WaveType defines oscillator wave shapes.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// Tone is one oscillator voice of a cue.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Gain     float64
	Wave     WaveType
}

// cueTones maps each cue to the voices played together for it. Gains are
// relative to the sfx volume.
var cueTones = map[core.Cue][]Tone{
	core.CueEat: {
		{Freq: 660, Duration: 80 * time.Millisecond, Gain: 0.5, Wave: WaveSine},
	},
	core.CueHit: {
		{Freq: 120, Duration: 180 * time.Millisecond, Gain: 0.65, Wave: WaveSaw},
	},
	core.CueAbility: {
		{Freq: 400, Duration: 120 * time.Millisecond, Gain: 0.65, Wave: WaveSquare},
		{Freq: 800, Duration: 80 * time.Millisecond, Gain: 0.5, Wave: WaveTriangle},
	},
	core.CueCheckpoint: {
		{Freq: 520, Duration: 120 * time.Millisecond, Gain: 0.5, Wave: WaveTriangle},
		{Freq: 780, Duration: 100 * time.Millisecond, Gain: 0.45, Wave: WaveTriangle},
	},
	core.CueShot: {
		{Freq: 980, Duration: 50 * time.Millisecond, Gain: 0.3, Wave: WaveSquare},
	},
	core.CueWormholePulse: {
		{Freq: 70, Duration: 240 * time.Millisecond, Gain: 0.5, Wave: WaveSaw},
	},
	core.CuePortalPulse: {
		{Freq: 90, Duration: 250 * time.Millisecond, Gain: 0.45, Wave: WaveSine},
	},
}

// TonesFor returns the voices of a cue, or nil for an unknown cue.
func TonesFor(cue core.Cue) []Tone {
	return cueTones[cue]
}

// oscillator generates a raw wave for a fixed number of samples.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		val := waveAt(o.wave, o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// waveAt evaluates a wave at phase in [0, 1).
func waveAt(w WaveType, phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveTriangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// envelope applies a linear attack and release to a stream.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack of the given length and a release
// that fades to silence over the rest of duration.
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: total - att,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := range n {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		switch {
		case e.position < e.attackSamples:
			vol = float64(e.position) / float64(e.attackSamples)
		case e.releaseSamples > 0:
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. math.Log2(0) is -Inf, so a zero
// volume becomes a silent stream.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// ToneStreamer renders a single shaped tone at the given volume.
func ToneStreamer(t Tone, volume float64, rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(t.Freq, t.Duration, t.Wave, rate)
	shaped := NewEnvelope(osc, t.Duration, toneAttack, rate)
	return newVolume(shaped, t.Gain*volume)
}

// CueStreamer renders every voice of a cue mixed together. It returns nil
// for an unknown cue.
func CueStreamer(cue core.Cue, sfxVolume float64, rate beep.SampleRate) beep.Streamer {
	tones := cueTones[cue]
	if len(tones) == 0 {
		return nil
	}
	voices := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		voices = append(voices, ToneStreamer(t, sfxVolume, rate))
	}
	if len(voices) == 1 {
		return voices[0]
	}
	return beep.Mix(voices...)
}
