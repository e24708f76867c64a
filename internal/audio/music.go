package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Biome music timing.
const (
	musicStep = 780 * time.Millisecond
	musicNote = 320 * time.Millisecond
	musicGain = 0.32
)

// BiomePattern returns the repeating note frequencies for a biome.
func BiomePattern(biome string) []float64 {
	if biome == "jungle" {
		return []float64{220, 277, 329}
	}
	return []float64{146, 174, 220}
}

// musicLoop streams a triangle note every step, cycling the pattern
// forever.
type musicLoop struct {
	pattern []float64
	rate    beep.SampleRate
	step    int
	note    int
	attack  int
	pos     int
	phase   float64
}

// NewMusicLoop creates an endless biome loop.
func NewMusicLoop(biome string, rate beep.SampleRate) beep.Streamer {
	return &musicLoop{
		pattern: BiomePattern(biome),
		rate:    rate,
		step:    rate.N(musicStep),
		note:    rate.N(musicNote),
		attack:  rate.N(toneAttack),
	}
}

func (m *musicLoop) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		idx := (m.pos / m.step) % len(m.pattern)
		offset := m.pos % m.step
		if offset == 0 {
			m.phase = 0
		}

		val := 0.0
		if offset < m.note {
			vol := 1.0
			if offset < m.attack {
				vol = float64(offset) / float64(m.attack)
			} else {
				vol = float64(m.note-offset) / float64(m.note-m.attack)
			}
			val = waveAt(WaveTriangle, m.phase) * vol * musicGain
			m.phase += m.pattern[idx] / float64(m.rate)
			m.phase -= math.Floor(m.phase)
		}

		samples[i][0] = val
		samples[i][1] = val
		m.pos++
	}
	return len(samples), true
}

func (m *musicLoop) Err() error { return nil }
