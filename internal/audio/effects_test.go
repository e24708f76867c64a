package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/progress"
)

// drain streams s to the end and returns every sample.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		p = max(p, math.Abs(s[0]))
	}
	return p
}

func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	osc := NewOscillator(440, 100*time.Millisecond, WaveSine, rate)
	got := drain(osc)
	if len(got) != 800 {
		t.Errorf("streamed %d samples, expected 800", len(got))
	}
	if osc.Err() != nil {
		t.Errorf("unexpected error: %v", osc.Err())
	}
}

func TestWaveShapes(t *testing.T) {
	tests := []struct {
		wave  WaveType
		phase float64
		want  float64
	}{
		{WaveSine, 0.25, 1},
		{WaveSquare, 0.1, 1},
		{WaveSquare, 0.6, -1},
		{WaveSaw, 0, -1},
		{WaveSaw, 0.5, 0},
		{WaveTriangle, 0.5, 1},
		{WaveTriangle, 0, -1},
	}
	for _, tt := range tests {
		if got := waveAt(tt.wave, tt.phase); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("waveAt(%v, %v) = %v, expected %v", tt.wave, tt.phase, got, tt.want)
		}
	}
}

func TestEnvelopeFadesOut(t *testing.T) {
	rate := beep.SampleRate(8000)
	d := 100 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, d, WaveSquare, rate), d, 20*time.Millisecond, rate)
	got := drain(env)
	if len(got) != 800 {
		t.Fatalf("streamed %d samples, expected 800", len(got))
	}
	if got[0][0] != 0 {
		t.Errorf("first sample = %v, expected silence at the start of the attack", got[0][0])
	}
	if math.Abs(got[len(got)-1][0]) > 0.01 {
		t.Errorf("last sample = %v, expected near silence", got[len(got)-1][0])
	}
}

func TestEveryCueHasTones(t *testing.T) {
	for _, cue := range core.Cues() {
		if len(TonesFor(cue)) == 0 {
			t.Errorf("cue %q has no tones", cue)
		}
		if CueStreamer(cue, 1, SampleRate) == nil {
			t.Errorf("cue %q produced no stream", cue)
		}
	}
	if CueStreamer("nope", 1, SampleRate) != nil {
		t.Error("unknown cue should produce nil")
	}
}

func TestCueTones(t *testing.T) {
	eat := TonesFor(core.CueEat)
	if eat[0].Freq != 660 || eat[0].Wave != WaveSine {
		t.Errorf("eat tone = %+v", eat[0])
	}
	hit := TonesFor(core.CueHit)
	if hit[0].Freq != 120 || hit[0].Wave != WaveSaw {
		t.Errorf("hit tone = %+v", hit[0])
	}
	if len(TonesFor(core.CueCheckpoint)) != 2 {
		t.Error("checkpoint should be a two-voice chord")
	}
}

func TestCueVolumeScales(t *testing.T) {
	rate := beep.SampleRate(8000)
	loud := peak(drain(CueStreamer(core.CueHit, 1, rate)))
	quiet := peak(drain(CueStreamer(core.CueHit, 0.5, rate)))
	silent := peak(drain(CueStreamer(core.CueHit, 0, rate)))

	if loud == 0 {
		t.Fatal("cue produced only silence")
	}
	if math.Abs(quiet-loud/2) > 0.01 {
		t.Errorf("half volume peak = %v, expected %v", quiet, loud/2)
	}
	if silent != 0 {
		t.Errorf("zero volume peak = %v, expected 0", silent)
	}
}

func TestMusicLoopNeverEnds(t *testing.T) {
	rate := beep.SampleRate(8000)
	m := NewMusicLoop("jungle", rate)
	buf := make([][2]float64, rate.N(3*time.Second))
	n, ok := m.Stream(buf)
	if !ok || n != len(buf) {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}
	if peak(buf) == 0 {
		t.Error("music loop is silent")
	}

	// The gap between notes is silent.
	gap := buf[rate.N(500*time.Millisecond)]
	if gap[0] != 0 {
		t.Errorf("sample in the gap = %v, expected 0", gap[0])
	}
}

func TestBiomePattern(t *testing.T) {
	if p := BiomePattern("jungle"); p[0] != 220 {
		t.Errorf("jungle pattern = %v", p)
	}
	if p := BiomePattern("desert"); p[0] != 146 {
		t.Errorf("desert pattern = %v", p)
	}
}

func TestPlayerSilentUntilStarted(t *testing.T) {
	p := NewPlayer(progress.Settings{MusicVolume: 0.4, SfxVolume: 0.6}, nil)
	if p.Play(core.CueEat) {
		t.Error("player queued a cue before Start")
	}
	p.PlayAll([]core.Cue{core.CueHit, core.CueShot})
	p.StartMusic("desert")
	p.StopMusic()
	p.Close()
	if p.Played() != 0 {
		t.Errorf("Played() = %d, expected 0", p.Played())
	}
}

func TestPlayerClampsVolumes(t *testing.T) {
	p := NewPlayer(progress.Settings{MusicVolume: 4, SfxVolume: -1}, nil)
	s := p.Settings()
	if s.MusicVolume != 1 || s.SfxVolume != 0 {
		t.Errorf("settings = %+v", s)
	}
	p.SetVolumes(progress.Settings{MusicVolume: 0.3, SfxVolume: 0.7})
	if p.Settings().SfxVolume != 0.7 {
		t.Errorf("SetVolumes() not applied: %+v", p.Settings())
	}
}
