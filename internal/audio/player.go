package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/progress"
)

// Player mixes cue and music streams into the speaker. A Player that was
// never started, or was disabled, silently drops every request.
type Player struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	music    *beep.Ctrl
	settings progress.Settings
	started  bool
	log      *log.Logger
	played   int
}

// NewPlayer creates a player with volumes taken from the save settings.
func NewPlayer(settings progress.Settings, lg *log.Logger) *Player {
	if lg == nil {
		lg = log.New(io.Discard)
	}
	return &Player{
		mixer:    &beep.Mixer{},
		settings: progress.Sanitize(progress.SaveState{Settings: settings}).Settings,
		log:      lg,
	}
}

// Start opens the speaker. Failure leaves the player silent and is
// returned so the caller can log it.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.started = true
	return nil
}

// Close stops all sounds.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Lock()
	if p.music != nil {
		p.music.Paused = true
	}
	p.mixer.Clear()
	speaker.Unlock()
	p.started = false
}

// Settings returns the active volumes.
func (p *Player) Settings() progress.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// SetVolumes replaces the volumes used for subsequent sounds.
func (p *Player) SetVolumes(settings progress.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = progress.Sanitize(progress.SaveState{Settings: settings}).Settings
}

// Play queues a cue. It reports whether a sound was actually queued.
func (p *Player) Play(cue core.Cue) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || p.settings.SfxVolume <= 0 {
		return false
	}
	s := CueStreamer(cue, p.settings.SfxVolume, SampleRate)
	if s == nil {
		p.log.Debug("unknown sound cue", "cue", cue)
		return false
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played++
	return true
}

// PlayAll queues each cue in order.
func (p *Player) PlayAll(cues []core.Cue) {
	for _, c := range cues {
		p.Play(c)
	}
}

// StartMusic replaces the current music loop with the biome loop.
func (p *Player) StartMusic(biome string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()
	if p.music != nil {
		p.music.Paused = true
		p.music.Streamer = nil
	}
	ctrl := &beep.Ctrl{Streamer: newVolume(NewMusicLoop(biome, SampleRate), p.settings.MusicVolume)}
	p.music = ctrl
	p.mixer.Add(ctrl)
}

// StopMusic silences the music loop.
func (p *Player) StopMusic() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.music == nil {
		return
	}
	if p.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.music.Paused = true
	p.music.Streamer = nil
	p.music = nil
}

// Played returns how many cues were queued.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}
