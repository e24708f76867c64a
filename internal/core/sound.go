package core

// Cue names a sound the simulation asks the audio collaborator to play.
type Cue string

const (
	CueEat           Cue = "eat"
	CueHit           Cue = "hit"
	CueAbility       Cue = "ability"
	CueCheckpoint    Cue = "checkpoint"
	CueShot          Cue = "shot"
	CueWormholePulse Cue = "wormhole_pulse"
	CuePortalPulse   Cue = "portal_pulse"
)

// Cues lists every cue in a stable order.
func Cues() []Cue {
	return []Cue{CueEat, CueHit, CueAbility, CueCheckpoint, CueShot, CueWormholePulse, CuePortalPulse}
}
