package loopy

import (
	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/core"
)

// Event is an outbound notification for HUD, audio and save collaborators.
// Events are queued during a tick and drained by the caller.
type Event interface {
	loopyEvent()
}

// QuotaProgressEvent fires whenever a food item is collected.
type QuotaProgressEvent struct {
	Collected int
	Quota     int
}

func (QuotaProgressEvent) loopyEvent() {}

// PlayerDamagedEvent fires when damage was actually applied.
type PlayerDamagedEvent struct {
	Amount float64
	Health float64
}

func (PlayerDamagedEvent) loopyEvent() {}

// CheckpointReachedEvent fires when a checkpoint is bought.
type CheckpointReachedEvent struct {
	LevelID int
	X       float64
}

func (CheckpointReachedEvent) loopyEvent() {}

// LevelCompletedEvent fires exactly once per successful attempt.
type LevelCompletedEvent struct {
	LevelID int
	Score   int
}

func (LevelCompletedEvent) loopyEvent() {}

// AbilityUnlockedEvent fires when a milestone level is cleared for the
// first time.
type AbilityUnlockedEvent struct {
	Ability ability.ID
}

func (AbilityUnlockedEvent) loopyEvent() {}

// GameOverEvent fires exactly once when the attempt fails.
type GameOverEvent struct {
	LevelID int
	Reason  string
}

func (GameOverEvent) loopyEvent() {}

// RespawnEvent fires when a life is spent and the player returns to the
// current checkpoint.
type RespawnEvent struct {
	LivesLeft int
	Deaths    int
}

func (RespawnEvent) loopyEvent() {}

// HintEvent carries a short HUD message.
type HintEvent struct {
	Text string
}

func (HintEvent) loopyEvent() {}

// SoundEvent asks the audio collaborator to play a cue.
type SoundEvent struct {
	Cue core.Cue
}

func (SoundEvent) loopyEvent() {}

// BossSpawnedEvent fires when the boss wakes up.
type BossSpawnedEvent struct {
	MaxHP float64
}

func (BossSpawnedEvent) loopyEvent() {}

// BossDefeatedEvent fires once when the boss health reaches zero.
type BossDefeatedEvent struct{}

func (BossDefeatedEvent) loopyEvent() {}

// TailBiteEvent fires when a serpent bites its own tail.
type TailBiteEvent struct {
	X, Y float64
}

func (TailBiteEvent) loopyEvent() {}

// eventQueue buffers events until the caller drains them.
type eventQueue struct {
	events []Event
}

func (q *eventQueue) emit(e Event) {
	q.events = append(q.events, e)
}

func (q *eventQueue) drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// limiter rate-limits a hint: Allow returns true at most once per interval.
type limiter struct {
	interval float64
	next     float64
}

func (l *limiter) Allow(now float64) bool {
	if now < l.next {
		return false
	}
	l.next = now + l.interval
	return true
}
