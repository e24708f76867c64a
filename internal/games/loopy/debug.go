package loopy

import (
	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// Debug operations. They bypass the normal gates and exist for the sim
// command, the terminal debug keys and tests.

// ForceComplete meets the quota, kills a living boss and completes the
// level through the normal terminal path.
func (l *Level) ForceComplete() {
	if l.run.ended {
		return
	}
	l.run.collected = max(l.run.collected, l.run.quota)
	if b := l.bossEntity(); b != nil {
		l.damageEnemy(l.boss, b, 9999, SourceGeneric)
		l.arena.Destroy(l.boss)
	}
	l.completeLevel()
}

// KillPlayer deals a lethal hit through the normal damage path, spending
// one life. It has no effect while a shield or invulnerability window is open.
func (l *Level) KillPlayer() {
	if l.run.ended {
		return
	}
	l.applyPlayerDamage(l.bal.Damage.WormholeCoreReset, l.now)
}

// JumpToNextCheckpoint tops up seeds when short, moves the player just past
// the next checkpoint and buys it. It reports false when none is left.
func (l *Level) JumpToNextCheckpoint() bool {
	if l.run.ended || l.run.cpCursor >= len(l.def.Checkpoints) {
		return false
	}
	l.releaseTrap(l.now)
	l.run.seeds = max(l.run.seeds, l.run.cpCost)
	x := l.def.Checkpoints[l.run.cpCursor]
	l.player.Pos = core.Vec2{X: x + 6, Y: l.def.PlayerStart.Y}
	l.player.Vel = core.Vec2{}
	l.updateCheckpoints(l.now)
	return true
}

// ChargeBloom fills the bloom meter.
func (l *Level) ChargeBloom() {
	l.run.bloomMeter = l.bal.Combat.Bloom.MeterMax
	l.events.emit(HintEvent{Text: "Universe Bloom charged"})
}

// ClearCooldowns resets every ability cooldown and weapon gate.
func (l *Level) ClearCooldowns() {
	l.player.ClearCooldowns()
	l.combat.tapShot = ability.Timer{}
	l.combat.bomb = ability.Timer{}
	l.combat.shieldCast = ability.Timer{}
}

// TeleportPlayer moves the player to pos, clamped to the world.
func (l *Level) TeleportPlayer(pos core.Vec2) {
	l.releaseTrap(l.now)
	r := l.player.Radius
	l.player.Pos = core.Vec2{
		X: core.ClampF(pos.X, r, l.Width()-r),
		Y: core.ClampF(pos.Y, r, config.WorldHeight-r),
	}
	l.player.Vel = core.Vec2{}
}

// AddSeeds grants seeds.
func (l *Level) AddSeeds(n int) {
	l.run.seeds = max(0, l.run.seeds+n)
}
