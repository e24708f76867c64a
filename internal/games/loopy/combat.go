package loopy

import (
	"fmt"

	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// knockbackShoveSec converts the bomb knockback speed into an immediate
// displacement. Stunned enemies hold still, so a velocity would be lost.
const knockbackShoveSec = 0.1

// combatState holds the primary-input weapons and status windows.
type combatState struct {
	combo      ability.Combo
	tapShot    ability.Timer
	bomb       ability.Timer
	shieldCast ability.Timer

	holdIntervalMs float64
	nextHoldAt     float64
	holdCharge     int

	shieldUntil float64
	bloomUntil  float64
	nextPulseAt float64

	lastAction    ability.ComboAction
	lastActionAt  float64
	blockedReason string
	blockedAt     float64

	combatHint     limiter
	checkpointHint limiter
	exitHint       limiter
}

func newCombatState(bal config.Balance, levelID int) combatState {
	h := bal.Combat.Hold
	return combatState{
		holdIntervalMs: core.ClampF(h.BaseMs-h.PerLevelMs*float64(levelID), h.MinMs, h.MaxMs),
		combatHint:     limiter{interval: bal.Hints.CombatMs},
		checkpointHint: limiter{interval: bal.Hints.CheckpointMs},
		exitHint:       limiter{interval: bal.Hints.ExitMs},
	}
}

func (l *Level) shieldActive(now float64) bool {
	return now < l.combat.shieldUntil
}

// handleInput routes taps to the trap or the combo, then runs hold fire and
// the bloom special.
func (l *Level) handleInput(in core.InputFrame, now float64) {
	tapped := in.Has(core.ActionPrimary)
	if tapped {
		if l.trap != nil {
			l.tapTrap(now)
		} else {
			taps := l.combat.combo.Tap(now)
			l.executeCombo(ability.ActionForTaps(taps), now)
			if taps >= ability.MaxTaps {
				l.combat.combo.Reset()
			}
		}
	}
	l.combat.combo.Expire(now)
	l.updateHoldFire(in.Has(core.ActionHold), tapped, now)

	if in.Has(core.ActionSpecial) {
		l.tryBloom(now)
	}
}

func (l *Level) block(reason string, now float64) {
	l.combat.blockedReason = reason
	l.combat.blockedAt = now
}

func (l *Level) resolved(action ability.ComboAction, now float64) {
	l.combat.lastAction = action
	l.combat.lastActionAt = now
	l.combat.blockedReason = ""
}

func (l *Level) combatHint(text string, now float64) {
	if l.combat.combatHint.Allow(now) {
		l.events.emit(HintEvent{Text: text})
	}
}

func (l *Level) executeCombo(action ability.ComboAction, now float64) {
	c := l.bal.Combat
	switch action {
	case ability.ComboShot:
		if !l.combat.tapShot.TryFire(now, c.TapShot.CooldownMs) {
			l.block("shot_cooldown", now)
			return
		}
		l.fireShot(shotSpec{damage: c.TapShot.Damage, speed: c.TapShot.Speed, radius: tapShotRadius})
		l.events.emit(SoundEvent{Cue: core.CueShot})
		l.resolved(action, now)

	case ability.ComboBomb:
		if !l.combat.bomb.TryFire(now, c.Bomb.CooldownMs) {
			l.block("bomb_cooldown", now)
			l.combatHint("Bomb recharging", now)
			return
		}
		l.triggerBomb(now)
		l.events.emit(HintEvent{Text: "Glitter Bomb"})
		l.events.emit(SoundEvent{Cue: core.CueAbility})
		l.resolved(action, now)

	case ability.ComboShield:
		if !l.combat.shieldCast.TryFire(now, c.Shield.CooldownMs) {
			l.block("shield_cooldown", now)
			l.combatHint("Shield recharging", now)
			return
		}
		l.activateShield(now)
		l.events.emit(SoundEvent{Cue: core.CueAbility})
		l.resolved(action, now)
	}
}

// shotSpec describes one player shot. A nil dir means auto-aim.
type shotSpec struct {
	damage float64
	speed  float64
	radius float64
	dir    *core.Vec2
}

// aimDirection points at the nearest target in range, or along the facing.
func (l *Level) aimDirection() core.Vec2 {
	if target, ok := l.nearestTarget(); ok {
		d := target.Sub(l.player.Pos)
		return d.Scale(1 / max(1, d.Len()))
	}
	return core.Vec2{X: float64(l.player.Facing)}
}

// nearestTarget finds the closest enemy strictly inside the auto-aim range.
// A living boss wins when it is closer still.
func (l *Level) nearestTarget() (core.Vec2, bool) {
	best := l.bal.Combat.AutoAimRange
	var found core.Vec2
	ok := false
	l.enemies.Each(func(_ Handle, e *Entity) {
		if d := l.player.Pos.Dist(e.Pos); d < best {
			best = d
			found = e.Pos
			ok = true
		}
	})
	if b := l.bossEntity(); b != nil && l.player.Pos.Dist(b.Pos) < best {
		return b.Pos, true
	}
	return found, ok
}

func (l *Level) fireShot(s shotSpec) {
	dir := l.aimDirection()
	if s.dir != nil {
		dir = *s.dir
	}
	pos := l.player.Pos.Add(core.Vec2{X: dir.X * 20, Y: dir.Y * 12})
	l.shots.Add(Entity{
		Kind:   KindShot,
		Pos:    pos,
		Vel:    dir.Scale(s.speed),
		Radius: s.radius,
		Proj:   &ProjState{Source: FromPlayer, Owner: OwnerPlayer, Damage: s.damage},
	})
}

func (l *Level) updateHoldFire(held, tapped bool, now float64) {
	c := &l.combat
	if !held {
		c.nextHoldAt = 0
		c.holdCharge = 0
		return
	}
	if tapped {
		c.nextHoldAt = now + c.holdIntervalMs
		return
	}
	if c.nextHoldAt == 0 {
		c.nextHoldAt = now
	}
	if now < c.nextHoldAt {
		return
	}

	h := l.bal.Combat.Hold
	l.fireShot(shotSpec{damage: h.Damage, speed: h.Speed, radius: holdShotRadius})
	l.events.emit(SoundEvent{Cue: core.CueShot})
	c.holdCharge++
	if h.ArcEvery > 0 && c.holdCharge >= h.ArcEvery {
		base := l.aimDirection().Angle()
		for _, off := range []float64{-h.ArcSpread, h.ArcSpread} {
			dir := core.FromAngle(base+off, 1)
			l.fireShot(shotSpec{damage: h.ArcDamage, speed: h.ArcSpeed, radius: holdShotRadius, dir: &dir})
		}
		c.holdCharge = 0
	}
	c.nextHoldAt = now + c.holdIntervalMs
}

// triggerBomb pops nearby enemy projectiles and stuns, damages and shoves
// nearby enemies.
func (l *Level) triggerBomb(now float64) {
	b := l.bal.Combat.Bomb
	center := l.player.Pos

	popped := 0
	l.projectiles.Each(func(h Handle, e *Entity) {
		if e.Proj.Owner == OwnerEnemy && center.Dist(e.Pos) <= b.Radius {
			l.arena.Destroy(h)
			popped++
		}
	})

	l.enemies.Each(func(h Handle, e *Entity) {
		d := e.Pos.Sub(center)
		dist := d.Len()
		if dist > b.PredatorReach {
			return
		}
		e.Enemy.Stun(b.PredatorStunMs, now)
		if !l.damageEnemy(h, e, b.PredatorDamage, SourceBomb) && e.Active {
			e.Pos = e.Pos.Add(d.Scale(b.Knockback * knockbackShoveSec / max(1, dist)))
		}
	})

	if boss := l.bossEntity(); boss != nil && center.Dist(boss.Pos) <= b.BossReach {
		boss.Boss.Stun(b.BossStunMs, now)
		l.damageEnemy(l.boss, boss, b.BossDamage, SourceBomb)
	}

	if popped > 0 {
		l.events.emit(HintEvent{Text: fmt.Sprintf("Bomb popped %d", popped)})
	}
}

func (l *Level) activateShield(now float64) {
	s := l.bal.Combat.Shield
	c := &l.combat
	c.shieldUntil = max(c.shieldUntil, now+s.DurationMs)
	c.nextPulseAt = now

	reflected := l.reflectWithin(s.ReflectRadius, s.ReflectMult, now)
	if reflected > 0 {
		l.events.emit(HintEvent{Text: fmt.Sprintf("Glitter Shield reflected %d", reflected)})
	} else {
		l.events.emit(HintEvent{Text: "Glitter Shield"})
	}
}

// reflectWithin hands every enemy projectile within radius to the player.
func (l *Level) reflectWithin(radius, mult, now float64) int {
	n := 0
	floor := l.bal.Combat.ReflectFloor
	l.projectiles.Each(func(_ Handle, e *Entity) {
		if e.Proj.Owner != OwnerEnemy || l.player.Pos.Dist(e.Pos) > radius {
			return
		}
		e.Reflect(l.player.Pos, mult, floor)
		e.Proj.ShieldIgnoreUntil = now + 90
		n++
	})
	return n
}

// updateShieldAura pulses while the shield is up.
func (l *Level) updateShieldAura(now float64) {
	c := &l.combat
	if now < c.nextPulseAt {
		return
	}
	s := l.bal.Combat.Shield
	c.nextPulseAt = now + s.PulseEveryMs

	l.reflectWithin(s.PulseRadius, s.PulseReflectMult, now)
	l.enemies.Each(func(h Handle, e *Entity) {
		if l.player.Pos.Dist(e.Pos) <= s.PulseReach {
			e.Enemy.Stun(s.PulseStunMs, now)
			l.damageEnemy(h, e, s.PulseDamage, SourceShield)
		}
	})
}

// tryBloom casts universe bloom when the meter is full.
func (l *Level) tryBloom(now float64) {
	b := l.bal.Combat.Bloom
	if l.run.bloomMeter < b.MeterMax {
		l.events.emit(HintEvent{Text: "Universe Bloom needs full meter"})
		return
	}
	c := &l.combat
	l.run.bloomMeter = 0
	l.run.bloomsCast++
	c.bloomUntil = now + b.DurationMs
	c.shieldUntil = max(c.shieldUntil, now+b.ShieldMs)
	c.nextPulseAt = min(c.nextPulseAt, now+60)

	cleared := 0
	l.projectiles.Each(func(h Handle, e *Entity) {
		if e.Proj.Owner == OwnerEnemy {
			l.arena.Destroy(h)
			cleared++
		}
	})
	l.enemies.Each(func(h Handle, e *Entity) {
		e.Enemy.Stun(b.PredatorStunMs, now)
		l.damageEnemy(h, e, b.PredatorDamage, SourceBloom)
	})
	l.holes.Each(func(_ Handle, e *Entity) {
		e.Hole.SuppressShots(c.bloomUntil)
	})
	if boss := l.bossEntity(); boss != nil {
		boss.Boss.Stun(b.BossStunMs, now)
		l.damageEnemy(l.boss, boss, b.BossDamage, SourceBloom)
	}

	l.events.emit(SoundEvent{Cue: core.CueAbility})
	l.events.emit(HintEvent{Text: fmt.Sprintf("Universe Bloom! Cleared %d", cleared)})
}

// applyPlayerDamage is the single damage intake for the player. A shield
// or invulnerability window swallows the hit; a lethal hit spends a life.
func (l *Level) applyPlayerDamage(amount, now float64) {
	if l.run.ended || l.shieldActive(now) {
		return
	}
	if !l.player.TakeDamage(amount, now) {
		return
	}
	l.events.emit(PlayerDamagedEvent{Amount: amount, Health: l.player.Health})
	l.events.emit(SoundEvent{Cue: core.CueHit})

	if l.player.Health > 0 && amount < l.bal.Damage.WormholeCoreReset {
		return
	}
	l.run.lives--
	l.run.deaths++
	if l.run.lives <= 0 {
		l.gameOver("Out of lives")
		return
	}

	l.releaseTrap(now)
	l.player.RespawnAt(l.run.checkpoint, now)
	l.combat.shieldUntil = max(l.combat.shieldUntil, now+l.bal.Player.RespawnShieldMs)
	l.events.emit(RespawnEvent{LivesLeft: l.run.lives, Deaths: l.run.deaths})
	l.events.emit(HintEvent{Text: fmt.Sprintf("Respawn! Lives left: %d", l.run.lives)})
	l.log.Debug("respawn", "level", l.def.ID, "lives", l.run.lives, "deaths", l.run.deaths)
}

func (l *Level) tapTrap(now float64) {
	tr := l.trap
	tr.taps++
	if tr.taps < tr.goal {
		return
	}
	hole := l.arena.Get(tr.hole)
	l.releaseTrap(now)
	if hole != nil {
		d := l.player.Pos.Sub(hole.Pos)
		l.player.Vel = d.Scale(trapEscapePush / max(1, d.Len()))
	}
	l.events.emit(HintEvent{Text: "Escaped the ocean trap"})
}

func (l *Level) releaseTrap(now float64) {
	if l.trap == nil {
		return
	}
	if hole := l.arena.Get(l.trap.hole); hole != nil {
		hole.Hole.MarkTrapReleased(now)
	}
	l.trap = nil
}
