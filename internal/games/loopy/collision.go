package loopy

import (
	"fmt"

	"github.com/vovakirdan/loopy/internal/core"
)

// resolveOverlaps runs every overlap pair once. An entity destroyed earlier
// in the pass is skipped by the later pairs, so each pair resolves at most
// once per tick.
func (l *Level) resolveOverlaps(now float64) {
	l.playerPickups(now)
	l.playerHazards(now)
	l.playerProjectiles(now)
	l.shotHits()
	l.reflectedHits()
}

func (l *Level) playerCircle() core.Circle {
	return l.player.Circle()
}

func (l *Level) playerPickups(now float64) {
	l.foods.Each(func(h Handle, e *Entity) {
		if e.Overlaps(l.playerCircle()) && l.arena.Destroy(h) {
			l.collectFood(e, now)
		}
	})
	l.pickups.Each(func(h Handle, e *Entity) {
		if e.Overlaps(l.playerCircle()) && l.arena.Destroy(h) {
			l.collectPickup(e.Pickup.Type)
		}
	})
	l.fountains.Each(func(h Handle, e *Entity) {
		if e.Overlaps(l.playerCircle()) && l.arena.Destroy(h) {
			l.run.seeds += e.Fountain.Reward
			l.events.emit(SoundEvent{Cue: core.CueEat})
			l.events.emit(HintEvent{Text: fmt.Sprintf("Seed fountain +%d", e.Fountain.Reward)})
		}
	})
}

func (l *Level) collectFood(e *Entity, now float64) {
	eco := l.bal.Economy
	l.run.collected++
	l.run.seeds++
	l.run.bloomMeter = min(l.bal.Combat.Bloom.MeterMax, l.run.bloomMeter+eco.FoodBloomGain)
	l.events.emit(QuotaProgressEvent{Collected: l.run.collected, Quota: l.run.quota})
	l.events.emit(SoundEvent{Cue: core.CueEat})

	typ, ok := rollPickup(l.rng.Float64(), eco)
	if !ok {
		return
	}
	pos := core.Vec2{
		X: e.Pos.X + between(l.rng, -20, 20),
		Y: e.Pos.Y + between(l.rng, -20, 20),
	}
	l.pickups.Add(newPickup(pos, typ, now, eco.PickupLifetimeMs))
}

func (l *Level) collectPickup(typ PickupType) {
	eco := l.bal.Economy
	switch typ {
	case PickupSeed:
		l.run.seeds += eco.SeedPickupValue
		l.events.emit(HintEvent{Text: fmt.Sprintf("+%d Seeds", eco.SeedPickupValue)})
	case PickupUniverseSeed:
		l.run.universeSeeds++
		l.run.bloomMeter = min(l.bal.Combat.Bloom.MeterMax, l.run.bloomMeter+eco.UniverseBloomGain)
		l.events.emit(HintEvent{Text: "Universe Seed + Bloom"})
	case PickupLife:
		l.run.lives = min(l.bal.Player.MaxLives, l.run.lives+1)
		l.events.emit(HintEvent{Text: "+1 Life"})
	}
}

// playerHazards covers hazards, wormhole cores and enemy bodies.
func (l *Level) playerHazards(now float64) {
	dmg := l.bal.Damage
	l.hazards.Each(func(_ Handle, e *Entity) {
		if l.run.ended || !HazardTouches(e, l.playerCircle()) {
			return
		}
		if l.run.hazardGate.TryFire(now, l.bal.Hints.HazardMs) {
			l.applyPlayerDamage(e.Hazard.Damage, now)
		}
	})
	l.holes.Each(func(_ Handle, e *Entity) {
		if !l.run.ended && e.Hole.InsideCore(e.Pos, l.player.Pos) {
			l.applyPlayerDamage(dmg.WormholeCoreReset, now)
		}
	})
	l.enemies.Each(func(_ Handle, e *Entity) {
		if !l.run.ended && e.Overlaps(l.playerCircle()) {
			l.applyPlayerDamage(dmg.PredatorContact, now)
		}
	})
	if b := l.bossEntity(); b != nil && !l.run.ended && b.Overlaps(l.playerCircle()) {
		l.applyPlayerDamage(dmg.BossContact, now)
	}
}

// playerProjectiles resolves enemy projectiles touching the player. While
// the shield is up they are reflected instead of dealing damage.
func (l *Level) playerProjectiles(now float64) {
	l.projectiles.Each(func(h Handle, e *Entity) {
		if l.run.ended || e.Proj.Owner == OwnerPlayer || !e.Overlaps(l.playerCircle()) {
			return
		}
		if l.shieldActive(now) {
			if now < e.Proj.ShieldIgnoreUntil {
				return
			}
			e.Reflect(l.player.Pos, 1.15, l.bal.Combat.ReflectFloor)
			e.Proj.ShieldIgnoreUntil = now + 90
			return
		}
		l.applyPlayerDamage(e.Proj.Damage, now)
		l.arena.Destroy(h)
	})
}

// shotHits resolves player shots against enemies, enemy projectiles,
// wormholes and the boss. A shot is spent on its first hit.
func (l *Level) shotHits() {
	killSeeds := l.bal.Combat.KillSeeds
	l.shots.Each(func(sh Handle, s *Entity) {
		l.enemies.Each(func(h Handle, e *Entity) {
			if !s.Active || !s.Overlaps(e.Circle()) {
				return
			}
			if l.damageEnemy(h, e, s.Proj.Damage, SourceShot) {
				l.run.seeds += killSeeds
			}
			l.arena.Destroy(sh)
		})
		l.projectiles.Each(func(h Handle, p *Entity) {
			if !s.Active || p.Proj.Owner != OwnerEnemy || !s.Overlaps(p.Circle()) {
				return
			}
			l.arena.Destroy(sh)
			l.arena.Destroy(h)
		})
		l.holes.Each(func(_ Handle, w *Entity) {
			if s.Active && s.Overlaps(w.Circle()) {
				l.arena.Destroy(sh)
			}
		})
		if b := l.bossEntity(); b != nil && s.Active && s.Overlaps(b.Circle()) {
			l.damageEnemy(l.boss, b, s.Proj.Damage, SourceShot)
			l.arena.Destroy(sh)
		}
	})
}

// reflectedHits resolves player-owned projectiles against enemies and the
// boss.
func (l *Level) reflectedHits() {
	floor := l.bal.Combat.ReflectFloor
	l.projectiles.Each(func(ph Handle, p *Entity) {
		if p.Proj.Owner != OwnerPlayer {
			return
		}
		dmg := max(floor, p.Proj.Damage)
		l.enemies.Each(func(h Handle, e *Entity) {
			if !p.Active || !p.Overlaps(e.Circle()) {
				return
			}
			l.damageEnemy(h, e, dmg, SourceReflect)
			l.arena.Destroy(ph)
		})
		if b := l.bossEntity(); b != nil && p.Active && p.Overlaps(b.Circle()) {
			l.damageEnemy(l.boss, b, dmg, SourceReflect)
			l.arena.Destroy(ph)
		}
	})
}
