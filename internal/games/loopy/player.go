package loopy

import (
	"math"

	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// Player is the fish fairy controller.
type Player struct {
	Pos       core.Vec2
	Vel       core.Vec2
	Radius    float64
	Health    float64
	MaxHealth float64
	Facing    int // 1 right, -1 left

	invulnerableUntil float64
	glideUntil        float64
	cooldowns         ability.Cooldowns
	unlocked          []ability.ID
	primary           ability.ID

	bal       config.PlayerBalance
	abilityCd map[string]float64
}

// NewPlayer creates a player at pos with full health.
func NewPlayer(pos core.Vec2, bal config.PlayerBalance, cooldowns map[string]float64) *Player {
	return &Player{
		Pos:       pos,
		Radius:    bal.Radius,
		Health:    bal.MaxHealth,
		MaxHealth: bal.MaxHealth,
		Facing:    1,
		cooldowns: ability.Cooldowns{},
		unlocked:  []ability.ID{},
		bal:       bal,
		abilityCd: cooldowns,
	}
}

// SetUnlocked replaces the unlocked ability list. The primary ability is
// the last unlocked one.
func (p *Player) SetUnlocked(list []ability.ID) {
	p.unlocked = append([]ability.ID{}, list...)
	p.primary, _ = ability.Primary(p.unlocked)
}

// Unlocked returns the unlocked abilities in unlock order.
func (p *Player) Unlocked() []ability.ID {
	return append([]ability.ID{}, p.unlocked...)
}

// PrimaryAbility returns the most recently unlocked ability, or "".
func (p *Player) PrimaryAbility() ability.ID {
	return p.primary
}

// UpdateControl steers the velocity towards the input direction and
// handles dash and glide requests. Position is integrated by the caller.
func (p *Player) UpdateControl(in core.InputFrame, dt, now float64) {
	gliding := now < p.glideUntil
	maxSpeed := p.bal.BaseSpeed
	steerRate := p.bal.SteerRate
	if gliding {
		maxSpeed *= p.bal.GlideSpeedFactor
		steerRate = p.bal.GlideSteerRate
	}

	move := core.Vec2{X: in.MoveX, Y: in.MoveY}
	if mag := move.Len(); mag > 0 {
		dir := move.Scale(1 / mag)
		k := 1 - math.Exp(-dt*steerRate)
		p.Vel.X = core.Lerp(p.Vel.X, dir.X*maxSpeed, k)
		p.Vel.Y = core.Lerp(p.Vel.Y, dir.Y*maxSpeed, k)
	} else {
		k := 1 - math.Exp(-dt*p.bal.ReleaseRate)
		p.Vel.X = core.Lerp(p.Vel.X, 0, k)
		p.Vel.Y = core.Lerp(p.Vel.Y, 0, k)
	}

	if p.Vel.X > p.bal.FacingDeadzone {
		p.Facing = 1
	} else if p.Vel.X < -p.bal.FacingDeadzone {
		p.Facing = -1
	}

	if in.Has(core.ActionDash) {
		p.TryDash(now)
	}
	if in.Has(core.ActionGlide) {
		p.TryGlide(now)
	}

	if gliding {
		p.Vel.Y -= p.bal.GlideLift * dt
	}
}

// TryDash bursts horizontally in the facing direction. Locked or cooling
// down is a silent no-op.
func (p *Player) TryDash(now float64) bool {
	if !ability.CanUse(ability.Dash, p.unlocked, p.cooldowns, now) {
		return false
	}
	p.cooldowns.Trigger(ability.Dash, now, p.abilityCd[string(ability.Dash)])
	p.Vel = core.Vec2{X: float64(p.Facing) * p.bal.DashSpeed, Y: p.Vel.Y * p.bal.DashVerticalDamp}
	return true
}

// TryGlide starts a glide window. Locked or cooling down is a silent no-op.
func (p *Player) TryGlide(now float64) bool {
	if !ability.CanUse(ability.Glide, p.unlocked, p.cooldowns, now) {
		return false
	}
	p.cooldowns.Trigger(ability.Glide, now, p.abilityCd[string(ability.Glide)])
	p.glideUntil = now + p.bal.GlideDurationMs
	return true
}

// Gliding reports whether the glide window is open.
func (p *Player) Gliding(now float64) bool {
	return now < p.glideUntil
}

// TakeDamage applies damage unless the player is invulnerable. It returns
// whether damage was applied.
func (p *Player) TakeDamage(amount, now float64) bool {
	if now < p.invulnerableUntil {
		return false
	}
	p.Health = max(0, p.Health-amount)
	p.invulnerableUntil = now + p.bal.InvulnMs
	return true
}

// IsInvulnerable reports whether damage is currently ignored.
func (p *Player) IsInvulnerable(now float64) bool {
	return now < p.invulnerableUntil
}

// InvulnerableUntil returns the end of the invulnerability window.
func (p *Player) InvulnerableUntil() float64 {
	return p.invulnerableUntil
}

// RespawnAt moves the player to pos, stops it, restores health to at
// least the respawn ratio and grants a short invulnerability window.
func (p *Player) RespawnAt(pos core.Vec2, now float64) {
	p.Pos = pos
	p.Vel = core.Vec2{}
	p.Health = max(math.Floor(p.MaxHealth*p.bal.RespawnHealthRatio), p.Health)
	p.invulnerableUntil = max(p.invulnerableUntil, now+p.bal.RespawnInvulnMs)
}

// CooldownRemaining returns milliseconds until the ability is ready.
func (p *Player) CooldownRemaining(id ability.ID, now float64) float64 {
	return p.cooldowns.Remaining(id, now)
}

// ClearCooldowns resets every ability cooldown. Debug only.
func (p *Player) ClearCooldowns() {
	p.cooldowns.Clear()
}

// HealthRatio returns health/max clamped to [0, 1].
func (p *Player) HealthRatio() float64 {
	return core.ClampF(p.Health/p.MaxHealth, 0, 1)
}

// Circle returns the player's bounding circle.
func (p *Player) Circle() core.Circle {
	return core.Circle{Pos: p.Pos, Radius: p.Radius}
}
