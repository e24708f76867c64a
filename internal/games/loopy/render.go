package loopy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// hudRows is the number of screen rows above the viewport.
const hudRows = 2

// Glyphs used by the terminal renderer.
const (
	glyphPlayer     = '@'
	glyphFood       = '*'
	glyphFountain   = '$'
	glyphHazard     = '^'
	glyphVine       = '%'
	glyphPredator   = 'P'
	glyphSkimmer    = 'K'
	glyphTotem      = 'T'
	glyphSerpent    = 'S'
	glyphTail       = '~'
	glyphWormhole   = 'O'
	glyphOcean      = 'Q'
	glyphPull       = '.'
	glyphBoss       = 'B'
	glyphProjectile = '•'
	glyphShot       = '-'
	glyphGate       = '#'
	glyphCheckpoint = '|'
)

// camera maps world coordinates onto the viewport. Terminal cells are about
// twice as tall as wide, so x is sampled at twice the vertical density.
type camera struct {
	left   float64
	scaleY float64 // world units per row
	scaleX float64 // world units per column
	cols   int
	rows   int
}

func (l *Level) camera(dst *core.Screen) camera {
	rows := max(1, dst.Height()-hudRows)
	cols := max(1, dst.Width())
	scaleY := float64(config.WorldHeight) / float64(rows)
	scaleX := scaleY / 2
	span := scaleX * float64(cols)
	left := core.ClampF(l.player.Pos.X-span*0.35, 0, max(0, l.Width()-span))
	return camera{left: left, scaleY: scaleY, scaleX: scaleX, cols: cols, rows: rows}
}

func (c camera) cell(p core.Vec2) (int, int, bool) {
	x := int(math.Floor((p.X - c.left) / c.scaleX))
	y := int(math.Floor(p.Y / c.scaleY))
	if x < 0 || x >= c.cols || y < 0 || y >= c.rows {
		return 0, 0, false
	}
	return x, y + hudRows, true
}

func (c camera) plot(dst *core.Screen, p core.Vec2, r rune, col core.Color) {
	if x, y, ok := c.cell(p); ok {
		dst.SetColored(x, y, r, col)
	}
}

// Render draws the HUD and a camera-following view of the level.
func (l *Level) Render(dst *core.Screen) {
	dst.Clear()
	if l.player == nil {
		return
	}
	cam := l.camera(dst)

	l.renderBackdrop(dst, cam)
	l.hazards.Each(func(_ Handle, e *Entity) {
		glyph, col := rune(glyphHazard), core.ColorOrange
		if e.Hazard.Type == "vine" {
			glyph, col = glyphVine, core.ColorGreen
		}
		for _, seg := range e.Hazard.Segments {
			cam.plot(dst, seg, glyph, col)
		}
	})
	l.holes.Each(func(_ Handle, e *Entity) {
		l.renderWormhole(dst, cam, e)
	})
	l.foods.Each(func(_ Handle, e *Entity) {
		cam.plot(dst, e.Pos, glyphFood, core.ColorBrightGreen)
	})
	l.pickups.Each(func(_ Handle, e *Entity) {
		glyph, col := 's', core.ColorYellow
		switch e.Pickup.Type {
		case PickupUniverseSeed:
			glyph, col = 'u', core.ColorBrightMagenta
		case PickupLife:
			glyph, col = '+', core.ColorBrightRed
		}
		cam.plot(dst, e.Pos, glyph, col)
	})
	l.fountains.Each(func(_ Handle, e *Entity) {
		cam.plot(dst, e.Pos, glyphFountain, core.ColorBrightYellow)
	})
	l.enemies.Each(func(_ Handle, e *Entity) {
		l.renderEnemy(dst, cam, e)
	})
	if b := l.arena.Get(l.boss); l.bossSpawned && b != nil {
		col := core.ColorBrightRed
		if b.Boss.Vulnerable(l.now) {
			col = core.ColorBrightWhite
		}
		cam.plot(dst, b.Pos, glyphBoss, col)
	}
	l.projectiles.Each(func(_ Handle, e *Entity) {
		col := core.ColorRed
		if e.Proj.Owner == OwnerPlayer {
			col = core.ColorBrightCyan
		} else if e.Proj.Source == FromWormhole {
			col = core.ColorMagenta
		}
		cam.plot(dst, e.Pos, glyphProjectile, col)
	})
	l.shots.Each(func(_ Handle, e *Entity) {
		cam.plot(dst, e.Pos, glyphShot, core.ColorBrightYellow)
	})

	col := core.ColorBrightCyan
	switch {
	case l.shieldActive(l.now):
		col = core.ColorBrightWhite
	case l.player.IsInvulnerable(l.now):
		col = core.ColorGray
	}
	cam.plot(dst, l.player.Pos, glyphPlayer, col)

	l.renderHUD(dst)
}

func (l *Level) renderBackdrop(dst *core.Screen, cam camera) {
	for i, x := range l.def.Checkpoints {
		col := core.ColorGray
		if i < l.run.cpCursor {
			col = core.ColorCyan
		}
		for row := range cam.rows {
			if row%3 == 0 {
				cam.plot(dst, core.Vec2{X: x, Y: (float64(row) + 0.5) * cam.scaleY}, glyphCheckpoint, col)
			}
		}
	}

	gate := l.ExitGate()
	col := core.ColorGray
	if l.ExitOpen() {
		col = core.ColorBrightGreen
	}
	for dy := -gate.Radius; dy <= gate.Radius; dy += cam.scaleY {
		cam.plot(dst, core.Vec2{X: gate.Pos.X, Y: gate.Pos.Y + dy}, glyphGate, col)
	}
}

func (l *Level) renderWormhole(dst *core.Screen, cam camera, e *Entity) {
	s := e.Hole
	for i := range 16 {
		a := float64(i) * math.Pi / 8
		cam.plot(dst, e.Pos.Add(core.FromAngle(a, s.PullRadius)), glyphPull, core.ColorBlue)
	}
	glyph := rune(glyphWormhole)
	if e.Kind == KindOceanWormhole {
		glyph = glyphOcean
	}
	cam.plot(dst, e.Pos, glyph, core.ColorBrightBlue)
}

func (l *Level) renderEnemy(dst *core.Screen, cam camera, e *Entity) {
	glyph := rune(glyphPredator)
	switch e.Kind {
	case KindSkimmer:
		glyph = glyphSkimmer
	case KindTotem:
		glyph = glyphTotem
	case KindSerpent:
		glyph = glyphSerpent
		for i := range e.Serpent.Segments {
			cam.plot(dst, e.Serpent.SegmentPos(i), glyphTail, core.ColorMagenta)
		}
	}
	col := core.ColorRed
	switch {
	case e.Flash || e.Enemy.ImmuneUntil > l.now:
		col = core.ColorBrightWhite
	case e.Enemy.Stunned(l.now):
		col = core.ColorGray
	case e.WindingUp(l.now):
		col = core.ColorBrightYellow
	}
	cam.plot(dst, e.Pos, glyph, col)
}

func (l *Level) renderHUD(dst *core.Screen) {
	r := l.run
	left := fmt.Sprintf("L%02d %s  Food %d/%d  Lives %d  HP %.0f  Seeds %d",
		l.def.ID, l.def.Name, r.collected, r.quota, r.lives, l.player.Health, r.seeds)
	dst.DrawTextColored(1, 0, left, core.ColorBrightWhite)

	right := fmt.Sprintf("Bloom %3.0f%%", 100*r.bloomMeter/max(1, l.bal.Combat.Bloom.MeterMax))
	if r.timed {
		right = fmt.Sprintf("Time %3.0f  %s", max(0, r.timeLeftMs/1000), right)
	}
	dst.DrawTextColored(dst.Width()-len(right)-1, 0, right, core.ColorBrightYellow)

	status := ""
	if b := l.bossEntity(); b != nil {
		status = fmt.Sprintf("BOSS %3.0f%% phase %d  ", 100*b.Health.Ratio(), BossPhase(*b.Health))
	}
	if l.trap != nil {
		status += fmt.Sprintf("TRAPPED %d/%d  ", l.trap.taps, l.trap.goal)
	}
	if l.shieldActive(l.now) {
		status += "SHIELD  "
	}
	if l.now < l.combat.bloomUntil {
		status += "BLOOM  "
	}
	if p := l.player.PrimaryAbility(); p != "" {
		status += fmt.Sprintf("[%s %.1fs]", p, l.player.CooldownRemaining(p, l.now)/1000)
	}
	dst.DrawTextColored(1, 1, status, core.ColorCyan)
}
