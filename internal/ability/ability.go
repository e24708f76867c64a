// Package ability holds the timed-ability model: the level unlock table,
// per-ability cooldown gating and the tap combo resolver.
package ability

import "math"

// ID names an unlockable player ability.
type ID string

const (
	Dash       ID = "dash"
	Glide      ID = "glide"
	Shockwave  ID = "shockwave"
	PhaseBlink ID = "phase_blink"
)

// unlock pairs an ability with the level that unlocks it.
type unlock struct {
	ID    ID
	Level int
}

// unlockTable is ordered; Unlocked preserves this order.
var unlockTable = []unlock{
	{Dash, 4},
	{Glide, 8},
	{Shockwave, 12},
	{PhaseBlink, 16},
}

// Title returns a display name for the ability.
func Title(id ID) string {
	switch id {
	case Dash:
		return "Dash"
	case Glide:
		return "Glide"
	case Shockwave:
		return "Shockwave"
	case PhaseBlink:
		return "Phase Blink"
	}
	return string(id)
}

// All returns every ability in unlock order.
func All() []ID {
	ids := make([]ID, len(unlockTable))
	for i, u := range unlockTable {
		ids[i] = u.ID
	}
	return ids
}

// UnlockLevel returns the level that unlocks the ability, or 0 if unknown.
func UnlockLevel(id ID) int {
	for _, u := range unlockTable {
		if u.ID == id {
			return u.Level
		}
	}
	return 0
}

// UnlockedAt returns the ability unlocked by completing the given level, if any.
func UnlockedAt(level int) (ID, bool) {
	for _, u := range unlockTable {
		if u.Level == level {
			return u.ID, true
		}
	}
	return "", false
}

// Unlocked returns the abilities available at the given progression level.
func Unlocked(level int) []ID {
	ids := []ID{}
	for _, u := range unlockTable {
		if level >= u.Level {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// Primary returns the most recently unlocked ability.
func Primary(unlocked []ID) (ID, bool) {
	if len(unlocked) == 0 {
		return "", false
	}
	return unlocked[len(unlocked)-1], true
}

// Contains reports whether id is present in the list.
func Contains(list []ID, id ID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

// Cooldowns maps an ability to its ready-at timestamp in milliseconds.
type Cooldowns map[ID]float64

// CanUse reports whether the ability is unlocked and its cooldown has elapsed.
func CanUse(id ID, unlocked []ID, cd Cooldowns, now float64) bool {
	if !Contains(unlocked, id) {
		return false
	}
	return now >= cd[id]
}

// Remaining returns milliseconds until the ability is ready, never negative.
func (cd Cooldowns) Remaining(id ID, now float64) float64 {
	return math.Max(0, cd[id]-now)
}

// Trigger arms the cooldown: ready-at becomes now + interval.
func (cd Cooldowns) Trigger(id ID, now, interval float64) {
	cd[id] = now + interval
}

// Clear resets every cooldown. Debug only.
func (cd Cooldowns) Clear() {
	for k := range cd {
		delete(cd, k)
	}
}

// Timer is a single "available at" gate used for attacks, hazards and hints.
type Timer struct {
	ReadyAt float64
}

// Ready reports whether the timer has elapsed.
func (t Timer) Ready(now float64) bool {
	return now >= t.ReadyAt
}

// Fire arms the timer for now + interval.
func (t *Timer) Fire(now, interval float64) {
	t.ReadyAt = now + interval
}

// TryFire arms the timer and returns true if it was ready.
func (t *Timer) TryFire(now, interval float64) bool {
	if now < t.ReadyAt {
		return false
	}
	t.ReadyAt = now + interval
	return true
}
