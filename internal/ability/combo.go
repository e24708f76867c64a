package ability

// ComboWindowMs is the rolling window in which taps accumulate.
const ComboWindowMs = 450

// MaxTaps caps the combo counter.
const MaxTaps = 3

// ComboAction is the action a tap count maps to.
type ComboAction int

const (
	ComboNone ComboAction = iota
	ComboShot
	ComboBomb
	ComboShield
)

func (a ComboAction) String() string {
	switch a {
	case ComboShot:
		return "shot"
	case ComboBomb:
		return "bomb"
	case ComboShield:
		return "shield"
	default:
		return "none"
	}
}

// ActionForTaps maps a tap count to its action: 1 shot, 2 bomb, 3+ shield.
func ActionForTaps(taps int) ComboAction {
	switch {
	case taps >= 3:
		return ComboShield
	case taps == 2:
		return ComboBomb
	case taps == 1:
		return ComboShot
	default:
		return ComboNone
	}
}

// Combo is the tap counter state machine {taps, expiresAt}.
// The zero value is an empty combo.
type Combo struct {
	taps      int
	expiresAt float64
}

// Tap registers a tap at now and returns the updated count.
// A tap after the window has elapsed restarts the count at 1.
func (c *Combo) Tap(now float64) int {
	if c.taps == 0 || now > c.expiresAt {
		c.taps = 1
	} else {
		c.taps = min(MaxTaps, c.taps+1)
	}
	c.expiresAt = now + ComboWindowMs
	return c.taps
}

// Resolve returns the pending action once the window has elapsed and
// resets the combo. Before that it returns ComboNone.
func (c *Combo) Resolve(now float64) ComboAction {
	if c.taps == 0 || now < c.expiresAt {
		return ComboNone
	}
	action := ActionForTaps(c.taps)
	c.Reset()
	return action
}

// Pending returns the live tap count, 0 once the window has passed.
func (c Combo) Pending(now float64) int {
	if c.taps == 0 || now > c.expiresAt {
		return 0
	}
	return c.taps
}

// ExpiresAt returns the window deadline of the current combo.
func (c Combo) ExpiresAt() float64 {
	return c.expiresAt
}

// Expire clears stale taps. Called every tick.
func (c *Combo) Expire(now float64) {
	if c.taps > 0 && now >= c.expiresAt {
		c.Reset()
	}
}

// Reset clears the combo.
func (c *Combo) Reset() {
	c.taps = 0
	c.expiresAt = 0
}
