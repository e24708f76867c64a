package loopy

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/loopy/internal/core"
)

// ErrBadScript is returned for scripts that do not validate.
var ErrBadScript = errors.New("invalid input script")

// ScriptStep is one segment of a scripted run. The input is held for Ms
// milliseconds; listed actions are delivered on the first sub-step only,
// except hold which stays down for the whole segment.
type ScriptStep struct {
	Ms       float64    `yaml:"ms"`
	Move     [2]float64 `yaml:"move"`
	Actions  []string   `yaml:"actions"`
	Repeat   int        `yaml:"repeat"`
	Debug    string     `yaml:"debug"`
	Teleport []float64  `yaml:"teleport"`
}

// Script is a headless input recording for the sim command and tests.
type Script struct {
	Level int          `yaml:"level"`
	Seed  int64        `yaml:"seed"`
	Steps []ScriptStep `yaml:"steps"`
}

var actionNames = map[string]core.Action{
	"primary": core.ActionPrimary,
	"tap":     core.ActionPrimary,
	"hold":    core.ActionHold,
	"dash":    core.ActionDash,
	"glide":   core.ActionGlide,
	"special": core.ActionSpecial,
	"bloom":   core.ActionSpecial,
	"pause":   core.ActionPause,
}

// ParseAction maps a script action name to an action.
func ParseAction(name string) (core.Action, bool) {
	a, ok := actionNames[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

var debugOps = map[string]func(l *Level){
	"complete":   (*Level).ForceComplete,
	"kill":       (*Level).KillPlayer,
	"checkpoint": func(l *Level) { l.JumpToNextCheckpoint() },
	"bloom":      (*Level).ChargeBloom,
	"cooldowns":  (*Level).ClearCooldowns,
}

// ParseScript decodes and validates a YAML script.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// LoadScript reads a YAML script from path.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided script path
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// Validate checks every step.
func (s Script) Validate() error {
	for i, st := range s.Steps {
		if st.Ms < 0 {
			return fmt.Errorf("%w: step %d: negative ms", ErrBadScript, i)
		}
		for _, name := range st.Actions {
			if _, ok := ParseAction(name); !ok {
				return fmt.Errorf("%w: step %d: unknown action %q", ErrBadScript, i, name)
			}
		}
		if st.Debug != "" {
			if _, ok := debugOps[st.Debug]; !ok {
				return fmt.Errorf("%w: step %d: unknown debug op %q", ErrBadScript, i, st.Debug)
			}
		}
		if len(st.Teleport) != 0 && len(st.Teleport) != 2 {
			return fmt.Errorf("%w: step %d: teleport needs [x, y]", ErrBadScript, i)
		}
	}
	return nil
}

// Frame builds the input frame of a step.
func (st ScriptStep) Frame() core.InputFrame {
	in := core.NewInputFrame()
	in.SetMove(st.Move[0], st.Move[1])
	for _, name := range st.Actions {
		if a, ok := ParseAction(name); ok {
			in.Set(a)
		}
	}
	return in
}

// Run plays the script against l and returns every event drained on the
// way. It stops early once the run has ended.
func (s Script) Run(l *Level) []Event {
	var events []Event
	for _, st := range s.Steps {
		if op, ok := debugOps[st.Debug]; ok {
			op(l)
		}
		if len(st.Teleport) == 2 {
			l.TeleportPlayer(core.Vec2{X: st.Teleport[0], Y: st.Teleport[1]})
		}
		in := st.Frame()
		for range max(1, st.Repeat) {
			l.AdvanceTime(st.Ms, in)
			events = append(events, l.DrainEvents()...)
		}
		if l.State().Ended() {
			break
		}
	}
	return events
}
