package config

import (
	"errors"
	"fmt"
	"sort"
)

// MaxLevelID is the highest level in the catalogue.
const MaxLevelID = 19

// WorldHeight is the playable height of every level.
const WorldHeight = 660

// ErrUnknownLevel is returned when a level id is not in the catalogue.
var ErrUnknownLevel = errors.New("config: unknown level")

// Point is a world coordinate.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// FoodRule places a cluster of food items.
type FoodRule struct {
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Count    int     `yaml:"count"`
	SpreadX  float64 `yaml:"spread_x"`
	SpreadY  float64 `yaml:"spread_y"`
	Movement string  `yaml:"movement"` // drift, hopper, swarm, static, orbit
}

// PredatorRule places a row of basic predators.
type PredatorRule struct {
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	Count           int     `yaml:"count"`
	Spacing         float64 `yaml:"spacing"`
	Speed           float64 `yaml:"speed"`
	ShootIntervalMs float64 `yaml:"shoot_interval_ms"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
}

// WormholeRule places a basic wormhole.
type WormholeRule struct {
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	PullRadius      float64 `yaml:"pull_radius"`
	PullStrength    float64 `yaml:"pull_strength"`
	ShootIntervalMs float64 `yaml:"shoot_interval_ms"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
}

// HazardRule places a static damaging strip.
type HazardRule struct {
	Type   string  `yaml:"type"` // vine, sand_spike
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Damage float64 `yaml:"damage"`
}

// FountainRule places a seed fountain ghost that appears once the player
// passes TriggerX.
type FountainRule struct {
	TriggerX    float64 `yaml:"trigger_x"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	RewardSeeds int     `yaml:"reward_seeds"` // 3, 6 or 9
	VisibleMs   float64 `yaml:"visible_ms"`
}

// LevelDef is a single level definition.
type LevelDef struct {
	ID             int            `yaml:"id"`
	Name           string         `yaml:"name"`
	Biome          string         `yaml:"biome"`
	Quota          int            `yaml:"quota"`
	TimeLimitSec   int            `yaml:"time_limit_sec"` // 0 = untimed
	ExitGateX      float64        `yaml:"exit_gate_x"`
	PlayerStart    Point          `yaml:"player_start"`
	Checkpoints    []float64      `yaml:"checkpoints"`
	Milestone      bool           `yaml:"milestone"`
	UnlocksAbility string         `yaml:"unlocks_ability"`
	Boss           bool           `yaml:"boss"`
	Foods          []FoodRule     `yaml:"foods"`
	Predators      []PredatorRule `yaml:"predators"`
	Wormholes      []WormholeRule `yaml:"wormholes"`
	Hazards        []HazardRule   `yaml:"hazards"`
	Fountains      []FountainRule `yaml:"fountain_ghosts"`
}

// Width returns the level width: the exit gate plus a trailing margin.
func (l LevelDef) Width() float64 {
	return l.ExitGateX + 320
}

// Catalog is the ordered set of level definitions.
type Catalog struct {
	Levels []LevelDef `yaml:"levels"`
}

// Level returns the level with the given id.
func (c Catalog) Level(id int) (LevelDef, error) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, nil
		}
	}
	return LevelDef{}, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
}

// ClampLevelID maps any id into [1, MaxLevelID].
func ClampLevelID(id int) int {
	return max(1, min(MaxLevelID, id))
}

// Validate checks catalogue invariants.
func (c Catalog) Validate() error {
	if len(c.Levels) == 0 {
		return errors.New("config: empty level catalogue")
	}
	ids := make([]int, 0, len(c.Levels))
	for _, l := range c.Levels {
		if l.Quota <= 0 {
			return fmt.Errorf("config: level %d: quota must be positive", l.ID)
		}
		if l.ExitGateX <= l.PlayerStart.X {
			return fmt.Errorf("config: level %d: exit gate before player start", l.ID)
		}
		if len(l.Foods) == 0 {
			return fmt.Errorf("config: level %d: no food rules", l.ID)
		}
		if len(l.Checkpoints) == 0 {
			return fmt.Errorf("config: level %d: no checkpoints", l.ID)
		}
		for _, x := range l.Checkpoints {
			if x >= l.ExitGateX {
				return fmt.Errorf("config: level %d: checkpoint %.0f past exit gate", l.ID, x)
			}
		}
		ids = append(ids, l.ID)
	}
	sort.Ints(ids)
	for i, id := range ids {
		if id != i+1 {
			return fmt.Errorf("config: level ids are not contiguous at %d", id)
		}
	}
	return nil
}
