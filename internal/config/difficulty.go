package config

import "math"

// DifficultyParams is the multiplier set derived from a level index.
type DifficultyParams struct {
	LevelID int
	Tier    int

	QuotaBonus     int
	TimePenaltySec int

	PredatorSpeed         float64
	PredatorShootInterval float64
	ProjectileSpeed       float64
	WormholePull          float64
	WormholeShootInterval float64

	ExtraPredators int
	ExtraWormholes int
	ExtraHazards   int
}

// Difficulty maps a level index to its multiplier set. Levels beyond 16 keep
// scaling along the same curves.
func Difficulty(levelID float64) DifficultyParams {
	level := max(1, int(math.Floor(levelID)))
	t := float64(level-1) / 15
	tier := (level - 1) / 4

	extraPredators := tier
	if level >= 12 {
		extraPredators += 2
	}
	extraWormholes := 0
	if level >= 9 {
		extraWormholes = max(1, tier-1)
	}
	extraHazards := max(0, tier-1)
	if level >= 10 {
		extraHazards++
	}

	return DifficultyParams{
		LevelID:               level,
		Tier:                  tier,
		QuotaBonus:            int(math.Floor(t * 6)),
		TimePenaltySec:        int(math.Floor(t * 40)),
		PredatorSpeed:         1 + 0.95*t,
		PredatorShootInterval: math.Max(0.38, 1-0.58*t),
		ProjectileSpeed:       1 + 0.9*t,
		WormholePull:          1 + 1.15*t,
		WormholeShootInterval: math.Max(0.45, 1-0.52*t),
		ExtraPredators:        extraPredators,
		ExtraWormholes:        extraWormholes,
		ExtraHazards:          extraHazards,
	}
}

// ScaleQuota applies the quota bonus, never below 1.
func (d DifficultyParams) ScaleQuota(base int) int {
	return max(1, base+d.QuotaBonus)
}

// ScaleTimeLimit applies the time penalty with a 45 second floor.
// A zero base means the level is untimed and stays untimed.
func (d DifficultyParams) ScaleTimeLimit(baseSec int) int {
	if baseSec <= 0 {
		return 0
	}
	return max(45, baseSec-d.TimePenaltySec)
}

// CheckpointSeedCost is the seed price of each checkpoint in a level.
func CheckpointSeedCost(levelID int) int {
	return 2 + max(1, levelID)/2
}
