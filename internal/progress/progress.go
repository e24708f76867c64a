// Package progress defines the persisted save state shared by the simulation
// and the storage layer, plus the sanitising and merge rules applied at
// their boundary.
package progress

import (
	"math"

	"github.com/vovakirdan/loopy/internal/config"
)

// Totals are lifetime counters accumulated over completed levels.
type Totals struct {
	Seeds         int `json:"seeds"`
	UniverseSeeds int `json:"universe_seeds"`
	BloomsCast    int `json:"blooms_cast"`
}

// Settings are player preferences stored with the save.
type Settings struct {
	MusicVolume float64 `json:"music_volume"`
	SfxVolume   float64 `json:"sfx_volume"`
}

// SaveState is the persisted player progress.
type SaveState struct {
	HighestUnlocked int         `json:"highest_unlocked_level"`
	LevelBest       map[int]int `json:"level_best_scores"`
	Totals          Totals      `json:"totals"`
	Settings        Settings    `json:"settings"`
}

// Earned is the economy delta reported when a level completes.
type Earned struct {
	Seeds         int `json:"seeds_earned"`
	UniverseSeeds int `json:"universe_seeds_earned"`
	BloomsCast    int `json:"blooms_cast"`
}

// Default volumes for a fresh save.
const (
	DefaultMusicVolume = 0.45
	DefaultSfxVolume   = 0.55
)

// Defaults returns a fresh save with only level 1 unlocked.
func Defaults() SaveState {
	return SaveState{
		HighestUnlocked: 1,
		LevelBest:       map[int]int{},
		Settings: Settings{
			MusicVolume: DefaultMusicVolume,
			SfxVolume:   DefaultSfxVolume,
		},
	}
}

// Sanitize clamps every field into its valid range. Scores for unknown
// levels and negative scores are dropped, totals are floored at zero and
// volumes are clamped to [0, 1] with non-finite values mapped to 0.5.
func Sanitize(s SaveState) SaveState {
	out := SaveState{
		HighestUnlocked: config.ClampLevelID(s.HighestUnlocked),
		LevelBest:       make(map[int]int, len(s.LevelBest)),
		Totals: Totals{
			Seeds:         max(0, s.Totals.Seeds),
			UniverseSeeds: max(0, s.Totals.UniverseSeeds),
			BloomsCast:    max(0, s.Totals.BloomsCast),
		},
		Settings: Settings{
			MusicVolume: clamp01(s.Settings.MusicVolume),
			SfxVolume:   clamp01(s.Settings.SfxVolume),
		},
	}
	for level, score := range s.LevelBest {
		if level < 1 || level > config.MaxLevelID || score < 0 {
			continue
		}
		out.LevelBest[level] = score
	}
	return out
}

// Merge folds a completed level into the save. The highest unlocked level
// is raised to the next level (capped at the last one), the best score is
// kept and totals are added. The input is not modified.
func Merge(s SaveState, levelID, score int, earned Earned) SaveState {
	out := Sanitize(s)
	out.HighestUnlocked = max(out.HighestUnlocked, min(config.MaxLevelID, levelID+1))
	if levelID >= 1 && levelID <= config.MaxLevelID {
		out.LevelBest[levelID] = max(out.LevelBest[levelID], max(0, score))
	}
	out.Totals.Seeds += max(0, earned.Seeds)
	out.Totals.UniverseSeeds += max(0, earned.UniverseSeeds)
	out.Totals.BloomsCast += max(0, earned.BloomsCast)
	return out
}

// TotalBest sums the best score of every level.
func (s SaveState) TotalBest() int {
	total := 0
	for _, v := range s.LevelBest {
		total += v
	}
	return total
}

// IsUnlocked reports whether a level can be played.
func (s SaveState) IsUnlocked(levelID int) bool {
	return levelID >= 1 && levelID <= s.HighestUnlocked
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.5
	}
	return math.Min(1, math.Max(0, v))
}
