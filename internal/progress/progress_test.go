package progress

import (
	"math"
	"testing"
)

func TestDefaults(t *testing.T) {
	s := Defaults()
	if s.HighestUnlocked != 1 {
		t.Errorf("HighestUnlocked = %d, expected 1", s.HighestUnlocked)
	}
	if len(s.LevelBest) != 0 {
		t.Errorf("fresh save should have no scores, got %v", s.LevelBest)
	}
	if s.Settings.MusicVolume != DefaultMusicVolume || s.Settings.SfxVolume != DefaultSfxVolume {
		t.Errorf("unexpected default volumes %+v", s.Settings)
	}
}

func TestSanitize(t *testing.T) {
	in := SaveState{
		HighestUnlocked: 999,
		LevelBest:       map[int]int{1: 100, 25: 9999, 4: -2},
		Totals:          Totals{Seeds: -5, UniverseSeeds: 3},
		Settings:        Settings{MusicVolume: 7, SfxVolume: -3},
	}
	s := Sanitize(in)
	if s.HighestUnlocked != 19 {
		t.Errorf("HighestUnlocked = %d, expected 19", s.HighestUnlocked)
	}
	if s.LevelBest[1] != 100 {
		t.Errorf("level 1 score = %d, expected 100", s.LevelBest[1])
	}
	if _, ok := s.LevelBest[25]; ok {
		t.Error("score for unknown level 25 should be dropped")
	}
	if _, ok := s.LevelBest[4]; ok {
		t.Error("negative score should be dropped")
	}
	if s.Settings.MusicVolume != 1 || s.Settings.SfxVolume != 0 {
		t.Errorf("volumes = %+v, expected clamped to 1 and 0", s.Settings)
	}
	if s.Totals.Seeds != 0 || s.Totals.UniverseSeeds != 3 {
		t.Errorf("totals = %+v", s.Totals)
	}
}

func TestSanitizeNonFiniteVolume(t *testing.T) {
	s := Sanitize(SaveState{Settings: Settings{MusicVolume: math.NaN(), SfxVolume: math.Inf(1)}})
	if s.Settings.MusicVolume != 0.5 || s.Settings.SfxVolume != 0.5 {
		t.Errorf("non-finite volumes should become 0.5, got %+v", s.Settings)
	}
	if s.HighestUnlocked != 1 {
		t.Errorf("zero highest level should clamp to 1, got %d", s.HighestUnlocked)
	}
}

func TestMergeKeepsBestAndAddsTotals(t *testing.T) {
	s := Defaults()
	s = Merge(s, 3, 560, Earned{Seeds: 8, UniverseSeeds: 1, BloomsCast: 1})
	s = Merge(s, 3, 420, Earned{Seeds: 3})

	if s.HighestUnlocked != 4 {
		t.Errorf("HighestUnlocked = %d, expected 4", s.HighestUnlocked)
	}
	if s.LevelBest[3] != 560 {
		t.Errorf("best score = %d, expected 560", s.LevelBest[3])
	}
	if s.Totals.Seeds != 11 || s.Totals.UniverseSeeds != 1 || s.Totals.BloomsCast != 1 {
		t.Errorf("totals = %+v", s.Totals)
	}
}

func TestMergeCapsAtLastLevel(t *testing.T) {
	s := Merge(Defaults(), 19, 10, Earned{})
	if s.HighestUnlocked != 19 {
		t.Errorf("HighestUnlocked = %d, expected 19", s.HighestUnlocked)
	}
}

func TestMergeNeverLowersProgress(t *testing.T) {
	s := Defaults()
	s.HighestUnlocked = 10
	s = Merge(s, 2, 50, Earned{})
	if s.HighestUnlocked != 10 {
		t.Errorf("merging an earlier level lowered progress to %d", s.HighestUnlocked)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	s := Defaults()
	_ = Merge(s, 1, 100, Earned{Seeds: 4})
	if len(s.LevelBest) != 0 || s.Totals.Seeds != 0 {
		t.Errorf("input save was modified: %+v", s)
	}
}

func TestTotalBestAndIsUnlocked(t *testing.T) {
	s := SaveState{HighestUnlocked: 3, LevelBest: map[int]int{1: 100, 2: 50}}
	if s.TotalBest() != 150 {
		t.Errorf("TotalBest() = %d, expected 150", s.TotalBest())
	}
	if !s.IsUnlocked(3) || s.IsUnlocked(4) || s.IsUnlocked(0) {
		t.Error("IsUnlocked boundaries wrong")
	}
}
