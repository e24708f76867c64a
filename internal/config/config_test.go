package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEmbeddedBalanceMatchesDefaults(t *testing.T) {
	cfg, err := LoadBalance("")
	if err != nil {
		t.Fatalf("LoadBalance() failed: %v", err)
	}
	def := DefaultBalance()
	if !reflect.DeepEqual(cfg.Player, def.Player) {
		t.Errorf("embedded player balance differs from defaults:\n%+v\n%+v", cfg.Player, def.Player)
	}
	if !reflect.DeepEqual(cfg.Damage, def.Damage) {
		t.Errorf("embedded damage table differs from defaults")
	}
	if !reflect.DeepEqual(cfg.Combat, def.Combat) {
		t.Errorf("embedded combat balance differs from defaults")
	}
	if cfg.Cooldown("dash") != 3200 {
		t.Errorf("dash cooldown = %v, expected 3200", cfg.Cooldown("dash"))
	}
}

func TestLoadBalanceCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "balance.yaml")
	if err := os.WriteFile(path, []byte("player:\n  max_health: 150\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBalance(path)
	if err != nil {
		t.Fatalf("LoadBalance() failed: %v", err)
	}
	if cfg.Player.MaxHealth != 150 {
		t.Errorf("MaxHealth = %v, expected 150", cfg.Player.MaxHealth)
	}
	if cfg.Player.BaseSpeed != 330 {
		t.Errorf("missing keys should keep defaults, BaseSpeed = %v", cfg.Player.BaseSpeed)
	}
}

func TestLoadBalanceMissingCustomPath(t *testing.T) {
	if _, err := LoadBalance(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for unreadable custom path")
	}
}

func TestDefaultLevelsCatalogue(t *testing.T) {
	cat, err := LoadLevels("")
	if err != nil {
		t.Fatalf("LoadLevels() failed: %v", err)
	}
	if len(cat.Levels) != MaxLevelID {
		t.Fatalf("expected %d levels, got %d", MaxLevelID, len(cat.Levels))
	}

	var milestones []int
	jungle, desert := 0, 0
	for _, l := range cat.Levels {
		if l.Milestone {
			milestones = append(milestones, l.ID)
		}
		if l.ID <= 16 {
			switch l.Biome {
			case "jungle":
				jungle++
			case "desert":
				desert++
			}
		}
	}
	if !reflect.DeepEqual(milestones, []int{4, 8, 12, 16}) {
		t.Errorf("milestones = %v", milestones)
	}
	if jungle != 8 || desert != 8 {
		t.Errorf("campaign biome split = %d jungle / %d desert, expected 8/8", jungle, desert)
	}

	boss, err := cat.Level(16)
	if err != nil {
		t.Fatal(err)
	}
	if !boss.Boss || boss.UnlocksAbility != "phase_blink" {
		t.Errorf("level 16 should host the boss and unlock phase_blink, got %+v", boss)
	}
	if boss.Width() != boss.ExitGateX+320 {
		t.Errorf("Width() = %v", boss.Width())
	}
}

func TestCatalogUnknownLevel(t *testing.T) {
	cat := MustDefaultLevels()
	_, err := cat.Level(42)
	if !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("expected ErrUnknownLevel, got %v", err)
	}
}

func TestCatalogValidate(t *testing.T) {
	good := LevelDef{
		ID:          1,
		Quota:       3,
		ExitGateX:   1000,
		PlayerStart: Point{X: 100, Y: 300},
		Checkpoints: []float64{500},
		Foods:       []FoodRule{{Type: "river_fish", Count: 3}},
	}
	if err := (Catalog{Levels: []LevelDef{good}}).Validate(); err != nil {
		t.Fatalf("valid catalogue rejected: %v", err)
	}

	bad := good
	bad.Checkpoints = []float64{1200}
	if err := (Catalog{Levels: []LevelDef{bad}}).Validate(); err == nil {
		t.Error("checkpoint past the exit gate should be rejected")
	}

	gap := good
	gap.ID = 3
	if err := (Catalog{Levels: []LevelDef{good, gap}}).Validate(); err == nil {
		t.Error("non-contiguous ids should be rejected")
	}
}

func TestClampLevelID(t *testing.T) {
	tests := map[int]int{-4: 1, 0: 1, 1: 1, 12: 12, 19: 19, 40: MaxLevelID}
	for in, want := range tests {
		if got := ClampLevelID(in); got != want {
			t.Errorf("ClampLevelID(%d) = %d, expected %d", in, got, want)
		}
	}
}

func TestPresets(t *testing.T) {
	if p, ok := ParsePreset(""); !ok || p != DifficultyNormal {
		t.Errorf("empty preset should parse as normal")
	}
	if _, ok := ParsePreset("brutal"); ok {
		t.Error("unknown preset should be rejected")
	}
	if EffectiveLevel(DifficultyEasy, 1) != 1 || EffectiveLevel(DifficultyEasy, 10) != 8 {
		t.Error("easy preset should soften by two levels with a floor of 1")
	}
	if EffectiveLevel(DifficultyHard, 10) != 13 {
		t.Error("hard preset should add three levels")
	}
	if EffectiveLevel(DifficultyFixed, 15) != 1 || !IsFixedPreset(DifficultyFixed) {
		t.Error("fixed preset should pin difficulty to level 1")
	}
}
