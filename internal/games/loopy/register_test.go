package loopy

import (
	"testing"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/registry"
)

func TestRegisterCatalog(t *testing.T) {
	reg := registry.New()
	store := NewMemoryStore()
	if err := Register(reg, config.MustDefaultLevels(), WithStore(store)); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if got := len(reg.List()); got != config.MaxLevelID {
		t.Errorf("registered %d levels, expected %d", got, config.MaxLevelID)
	}

	g, err := reg.Create(LevelKey(1))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != "level_01" || g.Title() != "Canopy Shallows" {
		t.Errorf("created %q %q", g.ID(), g.Title())
	}

	g.Reset(testConfig())
	lvl, ok := g.(*Level)
	if !ok {
		t.Fatalf("created %T, expected *Level", g)
	}
	lvl.ForceComplete()
	if store.Merges() != 1 {
		t.Error("factory options were not applied to the created level")
	}
	if g.Step(core.NewInputFrame()).State.Completed != true {
		t.Error("completed state should persist after a step")
	}
}

func TestRegisterRejectsDuplicateIDs(t *testing.T) {
	cat := config.Catalog{Levels: []config.LevelDef{testDef(1), testDef(1)}}
	if err := Register(registry.New(), cat); err == nil {
		t.Error("duplicate level ids should fail")
	}
}
