package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultGameConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.BlockTypes) != 5 {
		t.Errorf("default catalogue has %d types, want 5", len(cfg.BlockTypes))
	}
}

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	loaded, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Fatalf("loaded default invalid: %v", err)
	}

	hard := DefaultGameConfig()
	if loaded.Board != hard.Board {
		t.Errorf("board = %+v, want %+v", loaded.Board, hard.Board)
	}
	if len(loaded.BlockTypes) != len(hard.BlockTypes) {
		t.Fatalf("catalogue size = %d, want %d", len(loaded.BlockTypes), len(hard.BlockTypes))
	}
	for i, bt := range loaded.BlockTypes {
		want := hard.BlockTypes[i]
		if bt.ID != want.ID || bt.Stat != want.Stat || bt.BaseReward != want.BaseReward {
			t.Errorf("block type %d = %+v, want %+v", i, bt, want)
		}
	}
	if loaded.Modes.Career != hard.Modes.Career {
		t.Errorf("career mode = %+v, want %+v", loaded.Modes.Career, hard.Modes.Career)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")

	yaml := `
board:
  width: 5
  height: 5
block_types:
  - id: work
    label: Work
    glyph: "$"
    stat: money
    base_reward: 4
    spawn_weight: 1
    unlock_levels: [1]
modes:
  career:
    start_energy: 10
    placement_cost: 1
    queue_size: 2
  zen:
    queue_size: 2
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Width != 5 || cfg.Board.Height != 5 {
		t.Errorf("board = %+v, want 5x5", cfg.Board)
	}
	if cfg.BlockTypes[0].BaseReward != 4 {
		t.Errorf("base reward = %d, want 4", cfg.BlockTypes[0].BaseReward)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load accepted a missing custom path")
	}
}

func TestLoadRejectsInvalidCustomConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	// Unknown stat name must fail validation.
	yaml := `
board:
  width: 5
  height: 5
block_types:
  - id: work
    glyph: "$"
    stat: mana
    base_reward: 4
    spawn_weight: 1
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted config with unknown stat")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
	}{
		{"tiny board", func(c *GameConfig) { c.Board.Width = 2 }},
		{"no types", func(c *GameConfig) { c.BlockTypes = nil }},
		{"duplicate id", func(c *GameConfig) { c.BlockTypes[1].ID = c.BlockTypes[0].ID }},
		{"empty glyph", func(c *GameConfig) { c.BlockTypes[0].Glyph = "" }},
		{"unknown stat", func(c *GameConfig) { c.BlockTypes[0].Stat = "luck" }},
		{"negative reward", func(c *GameConfig) { c.BlockTypes[0].BaseReward = -1 }},
		{"too many unlock levels", func(c *GameConfig) { c.BlockTypes[0].UnlockLevels = []int{1, 2, 3, 4, 5} }},
		{"all weights zero", func(c *GameConfig) {
			for i := range c.BlockTypes {
				c.BlockTypes[i].SpawnWeight = 0
			}
		}},
		{"negative cost", func(c *GameConfig) { c.Modes.Career.PlacementCost = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGameConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted broken config")
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	base := DefaultGameConfig()

	easy := DefaultGameConfig()
	ApplyPreset(&easy, DifficultyEasy)
	if easy.Modes.Career.StartEnergy <= base.Modes.Career.StartEnergy {
		t.Error("easy preset did not raise start energy")
	}
	if easy.Modes.Career.PlacementCost >= base.Modes.Career.PlacementCost {
		t.Error("easy preset did not lower placement cost")
	}

	hard := DefaultGameConfig()
	ApplyPreset(&hard, DifficultyHard)
	if hard.Modes.Career.StartEnergy >= base.Modes.Career.StartEnergy {
		t.Error("hard preset did not cut start energy")
	}
	if hard.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard initial level = %v, want 0.7", hard.Difficulty.InitialLevel)
	}

	fixed := DefaultGameConfig()
	ApplyPreset(&fixed, DifficultyFixed)
	if fixed.Difficulty.Enabled {
		t.Error("fixed preset left difficulty enabled")
	}
}

func TestDifficultyManagerCost(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.0,
		Progression:  ProgressionConfig{Type: "placements", MaxAt: 100},
		Scaling:      ScalingConfig{CostIncrease: 4},
	}
	d := NewDifficultyManager(cfg)

	if got := d.PlacementCost(2, 0, 0); got != 2 {
		t.Errorf("cost at start = %d, want 2", got)
	}
	if got := d.PlacementCost(2, 0, 50); got != 4 {
		t.Errorf("cost at half = %d, want 4", got)
	}
	if got := d.PlacementCost(2, 0, 100); got != 6 {
		t.Errorf("cost at max = %d, want 6", got)
	}
	if got := d.PlacementCost(2, 0, 500); got != 6 {
		t.Errorf("cost past max = %d, want clamped 6", got)
	}

	d.SetEnabled(false)
	if got := d.PlacementCost(2, 0, 100); got != 2 {
		t.Errorf("cost with progression off = %d, want 2", got)
	}
}
