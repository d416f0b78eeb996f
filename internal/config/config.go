// Package config provides YAML-based configuration loading and
// difficulty management for the merge life game: board shape, the
// block catalogue with reward routing, level progression and mode
// tuning.
package config

import (
	"fmt"

	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/grid"
)

// GameConfig contains all configuration for a game session.
type GameConfig struct {
	Board      BoardConfig       `yaml:"board"`
	BlockTypes []BlockTypeConfig `yaml:"block_types"`
	Leveling   LevelingConfig    `yaml:"leveling"`
	Engine     EngineConfig      `yaml:"engine"`
	Modes      ModesConfig       `yaml:"modes"`
	Difficulty DifficultyConfig  `yaml:"difficulty"`
}

// BoardConfig defines the board dimensions.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// BlockTypeConfig defines one entry of the block catalogue: how it
// spawns, how it renders and which stat it pays into.
type BlockTypeConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
	// Stat names the resource or attribute this type rewards.
	Stat       string `yaml:"stat"`
	BaseReward int64  `yaml:"base_reward"`
	// SpawnWeight sets the relative spawn frequency. Zero disables
	// spawning without removing the type from the catalogue.
	SpawnWeight int `yaml:"spawn_weight"`
	// UnlockLevels lists the player level required to merge into
	// tiers 2 and up; index 0 gates tier 2.
	UnlockLevels []int `yaml:"unlock_levels"`
}

// LevelingConfig defines the player level curve.
type LevelingConfig struct {
	// LevelXP holds cumulative XP thresholds; index 0 is level 1 and
	// should be zero.
	LevelXP []int64 `yaml:"level_xp"`
}

// EngineConfig tunes pattern recognition.
type EngineConfig struct {
	MaxPatterns int `yaml:"max_patterns"`
}

// ModesConfig groups per-mode tuning.
type ModesConfig struct {
	Career CareerConfig `yaml:"career"`
	Zen    ZenConfig    `yaml:"zen"`
}

// CareerConfig tunes the survival mode: placements spend energy and
// the run ends when it is gone or the board fills up.
type CareerConfig struct {
	StartEnergy   int64 `yaml:"start_energy"`
	PlacementCost int64 `yaml:"placement_cost"`
	QueueSize     int   `yaml:"queue_size"`
}

// ZenConfig tunes the free play mode: no costs, no game over, every
// tier unlocked.
type ZenConfig struct {
	QueueSize int `yaml:"queue_size"`
}

// Validate checks the config for values the game cannot run with.
func (c GameConfig) Validate() error {
	if c.Board.Width < 3 || c.Board.Height < 3 {
		return fmt.Errorf("config: board %dx%d too small, need at least 3x3", c.Board.Width, c.Board.Height)
	}
	if len(c.BlockTypes) == 0 {
		return fmt.Errorf("config: no block types defined")
	}

	totalWeight := 0
	seen := make(map[string]bool)
	for _, bt := range c.BlockTypes {
		if bt.ID == "" {
			return fmt.Errorf("config: block type with empty id")
		}
		if seen[bt.ID] {
			return fmt.Errorf("config: duplicate block type %q", bt.ID)
		}
		seen[bt.ID] = true

		if bt.Glyph == "" {
			return fmt.Errorf("config: block type %q has no glyph", bt.ID)
		}
		if _, okRes := core.KnownResource(bt.Stat); !okRes {
			if _, okAttr := core.KnownAttribute(bt.Stat); !okAttr {
				return fmt.Errorf("config: block type %q pays into unknown stat %q", bt.ID, bt.Stat)
			}
		}
		if bt.BaseReward < 0 {
			return fmt.Errorf("config: block type %q has negative base reward", bt.ID)
		}
		if bt.SpawnWeight < 0 {
			return fmt.Errorf("config: block type %q has negative spawn weight", bt.ID)
		}
		if len(bt.UnlockLevels) > grid.MaxTier-1 {
			return fmt.Errorf("config: block type %q lists %d unlock levels, max %d",
				bt.ID, len(bt.UnlockLevels), grid.MaxTier-1)
		}
		totalWeight += bt.SpawnWeight
	}
	if totalWeight <= 0 {
		return fmt.Errorf("config: every block type has zero spawn weight")
	}

	if c.Modes.Career.PlacementCost < 0 {
		return fmt.Errorf("config: negative placement cost")
	}
	if c.Modes.Career.StartEnergy < 0 {
		return fmt.Errorf("config: negative start energy")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
