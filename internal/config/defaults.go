package config

import (
	_ "embed"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the default game configuration, mirroring
// the embedded YAML.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Board: BoardConfig{
			Width:  7,
			Height: 9,
		},
		BlockTypes: []BlockTypeConfig{
			{
				ID: "work", Label: "Work", Glyph: "$", Color: "yellow",
				Stat: "money", BaseReward: 10, SpawnWeight: 30,
				UnlockLevels: []int{1, 3, 6},
			},
			{
				ID: "study", Label: "Study", Glyph: "#", Color: "cyan",
				Stat: "knowledge", BaseReward: 8, SpawnWeight: 20,
				UnlockLevels: []int{1, 4, 7},
			},
			{
				ID: "sport", Label: "Sport", Glyph: "%", Color: "green",
				Stat: "fitness", BaseReward: 8, SpawnWeight: 20,
				UnlockLevels: []int{2, 4, 7},
			},
			{
				ID: "social", Label: "Social", Glyph: "@", Color: "magenta",
				Stat: "charisma", BaseReward: 8, SpawnWeight: 15,
				UnlockLevels: []int{2, 5, 8},
			},
			{
				ID: "rest", Label: "Rest", Glyph: "~", Color: "blue",
				Stat: "energy", BaseReward: 6, SpawnWeight: 15,
				UnlockLevels: []int{1, 3, 6},
			},
		},
		Leveling: LevelingConfig{
			LevelXP: []int64{0, 60, 180, 420, 900, 1800, 3600, 6600, 11400, 19200},
		},
		Engine: EngineConfig{
			MaxPatterns: 8,
		},
		Modes: ModesConfig{
			Career: CareerConfig{
				StartEnergy:   100,
				PlacementCost: 2,
				QueueSize:     3,
			},
			Zen: ZenConfig{
				QueueSize: 3,
			},
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "placements",
				MaxAt: 200,
			},
			Scaling: ScalingConfig{
				CostIncrease: 3,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultGameYAML
}
