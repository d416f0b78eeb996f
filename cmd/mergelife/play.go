package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/game"
	"github.com/vovakirdan/mergelife/internal/platform/tui"
	"github.com/vovakirdan/mergelife/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagResume     bool
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a run",
	Long: `Start a run in the given mode. Defaults to career.

Modes:
  career - Placements cost energy, runs end when the board fills up
  zen    - Free placements, every tier unlocked, runs never end

Controls:
  Arrows/WASD - Move the cursor
  Space/Enter - Place the queued block
  G           - Grab or drop a block
  X/Tab       - Swap the next two queued blocks
  Ctrl+S      - Save the run
  P           - Pause
  R           - Restart (after game over)
  Q/Ctrl+C    - Quit (autosaves mid-run)

Difficulty options:
  easy   - Extra starting energy, gentle placement cost growth
  normal - Balanced economy
  hard   - Lean starting energy, steep placement cost growth
  fixed  - No progression, flat placement costs

Examples:
  mergelife play
  mergelife play zen
  mergelife play career --difficulty hard
  mergelife play career --resume
  mergelife play --config ./my-rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue from the autosave")
}

// parseMode validates a mode argument. An empty argument means career.
func parseMode(arg string) (game.Mode, error) {
	switch arg {
	case "", string(game.ModeCareer):
		return game.ModeCareer, nil
	case string(game.ModeZen):
		return game.ModeZen, nil
	}
	return "", fmt.Errorf("unknown mode %q (want career or zen)", arg)
}

func runPlay(cmd *cobra.Command, args []string) {
	modeArg := ""
	if len(args) > 0 {
		modeArg = args[0]
	}

	mode, err := parseMode(modeArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size early for the difficulty selector
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Load game rules
	gameCfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Resolve the difficulty preset. Career runs without a flag get the
	// interactive selector, zen ignores difficulty entirely.
	preset := config.DifficultyPreset(flagDifficulty)
	switch preset {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (want easy, normal, hard or fixed)\n", flagDifficulty)
		os.Exit(1)
	}
	if mode == game.ModeCareer && flagDifficulty == "" && !flagResume {
		selection, updatedCfg, selErr := tui.RunDifficultySelector(cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			return
		}
		preset = selection.Preset
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	// Load the autosave when resuming
	var resume *storage.SaveGame
	if flagResume {
		if store == nil {
			fmt.Fprintln(os.Stderr, "Error: cannot resume without a database")
			os.Exit(1)
		}
		save, loadErr := store.LoadGame("auto")
		if loadErr != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error loading save: %v\n", loadErr)
			os.Exit(1)
		}
		if save == nil {
			store.Close()
			fmt.Fprintln(os.Stderr, "No autosave found. Start a run and quit mid-game to create one.")
			os.Exit(1)
		}
		resume = save
		mode = game.Mode(save.Mode)
	}

	// Create the session
	session := game.New(&gameCfg, mode, nil, nil)
	if preset != "" {
		session.SetPreset(preset)
	}

	// Run the game
	runErr := tui.Run(session, store, cfg, resume)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
