package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/game"
	"github.com/vovakirdan/mergelife/internal/platform/tui"
	"github.com/vovakirdan/mergelife/internal/storage"
)

var flagMenuConfig string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive mode picker",
	Long: `Start Merge Life in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode. When an
autosave exists a Continue entry appears. After a run ends, you return
to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select mode
  Tab          - Run history
  Q            - Quit

Examples:
  mergelife menu
  mergelife menu --fps 20
  mergelife menu --db ./runs.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagMenuConfig, "config", "", "Path to custom game config YAML")
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
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

	// Load game rules once for the whole menu loop
	gameCfg, err := config.Load(flagMenuConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			break
		}

		// Check if user wants the run history
		if menuResult.WantsStats {
			goBack, statsErr := tui.RunStatsScreen(store, cfg.ScreenW, cfg.ScreenH)
			if statsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", statsErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from the stats screen
		}

		mode := menuResult.Mode
		if mode == "" {
			break
		}

		// Load the autosave when continuing
		var resume *storage.SaveGame
		if menuResult.Resume && store != nil {
			save, loadErr := store.LoadGame("auto")
			if loadErr != nil || save == nil {
				fmt.Fprintln(os.Stderr, "Could not load the autosave")
				continue
			}
			resume = save
			mode = game.Mode(save.Mode)
		}

		// Fresh career runs pick a difficulty first
		var preset config.DifficultyPreset
		if mode == game.ModeCareer && resume == nil {
			selection, updatedCfg, selErr := tui.RunDifficultySelector(cfg)
			if selErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
				continue
			}
			cfg = updatedCfg

			// User pressed back or quit
			if selection == nil {
				continue
			}
			preset = selection.Preset
		}

		// Create the session
		session := game.New(&gameCfg, mode, nil, nil)
		if preset != "" {
			session.SetPreset(preset)
		}

		// Update seed for each run
		cfg.Seed = time.Now().UnixNano()

		// Run the game
		if err := tui.Run(session, store, cfg, resume); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
