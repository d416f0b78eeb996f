package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergelife/internal/config"
	"github.com/vovakirdan/mergelife/internal/core"
	"github.com/vovakirdan/mergelife/internal/game"
)

var (
	flagSimSteps   int
	flagSimMode    string
	flagSimConfig  string
	flagSimVerbose bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless scripted session",
	Long: `Run a session without a terminal UI, driven by an automatic
placement policy, and print the resulting totals. Useful for balance
tuning: the same seed always produces the same run.

Examples:
  mergelife simulate
  mergelife simulate --steps 500 --seed 7
  mergelife simulate --mode zen --steps 1000
  mergelife simulate --config ./my-rules.yaml --verbose`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimSteps, "steps", 200, "Maximum placements to attempt")
	simulateCmd.Flags().StringVar(&flagSimMode, "mode", "career", "Mode to simulate: career or zen")
	simulateCmd.Flags().StringVar(&flagSimConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().BoolVar(&flagSimVerbose, "verbose", false, "Log engine activity while simulating")
}

func runSimulate(_ *cobra.Command, _ []string) {
	mode, err := parseMode(flagSimMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	gameCfg, err := config.Load(flagSimConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var logger *log.Logger
	if flagSimVerbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Level:           log.DebugLevel,
			Prefix:          "simulate",
		})
	}

	result := game.RunSimulation(&gameCfg, mode, flagSimSteps, seed, logger)

	fmt.Printf("Simulation - %s (seed %d, %d steps)\n", mode, seed, result.Steps)
	fmt.Println()
	fmt.Printf("  Placements: %d\n", result.Placements)
	fmt.Printf("  Score:      %d\n", result.Score)
	fmt.Printf("  Level:      %d (xp %d)\n", result.Level, result.XP)
	fmt.Printf("  Merges:     %d\n", result.Merges)
	fmt.Printf("  Matches:    %d\n", result.Matches)
	fmt.Printf("  Best tier:  T%d\n", result.BestTier)
	fmt.Printf("  Blocks:     %d on board\n", result.Blocks)
	fmt.Printf("  Game over:  %v\n", result.GameOver)
	fmt.Printf("  Events:     %d\n", result.Events)
	fmt.Printf("  Board hash: %016x\n", result.BoardHash)

	if len(result.Resources) > 0 {
		fmt.Println()
		fmt.Println("Resources:")
		printLedger(result.Resources)
	}
	if len(result.Attributes) > 0 {
		fmt.Println()
		fmt.Println("Attributes:")
		printAttributes(result.Attributes)
	}
}

// printLedger prints resource amounts in a stable order.
func printLedger(ledger map[core.Resource]int64) {
	names := make([]string, 0, len(ledger))
	for name := range ledger {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-10s %d\n", name+":", ledger[core.Resource(name)])
	}
}

// printAttributes prints attribute amounts in a stable order.
func printAttributes(ledger map[core.Attribute]int64) {
	names := make([]string, 0, len(ledger))
	for name := range ledger {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-10s %d\n", name+":", ledger[core.Attribute(name)])
	}
}
