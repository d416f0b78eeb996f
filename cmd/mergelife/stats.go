package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mergelife/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats [mode]",
	Short: "Show run history",
	Long: `Display run history and aggregates.

Without arguments, prints a per-mode overview. With a mode argument,
prints the top 10 runs for that mode.

Examples:
  mergelife stats
  mergelife stats career
  mergelife stats zen`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		printOverview(store)
		return
	}

	mode := args[0]
	if _, err := parseMode(mode); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	printModeRuns(store, mode)
}

// printOverview prints the per-mode aggregate table.
func printOverview(store *storage.Store) {
	all, err := store.GetAllRunStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}

	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mergelife play' to record the first run!")
		return
	}

	modes := make([]string, 0, len(all))
	for mode := range all {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	fmt.Println("Run history")
	fmt.Println()
	fmt.Printf("  %-8s  %-6s  %-10s  %-8s  %-6s  %s\n", "Mode", "Runs", "High", "Avg", "Tier", "Last played")
	fmt.Printf("  %-8s  %-6s  %-10s  %-8s  %-6s  %s\n", "----", "----", "----", "---", "----", "-----------")

	for _, mode := range modes {
		s := all[mode]
		fmt.Printf("  %-8s  %-6d  %-10d  %-8.0f  T%-5d  %s\n",
			mode, s.RunsCount, s.HighScore, s.AvgScore, s.BestTier,
			s.LastPlayed.Format("2006-01-02 15:04"))
	}
}

// printModeRuns prints the top runs for one mode.
func printModeRuns(store *storage.Store, mode string) {
	runs, err := store.TopRuns(mode, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Top runs - %s\n", mode)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'mergelife play %s' to record the first run!\n", mode)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-5s  %-5s  %-7s  %-8s  %s\n", "Rank", "Score", "Lvl", "Tier", "Merges", "Matches", "Date")
	fmt.Printf("  %-4s  %-10s  %-5s  %-5s  %-7s  %-8s  %s\n", "----", "-----", "---", "----", "------", "-------", "----")

	// Print runs
	for i, entry := range runs {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %-5d  T%-4d  %-7d  %-8d  %s\n",
			i+1, entry.Score, entry.Level, entry.BestTier, entry.Merges, entry.Matches, dateStr)
	}

	// Show aggregates
	fmt.Println()
	stats, err := store.GetRunStats(mode)
	if err == nil && stats.RunsCount > 0 {
		fmt.Printf("Best: %d over %d runs (avg %.0f)\n", stats.HighScore, stats.RunsCount, stats.AvgScore)
	}
}
