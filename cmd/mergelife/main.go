// mergelife is a terminal merge puzzle about building a life, one
// block at a time.
//
// Usage:
//
//	mergelife play [mode]    - Play a run (career or zen)
//	mergelife menu           - Start the interactive mode picker
//	mergelife serve          - Start SSH server for remote play
//	mergelife stats [mode]   - Show run history
//	mergelife simulate       - Run a headless scripted session
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 30)
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.mergelife/mergelife.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mergelife",
	Short: "Merge Life - a life-sim merge puzzle in your terminal",
	Long: `Merge Life is a terminal puzzle where you place life blocks on a
grid, merge three of a kind into higher tiers, and grow a career from
the rewards.

Available commands:
  play      - Play a run directly (career or zen)
  menu      - Interactive mode picker
  serve     - Start SSH server for remote play
  stats     - View run history and aggregates
  simulate  - Run a headless scripted session

Examples:
  mergelife play
  mergelife play zen
  mergelife menu
  mergelife serve --ssh :2222
  mergelife stats career
  mergelife simulate --steps 500 --seed 7`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.mergelife/mergelife.db", "Path to runs database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simulateCmd)
}
