// Package main is the entry point for the carecoord CLI: an interactive
// assessment wizard, scripted scenario replay, and a regional-pricing
// lookup utility, all composed over the same internal components the
// library packages expose.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/brightpath/carecoord/internal/config"
	"github.com/brightpath/carecoord/internal/logging"
)

var (
	version = "0.1.0"
	cfgPath string
	debug   bool
	log     zerolog.Logger
	cfg     config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carecoord",
		Short: "carecoord recommends a care tier and plans its cost",
		Long: `carecoord walks a household through a care assessment, recommends a
care tier, and projects what that tier costs once regional pricing and
add-ons are applied.

Run an interactive assessment:  carecoord assess
Replay a scripted scenario:     carecoord replay <name>
Look up a region's multiplier:  carecoord regions <zip> [state]`,
		PersistentPreRunE: initRuntime,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: bundled settings)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "v", false, "verbose logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("carecoord v%s\n", version)
		},
	})
	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(replayCmd())
	rootCmd.AddCommand(regionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initRuntime loads configuration and builds the process logger once,
// ahead of every subcommand, the way the teacher's initLogging gates its
// own RunE handlers.
func initRuntime(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = loaded
	log = logging.New(os.Stderr, debug)
	return nil
}
