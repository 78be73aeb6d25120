package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightpath/carecoord/internal/region"
)

func regionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions <zip> [state]",
		Short: "Resolve a ZIP code's regional cost multiplier",
		Long: `regions runs the ZIP -> ZIP3 -> state -> national cascade the Cost
Calculator uses internally and prints which precedence level matched.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runRegions,
	}
	return cmd
}

func runRegions(cmd *cobra.Command, args []string) error {
	zip := args[0]
	var state string
	if len(args) > 1 {
		state = args[1]
	}

	table, err := region.LoadTable(cfg.Modules.RegionalFile)
	if err != nil {
		log.Warn().Err(err).Msg("falling back to bundled regional table")
		table = region.DefaultTable()
	}

	resolved := table.Resolve(zip, state)
	fmt.Printf("ZIP %s", zip)
	if state != "" {
		fmt.Printf(" (%s)", state)
	}
	fmt.Printf(" -> %s\n", resolved.RegionName)
	fmt.Printf("Multiplier: %.4fx\n", resolved.Multiplier)
	fmt.Printf("Resolved at: %s precision\n", resolved.Precision)

	return nil
}
