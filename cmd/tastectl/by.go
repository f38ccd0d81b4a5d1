package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/tastekit/core"
)

var byCmd = &cobra.Command{
	Use:   "by <dimension> <value>",
	Short: "Top-rated items with the given milk_type, country, maturation or flavor_profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runBy,
}

func init() {
	rootCmd.AddCommand(byCmd)
}

func runBy(cmd *cobra.Command, args []string) error {
	if _, ok := core.ParseDimension(args[0]); !ok {
		return fmt.Errorf("unknown dimension %q (supported: %v)", args[0], core.Dimensions)
	}
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	items, err := e.engine.RecommendBy(ctx, args[0], args[1], flagLimit)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), viewOf(items))
}
