package main

import (
	"github.com/spf13/cobra"
)

var similarCmd = &cobra.Command{
	Use:   "similar <item-id>",
	Short: "Items most similar to the given item",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	items, err := e.engine.Similar(ctx, args[0], flagLimit)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), viewOf(items))
}
