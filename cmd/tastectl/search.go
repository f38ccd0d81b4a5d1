package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Weighted substring search over catalog fields",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	items, err := e.engine.Search(ctx, strings.Join(args, " "), flagLimit)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), viewOf(items))
}
