package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <prefix>",
	Short: "Autocomplete suggestions from names, countries, milk types and maturations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.engine.Suggest(ctx, strings.Join(args, " "), flagLimit)
	if err != nil {
		return err
	}
	if s == nil {
		s = []string{}
	}
	return writeJSON(cmd.OutOrStdout(), s)
}
