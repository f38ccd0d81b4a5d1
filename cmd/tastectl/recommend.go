package main

import (
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Personalised recommendations for --user",
	Long:  "Aggregates the user's ratings into a preference profile and ranks the catalog by affinity. Users without usable ratings get the trending list.",
	Args:  cobra.NoArgs,
	RunE:  runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.engine.Recommend(ctx, flagUser, flagLimit)
	if err != nil {
		return err
	}
	explain := make(map[string]string, len(res.Explain))
	for k, lbl := range res.Explain {
		explain[k] = lbl.Value
	}
	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"personalized": res.Personalized,
		"fallback":     res.Fallback,
		"explain":      explain,
		"items":        viewOf(res.Items),
	})
}
