package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/tastekit/core"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Resolve a label recognition result against the catalog",
	Long:  "Applies the label policy to a recognition result (text, confidence, candidate ids) produced by an external OCR service.",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

var (
	scanText       string
	scanConfidence float64
	scanIDs        []string
	scanInput      string
)

func init() {
	scanCmd.Flags().StringVar(&scanText, "text", "", "Recognised label text")
	scanCmd.Flags().Float64Var(&scanConfidence, "confidence", 0, "Recognition confidence in [0,1]")
	scanCmd.Flags().StringSliceVar(&scanIDs, "ids", nil, "Candidate item ids returned by the recogniser")
	scanCmd.Flags().StringVarP(&scanInput, "in", "i", "", "Path to a recognition YAML/JSON file (overrides --text/--confidence/--ids)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	rec := core.Recognition{Text: scanText, Confidence: scanConfidence, CandidateIDs: scanIDs}
	if scanInput != "" {
		rec = core.Recognition{}
		if err := readYAML(scanInput, &rec); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	res, err := e.engine.ResolveLabel(ctx, rec)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"outcome":    res.Outcome,
		"text":       res.Text,
		"confidence": res.Confidence,
		"exact":      viewOf(res.Exact),
		"search":     viewOf(res.Search),
	})
}
