// Package main 是 tastectl 命令行：在本地目录文件或配置的存储上执行推荐、相似、搜索与标签识别。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "tastectl",
	Short:        "Catalog recommendation and matching engine",
	Long:         "tastectl runs personalised recommendations, similar-item lookups, weighted text search and label resolution over a cheese catalog.",
	SilenceUsage: true,
}

var (
	flagConfig  string
	flagCatalog string
	flagRatings string
	flagUser    string
	flagLimit   int
	flagVerbose bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "Path to settings YAML (store backend, weights, limits)")
	pf.StringVar(&flagCatalog, "catalog", "", "Path to catalog YAML/JSON file loaded into the store")
	pf.StringVar(&flagRatings, "ratings", "", "Path to ratings YAML/JSON file for --user")
	pf.StringVarP(&flagUser, "user", "u", "", "User id")
	pf.IntVarP(&flagLimit, "limit", "n", 0, "Maximum number of results (0 uses the configured default)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
