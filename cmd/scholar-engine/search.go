// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholar-engine/internal/agents"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Run the literature-search agent only",
	Long: `Search runs just the literature-search agent and prints the retrieved
sources, without synthesis, citations, or gap analysis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	defer logger.Sync()

	cfg := buildConfig()
	client := agents.NewClient(cfg, agents.WithLogger(logger))

	maxResults, _ := cmd.Flags().GetInt("max-results")
	abstracts, _ := cmd.Flags().GetBool("abstracts")

	opts := agents.SearchOptions{
		MaxResults:       maxResults,
		IncludeAbstracts: abstracts,
	}
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		opts.DateRange.From = t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
		opts.DateRange.To = t
	}

	lit, err := client.SearchLiterature(context.Background(), strings.Join(args, " "), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lit)
	}

	printSources(lit, abstracts)
	return nil
}

func printSources(lit types.LiteratureResult, abstracts bool) {
	fmt.Printf("%d sources (%d total matches)\n\n", len(lit.Sources), lit.TotalResults)
	for i, src := range lit.Sources {
		fmt.Printf("%2d. %s\n", i+1, src.Title)
		fmt.Printf("    %s. %s (%d)", strings.Join(src.Authors, "; "), src.Journal, src.Year)
		if src.DOI != "" {
			fmt.Printf("  doi:%s", src.DOI)
		}
		fmt.Println()
		if abstracts && src.Abstract != "" {
			fmt.Printf("    %s\n", src.Abstract)
		}
	}
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (0 = default)")
	searchCmd.Flags().Bool("abstracts", false, "include abstracts in the output")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}
