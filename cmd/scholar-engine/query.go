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
	"github.com/pdiddy/scholar-engine/internal/workspace"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Run a research question through the full agent pipeline",
	Long: `Query runs the composite pipeline: literature search, then synthesis,
citation formatting, and gap analysis in parallel over the retrieved sources.
Identical questions within the cache window return the cached result.

With --save-workspace the result is stored as a new workspace document; with
--workspace ID it is merged into an existing one, stage by stage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	defer logger.Sync()

	cfg := buildConfig()
	q, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}

	client := agents.NewClient(cfg, agents.WithLogger(logger))
	result := client.ProcessQuery(context.Background(), q)

	if result.Status == types.StatusFailed {
		return fmt.Errorf("query failed: %s", result.Error)
	}

	if err := routeToWorkspace(cmd, cfg, q, result); err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(result)
	return nil
}

func queryFromFlags(cmd *cobra.Command, args []string) (types.Query, error) {
	area, _ := cmd.Flags().GetString("area")
	style, _ := cmd.Flags().GetString("style")
	synthesis, _ := cmd.Flags().GetString("synthesis")
	depth, _ := cmd.Flags().GetString("depth")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	user, _ := cmd.Flags().GetString("user")

	q := types.Query{
		Question:      strings.Join(args, " "),
		ResearchArea:  area,
		MaxResults:    maxResults,
		CitationStyle: types.CitationStyle(style),
		SynthesisType: types.SynthesisType(synthesis),
		AnalysisDepth: types.AnalysisDepth(depth),
		UserID:        user,
		SubmittedAt:   time.Now(),
	}

	if style != "" && !types.ValidStyle(q.CitationStyle) {
		return types.Query{}, fmt.Errorf("unknown citation style %q", style)
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return types.Query{}, fmt.Errorf("invalid --from date: %w", err)
		}
		q.DateRange.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return types.Query{}, fmt.Errorf("invalid --to date: %w", err)
		}
		q.DateRange.To = t
	}

	return q, nil
}

func routeToWorkspace(cmd *cobra.Command, cfg types.Config, q types.Query, result *types.QueryResult) error {
	workspaceID, _ := cmd.Flags().GetString("workspace")
	save, _ := cmd.Flags().GetBool("save-workspace")
	if workspaceID == "" && !save {
		return nil
	}

	store, closeStore, err := openWorkspaceStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	router := workspace.NewRouter(store)

	if save {
		name, _ := cmd.Flags().GetString("workspace-name")
		doc, err := router.BuildDocument(context.Background(), name, q.UserID, q, result)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved workspace %s (%q)\n", doc.ID, doc.Name)
		return nil
	}

	if _, err := router.Distribute(context.Background(), workspaceID, q, result); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Updated workspace %s\n", workspaceID)
	return nil
}

func printResult(result *types.QueryResult) {
	fmt.Printf("Query %s (%s, strategy: %s, %v)\n",
		result.QueryID, result.Status, result.Metadata.Strategy, result.Metadata.Duration.Round(time.Millisecond))
	if result.Metadata.Cached {
		fmt.Println("  (served from cache)")
	}

	fmt.Printf("\nSources (%d):\n", len(result.Literature.Sources))
	for i, src := range result.Literature.Sources {
		fmt.Printf("  %2d. %s (%d) %s\n", i+1, src.Title, src.Year, src.DOI)
	}

	if result.Synthesis.Summary != "" {
		fmt.Printf("\nSynthesis:\n  %s\n", result.Synthesis.Summary)
		for _, f := range result.Synthesis.KeyFindings {
			fmt.Printf("  - %s\n", f)
		}
	}

	if len(result.Citations.Bibliography) > 0 {
		fmt.Printf("\nBibliography (%s):\n", result.Citations.Style)
		for _, entry := range result.Citations.Bibliography {
			fmt.Printf("  %s\n", entry)
		}
	}

	if len(result.Gaps.Gaps) > 0 {
		fmt.Printf("\nResearch gaps:\n")
		for _, g := range result.Gaps.Gaps {
			fmt.Printf("  [%s] %s: %s\n", g.Priority, g.Gap, g.Description)
		}
	}
}

func init() {
	queryCmd.Flags().String("area", "", "research area (defaults to the question)")
	queryCmd.Flags().String("style", "", "citation style: apa, mla, chicago, harvard, ieee, vancouver, bibtex")
	queryCmd.Flags().String("synthesis", "", "synthesis depth: concise, standard, comprehensive")
	queryCmd.Flags().String("depth", "", "gap analysis depth: overview, detailed")
	queryCmd.Flags().Int("max-results", 0, "maximum literature sources (0 = default)")
	queryCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	queryCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	queryCmd.Flags().String("user", "", "user ID recorded on workspace documents")
	queryCmd.Flags().Bool("json", false, "output the full result as JSON")
	queryCmd.Flags().String("workspace", "", "merge the result into an existing workspace ID")
	queryCmd.Flags().Bool("save-workspace", false, "save the result as a new workspace document")
	queryCmd.Flags().String("workspace-name", "", "name for the new workspace (with --save-workspace)")

	rootCmd.AddCommand(queryCmd)
}
