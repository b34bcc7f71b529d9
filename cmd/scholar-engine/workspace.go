// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-engine/pkg/types"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Inspect and manage workspace documents",
	Long: `Workspace manages the stage-organized documents that query results are
routed into. Documents persist in SQLite when workspace.db_path is
configured; without it each run starts empty.`,
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print one workspace document",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceShow,
}

func runWorkspaceShow(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openWorkspaceStore(buildConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	printWorkspace(doc)
	return nil
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspace documents for an owner",
	RunE:  runWorkspaceList,
}

func runWorkspaceList(cmd *cobra.Command, args []string) error {
	owner, _ := cmd.Flags().GetString("owner")

	store, closeStore, err := openWorkspaceStore(buildConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	docs, err := store.List(context.Background(), owner)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No workspaces found.")
		return nil
	}

	fmt.Printf("%-36s  %-30s  %-10s  %s\n", "ID", "Name", "Stage", "Updated")
	for _, doc := range docs {
		name := doc.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Printf("%-36s  %-30s  %-10s  %s\n",
			doc.ID, name, doc.CurrentStage, doc.LastUpdated.Format(time.RFC3339))
	}
	return nil
}

var workspaceExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a workspace document to YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceExport,
}

func runWorkspaceExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, closeStore, err := openWorkspaceStore(buildConfig())
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "yaml", "":
		if data, err = yaml.Marshal(doc); err != nil {
			return fmt.Errorf("encoding workspace as YAML: %w", err)
		}
	case "json":
		if data, err = json.MarshalIndent(doc, "", "  "); err != nil {
			return fmt.Errorf("encoding workspace as JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	fmt.Printf("Exported workspace %s to %s\n", doc.ID, outPath)
	return nil
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a workspace document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openWorkspaceStore(buildConfig())
		if err != nil {
			return err
		}
		defer closeStore()
		return store.Delete(context.Background(), args[0])
	},
}

func printWorkspace(doc *types.WorkspaceDocument) {
	fmt.Printf("Workspace %s (%q)\n", doc.ID, doc.Name)
	fmt.Printf("  owner: %s  current stage: %s  updated: %s\n",
		doc.OwnerID, doc.CurrentStage, doc.LastUpdated.Format(time.RFC3339))

	for _, stage := range []types.Stage{types.StageQuery, types.StageSearch, types.StageCitation, types.StageThink, types.StageShip} {
		data, ok := doc.Stages[stage]
		if !ok {
			continue
		}
		fmt.Printf("\n[%s] updated %s\n", stage, data.UpdatedAt.Format(time.RFC3339))
		if data.Query != "" {
			fmt.Printf("  question: %s\n", data.Query)
		}
		if data.Area != "" {
			fmt.Printf("  area: %s\n", data.Area)
		}
		if len(data.Sources) > 0 {
			fmt.Printf("  sources: %d\n", len(data.Sources))
		}
		if data.Citations != nil {
			fmt.Printf("  citations: %d entries (%s)\n", len(data.Citations.Bibliography), data.Citations.Style)
		}
		if data.Synthesis != nil {
			fmt.Printf("  synthesis: %s\n", data.Synthesis.Summary)
		}
		if data.Gaps != nil {
			fmt.Printf("  gaps: %d identified\n", len(data.Gaps.Gaps))
		}
		for k, v := range data.Extra {
			fmt.Printf("  %s: %s\n", k, v)
		}
	}
}

func init() {
	workspaceShowCmd.Flags().Bool("json", false, "output the document as JSON")
	workspaceListCmd.Flags().String("owner", "", "owner ID to list workspaces for")
	workspaceExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	workspaceExportCmd.Flags().String("out", "", "output file (default stdout)")

	workspaceCmd.AddCommand(workspaceShowCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceExportCmd)
	workspaceCmd.AddCommand(workspaceDeleteCmd)

	rootCmd.AddCommand(workspaceCmd)
}
