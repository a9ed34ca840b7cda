package main

import (
	"fmt"
	"io"

	"github.com/milk9111/lumen/prefabs"
	"github.com/spf13/cobra"
)

func validateCmd(flags *hostFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph]",
		Short: "Check a logic graph and the configured scene prefab",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load(cmd)
			if err != nil {
				return err
			}
			graphPath := cfg.Graph
			if len(args) == 1 {
				graphPath = args[0]
			}
			if graphPath == "" {
				graphPath = "graph.yaml"
			}
			return runValidate(cmd.OutOrStdout(), graphPath, cfg.Prefab)
		},
	}
}

func runValidate(out io.Writer, graphPath, prefabPath string) error {
	if prefabPath != "" {
		seed, err := prefabs.LoadScene(prefabPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Scene %s: %d entities\n", prefabPath, len(seed.Entities))
	}

	g, err := prefabs.LoadGraph(graphPath)
	if err != nil {
		return err
	}

	var errorIssues, warnIssues []prefabs.Issue
	for _, issue := range g.Validate() {
		switch issue.Severity {
		case prefabs.SeverityError:
			errorIssues = append(errorIssues, issue)
		case prefabs.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []prefabs.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(out, "  - [%s] %s\n", issue.Subject, issue.Message)
	}
}
