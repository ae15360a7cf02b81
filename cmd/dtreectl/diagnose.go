package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dtreekit/dtree"
)

var (
	diagFormat     string
	diagOutputFile string
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Scan the device tree and report unreadable nodes",
	Long: `Performs a full scan of the device tree and reports every node or property
that could not be read. Such failures do not stop a scan; the affected subtree
is skipped, so devices below it are missing from the list.`,
	Example: `  # Scan the live tree and show a text report
  dtreectl diagnose

  # Output JSON for programmatic analysis
  dtreectl diagnose --format json --tree test/device-tree

  # Save report to file
  dtreectl diagnose --output report.txt`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiagnose()
	},
}

func init() {
	diagnoseCmd.Flags().StringVarP(&diagFormat, "format", "f", "text",
		"Output format: text, json")
	diagnoseCmd.Flags().StringVarP(&diagOutputFile, "output", "o", "",
		"Write report to file instead of stdout")

	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose() error {
	if jsonOut {
		diagFormat = "json"
	}

	s := dtree.New(sessionOptions())
	if err := s.Open(cfg.Tree.Root); err != nil {
		return fmt.Errorf("failed to open device tree %s: %w", cfg.Tree.Root, err)
	}
	defer s.Close()

	report := s.Diagnostics()

	var output string
	switch diagFormat {
	case "json":
		jsonStr, err := report.FormatJSON()
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		output = jsonStr + "\n"
	case "text":
		output = report.FormatText()
	default:
		return fmt.Errorf("unknown format: %s (use: text, json)", diagFormat)
	}

	if diagOutputFile != "" {
		if err := os.WriteFile(diagOutputFile, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		printInfo("Report written to: %s\n", diagOutputFile)
	} else {
		fmt.Print(output)
	}

	if report.HasAnyIssues() {
		return errIssuesFound
	}
	return nil
}
