package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// reportCmd submits an issue report
var reportCmd = &cobra.Command{
	Use:   "report [description...]",
	Short: "Report a problem with the platform",
	Long: `Send a free-form issue report to the Athletic Insider team.

  insider report "Search returns no results for hyphenated school names"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return fmt.Errorf("the report description cannot be empty")
	}

	if err := current.client.ReportIssue(cmd.Context(), description); err != nil {
		return fmt.Errorf("report submission failed: %w", err)
	}
	fmt.Println("Report sent. Thank you!")
	return nil
}
