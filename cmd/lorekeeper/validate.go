package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lorekeeper/internal/integrity"
	"lorekeeper/internal/save"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the saved world",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	file, err := save.Read(p.cfg.Save)
	if err != nil {
		return err
	}

	report := integrity.Audit(file.Data, p.sections)

	var errorIssues []integrity.Issue
	var warnIssues []integrity.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case integrity.SeverityError:
			errorIssues = append(errorIssues, issue)
		case integrity.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintf(os.Stdout, "No issues found in session %s.\n", file.Header.SessionID)
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []integrity.Issue) {
	for _, issue := range issues {
		location := issue.Area
		if issue.Entity != "" {
			location = fmt.Sprintf("%s %s", issue.Area, issue.Entity)
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
