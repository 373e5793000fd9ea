package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "ba-ai",
	Short: "BA AI - AI-assisted business analysis documentation",
	Long: `BA AI (ba-ai) generates business analysis documentation (user stories,
PRDs, epics, and functional requirement specifications) through an
AI-guided questionnaire workflow.

It provides CLI commands for managing projects and documentation items,
answering clarifying questions, validating answer completeness, and
generating structured documents.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ba-ai %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
