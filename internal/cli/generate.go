package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Validate answers and generate documentation",
	Long: `Generation commands for documentation items.

Validate checks with the AI whether the answers are sufficient and may add
follow-up questions. Run produces the structured document once all visible
critical questions are answered. Regenerate replaces it, optionally guided
by feedback. Edit overrides a single field of the generated content.`,
}

var validateCmd = &cobra.Command{
	Use:   "validate <item-id>",
	Short: "Check whether the answers are sufficient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}

		outcome, err := Workflow.Validate(cmd.Context(), args[0])
		if err != nil {
			return describeWorkflowErr("validating item", err)
		}

		if outcome.IsComplete {
			fmt.Printf("Item %s is complete and ready for generation.\n", args[0])
			return nil
		}
		fmt.Printf("Item %s is not complete yet.\n", args[0])
		if len(outcome.NewQuestions) > 0 {
			fmt.Printf("%d follow-up question(s) added:\n", len(outcome.NewQuestions))
			for _, q := range outcome.NewQuestions {
				fmt.Printf("  %-6s %s\n", q.ID, q.Text)
			}
			fmt.Printf("\nRun 'ba-ai answer %s' to answer them.\n", args[0])
		}
		return nil
	},
}

var generateRunCmd = &cobra.Command{
	Use:   "run <item-id>",
	Short: "Generate the structured document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}

		content, err := Workflow.Generate(cmd.Context(), args[0])
		if err != nil {
			return describeWorkflowErr("generating item", err)
		}

		data, err := yaml.Marshal(content)
		if err != nil {
			return fmt.Errorf("rendering content: %w", err)
		}
		fmt.Printf("Generated %s content for item %s:\n\n%s", content.Type, args[0], data)
		return nil
	},
}

var regenerateFeedback string

var regenerateCmd = &cobra.Command{
	Use:   "regenerate <item-id>",
	Short: "Regenerate the document, optionally with feedback",
	Long: `Generate a fresh version of an already generated document.

The previous content is only replaced when the new generation succeeds.
Use --feedback to tell the AI what to change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}

		content, err := Workflow.Regenerate(cmd.Context(), args[0], regenerateFeedback)
		if err != nil {
			return describeWorkflowErr("regenerating item", err)
		}

		data, err := yaml.Marshal(content)
		if err != nil {
			return fmt.Errorf("rendering content: %w", err)
		}
		fmt.Printf("Regenerated %s content for item %s:\n\n%s", content.Type, args[0], data)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <item-id> <field-path> <value>",
	Short: "Edit one field of the generated content",
	Long: `Manually override a single field of the generated document.

Field paths are dotted, e.g. "title", "user_story.as_a", "overview", or
"scope.in_scope". List fields take newline-separated values. Unknown paths
are rejected.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}
		if err := Workflow.EditGeneratedField(args[0], args[1], args[2]); err != nil {
			return describeWorkflowErr("editing item", err)
		}
		fmt.Printf("Updated %s on item %s\n", args[1], args[0])
		return nil
	},
}

// describeWorkflowErr keeps sentinel failures readable on the terminal.
func describeWorkflowErr(op string, err error) error {
	switch {
	case errors.Is(err, core.ErrNotReady):
		return fmt.Errorf("%s: answer all visible critical questions first: %w", op, err)
	case errors.Is(err, core.ErrBusy):
		return fmt.Errorf("%s: another AI call for this item is still running: %w", op, err)
	case errors.Is(err, core.ErrService):
		return fmt.Errorf("%s: the AI service call failed, item left unchanged: %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func init() {
	regenerateCmd.Flags().StringVar(&regenerateFeedback, "feedback", "", "Feedback to incorporate into the new version")

	generateCmd.AddCommand(validateCmd)
	generateCmd.AddCommand(generateRunCmd)
	generateCmd.AddCommand(regenerateCmd)
	generateCmd.AddCommand(editCmd)
	rootCmd.AddCommand(generateCmd)
}
