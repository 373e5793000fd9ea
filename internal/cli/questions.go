package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <item-id>",
	Short: "List the visible questions of an item",
	Long: `List the currently visible questions for a documentation item.

Conditional questions only appear once their parent question has the
required answer. Critical questions are marked with *; all visible
critical questions must be answered before generation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}

		questions, err := Workflow.GetVisibleQuestions(args[0])
		if err != nil {
			return fmt.Errorf("listing questions: %w", err)
		}
		completion, err := Workflow.GetCompletion(args[0])
		if err != nil {
			return fmt.Errorf("listing questions: %w", err)
		}

		if len(questions) == 0 {
			fmt.Println("No questions yet.")
			return nil
		}

		for _, q := range questions {
			marker := " "
			if q.Critical {
				marker = "*"
			}
			fmt.Printf("%s %-6s %s\n", marker, q.ID, q.Text)
			if len(q.Options) > 0 {
				fmt.Printf("         options: %s\n", strings.Join(q.Options, ", "))
			}
			if q.IsAnswered() {
				fmt.Printf("         answer:  %s\n", q.Answer)
			}
		}

		fmt.Printf("\n%d/%d answered, %d/%d critical answered", completion.Answered, completion.Total,
			completion.CriticalAnswered, completion.Critical)
		ready, err := Workflow.IsReady(args[0])
		if err != nil {
			return fmt.Errorf("listing questions: %w", err)
		}
		if ready {
			fmt.Println(" - ready for generation")
		} else {
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}
