package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

var answerQuestionID string

var answerCmd = &cobra.Command{
	Use:   "answer <item-id> [answer text]",
	Short: "Answer an item's clarifying questions",
	Long: `Answer clarifying questions for a documentation item.

With --question and answer text, submits a single answer. Without them,
starts an interactive session walking through the unanswered visible
questions. Answering may reveal new conditional questions; these join the
session as they appear. Submit "N/A" to dismiss a question without a real
answer.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}
		itemID := args[0]

		if answerQuestionID != "" {
			if len(args) < 2 {
				return fmt.Errorf("answer text required with --question")
			}
			return submitOne(itemID, answerQuestionID, args[1])
		}
		if len(args) == 2 {
			return fmt.Errorf("--question required when answer text is given")
		}
		return runAnswerSession(itemID)
	},
}

var clearAnswerCmd = &cobra.Command{
	Use:   "clear-answer <item-id> <question-id>",
	Short: "Clear a previously submitted answer",
	Long: `Clear the answer of a single question.

Questions whose visibility depended on the cleared answer disappear again,
but keep their answers in case they come back.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}
		if err := Workflow.ClearAnswer(args[0], args[1]); err != nil {
			return fmt.Errorf("clearing answer: %w", err)
		}
		fmt.Printf("Cleared answer for %s on item %s\n", args[1], args[0])
		return nil
	},
}

// submitOne submits a single answer and reports visibility changes.
func submitOne(itemID, questionID, answer string) error {
	result, err := Workflow.SubmitAnswer(itemID, questionID, answer)
	if err != nil {
		return fmt.Errorf("submitting answer: %w", err)
	}

	fmt.Printf("Answered %s\n", questionID)
	for _, q := range result.NewlyVisible {
		fmt.Printf("  New question revealed: %s %s\n", q.ID, q.Text)
	}
	if result.Ready {
		fmt.Printf("\nItem %s is ready for generation. Run 'ba-ai generate validate %s'.\n", itemID, itemID)
	}
	return nil
}

// runAnswerSession walks through unanswered visible questions interactively.
// Newly revealed questions are picked up on the next pass.
func runAnswerSession(itemID string) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		questions, err := Workflow.GetVisibleQuestions(itemID)
		if err != nil {
			return fmt.Errorf("loading questions: %w", err)
		}

		var pending *models.Question
		for _, q := range questions {
			if !q.IsAnswered() {
				pending = q
				break
			}
		}
		if pending == nil {
			break
		}

		marker := ""
		if pending.Critical {
			marker = " (critical)"
		}
		fmt.Printf("\n%s%s: %s\n", pending.ID, marker, pending.Text)
		if len(pending.Options) > 0 {
			for i, opt := range pending.Options {
				fmt.Printf("  %d. %s\n", i+1, opt)
			}
		}
		fmt.Print("> ")

		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" {
			fmt.Printf("Session saved. Resume anytime with 'ba-ai answer %s'.\n", itemID)
			return nil
		}
		if input == "" {
			fmt.Println("  Empty answer skipped. Enter 'N/A' to dismiss the question, 'q' to quit.")
			continue
		}

		answer := resolveOption(pending, input)
		result, err := Workflow.SubmitAnswer(itemID, pending.ID, answer)
		if err != nil {
			return fmt.Errorf("submitting answer: %w", err)
		}
		for _, q := range result.NewlyVisible {
			fmt.Printf("  New question revealed: %s\n", q.ID)
		}
	}

	completion, err := Workflow.GetCompletion(itemID)
	if err != nil {
		return fmt.Errorf("loading completion: %w", err)
	}
	fmt.Printf("\nAll visible questions answered (%d/%d).\n", completion.Answered, completion.Total)
	fmt.Printf("Run 'ba-ai generate validate %s' to check completeness.\n", itemID)
	return nil
}

// resolveOption maps a numeric reply to the corresponding option for choice
// questions. Free text passes through unchanged.
func resolveOption(q *models.Question, input string) string {
	if len(q.Options) == 0 {
		return input
	}
	var idx int
	if _, err := fmt.Sscanf(input, "%d", &idx); err != nil {
		return input
	}
	if idx < 1 || idx > len(q.Options) {
		return input
	}
	return q.Options[idx-1]
}

func init() {
	answerCmd.Flags().StringVar(&answerQuestionID, "question", "", "Question ID to answer directly")

	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(clearAnswerCmd)
}
