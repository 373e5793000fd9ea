package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage documentation items (create, list, show, delete)",
	Long: `Documentation item commands.

An item is one document in the making: a user story, PRD, epic, or FRS.
Creating an item generates its clarifying questionnaire; answer the
questions, validate, then generate the document.`,
}

var (
	itemCreateProject     string
	itemCreateType        string
	itemCreateDescription string
	itemCreateDeadline    string
)

var itemCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a documentation item and its questionnaire",
	Long: `Create a new documentation item in a project.

The AI generates 8-15 clarifying questions for the item based on its type,
title, and description. The item starts in Draft status. Use --type to pick
the document kind: UserStory, PRD, Epic, or FRS.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}

		docType := models.DocumentationType(itemCreateType)
		switch docType {
		case models.DocTypeUserStory, models.DocTypePRD, models.DocTypeEpic, models.DocTypeFRS:
		default:
			return fmt.Errorf("unknown documentation type %q (use UserStory, PRD, Epic, or FRS)", itemCreateType)
		}
		if itemCreateDeadline != "" {
			if _, err := time.Parse("2006-01-02", itemCreateDeadline); err != nil {
				return fmt.Errorf("invalid --deadline %q (use YYYY-MM-DD)", itemCreateDeadline)
			}
		}

		item, err := Workflow.CreateItem(cmd.Context(), itemCreateProject, docType, args[0], itemCreateDescription, itemCreateDeadline)
		if err != nil {
			return fmt.Errorf("creating %s item: %w", docType, err)
		}

		questions, err := Workflow.GetVisibleQuestions(item.ID)
		if err != nil {
			return fmt.Errorf("loading questions for %s: %w", item.ID, err)
		}

		fmt.Printf("Created item %s\n", item.ID)
		fmt.Printf("  Type:      %s\n", item.Type)
		fmt.Printf("  Project:   %s\n", item.ProjectID)
		if item.Deadline != "" {
			fmt.Printf("  Deadline:  %s\n", item.Deadline)
		}
		fmt.Printf("  Questions: %d\n", len(questions))
		fmt.Printf("\nRun 'ba-ai answer %s' to start answering.\n", item.ID)
		return nil
	},
}

var itemListProject string

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documentation items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ItemMgr == nil {
			return fmt.Errorf("item manager not initialized")
		}

		items, err := ItemMgr.ListItems(itemListProject)
		if err != nil {
			return fmt.Errorf("listing items: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No documentation items found.")
			return nil
		}

		fmt.Printf("%-12s %-10s %-32s %-20s %s\n", "ID", "TYPE", "TITLE", "STATUS", "DEADLINE")
		for _, item := range items {
			fmt.Printf("%-12s %-10s %-32s %-20s %s\n",
				item.ID, item.Type, truncate(item.Title, 32), item.Status, item.Deadline)
		}
		return nil
	},
}

var itemShowContent bool

var itemShowCmd = &cobra.Command{
	Use:   "show <item-id>",
	Short: "Show a documentation item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Workflow == nil {
			return fmt.Errorf("workflow not initialized")
		}

		item, err := Workflow.GetItem(args[0])
		if err != nil {
			return fmt.Errorf("showing item: %w", err)
		}
		completion, err := Workflow.GetCompletion(item.ID)
		if err != nil {
			return fmt.Errorf("showing item: %w", err)
		}

		fmt.Printf("%s  %s\n", item.ID, item.Title)
		fmt.Printf("  Type:      %s\n", item.Type)
		fmt.Printf("  Project:   %s\n", item.ProjectID)
		fmt.Printf("  Status:    %s\n", item.Status)
		if item.Deadline != "" {
			fmt.Printf("  Deadline:  %s\n", item.Deadline)
		}
		if item.Description != "" {
			fmt.Printf("  About:     %s\n", item.Description)
		}
		fmt.Printf("  Questions: %d/%d answered (%d/%d critical)\n",
			completion.Answered, completion.Total, completion.CriticalAnswered, completion.Critical)

		if itemShowContent {
			if item.Content == nil {
				fmt.Println("\nNo generated content yet.")
				return nil
			}
			data, err := yaml.Marshal(item.Content)
			if err != nil {
				return fmt.Errorf("rendering content: %w", err)
			}
			fmt.Printf("\n%s", data)
		}
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <item-id>",
	Short: "Delete a documentation item and its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ItemMgr == nil {
			return fmt.Errorf("item manager not initialized")
		}
		if err := ItemMgr.DeleteItem(args[0]); err != nil {
			return fmt.Errorf("deleting item: %w", err)
		}
		fmt.Printf("Deleted item %s\n", args[0])
		return nil
	},
}

func init() {
	itemCreateCmd.Flags().StringVar(&itemCreateProject, "project", "", "Project ID the item belongs to")
	itemCreateCmd.Flags().StringVar(&itemCreateType, "type", "UserStory", "Documentation type (UserStory, PRD, Epic, FRS)")
	itemCreateCmd.Flags().StringVar(&itemCreateDescription, "description", "", "Item description")
	itemCreateCmd.Flags().StringVar(&itemCreateDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	_ = itemCreateCmd.MarkFlagRequired("project")

	itemListCmd.Flags().StringVar(&itemListProject, "project", "", "Filter by project ID")
	itemShowCmd.Flags().BoolVar(&itemShowContent, "content", false, "Include generated content")

	itemCmd.AddCommand(itemCreateCmd)
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemShowCmd)
	itemCmd.AddCommand(itemDeleteCmd)
	rootCmd.AddCommand(itemCmd)
}
