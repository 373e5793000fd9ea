package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects (create, list, show, archive)",
	Long: `Project registry commands.

Projects group documentation items for a single client engagement. Every
documentation item belongs to exactly one project.`,
}

var (
	projectCreateClient      string
	projectCreateDescription string
)

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectMgr == nil {
			return fmt.Errorf("project manager not initialized")
		}

		id, err := ProjectIDGen.NextID()
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		now := time.Now().UTC()
		project := models.Project{
			ID:          id,
			Name:        args[0],
			Description: projectCreateDescription,
			Client:      projectCreateClient,
			Status:      models.ProjectActive,
			Created:     now,
			Updated:     now,
		}
		if err := ProjectMgr.AddProject(project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if err := ProjectMgr.Save(); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		fmt.Printf("Created project %s\n", project.ID)
		fmt.Printf("  Name:   %s\n", project.Name)
		if project.Client != "" {
			fmt.Printf("  Client: %s\n", project.Client)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectMgr == nil {
			return fmt.Errorf("project manager not initialized")
		}

		projects, err := ProjectMgr.GetAllProjects()
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		fmt.Printf("%-12s %-28s %-20s %s\n", "ID", "NAME", "CLIENT", "STATUS")
		for _, p := range projects {
			fmt.Printf("%-12s %-28s %-20s %s\n", p.ID, truncate(p.Name, 28), truncate(p.Client, 20), p.Status)
		}
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show a project and its documentation items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectMgr == nil || ItemMgr == nil {
			return fmt.Errorf("project manager not initialized")
		}

		project, err := ProjectMgr.GetProject(args[0])
		if err != nil {
			return fmt.Errorf("showing project: %w", err)
		}

		fmt.Printf("%s  %s\n", project.ID, project.Name)
		fmt.Printf("  Status:  %s\n", project.Status)
		if project.Client != "" {
			fmt.Printf("  Client:  %s\n", project.Client)
		}
		if project.Description != "" {
			fmt.Printf("  About:   %s\n", project.Description)
		}
		if project.KnowledgeBase != "" {
			fmt.Printf("\n  Knowledge base:\n  %s\n", strings.ReplaceAll(project.KnowledgeBase, "\n", "\n  "))
		}

		items, err := ItemMgr.ListItems(project.ID)
		if err != nil {
			return fmt.Errorf("listing project items: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("\n  No documentation items.")
			return nil
		}
		fmt.Printf("\n  %-12s %-10s %-32s %s\n", "ITEM", "TYPE", "TITLE", "STATUS")
		for _, item := range items {
			fmt.Printf("  %-12s %-10s %-32s %s\n", item.ID, item.Type, truncate(item.Title, 32), item.Status)
		}
		return nil
	},
}

var projectArchiveCmd = &cobra.Command{
	Use:   "archive <project-id>",
	Short: "Archive a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ProjectMgr == nil {
			return fmt.Errorf("project manager not initialized")
		}

		if err := ProjectMgr.UpdateProject(args[0], models.Project{Status: models.ProjectArchived}); err != nil {
			return fmt.Errorf("archiving project: %w", err)
		}
		if err := ProjectMgr.Save(); err != nil {
			return fmt.Errorf("archiving project: %w", err)
		}
		fmt.Printf("Archived project %s\n", args[0])
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectCreateClient, "client", "", "Client name")
	projectCreateCmd.Flags().StringVar(&projectCreateDescription, "description", "", "Project description")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectArchiveCmd)
	rootCmd.AddCommand(projectCmd)
}
