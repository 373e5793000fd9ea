package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FedericoDamboreana/ba-ai/internal/core"
)

// WorkspaceInit is the WorkspaceInitializer used by the init command.
// Set during application wiring.
var WorkspaceInit core.WorkspaceInitializer

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new ba-ai data workspace",
	Long: `Initialize a new or existing directory as a ba-ai workspace with a
configuration file, an empty project registry, item storage, and ID
counters.

Safe to run on an existing workspace -- files and directories that
already exist are skipped and not overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if WorkspaceInit == nil {
			return fmt.Errorf("workspace initializer not initialized")
		}

		basePath := "."
		if len(args) > 0 {
			basePath = args[0]
		}
		absPath, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		model, _ := cmd.Flags().GetString("model")
		itemPrefix, _ := cmd.Flags().GetString("item-prefix")
		projectPrefix, _ := cmd.Flags().GetString("project-prefix")

		result, err := WorkspaceInit.Init(core.InitConfig{
			BasePath:      absPath,
			Model:         model,
			ItemPrefix:    itemPrefix,
			ProjectPrefix: projectPrefix,
		})
		if err != nil {
			return fmt.Errorf("initializing workspace: %w", err)
		}

		if len(result.Created) > 0 {
			fmt.Println("Created:")
			for _, p := range result.Created {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}
		if len(result.Skipped) > 0 {
			fmt.Println("Skipped (already exist):")
			for _, p := range result.Skipped {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}

		fmt.Printf("\nWorkspace initialized at %s\n", absPath)
		return nil
	},
}

func init() {
	initCmd.Flags().String("model", "", "Generation model written to the config file")
	initCmd.Flags().String("item-prefix", "ITEM", "Item ID prefix")
	initCmd.Flags().String("project-prefix", "PROJ", "Project ID prefix")
	rootCmd.AddCommand(initCmd)
}
