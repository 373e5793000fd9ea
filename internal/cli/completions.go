package cli

import (
	"strings"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
	"github.com/spf13/cobra"
)

// completeItemIDs returns a completion function that lists documentation
// item IDs, optionally filtered to exclude certain statuses.
func completeItemIDs(excludeStatuses ...models.ItemStatus) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if ItemMgr == nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		items, err := ItemMgr.ListItems("")
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		exclude := make(map[models.ItemStatus]bool)
		for _, s := range excludeStatuses {
			exclude[s] = true
		}

		var ids []string
		for _, item := range items {
			if exclude[item.Status] {
				continue
			}
			if toComplete == "" || strings.HasPrefix(item.ID, toComplete) {
				// Include type and title as description for better UX.
				ids = append(ids, item.ID+"\t"+string(item.Type)+": "+item.Title)
			}
		}

		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeProjectIDs lists registered project IDs with their names.
func completeProjectIDs(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ProjectMgr == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	projects, err := ProjectMgr.GetAllProjects()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var ids []string
	for _, project := range projects {
		if toComplete == "" || strings.HasPrefix(project.ID, toComplete) {
			ids = append(ids, project.ID+"\t"+project.Name)
		}
	}

	return ids, cobra.ShellCompDirectiveNoFileComp
}

// firstArgOnly wraps a completion function so it only fires for the first
// positional argument.
func firstArgOnly(fn func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return fn(cmd, args, toComplete)
	}
}

func init() {
	itemShowCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	itemDeleteCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	questionsCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	answerCmd.ValidArgsFunction = firstArgOnly(completeItemIDs(models.StatusGenerated))
	clearAnswerCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	validateCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	generateRunCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	regenerateCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	editCmd.ValidArgsFunction = firstArgOnly(completeItemIDs())
	projectShowCmd.ValidArgsFunction = firstArgOnly(completeProjectIDs)
	projectArchiveCmd.ValidArgsFunction = firstArgOnly(completeProjectIDs)
}
