package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"callboard/internal/output"
	"callboard/internal/roster"
	"callboard/internal/task"
)

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"ls"},
	Short:   "List the production's tasks",
	Long:    `Lists tasks sorted by due date, optionally filtered by assignee.`,
	RunE:    runTasks,
}

func init() {
	tasksCmd.Flags().String("assignee", task.AssigneeAll, "filter by assignee ("+task.AssigneeAll+" shows everyone)")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, _ []string) error {
	assignee, _ := cmd.Flags().GetString("assignee")
	tasks := roster.SortByDue(roster.Filter(task.SampleTasks(), assignee))

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks)
	}
	return nil
}
