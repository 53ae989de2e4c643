package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"callboard/internal/clierr"
	"callboard/internal/output"
	"callboard/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show <task-name>",
	Short: "Show one task's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	t, ok := findTask(name)
	if !ok {
		return clierr.Newf(clierr.TaskNotFound, "no task named %q", name).
			WithDetails(map[string]any{"name": name})
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, []task.Task{t})
	default:
		output.TaskDetail(os.Stdout, t)
	}
	return nil
}

// findTask matches by exact name first, then case-insensitively.
func findTask(name string) (task.Task, bool) {
	tasks := task.SampleTasks()
	for _, t := range tasks {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range tasks {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return task.Task{}, false
}
