package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"callboard/internal/assist"
	"callboard/internal/clierr"
	"callboard/internal/date"
	"callboard/internal/output"
)

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <goal>",
	Short: "Suggest sub-tasks for a goal",
	Long: `Asks the assistant to break a free-text goal into concrete sub-tasks
and prints the suggestions without writing anything to the spreadsheet.
Requires the ` + assist.APIKeyEnv + ` environment variable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBreakdown,
}

func init() {
	rootCmd.AddCommand(breakdownCmd)
}

func runBreakdown(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	assistant, err := assist.New(nil, cfg.Model, newLogger(cfg))
	if err != nil {
		return clierr.Newf(clierr.AssistantError, "assistant unavailable: %v", err)
	}

	goal := strings.Join(args, " ")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suggestions, err := assistant.SuggestSubTasks(ctx, goal)
	if err != nil {
		return clierr.Newf(clierr.AssistantError, "breaking down %q: %v", goal, err).
			WithDetails(map[string]any{"goal": goal})
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, suggestions)
	default:
		for _, s := range suggestions {
			line := s.Name
			if s.Assignee != "" {
				line += " [" + s.Assignee + "]"
			}
			if s.DueDate != nil {
				line += " (due " + date.CellValue(s.DueDate) + ")"
			}
			fmt.Fprintln(os.Stdout, line)
		}
	}
	return nil
}
