package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"callboard/internal/clierr"
	"callboard/internal/output"
	"callboard/internal/sheets"
	"callboard/internal/task"
)

var subsCmd = &cobra.Command{
	Use:   "subs <task-name>...",
	Short: "List sub-tasks from the spreadsheet",
	Long: `Reads the spreadsheet tab named after each task and lists its sub-task
rows. Requires a signed-in session and a configured spreadsheet.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubs,
}

func init() {
	rootCmd.AddCommand(subsCmd)
}

// subsResult is one task's outcome in JSON output.
type subsResult struct {
	Task  string         `json:"task"`
	OK    bool           `json:"ok"`
	Subs  []task.SubTask `json:"subs,omitempty"`
	Error string         `json:"error,omitempty"`
	Code  string         `json:"code,omitempty"`
}

func runSubs(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	gw, err := requireGateway(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	results, anyFailed := collectSubs(ctx, gw, args)

	switch outputFormat() {
	case output.FormatJSON:
		if err := output.JSON(os.Stdout, results); err != nil {
			return err
		}
	case output.FormatCompact:
		for _, r := range results {
			if !r.OK {
				fmt.Fprintf(os.Stderr, "Error: task %q: %s\n", r.Task, r.Error)
				continue
			}
			output.SubTaskCompact(os.Stdout, r.Subs)
		}
	default:
		for _, r := range results {
			if !r.OK {
				fmt.Fprintf(os.Stderr, "Error: task %q: %s\n", r.Task, r.Error)
				continue
			}
			if len(results) > 1 {
				output.Messagef(os.Stdout, "%s:", r.Task)
			}
			output.SubTaskTable(os.Stdout, r.Subs)
		}
	}

	// Results already went out; the exit code alone reports the failures.
	if anyFailed {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}

// rangeReader is the slice of the gateway the subs batch needs.
type rangeReader interface {
	ReadRange(ctx context.Context, tab, readRange string) ([][]string, error)
}

// collectSubs reads every named tab and reports whether any of them failed.
// Failures land in the result list so output still covers every task.
func collectSubs(ctx context.Context, r rangeReader, names []string) ([]subsResult, bool) {
	results := make([]subsResult, 0, len(names))
	anyFailed := false
	for _, arg := range names {
		name := strings.TrimSpace(arg)
		subs, err := readSubs(ctx, r, name)
		if err != nil {
			anyFailed = true
			var cliErr *clierr.Error
			if errors.As(err, &cliErr) {
				results = append(results, subsResult{Task: name, Error: cliErr.Message, Code: cliErr.Code})
			} else {
				results = append(results, subsResult{Task: name, Error: err.Error()})
			}
			continue
		}
		results = append(results, subsResult{Task: name, OK: true, Subs: subs})
	}
	return results, anyFailed
}

func readSubs(ctx context.Context, r rangeReader, name string) ([]task.SubTask, error) {
	rows, err := r.ReadRange(ctx, name, task.SubTaskRange)
	if err != nil {
		if sheets.IsTabNotFound(err) {
			return nil, clierr.Newf(clierr.TabNotFound, "no sheet tab named %q; create a tab matching the task name", name).
				WithDetails(map[string]any{"tab": name})
		}
		return nil, clierr.Newf(clierr.SheetError, "reading tab %q: %v", name, err)
	}
	return task.SubTasksFromRows(rows), nil
}
