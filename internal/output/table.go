package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"callboard/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[string]lipgloss.Style{
		task.PriorityHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.PriorityMid:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.PriorityLow:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
)

var colorDisabled bool

// DisableColor strips all styling from table output.
func DisableColor() {
	colorDisabled = true
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
}

// TaskTable renders the task list as a formatted table.
func TaskTable(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	nameW, assignW, prioW, statusW := 6, 10, 10, 8
	for _, t := range tasks {
		nameW = max(nameW, min(len(t.Name)+pad, 40)) //nolint:mnd // max name column width
		assignW = max(assignW, len(t.Assignee)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		statusW = max(statusW, len(t.Status)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-12s",
		nameW, "NAME", assignW, "ASSIGNEE", prioW, "PRIORITY", statusW, "STATUS", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		due := dimStyle.Render("--")
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		row := fmt.Sprintf("%s %s %s %s %s",
			padRight(t.Name, nameW),
			padRight(stringOrDash(t.Assignee), assignW),
			padRight(styledValue(t.Priority, priorityStyles), prioW),
			padRight(styledValue(t.Status, statusStyles), statusW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// SubTaskTable renders a task's sub-task rows as a formatted table.
func SubTaskTable(w io.Writer, subs []task.SubTask) {
	if len(subs) == 0 {
		fmt.Fprintln(os.Stderr, "No sub-tasks found.")
		return
	}

	const pad = 2
	rowW, nameW, assignW, statusW := 5, 6, 10, 8
	for _, s := range subs {
		nameW = max(nameW, min(len(s.Name)+pad, 40)) //nolint:mnd // max name column width
		assignW = max(assignW, len(s.Assignee)+pad)
		statusW = max(statusW, len(s.Status)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-12s",
		rowW, "ROW", nameW, "NAME", assignW, "ASSIGNEE", statusW, "STATUS", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, s := range subs {
		due := dimStyle.Render("--")
		if s.DueDate != nil {
			due = s.DueDate.String()
		}
		row := fmt.Sprintf("%-*d %s %s %s %s",
			rowW, s.Row,
			padRight(s.Name, nameW),
			padRight(stringOrDash(s.Assignee), assignW),
			padRight(styledValue(s.Status, statusStyles), statusW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail; notes render as
// markdown.
func TaskDetail(w io.Writer, t task.Task) {
	titleLine := "Task: " + t.Name
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Assignee", stringOrDash(t.Assignee))
	printField(w, "Priority", styledValue(t.Priority, priorityStyles))
	printField(w, "Status", styledValue(t.Status, statusStyles))
	if t.StartDate != nil {
		printField(w, "Start", t.StartDate.String())
	}
	if t.DueDate != nil {
		printField(w, "Due", t.DueDate.String())
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}

	if t.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, Markdown(t.Notes))
	}
}

// Markdown renders notes as terminal markdown, falling back to the raw text
// when rendering fails or color is disabled.
func Markdown(md string) string {
	if colorDisabled {
		return md + "\n"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80), //nolint:mnd // conventional notes width
	)
	if err != nil {
		return md + "\n"
	}
	out, err := r.Render(md)
	if err != nil {
		return md + "\n"
	}
	return out
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
