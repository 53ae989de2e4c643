package output

import (
	"fmt"
	"io"

	"callboard/internal/task"
)

// TaskCompact renders tasks one line per record, machine-friendly.
func TaskCompact(w io.Writer, tasks []task.Task) {
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Name, orDash(t.Assignee), t.Priority, t.Status, due)
	}
}

// SubTaskCompact renders sub-tasks one line per record.
func SubTaskCompact(w io.Writer, subs []task.SubTask) {
	for _, s := range subs {
		due := "-"
		if s.DueDate != nil {
			due = s.DueDate.String()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.Row, s.Name, orDash(s.Assignee), s.Status, due)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
