package task

import (
	"callboard/internal/date"
)

// AssigneeAll is the filter sentinel matching every task.
const AssigneeAll = "all"

// Assignees is the fixed team roster used by the hub filter.
var Assignees = []string{"Aya", "Ken", "Mio", "Rin"}

// SampleTasks returns the seed task list for the hub board. The list is
// in-memory only; edits and AI-extracted tasks are layered on top of it for
// the lifetime of the process.
func SampleTasks() []Task {
	return []Task{
		{
			Name:     "Stage Build",
			Assignee: "Ken",
			Priority: PriorityHigh,
			Status:   StatusInProgress,
			DueDate:  inDays(7),
			Notes:    "Main platform plus the two side risers.",
		},
		{
			Name:     "Props",
			Assignee: "Aya",
			Priority: PriorityMid,
			Status:   StatusTodo,
			DueDate:  inDays(10),
		},
		{
			Name:     "Costumes",
			Assignee: "Mio",
			Priority: PriorityMid,
			Status:   StatusTodo,
			DueDate:  inDays(14),
			Notes:    "Fittings start after the cast list is final.",
		},
		{
			Name:     "Lighting Plot",
			Assignee: "Rin",
			Priority: PriorityHigh,
			Status:   StatusTodo,
			DueDate:  inDays(5),
		},
		{
			Name:     "Program Booklet",
			Assignee: "Aya",
			Priority: PriorityLow,
			Status:   StatusTodo,
		},
	}
}

func inDays(n int) *date.Date {
	t := date.Today().AddDate(0, 0, n)
	d := date.New(t.Year(), t.Month(), t.Day())
	return &d
}
