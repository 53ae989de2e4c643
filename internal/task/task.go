// Package task defines the task, sub-task, and suggestion models.
package task

import (
	"callboard/internal/date"
)

// Priority levels for top-level tasks.
const (
	PriorityHigh = "High"
	PriorityMid  = "Mid"
	PriorityLow  = "Low"
)

// Status values shared by tasks and sub-task rows.
const (
	StatusTodo       = "Todo"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

// Priorities lists the allowed priority values in rank order.
var Priorities = []string{PriorityHigh, PriorityMid, PriorityLow}

// Statuses lists the allowed status values in workflow order.
var Statuses = []string{StatusTodo, StatusInProgress, StatusDone}

// Task is a top-level job on the hub board. The list lives in process memory
// only; it is never written back to the spreadsheet. A task's Name doubles as
// the spreadsheet tab holding its sub-task rows.
type Task struct {
	Name      string     `json:"name"`
	Assignee  string     `json:"assignee"`
	Priority  string     `json:"priority"`
	Status    string     `json:"status"`
	StartDate *date.Date `json:"start_date,omitempty"`
	DueDate   *date.Date `json:"due_date,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// SubTask is one row of a task's spreadsheet tab. Row is the 1-based sheet
// row number and serves as the row's write address; it is only stable while
// nobody reorders the sheet externally.
type SubTask struct {
	Row      int        `json:"row"`
	Name     string     `json:"name"`
	Assignee string     `json:"assignee,omitempty"`
	Status   string     `json:"status"`
	DueDate  *date.Date `json:"due_date,omitempty"`
}

// Done reports whether the sub-task's status is the terminal one.
func (s SubTask) Done() bool {
	return s.Status == StatusDone
}

// ToggledStatus returns the status a checkbox toggle writes: Done comes back
// as Todo, everything else (Todo or In Progress) becomes Done. The toggle is
// deliberately not an involution for In Progress rows.
func ToggledStatus(status string) string {
	if status == StatusDone {
		return StatusTodo
	}
	return StatusDone
}

// Suggestion is an AI-proposed sub-task pending user confirmation. ID is
// synthetic and only used for selection-set membership; it never reaches the
// sheet.
type Suggestion struct {
	ID       int        `json:"-"`
	Name     string     `json:"name"`
	Assignee string     `json:"assignee,omitempty"`
	DueDate  *date.Date `json:"due_date,omitempty"`
}

// Committable reports whether the suggestion may be appended to the sheet.
func (s Suggestion) Committable() bool {
	return s.Name != ""
}

// Draft is a task extracted by the assistant from a free-text request,
// awaiting confirmation before it joins the in-memory list.
type Draft struct {
	Name     string     `json:"name"`
	Assignee string     `json:"assignee"`
	Priority string     `json:"priority"`
	DueDate  *date.Date `json:"due_date,omitempty"`
	Notes    string     `json:"notes,omitempty"`
}

// Task converts a confirmed draft into a board task.
func (d Draft) Task() Task {
	return Task{
		Name:     d.Name,
		Assignee: d.Assignee,
		Priority: d.Priority,
		Status:   StatusTodo,
		DueDate:  d.DueDate,
		Notes:    d.Notes,
	}
}
