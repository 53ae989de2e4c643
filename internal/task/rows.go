package task

import (
	"strings"

	"callboard/internal/date"
)

// Sub-task column layout within a task's tab. Positions are fixed by
// convention with the team's spreadsheet template: column D is reserved for
// notes and is never written by this tool.
const (
	ColName     = "A"
	ColAssignee = "B"
	ColStatus   = "C"
	ColDue      = "E"

	// FirstSubTaskRow is the first data row; row 1 holds the header.
	FirstSubTaskRow = 2

	// SubTaskRange is the read range for a tab's sub-task rows.
	SubTaskRange = "A2:E"
)

// SubTasksFromRows converts raw sheet rows into sub-tasks. The slice index
// maps to the sheet row number (index 0 is row FirstSubTaskRow). Rows with an
// empty name are dropped: they are either padding or half-deleted entries and
// must not render.
func SubTasksFromRows(rows [][]string) []SubTask {
	var subs []SubTask
	for i, row := range rows {
		name := strings.TrimSpace(cell(row, 0))
		if name == "" {
			continue
		}
		status := strings.TrimSpace(cell(row, 2))
		if status == "" {
			status = StatusTodo
		}
		subs = append(subs, SubTask{
			Row:      FirstSubTaskRow + i,
			Name:     name,
			Assignee: strings.TrimSpace(cell(row, 1)),
			Status:   status,
			DueDate:  date.FromCell(cell(row, 4)),
		})
	}
	return subs
}

// SuggestionRows renders suggestions as appendable sheet rows in column
// order. The reserved notes column is written empty to keep the due date in
// column E.
func SuggestionRows(suggestions []Suggestion) [][]string {
	rows := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		if !s.Committable() {
			continue
		}
		rows = append(rows, []string{s.Name, s.Assignee, StatusTodo, "", date.CellValue(s.DueDate)})
	}
	return rows
}

// SubTaskRow renders a manually entered sub-task as one appendable sheet row.
func SubTaskRow(name, assignee string, due *date.Date) []string {
	return []string{name, assignee, StatusTodo, "", date.CellValue(due)}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
