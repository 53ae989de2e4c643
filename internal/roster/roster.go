// Package roster provides list-level operations on task collections:
// filtering by assignee, due-date ordering, and calendar grouping.
package roster

import (
	"sort"

	"callboard/internal/task"
)

// Filter returns tasks matching the assignee exactly. The sentinel
// task.AssigneeAll matches every task.
func Filter(tasks []task.Task, assignee string) []task.Task {
	if assignee == task.AssigneeAll {
		return tasks
	}
	var result []task.Task
	for _, t := range tasks {
		if t.Assignee == assignee {
			result = append(result, t)
		}
	}
	return result
}

// SortByDue returns a copy of tasks ordered ascending by due date. Tasks
// without a due date sort after all dated tasks; ties keep insertion order.
func SortByDue(tasks []task.Task) []task.Task {
	sorted := make([]task.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return dueBefore(sorted[i], sorted[j])
	})
	return sorted
}

func dueBefore(a, b task.Task) bool {
	if a.DueDate == nil {
		return false // nil sorts last
	}
	if b.DueDate == nil {
		return true
	}
	return a.DueDate.Before(b.DueDate.Time)
}

// DayGroup is one calendar bucket: all tasks due on the same date. Undated
// tasks collect in a single trailing group with a nil Date.
type DayGroup struct {
	Date  string // YYYY-MM-DD, or "" for undated
	Tasks []task.Task
}

// Calendar buckets tasks by due date in ascending order. Input order is
// preserved within each bucket.
func Calendar(tasks []task.Task) []DayGroup {
	sorted := SortByDue(tasks)

	var groups []DayGroup
	for _, t := range sorted {
		key := ""
		if t.DueDate != nil {
			key = t.DueDate.String()
		}
		if len(groups) == 0 || groups[len(groups)-1].Date != key {
			groups = append(groups, DayGroup{Date: key})
		}
		groups[len(groups)-1].Tasks = append(groups[len(groups)-1].Tasks, t)
	}
	return groups
}
