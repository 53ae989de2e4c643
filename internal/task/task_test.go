package task

import (
	"reflect"
	"testing"

	"callboard/internal/date"
)

func TestToggledStatus(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{"done flips back to todo", StatusDone, StatusTodo},
		{"todo flips to done", StatusTodo, StatusDone},
		{"in progress flips to done", StatusInProgress, StatusDone},
		{"unknown flips to done", "Blocked", StatusDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToggledStatus(tt.status); got != tt.want {
				t.Errorf("ToggledStatus(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestSubTasksFromRows(t *testing.T) {
	rows := [][]string{
		{"Paint flats", "Aya", "Done", "", "2026-09-01"},
		{"", "Ken", "Todo"},
		{"  ", "", ""},
		{"Hang backdrop"},
		{"Rig truss", "Rin", "", "ignored notes", "not-a-date"},
	}

	subs := SubTasksFromRows(rows)
	if len(subs) != 3 {
		t.Fatalf("got %d sub-tasks, want 3: %+v", len(subs), subs)
	}

	first := subs[0]
	if first.Row != 2 || first.Name != "Paint flats" || first.Status != StatusDone {
		t.Errorf("first row parsed as %+v", first)
	}
	if first.DueDate == nil || first.DueDate.String() != "2026-09-01" {
		t.Errorf("first row due date = %v, want 2026-09-01", first.DueDate)
	}

	// Row numbers track sheet positions, not slice positions.
	if subs[1].Row != 5 {
		t.Errorf("second kept row number = %d, want 5", subs[1].Row)
	}
	if subs[1].Status != StatusTodo {
		t.Errorf("short row status = %q, want default %q", subs[1].Status, StatusTodo)
	}

	last := subs[2]
	if last.Row != 6 || last.Status != StatusTodo || last.DueDate != nil {
		t.Errorf("last row parsed as %+v", last)
	}
}

func TestSubTasksFromRowsEmpty(t *testing.T) {
	if subs := SubTasksFromRows(nil); len(subs) != 0 {
		t.Errorf("nil rows produced %+v", subs)
	}
	if subs := SubTasksFromRows([][]string{{""}, {}}); len(subs) != 0 {
		t.Errorf("blank rows produced %+v", subs)
	}
}

func TestSuggestionRows(t *testing.T) {
	due := date.New(2026, 9, 15)
	suggestions := []Suggestion{
		{ID: 1, Name: "Build platform", Assignee: "Ken", DueDate: &due},
		{ID: 2, Name: ""},
		{ID: 3, Name: "Paint platform"},
	}

	rows := SuggestionRows(suggestions)
	want := [][]string{
		{"Build platform", "Ken", StatusTodo, "", "2026-09-15"},
		{"Paint platform", "", StatusTodo, "", ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("SuggestionRows() = %v, want %v", rows, want)
	}
}

func TestSubTaskRow(t *testing.T) {
	row := SubTaskRow("Focus lights", "", nil)
	want := []string{"Focus lights", "", StatusTodo, "", ""}
	if !reflect.DeepEqual(row, want) {
		t.Errorf("SubTaskRow() = %v, want %v", row, want)
	}
}

func TestDraftTask(t *testing.T) {
	due := date.New(2026, 10, 1)
	d := Draft{Name: "Print programs", Assignee: "Mio", Priority: PriorityMid, DueDate: &due, Notes: "200 copies"}

	got := d.Task()
	if got.Status != StatusTodo {
		t.Errorf("draft task status = %q, want %q", got.Status, StatusTodo)
	}
	if got.Name != d.Name || got.Assignee != d.Assignee || got.Priority != d.Priority || got.Notes != d.Notes {
		t.Errorf("draft fields lost in conversion: %+v", got)
	}
	if got.DueDate != d.DueDate {
		t.Errorf("draft due date lost in conversion")
	}
}

func TestValidate(t *testing.T) {
	if err := ValidateStatus(StatusInProgress); err != nil {
		t.Errorf("ValidateStatus(%q) = %v", StatusInProgress, err)
	}
	if err := ValidateStatus("Paused"); err == nil {
		t.Error("ValidateStatus accepted an unknown status")
	}
	if err := ValidatePriority(PriorityHigh); err != nil {
		t.Errorf("ValidatePriority(%q) = %v", PriorityHigh, err)
	}
	if err := ValidatePriority("Urgent"); err == nil {
		t.Error("ValidatePriority accepted an unknown priority")
	}
}
