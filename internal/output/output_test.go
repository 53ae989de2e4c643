package output

import (
	"bytes"
	"strings"
	"testing"

	"callboard/internal/task"
)

func TestDetect(t *testing.T) {
	t.Setenv("CALLBOARD_OUTPUT", "")

	if got := Detect(false, false, false); got != FormatTable {
		t.Errorf("default format = %v, want table", got)
	}
	if got := Detect(true, true, true); got != FormatJSON {
		t.Error("json flag must win over the others")
	}
	if got := Detect(false, false, true); got != FormatCompact {
		t.Error("compact flag ignored")
	}

	t.Setenv("CALLBOARD_OUTPUT", "json")
	if got := Detect(false, false, false); got != FormatJSON {
		t.Error("env json ignored")
	}
	if got := Detect(false, true, false); got != FormatTable {
		t.Error("explicit flag must beat the env")
	}
}

func TestTaskCompact(t *testing.T) {
	var buf bytes.Buffer
	TaskCompact(&buf, []task.Task{
		{Name: "Stage Build", Assignee: "Ken", Priority: task.PriorityHigh, Status: task.StatusTodo},
	})

	line := strings.TrimRight(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		t.Fatalf("got %d fields: %q", len(fields), line)
	}
	if fields[0] != "Stage Build" || fields[4] != "-" {
		t.Errorf("compact line = %q", line)
	}
}

func TestSubTaskCompactEmptyAssignee(t *testing.T) {
	var buf bytes.Buffer
	SubTaskCompact(&buf, []task.SubTask{{Row: 2, Name: "Cut lumber", Status: task.StatusTodo}})

	if !strings.Contains(buf.String(), "2\tCut lumber\t-\t") {
		t.Errorf("compact sub-task line = %q", buf.String())
	}
}
