package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	d, err := Parse("2026-09-01")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.September || d.Day() != 1 {
		t.Errorf("parsed %v", d)
	}

	for _, bad := range []string{"", "09/01/2026", "2026-9-1", "next tuesday"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) accepted", bad)
		}
	}
}

func TestFromCell(t *testing.T) {
	tests := []struct {
		cell string
		want string // "" means nil
	}{
		{"2026-09-01", "2026-09-01"},
		{"  2026-09-01  ", "2026-09-01"},
		{"", ""},
		{"   ", ""},
		{"soon", ""},
	}
	for _, tt := range tests {
		got := FromCell(tt.cell)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("FromCell(%q) = %v, want nil", tt.cell, got)
		case tt.want != "" && (got == nil || got.String() != tt.want):
			t.Errorf("FromCell(%q) = %v, want %s", tt.cell, got, tt.want)
		}
	}
}

func TestCellValue(t *testing.T) {
	if got := CellValue(nil); got != "" {
		t.Errorf("CellValue(nil) = %q", got)
	}
	d := New(2026, time.October, 31)
	if got := CellValue(&d); got != "2026-10-31" {
		t.Errorf("CellValue = %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2026, time.September, 5)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"2026-09-05"` {
		t.Errorf("marshalled as %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != d.String() {
		t.Errorf("round trip changed %s to %s", d, back)
	}
}
