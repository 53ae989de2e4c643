package sheets

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		tabNotFound bool
	}{
		{
			name:        "bad range 400 means missing tab",
			err:         &googleapi.Error{Code: 400, Message: "Unable to parse range: 'Stage Build'!A2:E"},
			tabNotFound: true,
		},
		{
			name:        "404 means missing tab",
			err:         &googleapi.Error{Code: 404, Message: "Requested entity was not found."},
			tabNotFound: true,
		},
		{
			name:        "other 400 is transient",
			err:         &googleapi.Error{Code: 400, Message: "Invalid value at 'data.values'"},
			tabNotFound: false,
		},
		{
			name:        "rate limit is transient",
			err:         &googleapi.Error{Code: 429, Message: "Quota exceeded"},
			tabNotFound: false,
		},
		{
			name:        "plain network error is transient",
			err:         errors.New("connection reset"),
			tabNotFound: false,
		},
		{
			name:        "wrapped api error still classifies",
			err:         fmt.Errorf("reading: %w", &googleapi.Error{Code: 400, Message: "Unable to parse range: Props!A2:E"}),
			tabNotFound: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("Stage Build", tt.err)
			if got == nil {
				t.Fatal("classify returned nil for a non-nil error")
			}
			if IsTabNotFound(got) != tt.tabNotFound {
				t.Errorf("IsTabNotFound = %v, want %v (err %v)", IsTabNotFound(got), tt.tabNotFound, got)
			}
			var se *Error
			if !errors.As(got, &se) || se.Err == nil {
				t.Error("classified error dropped its cause")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if err := classify("Props", nil); err != nil {
		t.Errorf("classify(nil) = %v", err)
	}
}

func TestQuoteTab(t *testing.T) {
	tests := []struct {
		tab  string
		want string
	}{
		{"Props", "'Props'"},
		{"Stage Build", "'Stage Build'"},
		{"Act 1 'Opening'", "'Act 1 ''Opening'''"},
	}
	for _, tt := range tests {
		if got := quoteTab(tt.tab); got != tt.want {
			t.Errorf("quoteTab(%q) = %q, want %q", tt.tab, got, tt.want)
		}
	}
}

func TestRangeAddr(t *testing.T) {
	if got := rangeAddr("Stage Build", "A2:E"); got != "'Stage Build'!A2:E" {
		t.Errorf("rangeAddr = %q", got)
	}
}
