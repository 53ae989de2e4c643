package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"callboard/internal/assist"
	"callboard/internal/clierr"
	"callboard/internal/sheets"
)

type fakeRangeReader struct {
	rows map[string][][]string
	errs map[string]error
}

func (f *fakeRangeReader) ReadRange(_ context.Context, tab, _ string) ([][]string, error) {
	if err := f.errs[tab]; err != nil {
		return nil, err
	}
	return f.rows[tab], nil
}

func TestCollectSubsReportsEveryTask(t *testing.T) {
	reader := &fakeRangeReader{
		rows: map[string][][]string{
			"Load-In": {{"Rig truss", "Mara", "Todo", "", "2026-09-01"}},
		},
		errs: map[string]error{
			"Strike": &sheets.Error{Kind: sheets.KindTabNotFound, Tab: "Strike"},
		},
	}

	results, anyFailed := collectSubs(context.Background(), reader, []string{"Load-In", "Strike"})
	if !anyFailed {
		t.Fatal("expected the missing tab to mark the batch as failed")
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want one per task", len(results))
	}
	if !results[0].OK || len(results[0].Subs) != 1 || results[0].Subs[0].Name != "Rig truss" {
		t.Errorf("first result = %+v, want the Load-In sub-task", results[0])
	}
	if results[1].OK || results[1].Code != clierr.TabNotFound {
		t.Errorf("second result = %+v, want a %s failure", results[1], clierr.TabNotFound)
	}
	if !strings.Contains(results[1].Error, "Strike") {
		t.Errorf("failure message %q does not name the task", results[1].Error)
	}
}

func TestCollectSubsAllSucceed(t *testing.T) {
	reader := &fakeRangeReader{rows: map[string][][]string{"Load-In": nil}}

	results, anyFailed := collectSubs(context.Background(), reader, []string{" Load-In "})
	if anyFailed {
		t.Fatal("no read failed, batch must not report failure")
	}
	if len(results) != 1 || !results[0].OK || results[0].Task != "Load-In" {
		t.Fatalf("results = %+v, want one trimmed success", results)
	}
}

func TestCollectSubsClassifiesTransientErrors(t *testing.T) {
	reader := &fakeRangeReader{errs: map[string]error{"Load-In": errors.New("rpc deadline")}}

	results, anyFailed := collectSubs(context.Background(), reader, []string{"Load-In"})
	if !anyFailed {
		t.Fatal("expected the failed read to mark the batch as failed")
	}
	if results[0].Code != clierr.SheetError {
		t.Errorf("code = %q, want %q", results[0].Code, clierr.SheetError)
	}
}

func TestLoginRequiresOAuthClient(t *testing.T) {
	prev := flagDir
	flagDir = t.TempDir()
	defer func() { flagDir = prev }()

	err := runLogin(nil, nil)
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.AuthFailed {
		t.Fatalf("err = %v, want an %s error", err, clierr.AuthFailed)
	}
	if !strings.Contains(cliErr.Message, "oauth_client.json") {
		t.Errorf("message %q does not name the missing file", cliErr.Message)
	}
}

func TestBreakdownRequiresAPIKey(t *testing.T) {
	prev := flagDir
	flagDir = t.TempDir()
	defer func() { flagDir = prev }()
	t.Setenv(assist.APIKeyEnv, "")

	err := runBreakdown(nil, []string{"plan", "the", "strike"})
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.AssistantError {
		t.Fatalf("err = %v, want an %s error", err, clierr.AssistantError)
	}
}
