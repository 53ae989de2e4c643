package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callboard/internal/task"
)

// fakeClient returns canned responses and records the requests it saw.
type fakeClient struct {
	status   int
	body     string
	err      error
	requests []*http.Request
	sent     []generateRequest
}

func (f *fakeClient) Do(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		var sent generateRequest
		data, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(data, &sent)
		f.sent = append(f.sent, sent)
	}
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(f.body)),
	}, nil
}

// envelope wraps text the way the generation API does.
func envelope(text string) string {
	data, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(data)
}

func newTestAssistant(t *testing.T, client HTTPClient) *Assistant {
	t.Helper()
	t.Setenv(APIKeyEnv, "test-key")
	a, err := New(client, "", nil)
	require.NoError(t, err)
	return a
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")
	_, err := New(&fakeClient{}, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), APIKeyEnv)
}

func TestExtractTask(t *testing.T) {
	client := &fakeClient{body: envelope(`{
		"name": "Order gel filters",
		"assignee": "Rin",
		"dueDate": "2026-09-10",
		"priority": "High",
		"notes": "Lee 106 and 201"
	}`)}
	a := newTestAssistant(t, client)

	draft, err := a.ExtractTask(context.Background(), "Rin needs to order gel filters by Sep 10, urgent")
	require.NoError(t, err)

	assert.Equal(t, "Order gel filters", draft.Name)
	assert.Equal(t, "Rin", draft.Assignee)
	assert.Equal(t, task.PriorityHigh, draft.Priority)
	require.NotNil(t, draft.DueDate)
	assert.Equal(t, "2026-09-10", draft.DueDate.String())
	assert.Equal(t, "Lee 106 and 201", draft.Notes)

	// The request must declare structured JSON output with a schema.
	require.Len(t, client.sent, 1)
	sent := client.sent[0]
	assert.Equal(t, "application/json", sent.GenerationConfig.ResponseMIMEType)
	require.NotNil(t, sent.GenerationConfig.ResponseSchema)
	assert.Equal(t, TypeObject, sent.GenerationConfig.ResponseSchema.Type)

	require.Len(t, client.requests, 1)
	assert.Equal(t, "test-key", client.requests[0].Header.Get("x-goog-api-key"))
}

func TestExtractTaskFencedJSON(t *testing.T) {
	client := &fakeClient{body: envelope("```json\n{\"name\": \"Hem curtains\", \"assignee\": \"\", \"dueDate\": \"\", \"priority\": \"Low\", \"notes\": \"\"}\n```")}
	a := newTestAssistant(t, client)

	draft, err := a.ExtractTask(context.Background(), "hem the curtains sometime")
	require.NoError(t, err)
	assert.Equal(t, "Hem curtains", draft.Name)
	assert.Nil(t, draft.DueDate)
}

func TestExtractTaskLenientDates(t *testing.T) {
	// A bad date must not sink the whole draft.
	client := &fakeClient{body: envelope(`{"name": "Strike set", "assignee": "Ken", "dueDate": "after closing", "priority": "Mid", "notes": ""}`)}
	a := newTestAssistant(t, client)

	draft, err := a.ExtractTask(context.Background(), "Ken strikes the set after closing")
	require.NoError(t, err)
	assert.Equal(t, "Strike set", draft.Name)
	assert.Nil(t, draft.DueDate)
}

func TestExtractTaskFailures(t *testing.T) {
	tests := []struct {
		name      string
		client    *fakeClient
		wantParse bool
	}{
		{"service error", &fakeClient{status: http.StatusInternalServerError, body: "boom"}, false},
		{"not json", &fakeClient{body: envelope("sure, here's a task you could add")}, true},
		{"missing name", &fakeClient{body: envelope(`{"name": "", "assignee": "Aya", "dueDate": "", "priority": "Mid", "notes": ""}`)}, true},
		{"priority outside enum", &fakeClient{body: envelope(`{"name": "x", "assignee": "", "dueDate": "", "priority": "Critical", "notes": ""}`)}, true},
		{"empty envelope", &fakeClient{body: `{"candidates": []}`}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAssistant(t, tt.client)
			_, err := a.ExtractTask(context.Background(), "do a thing")
			require.Error(t, err)
			assert.Equal(t, tt.wantParse, IsParseFailure(err))
		})
	}
}

func TestSuggestSubTasks(t *testing.T) {
	client := &fakeClient{body: envelope(`[
		{"name": "Measure the stage", "assignee": "Ken", "dueDate": "2026-09-03"},
		{"name": "", "assignee": "", "dueDate": ""},
		{"name": "Cut lumber", "assignee": "", "dueDate": ""}
	]`)}
	a := newTestAssistant(t, client)

	suggestions, err := a.SuggestSubTasks(context.Background(), "build the stage platform")
	require.NoError(t, err)
	require.Len(t, suggestions, 2, "nameless entries must be dropped")

	assert.Equal(t, "Measure the stage", suggestions[0].Name)
	assert.Equal(t, "Cut lumber", suggestions[1].Name)

	// IDs are distinct within the batch; they drive selection-set membership.
	assert.NotEqual(t, suggestions[0].ID, suggestions[1].ID)

	require.Len(t, client.sent, 1)
	schema := client.sent[0].GenerationConfig.ResponseSchema
	require.NotNil(t, schema)
	assert.Equal(t, TypeArray, schema.Type)
}

func TestSuggestSubTasksAllEmpty(t *testing.T) {
	client := &fakeClient{body: envelope(`[{"name": ""}, {"name": "  "}]`)}
	a := newTestAssistant(t, client)

	_, err := a.SuggestSubTasks(context.Background(), "warm up the cast")
	require.Error(t, err)
	assert.True(t, IsParseFailure(err))
}

func TestSuggestSubTasksEmptyGoal(t *testing.T) {
	a := newTestAssistant(t, &fakeClient{})
	_, err := a.SuggestSubTasks(context.Background(), "   ")
	require.Error(t, err)
	assert.Empty(t, a.httpClient.(*fakeClient).requests, "no request should leave the process")
}
