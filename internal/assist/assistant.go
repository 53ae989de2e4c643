// Package assist turns free-text goals into structured tasks and sub-tasks
// via the Google generative-language API.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	"callboard/internal/date"
	"callboard/internal/task"
)

const (
	endpointFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

	// DefaultModel is used unless the config overrides it.
	DefaultModel = "gemini-2.0-flash"

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv = "GEMINI_API_KEY"
)

const extractPrompt = `Extract exactly one task from the request below.
Use the requester's wording for the name, keep it short. Pick the assignee
named in the request; leave notes empty unless the request carries extra
context that does not fit the other fields.

Request:
`

const breakdownPrompt = `Break the goal below into concrete sub-tasks a small
production team can check off one by one. Prefer 3 to 8 sub-tasks. Only fill
assignee or dueDate when the goal states them.

Goal:
`

// HTTPClient abstracts HTTP requests for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Error is a classified assistant failure. Phase is "request" for
// network/service failures and "parse" when the response text does not
// conform to the declared schema. Callers collapse both into one generic
// retry message; the distinction exists for logs.
type Error struct {
	Phase   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Assistant sends prompts with a declared output schema and parses the
// structured result.
type Assistant struct {
	httpClient HTTPClient
	logger     *slog.Logger
	apiKey     string
	model      string
}

// New creates an Assistant. The API key comes from the environment.
func New(httpClient HTTPClient, model string, logger *slog.Logger) (*Assistant, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable not set", APIKeyEnv)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{httpClient: httpClient, logger: logger, apiKey: apiKey, model: model}, nil
}

// ExtractTask turns a free-text request into a single task draft.
func (a *Assistant) ExtractTask(ctx context.Context, text string) (task.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return task.Draft{}, &Error{Phase: "parse", Message: "empty request"}
	}

	raw, err := a.generate(ctx, extractPrompt+text, taskSchema(task.Priorities))
	if err != nil {
		return task.Draft{}, err
	}

	var parsed struct {
		Name     string `json:"name"`
		Assignee string `json:"assignee"`
		DueDate  string `json:"dueDate"`
		Priority string `json:"priority"`
		Notes    string `json:"notes"`
	}
	if err := parseStructured(raw, &parsed); err != nil {
		return task.Draft{}, err
	}
	if strings.TrimSpace(parsed.Name) == "" {
		return task.Draft{}, &Error{Phase: "parse", Message: "response missing required field name"}
	}
	if task.ValidatePriority(parsed.Priority) != nil {
		return task.Draft{}, &Error{Phase: "parse",
			Message: fmt.Sprintf("response priority %q outside declared enum", parsed.Priority)}
	}

	a.logger.Debug("extracted task", "name", parsed.Name)
	return task.Draft{
		Name:     strings.TrimSpace(parsed.Name),
		Assignee: strings.TrimSpace(parsed.Assignee),
		Priority: parsed.Priority,
		DueDate:  date.FromCell(parsed.DueDate),
		Notes:    strings.TrimSpace(parsed.Notes),
	}, nil
}

// SuggestSubTasks decomposes a goal into sub-task suggestions. IDs are
// synthetic, assigned per call, and only used for selection-set membership.
func (a *Assistant) SuggestSubTasks(ctx context.Context, goal string) ([]task.Suggestion, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, &Error{Phase: "parse", Message: "empty goal"}
	}

	raw, err := a.generate(ctx, breakdownPrompt+goal, subTaskListSchema())
	if err != nil {
		return nil, err
	}

	var parsed []struct {
		Name     string `json:"name"`
		Assignee string `json:"assignee"`
		DueDate  string `json:"dueDate"`
	}
	if err := parseStructured(raw, &parsed); err != nil {
		return nil, err
	}

	suggestions := make([]task.Suggestion, 0, len(parsed))
	for i, p := range parsed {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		suggestions = append(suggestions, task.Suggestion{
			ID:       i + 1,
			Name:     name,
			Assignee: strings.TrimSpace(p.Assignee),
			DueDate:  date.FromCell(p.DueDate),
		})
	}
	if len(suggestions) == 0 {
		return nil, &Error{Phase: "parse", Message: "response contained no usable sub-tasks"}
	}

	a.logger.Debug("suggested sub-tasks", "count", len(suggestions))
	return suggestions, nil
}

// --- wire types ---

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt with its declared schema and returns the
// response text blob.
func (a *Assistant) generate(ctx context.Context, prompt string, schema *Schema) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Phase: "request", Message: "encoding request failed", Err: err}
	}

	url := fmt.Sprintf(endpointFormat, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Phase: "request", Message: "building request failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &Error{Phase: "request", Message: "generation request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		a.logger.Debug("generation rejected", "status", resp.StatusCode, "body", string(bodyBytes))
		return "", &Error{Phase: "request",
			Message: fmt.Sprintf("generation request failed with status %d", resp.StatusCode)}
	}

	var apiResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", &Error{Phase: "parse", Message: "decoding response envelope failed", Err: err}
	}
	if len(apiResp.Candidates) == 0 {
		return "", &Error{Phase: "parse", Message: "empty response"}
	}

	var text strings.Builder
	for _, p := range apiResp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return "", &Error{Phase: "parse", Message: "no text content in response"}
	}
	return text.String(), nil
}

var fenceRegex = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// parseStructured parses the response text blob as JSON into target. Models
// occasionally wrap JSON in markdown fences despite the declared MIME type,
// so fences are stripped first.
func parseStructured(text string, target interface{}) error {
	jsonStr := strings.TrimSpace(text)
	if matches := fenceRegex.FindStringSubmatch(jsonStr); len(matches) > 1 {
		jsonStr = strings.TrimSpace(matches[1])
	}
	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return &Error{Phase: "parse", Message: "response did not match the declared shape", Err: err}
	}
	return nil
}

// IsParseFailure reports whether err is a schema-parse failure rather than a
// service failure.
func IsParseFailure(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Phase == "parse"
}
