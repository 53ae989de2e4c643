package tui

import (
	"context"

	"callboard/internal/task"
)

// Gateway is the spreadsheet surface the dashboard needs. Satisfied by
// *sheets.Gateway; faked in tests.
type Gateway interface {
	ReadRange(ctx context.Context, tab, rng string) ([][]string, error)
	WriteCell(ctx context.Context, tab string, row int, column, value string) error
	AppendRows(ctx context.Context, tab, rng string, rows [][]string) error
}

// Assistant is the text-to-structured-data surface. Satisfied by
// *assist.Assistant; faked in tests. Nil when no API key is configured.
type Assistant interface {
	ExtractTask(ctx context.Context, text string) (task.Draft, error)
	SuggestSubTasks(ctx context.Context, goal string) ([]task.Suggestion, error)
}

// SessionReloadMsg is sent by the config-dir watcher when the token or
// stored spreadsheet id changes outside this process.
type SessionReloadMsg struct{}

// --- internal messages ---

// sessionMsg reports the resolved sign-in state after (re)initializing.
type sessionMsg struct {
	signedIn bool
}

// loginMsg reports the outcome of the interactive consent flow.
type loginMsg struct {
	err error
}

// gatewayMsg delivers a connected spreadsheet gateway. The spreadsheet id
// identifies the connect attempt so a response built for a superseded id is
// dropped.
type gatewayMsg struct {
	gw            Gateway
	spreadsheetID string
	err           error
}

// subsLoadedMsg delivers fetched sub-task rows. Tab identifies the fetch so
// responses arriving after the user navigated away are dropped.
type subsLoadedMsg struct {
	tab  string
	subs []task.SubTask
	err  error
}

// cellWrittenMsg reports a best-effort single-cell write. Optimistic local
// state is never rolled back; failures only surface a message.
type cellWrittenMsg struct {
	tab string
	err error
}

// appendedMsg reports an append of one or more rows.
type appendedMsg struct {
	tab      string
	refetch  bool
	clearSug bool
	err      error
}

// suggestionsMsg delivers AI sub-task suggestions for a tab.
type suggestionsMsg struct {
	tab         string
	suggestions []task.Suggestion
	err         error
}

// draftMsg delivers an AI-extracted task draft for confirmation.
type draftMsg struct {
	draft task.Draft
	err   error
}
