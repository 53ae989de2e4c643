// Package tui is the interactive dashboard: a hub listing the production's
// tasks and a per-task detail view backed by one spreadsheet tab each.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"callboard/internal/auth"
	"callboard/internal/config"
	"callboard/internal/roster"
	"callboard/internal/sheets"
	"callboard/internal/task"
)

const (
	keyEsc        = "esc"
	assistKeyHint = "GEMINI_API_KEY"

	assistErrMessage = "The assistant couldn't produce usable results. Try rephrasing."
)

// screen is the derived top-level view. Earlier values take precedence.
type screen int

const (
	screenInitializing screen = iota
	screenSignedOut
	screenNeedsSetup
	screenDetail
	screenList
)

type hubTab int

const (
	tabJobs hubTab = iota
	tabCalendar
)

// Hub is the root bubbletea model.
type Hub struct {
	cfg     *config.Config
	session *auth.Session
	assist  Assistant
	logger  *slog.Logger

	// connect builds the spreadsheet gateway once signed in and set up.
	// Replaced in tests.
	connect func(ctx context.Context) (Gateway, error)

	sessionState auth.State
	gateway      Gateway
	gatewayID    string // spreadsheet id the gateway was built for
	connecting   bool
	loggingIn    bool

	tasks     []task.Task
	tab       hubTab
	filterIdx int
	cursor    int
	detail    *detail

	setupInput  textinput.Model
	promptInput textinput.Model
	promptOpen  bool
	extracting  bool
	draft       *task.Draft

	spinner spinner.Model
	err     string
	width   int
	height  int
}

// New builds the hub over a config and session. assist may be nil when no
// API key is configured; AI entry points then show a hint instead.
func New(cfg *config.Config, session *auth.Session, assist Assistant, logger *slog.Logger) *Hub {
	setup := textinput.New()
	setup.Placeholder = "Spreadsheet ID"
	setup.CharLimit = 100
	setup.Width = 50

	prompt := textinput.New()
	prompt.Placeholder = "Describe the task in plain words"
	prompt.CharLimit = 300
	prompt.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = dimStyle

	h := &Hub{
		cfg:          cfg,
		session:      session,
		assist:       assist,
		logger:       logger,
		sessionState: auth.StateInitializing,
		tasks:        task.SampleTasks(),
		setupInput:   setup,
		promptInput:  prompt,
		spinner:      sp,
	}
	h.connect = func(ctx context.Context) (Gateway, error) {
		ts, err := session.TokenSource(ctx)
		if err != nil {
			return nil, err
		}
		return sheets.New(ctx, ts, cfg.SpreadsheetID, logger)
	}
	return h
}

// SetConnector overrides gateway construction. Used by tests.
func (h *Hub) SetConnector(connect func(ctx context.Context) (Gateway, error)) {
	h.connect = connect
}

// Screen derives the visible view. The order is fixed: an unresolved
// session beats everything, sign-out beats setup, setup beats the task
// views, and an open detail beats the list.
func (h *Hub) Screen() screen {
	switch {
	case h.sessionState == auth.StateInitializing:
		return screenInitializing
	case h.sessionState == auth.StateSignedOut:
		return screenSignedOut
	case !h.cfg.HasSpreadsheet():
		return screenNeedsSetup
	case h.detail != nil:
		return screenDetail
	default:
		return screenList
	}
}

func (h *Hub) assigneeFilter() string {
	options := h.filterOptions()
	return options[h.filterIdx%len(options)]
}

func (h *Hub) filterOptions() []string {
	return append([]string{task.AssigneeAll}, task.Assignees...)
}

// visibleTasks is the filtered, due-date-sorted list the hub renders.
func (h *Hub) visibleTasks() []task.Task {
	return roster.SortByDue(roster.Filter(h.tasks, h.assigneeFilter()))
}

func (h *Hub) Init() tea.Cmd {
	return tea.Batch(h.spinner.Tick, h.initSessionCmd())
}

func (h *Hub) initSessionCmd() tea.Cmd {
	return func() tea.Msg {
		state := h.session.Initialize()
		return sessionMsg{signedIn: state == auth.StateSignedIn}
	}
}

func (h *Hub) loginCmd() tea.Cmd {
	return func() tea.Msg {
		return loginMsg{err: h.session.Login(context.Background(), nil)}
	}
}

func (h *Hub) connectCmd() tea.Cmd {
	h.connecting = true
	id := h.cfg.SpreadsheetID
	return func() tea.Msg {
		gw, err := h.connect(context.Background())
		return gatewayMsg{gw: gw, spreadsheetID: id, err: err}
	}
}

func extractCmd(assist Assistant, text string) tea.Cmd {
	return func() tea.Msg {
		draft, err := assist.ExtractTask(context.Background(), text)
		return draftMsg{draft: draft, err: err}
	}
}

func (h *Hub) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width = msg.Width
		h.height = msg.Height
		return h, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return h, cmd

	case SessionReloadMsg:
		// The config dir changed under us: re-read the stored spreadsheet
		// id and token so an external `callboard login` or `setup` takes
		// effect without restarting.
		if fresh, err := config.Load(h.cfg.Dir()); err == nil {
			h.cfg.SpreadsheetID = fresh.SpreadsheetID
		}
		h.sessionState = h.session.Initialize()
		if h.sessionState != auth.StateSignedIn || !h.cfg.HasSpreadsheet() {
			return h, nil
		}
		if h.gateway != nil && h.gatewayID == h.cfg.SpreadsheetID {
			return h, nil
		}
		// The stored id changed or we never connected. A gateway bound to
		// the old spreadsheet must not serve another read or write, and an
		// open detail view shows rows from the wrong sheet.
		h.gateway = nil
		h.detail = nil
		return h, h.connectCmd()

	case sessionMsg:
		if msg.signedIn {
			h.sessionState = auth.StateSignedIn
			if h.cfg.HasSpreadsheet() && h.gateway == nil {
				return h, h.connectCmd()
			}
		} else {
			h.sessionState = auth.StateSignedOut
		}
		return h, nil

	case loginMsg:
		h.loggingIn = false
		if msg.err == nil {
			h.err = ""
			h.sessionState = auth.StateSignedIn
			if h.cfg.HasSpreadsheet() && h.gateway == nil {
				return h, h.connectCmd()
			}
			return h, nil
		}
		if auth.IsCancelled(msg.err) {
			// Dismissed consent is not an error worth showing.
			h.err = ""
			return h, nil
		}
		h.err = authErrMessage(msg.err)
		return h, nil

	case gatewayMsg:
		if msg.spreadsheetID != h.cfg.SpreadsheetID {
			return h, nil // superseded by a newer spreadsheet choice
		}
		h.connecting = false
		if msg.err != nil {
			h.err = "Couldn't connect to the spreadsheet. Check the spreadsheet id and your access."
			return h, nil
		}
		h.gateway = msg.gw
		h.gatewayID = msg.spreadsheetID
		return h, nil

	case draftMsg:
		h.extracting = false
		if msg.err != nil {
			h.err = assistErrMessage
			return h, nil
		}
		draft := msg.draft
		h.draft = &draft
		return h, nil

	case tea.KeyMsg:
		return h.handleKey(msg)
	}

	if h.detail != nil {
		if cmd, handled := h.applyDetailMsg(msg); handled {
			return h, cmd
		}
	} else if _, stale := msg.(subsLoadedMsg); stale {
		return h, nil
	} else if _, stale := msg.(suggestionsMsg); stale {
		return h, nil
	}
	return h, nil
}

func (h *Hub) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return h, tea.Quit
	}

	switch h.Screen() {
	case screenInitializing:
		return h, nil
	case screenSignedOut:
		return h.handleSignedOutKey(msg)
	case screenNeedsSetup:
		return h.handleSetupKey(msg)
	case screenDetail:
		return h.handleDetailKey(msg)
	default:
		return h.handleListKey(msg)
	}
}

func (h *Hub) handleSignedOutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return h, tea.Quit
	case "enter", "l":
		if h.loggingIn {
			return h, nil
		}
		h.err = ""
		h.loggingIn = true
		return h, h.loginCmd()
	}
	return h, nil
}

func (h *Hub) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !h.setupInput.Focused() {
		h.setupInput.Focus()
	}
	switch msg.String() {
	case "ctrl+q":
		return h, tea.Quit
	case "enter":
		id := strings.TrimSpace(h.setupInput.Value())
		if id == "" {
			return h, nil
		}
		h.cfg.SpreadsheetID = id
		if err := h.cfg.Save(); err != nil {
			h.err = "Couldn't save the configuration: " + err.Error()
			return h, nil
		}
		h.err = ""
		h.setupInput.Reset()
		h.setupInput.Blur()
		h.gateway = nil
		return h, h.connectCmd()
	}
	var cmd tea.Cmd
	h.setupInput, cmd = h.setupInput.Update(msg)
	return h, cmd
}

func (h *Hub) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if h.promptOpen {
		return h.handlePromptKey(msg)
	}
	if h.draft != nil {
		return h.handleDraftKey(msg)
	}

	visible := h.visibleTasks()

	switch msg.String() {
	case "q":
		return h, tea.Quit
	case "j", "down":
		if h.cursor < len(visible)-1 {
			h.cursor++
		}
	case "k", "up":
		if h.cursor > 0 {
			h.cursor--
		}
	case "tab":
		if h.tab == tabJobs {
			h.tab = tabCalendar
		} else {
			h.tab = tabJobs
		}
	case "1":
		h.tab = tabJobs
	case "2":
		h.tab = tabCalendar
	case "f":
		h.filterIdx = (h.filterIdx + 1) % len(h.filterOptions())
		h.cursor = 0
	case "enter":
		if h.tab != tabJobs || len(visible) == 0 {
			return h, nil
		}
		if h.gateway == nil {
			h.err = "Still connecting to the spreadsheet."
			return h, nil
		}
		h.err = ""
		t := visible[h.cursor]
		h.detail = newDetail(t)
		return h, fetchSubsCmd(h.gateway, t.Name)
	case "n":
		if h.assist == nil {
			h.err = "Assistant unavailable: set " + assistKeyHint + " and restart."
			return h, nil
		}
		h.err = ""
		h.promptOpen = true
		h.promptInput.Focus()
		return h, textinput.Blink
	case "s":
		h.switchToSetup()
	}
	return h, nil
}

// switchToSetup forgets the stored spreadsheet and falls back to the setup
// screen, closing any open detail view.
func (h *Hub) switchToSetup() {
	h.detail = nil
	h.cfg.SpreadsheetID = ""
	if err := h.cfg.Save(); err != nil {
		h.err = "Couldn't save the configuration: " + err.Error()
		return
	}
	h.gateway = nil
	h.err = ""
}

func (h *Hub) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		h.promptOpen = false
		h.promptInput.Blur()
		return h, nil
	case "enter":
		text := strings.TrimSpace(h.promptInput.Value())
		if text == "" {
			return h, nil
		}
		h.promptOpen = false
		h.promptInput.Blur()
		h.extracting = true
		h.err = ""
		return h, extractCmd(h.assist, text)
	}
	var cmd tea.Cmd
	h.promptInput, cmd = h.promptInput.Update(msg)
	return h, cmd
}

func (h *Hub) handleDraftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		h.tasks = append(h.tasks, h.draft.Task())
		h.draft = nil
		h.promptInput.Reset()
	case keyEsc, "n":
		h.draft = nil
	}
	return h, nil
}

// authErrMessage renders a sign-in failure with its remediation steps.
func authErrMessage(err error) string {
	var authErr *auth.Error
	if !errors.As(err, &authErr) {
		return "Sign-in failed: " + err.Error()
	}
	lines := []string{"Sign-in failed: " + authErr.Message}
	for i, step := range authErr.Remediation() {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, step))
	}
	return strings.Join(lines, "\n")
}

// --- view ---

func (h *Hub) View() string {
	switch h.Screen() {
	case screenInitializing:
		return "\n " + h.spinner.View() + " Checking your session…\n"
	case screenSignedOut:
		return h.viewSignedOut()
	case screenNeedsSetup:
		return h.viewSetup()
	case screenDetail:
		return h.viewDetail()
	default:
		return h.viewList()
	}
}

func (h *Hub) viewSignedOut() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("callboard") + "\n\n")
	if h.loggingIn {
		b.WriteString(h.spinner.View() + " Waiting for the browser consent page…\n")
	} else {
		b.WriteString("Sign in with Google to open the board.\n\n")
		b.WriteString(statusBarStyle.Render("enter sign in · q quit") + "\n")
	}
	if h.err != "" {
		b.WriteString("\n" + errorStyle.Render(h.err) + "\n")
	}
	return b.String()
}

func (h *Hub) viewSetup() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("callboard") + "\n\n")
	b.WriteString("Which spreadsheet backs this production?\n\n")
	b.WriteString(h.setupInput.View() + "\n\n")
	b.WriteString(statusBarStyle.Render("enter save · ctrl+q quit") + "\n")
	if h.err != "" {
		b.WriteString("\n" + errorStyle.Render(h.err) + "\n")
	}
	return b.String()
}

func (h *Hub) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("callboard"))
	b.WriteString("  " + h.renderTabs() + "\n")
	b.WriteString(dimStyle.Render("assignee: "+h.assigneeFilter()) + "\n\n")

	visible := h.visibleTasks()
	if h.cursor >= len(visible) {
		h.cursor = max(0, len(visible)-1)
	}

	switch {
	case h.tab == tabCalendar:
		b.WriteString(h.renderCalendar(visible))
	case len(visible) == 0:
		b.WriteString(dimStyle.Render("No tasks for this assignee.") + "\n")
	default:
		for i, t := range visible {
			b.WriteString(h.renderTaskRow(i, t) + "\n")
		}
	}

	switch {
	case h.promptOpen:
		b.WriteString("\n" + dialogStyle.Render("New task from a description:\n\n"+h.promptInput.View()) + "\n")
	case h.extracting:
		b.WriteString("\n" + h.spinner.View() + " Drafting the task…\n")
	case h.draft != nil:
		b.WriteString("\n" + h.renderDraft())
	}

	if h.err != "" {
		b.WriteString("\n" + errorStyle.Render(h.err) + "\n")
	}

	b.WriteString("\n" + statusBarStyle.Render("enter open · f filter · tab view · n new (AI) · s spreadsheet · q quit"))
	return b.String()
}

func (h *Hub) renderTabs() string {
	jobs, calendar := tabStyle, tabStyle
	if h.tab == tabJobs {
		jobs = activeTabStyle
	} else {
		calendar = activeTabStyle
	}
	return jobs.Render("jobs") + " " + calendar.Render("calendar")
}

func (h *Hub) renderTaskRow(i int, t task.Task) string {
	due := "no due date"
	if t.DueDate != nil {
		due = t.DueDate.String()
	}
	name := t.Name
	if t.Status == task.StatusDone {
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s  %s  %s  %s  %s",
		name,
		dimStyle.Render("@"+t.Assignee),
		styled(t.Priority, priorityStyles),
		styled(t.Status, statusStyles),
		dimStyle.Render(due),
	)
	if i == h.cursor && h.tab == tabJobs {
		return activeRowStyle.Render(line)
	}
	return rowStyle.Render(line)
}

func (h *Hub) renderCalendar(tasks []task.Task) string {
	groups := roster.Calendar(tasks)
	if len(groups) == 0 {
		return dimStyle.Render("Nothing scheduled.") + "\n"
	}
	var b strings.Builder
	for _, g := range groups {
		day := g.Date
		if day == "" {
			day = "unscheduled"
		}
		b.WriteString(headingStyle.Render(day) + "\n")
		for _, t := range g.Tasks {
			b.WriteString(rowStyle.Render(fmt.Sprintf("%s %s %s",
				t.Name, dimStyle.Render("@"+t.Assignee), styled(t.Status, statusStyles))) + "\n")
		}
	}
	return b.String()
}

func (h *Hub) renderDraft() string {
	d := h.draft
	due := "none"
	if d.DueDate != nil {
		due = d.DueDate.String()
	}
	notes := d.Notes
	if notes == "" {
		notes = "(none)"
	}
	body := fmt.Sprintf("Add this task?\n\n  %s\n  assignee  %s\n  priority  %s\n  due       %s\n  notes     %s\n\nenter add · esc discard",
		headingStyle.Render(d.Name), d.Assignee, styled(d.Priority, priorityStyles), due, notes)
	return dialogStyle.Render(body) + "\n"
}
