package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"callboard/internal/date"
	"callboard/internal/sheets"
	"callboard/internal/task"
)

// detail is the per-task view over one spreadsheet tab. The tab name equals
// the task's display name, exactly.
type detail struct {
	task    task.Task
	subs    []task.SubTask
	loading bool
	cursor  int

	// inline name editing
	editing   bool
	editInput textinput.Model

	// inline due-date editing
	dueEditing bool
	dueInput   textinput.Model

	// add sub-task form
	adding   bool
	addInput textinput.Model

	// AI breakdown
	goalOpen    bool
	goalInput   textinput.Model
	generating  bool
	suggestions []task.Suggestion
	selected    map[int]bool
	sugCursor   int
}

func newDetail(t task.Task) *detail {
	edit := textinput.New()
	edit.CharLimit = 80
	edit.Width = 40

	due := textinput.New()
	due.Placeholder = "YYYY-MM-DD, empty clears"
	due.CharLimit = 10
	due.Width = 12

	add := textinput.New()
	add.Placeholder = "New sub-task name"
	add.CharLimit = 80
	add.Width = 40

	goal := textinput.New()
	goal.Placeholder = "Goal to break down"
	goal.CharLimit = 200
	goal.Width = 60
	goal.SetValue(t.Name)

	return &detail{
		task:      t,
		loading:   true,
		editInput: edit,
		dueInput:  due,
		addInput:  add,
		goalInput: goal,
		selected:  make(map[int]bool),
	}
}

// selectedSuggestions returns the committable members of the selection set
// in suggestion order.
func (d *detail) selectedSuggestions() []task.Suggestion {
	var picked []task.Suggestion
	for _, s := range d.suggestions {
		if d.selected[s.ID] && s.Committable() {
			picked = append(picked, s)
		}
	}
	return picked
}

func (d *detail) selectedSub() *task.SubTask {
	if len(d.subs) == 0 || d.cursor < 0 || d.cursor >= len(d.subs) {
		return nil
	}
	return &d.subs[d.cursor]
}

// --- commands ---

// Network calls carry no deadline and are never cancelled; a response that
// arrives after the user navigated away is dropped by its tab tag instead.
func fetchSubsCmd(gw Gateway, tab string) tea.Cmd {
	return func() tea.Msg {
		rows, err := gw.ReadRange(context.Background(), tab, task.SubTaskRange)
		if err != nil {
			return subsLoadedMsg{tab: tab, err: err}
		}
		return subsLoadedMsg{tab: tab, subs: task.SubTasksFromRows(rows)}
	}
}

func writeCellCmd(gw Gateway, tab string, row int, column, value string) tea.Cmd {
	return func() tea.Msg {
		err := gw.WriteCell(context.Background(), tab, row, column, value)
		return cellWrittenMsg{tab: tab, err: err}
	}
}

func appendCmd(gw Gateway, tab string, rows [][]string, clearSug bool) tea.Cmd {
	return func() tea.Msg {
		err := gw.AppendRows(context.Background(), tab, task.SubTaskRange, rows)
		return appendedMsg{tab: tab, refetch: true, clearSug: clearSug, err: err}
	}
}

func suggestCmd(assist Assistant, tab, goal string) tea.Cmd {
	return func() tea.Msg {
		suggestions, err := assist.SuggestSubTasks(context.Background(), goal)
		return suggestionsMsg{tab: tab, suggestions: suggestions, err: err}
	}
}

// --- update ---

func (h *Hub) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := h.detail

	switch {
	case d.editing:
		return h.handleDetailEditKey(msg)
	case d.dueEditing:
		return h.handleDetailDueKey(msg)
	case d.adding:
		return h.handleDetailAddKey(msg)
	case d.goalOpen:
		return h.handleDetailGoalKey(msg)
	case len(d.suggestions) > 0:
		return h.handleSuggestionKey(msg)
	}

	switch msg.String() {
	case keyEsc, "q":
		h.detail = nil
	case "j", "down":
		if d.cursor < len(d.subs)-1 {
			d.cursor++
		}
	case "k", "up":
		if d.cursor > 0 {
			d.cursor--
		}
	case " ", "x":
		return h.toggleSelectedSub()
	case "e":
		if sub := d.selectedSub(); sub != nil {
			d.editing = true
			d.editInput.SetValue(sub.Name)
			d.editInput.Focus()
			return h, textinput.Blink
		}
	case "d":
		if sub := d.selectedSub(); sub != nil {
			d.dueEditing = true
			d.dueInput.SetValue(date.CellValue(sub.DueDate))
			d.dueInput.Focus()
			return h, textinput.Blink
		}
	case "s":
		h.switchToSetup()
	case "a":
		d.adding = true
		d.addInput.Focus()
		return h, textinput.Blink
	case "g":
		if h.assist != nil {
			d.goalOpen = true
			d.goalInput.Focus()
			return h, textinput.Blink
		}
		h.err = "Assistant unavailable: set " + assistKeyHint + " and restart."
	case "r":
		h.err = ""
		d.loading = true
		return h, fetchSubsCmd(h.gateway, d.task.Name)
	}
	return h, nil
}

// toggleSelectedSub flips the status checkbox: optimistic local update, then
// one single-cell write. No rollback if the write fails.
func (h *Hub) toggleSelectedSub() (tea.Model, tea.Cmd) {
	d := h.detail
	sub := d.selectedSub()
	if sub == nil {
		return h, nil
	}
	h.err = ""
	sub.Status = task.ToggledStatus(sub.Status)
	return h, writeCellCmd(h.gateway, d.task.Name, sub.Row, task.ColStatus, sub.Status)
}

func (h *Hub) handleDetailEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := h.detail
	switch msg.String() {
	case keyEsc:
		d.editing = false
		d.editInput.Blur()
		return h, nil
	case "enter":
		name := strings.TrimSpace(d.editInput.Value())
		sub := d.selectedSub()
		d.editing = false
		d.editInput.Blur()
		if sub == nil || name == "" || name == sub.Name {
			return h, nil
		}
		h.err = ""
		sub.Name = name
		return h, writeCellCmd(h.gateway, d.task.Name, sub.Row, task.ColName, name)
	}
	var cmd tea.Cmd
	d.editInput, cmd = d.editInput.Update(msg)
	return h, cmd
}

func (h *Hub) handleDetailDueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := h.detail
	switch msg.String() {
	case keyEsc:
		d.dueEditing = false
		d.dueInput.Blur()
		return h, nil
	case "enter":
		input := strings.TrimSpace(d.dueInput.Value())
		sub := d.selectedSub()
		if sub == nil {
			d.dueEditing = false
			d.dueInput.Blur()
			return h, nil
		}
		var parsed *date.Date
		if input != "" {
			p, err := date.Parse(input)
			if err != nil {
				// Stay in the editor so the value can be corrected.
				h.err = task.ValidateDate("due", input, err).Error()
				return h, nil
			}
			parsed = &p
		}
		d.dueEditing = false
		d.dueInput.Blur()
		h.err = ""
		sub.DueDate = parsed
		return h, writeCellCmd(h.gateway, d.task.Name, sub.Row, task.ColDue, date.CellValue(parsed))
	}
	var cmd tea.Cmd
	d.dueInput, cmd = d.dueInput.Update(msg)
	return h, cmd
}

func (h *Hub) handleDetailAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := h.detail
	switch msg.String() {
	case keyEsc:
		d.adding = false
		d.addInput.Blur()
		return h, nil
	case "enter":
		name := strings.TrimSpace(d.addInput.Value())
		if name == "" {
			return h, nil
		}
		h.err = ""
		// The form keeps its text until the append succeeds; the refetch
		// picks up the server-assigned row number.
		return h, appendCmd(h.gateway, d.task.Name, [][]string{task.SubTaskRow(name, "", nil)}, false)
	}
	var cmd tea.Cmd
	d.addInput, cmd = d.addInput.Update(msg)
	return h, cmd
}

func (h *Hub) handleDetailGoalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := h.detail
	switch msg.String() {
	case keyEsc:
		d.goalOpen = false
		d.goalInput.Blur()
		return h, nil
	case "enter":
		goal := strings.TrimSpace(d.goalInput.Value())
		if goal == "" {
			return h, nil
		}
		d.goalOpen = false
		d.goalInput.Blur()
		d.generating = true
		h.err = ""
		return h, suggestCmd(h.assist, d.task.Name, goal)
	}
	var cmd tea.Cmd
	d.goalInput, cmd = d.goalInput.Update(msg)
	return h, cmd
}

func (h *Hub) handleSuggestionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := h.detail
	switch msg.String() {
	case keyEsc:
		d.suggestions = nil
		d.selected = make(map[int]bool)
		d.sugCursor = 0
	case "j", "down":
		if d.sugCursor < len(d.suggestions)-1 {
			d.sugCursor++
		}
	case "k", "up":
		if d.sugCursor > 0 {
			d.sugCursor--
		}
	case " ", "x":
		s := d.suggestions[d.sugCursor]
		if d.selected[s.ID] {
			delete(d.selected, s.ID)
		} else {
			d.selected[s.ID] = true
		}
	case "enter":
		picked := d.selectedSuggestions()
		if len(picked) == 0 {
			return h, nil
		}
		h.err = ""
		return h, appendCmd(h.gateway, d.task.Name, task.SuggestionRows(picked), true)
	}
	return h, nil
}

// applyDetailMsg routes gateway/assistant responses into detail state.
// Returns false when the message belongs to a view that is no longer shown.
func (h *Hub) applyDetailMsg(msg tea.Msg) (tea.Cmd, bool) {
	d := h.detail

	switch msg := msg.(type) {
	case subsLoadedMsg:
		if d == nil || d.task.Name != msg.tab {
			return nil, false // stale response after navigation
		}
		d.loading = false
		if msg.err != nil {
			h.err = loadErrMessage(d.task.Name, msg.err)
			return nil, true
		}
		d.subs = msg.subs
		if d.cursor >= len(d.subs) {
			d.cursor = max(0, len(d.subs)-1)
		}
		return nil, true

	case cellWrittenMsg:
		if msg.err != nil {
			h.err = "Couldn't save that change to the spreadsheet. The sheet may be out of sync until the next refresh."
		}
		return nil, true

	case appendedMsg:
		if d == nil || d.task.Name != msg.tab {
			return nil, false
		}
		if msg.err != nil {
			h.err = "Couldn't add rows to the spreadsheet. Try again."
			return nil, true
		}
		if msg.clearSug {
			d.suggestions = nil
			d.selected = make(map[int]bool)
			d.sugCursor = 0
		}
		if d.adding {
			d.adding = false
			d.addInput.Reset()
			d.addInput.Blur()
		}
		if msg.refetch {
			d.loading = true
			return fetchSubsCmd(h.gateway, d.task.Name), true
		}
		return nil, true

	case suggestionsMsg:
		if d == nil || d.task.Name != msg.tab {
			return nil, false
		}
		d.generating = false
		if msg.err != nil {
			h.err = assistErrMessage
			return nil, true
		}
		d.suggestions = msg.suggestions
		d.selected = make(map[int]bool)
		d.sugCursor = 0
		return nil, true
	}
	return nil, false
}

func loadErrMessage(taskName string, err error) string {
	if sheets.IsTabNotFound(err) {
		return fmt.Sprintf("No sheet tab named %q. Create a tab matching the task name.", taskName)
	}
	return "Couldn't load sub-tasks. Try again."
}

// --- view ---

func (h *Hub) viewDetail() string {
	d := h.detail
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.task.Name))
	meta := fmt.Sprintf("  %s · %s", styled(d.task.Priority, priorityStyles), styled(d.task.Status, statusStyles))
	if d.task.DueDate != nil {
		meta += " · due " + d.task.DueDate.String()
	}
	b.WriteString(meta + "\n\n")

	switch {
	case d.loading:
		b.WriteString(h.spinner.View() + " Loading sub-tasks…\n")
	case len(d.subs) == 0:
		b.WriteString(dimStyle.Render("No sub-tasks yet. Press a to add one.") + "\n")
	default:
		for i, sub := range d.subs {
			b.WriteString(h.renderSubRow(i, sub) + "\n")
		}
	}

	switch {
	case d.editing:
		b.WriteString("\nRename: " + d.editInput.View() + "\n")
	case d.dueEditing:
		b.WriteString("\nDue date: " + d.dueInput.View() + "\n")
	case d.adding:
		b.WriteString("\nAdd: " + d.addInput.View() + "\n")
	case d.goalOpen:
		b.WriteString("\nBreak down: " + d.goalInput.View() + "\n")
	case d.generating:
		b.WriteString("\n" + h.spinner.View() + " Asking the assistant…\n")
	case len(d.suggestions) > 0:
		b.WriteString("\n" + h.renderSuggestions())
	}

	if h.err != "" {
		b.WriteString("\n" + errorStyle.Render(h.err) + "\n")
	}

	b.WriteString("\n" + statusBarStyle.Render(h.detailStatusLine()))
	return b.String()
}

func (h *Hub) renderSubRow(i int, sub task.SubTask) string {
	check := "[ ]"
	nameStyle := lipgloss.NewStyle()
	if sub.Done() {
		check = "[x]"
		nameStyle = doneStyle
	}
	line := fmt.Sprintf("%s %s", check, nameStyle.Render(sub.Name))
	if sub.Assignee != "" {
		line += dimStyle.Render(" @" + sub.Assignee)
	}
	if sub.DueDate != nil {
		line += dimStyle.Render(" · " + sub.DueDate.String())
	}
	if sub.Status == task.StatusInProgress {
		line += " " + statusStyles[task.StatusInProgress].Render("(in progress)")
	}
	if i == h.detail.cursor {
		return activeRowStyle.Render(line)
	}
	return rowStyle.Render(line)
}

func (h *Hub) renderSuggestions() string {
	d := h.detail
	var b strings.Builder
	b.WriteString(headingStyle.Render("Suggested sub-tasks") + "\n")
	for i, s := range d.suggestions {
		mark := "[ ]"
		if d.selected[s.ID] {
			mark = selectedMarkStyle.Render("[+]")
		}
		line := fmt.Sprintf("%s %s", mark, s.Name)
		if s.Assignee != "" {
			line += dimStyle.Render(" @" + s.Assignee)
		}
		if s.DueDate != nil {
			line += dimStyle.Render(" · " + s.DueDate.String())
		}
		if i == d.sugCursor {
			line = activeRowStyle.Render(line)
		} else {
			line = rowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(dimStyle.Render("space select · enter add to sheet · esc discard") + "\n")
	return b.String()
}

func (h *Hub) detailStatusLine() string {
	d := h.detail
	if len(d.suggestions) > 0 {
		return fmt.Sprintf("%d suggested · %d selected", len(d.suggestions), len(d.selectedSuggestions()))
	}
	return "space toggle · e rename · d due · a add · g break down · r refresh · s spreadsheet · esc back"
}
