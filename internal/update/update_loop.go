package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"teum/internal/model"
	"teum/internal/planner"
	"teum/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), waitForChangeCmd(m.changes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)

	case TimelineLoadedMsg:
		m.Entries = typed.Entries
		m.LongTerm = typed.LongTerm
		m.CompletedDaily = typed.CompletedDaily
		if m.Cursor >= len(m.Entries) {
			m.Cursor = 0
		}
		return m, nil

	case MutationDoneMsg:
		m.Status = StatusBar{Text: typed.Status}
		// The bus signal may be coalesced away; re-query unconditionally.
		return m, m.refreshCmd()

	case StoreChangedMsg:
		return m, tea.Batch(m.refreshCmd(), waitForChangeCmd(m.changes))

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		if typed.IsError {
			return m, m.refreshCmd()
		}
		return m, nil

	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.CurrentView == ViewManage {
		return m.handleManageKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Timeline:
		m.CurrentView = ViewTimeline
		return m, nil
	case m.Keys.Manage:
		m.CurrentView = ViewManage
		m.form = newAddForm()
		return m, nil
	case m.Keys.Completed:
		m.CurrentView = ViewCompleted
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	}

	if m.CurrentView == ViewTimeline {
		return m.handleTimelineKey(msg)
	}
	return m, nil
}

func (m Model) handleTimelineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Entries)-1 {
			m.Cursor++
		}
	case "left", "h":
		m.SelectedDate = shiftDate(m.SelectedDate, -1)
		m.Cursor = 0
		return m, m.refreshCmd()
	case "right", "l":
		m.SelectedDate = shiftDate(m.SelectedDate, 1)
		m.Cursor = 0
		return m, m.refreshCmd()
	case "t":
		m.SelectedDate = model.FormatDate(time.Now())
		m.Cursor = 0
		return m, m.refreshCmd()
	case "g":
		return m, m.refreshCmd()
	case "f":
		return m, m.fillDayCmd()
	case " ", "x", "enter":
		if entry, ok := m.currentEntry(); ok {
			return m, m.toggleEntryCmd(entry)
		}
	case "d":
		if entry, ok := m.currentEntry(); ok {
			return m, m.deleteEntryCmd(entry)
		}
	}
	return m, nil
}

func (m Model) currentEntry() (planner.Entry, bool) {
	if len(m.Entries) == 0 || m.Cursor < 0 || m.Cursor >= len(m.Entries) {
		return planner.Entry{}, false
	}
	return m.Entries[m.Cursor], true
}

func shiftDate(date string, days int) string {
	parsed, err := time.ParseInLocation(model.DateLayout, date, time.Local)
	if err != nil {
		return model.FormatDate(time.Now())
	}
	return model.FormatDate(parsed.AddDate(0, 0, days))
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	body := ""
	side := ""
	switch m.CurrentView {
	case ViewTimeline:
		body = m.renderTimelineView()
		side = m.renderLongTermPane()
	case ViewManage:
		body = m.renderManageView()
		side = m.renderLongTermPane()
	case ViewCompleted:
		body = m.renderCompletedView()
	}
	if m.HelpVisible {
		side = views.RenderMarkdown(helpMarkdown)
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("teum | %s | %s", m.SelectedDate, m.CurrentView),
		Body:       body,
		SidePane:   side,
		StatusLine: status,
		Footer: fmt.Sprintf(
			"keys: %s timeline | %s manage | %s completed | ←/→ day | space toggle/accept | f fill day | d delete | %s help | %s quit",
			m.Keys.Timeline, m.Keys.Manage, m.Keys.Completed, m.Keys.Help, m.Keys.Quit,
		),
	})
}

const helpMarkdown = `# teum

A gap-filling day planner.

- **Timeline** shows the selected date: fixed appointments in order, with
  the best-fitting recommended activity suggested in each idle gap.
- Suggestions are display-only. Press *space* on one to accept it as a real
  appointment; press *f* to fill every free slot of the day at once.
- **Manage** adds tasks: *tab* switches the kind, *enter* moves through the
  fields and submits.
- **Completed** lists finished appointments; they are kept for 30 days.
`
