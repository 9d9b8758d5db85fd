package update

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"teum/internal/model"
	"teum/internal/tasks"
)

func (m Model) handleManageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.CurrentView = ViewTimeline
		return m, nil
	case "tab":
		m.form.cycleKind()
		return m, nil
	case "enter":
		if m.form.focus < len(m.form.inputs)-1 {
			m.form.focusNext()
			return m, nil
		}
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	values := m.form.values()
	title := strings.TrimSpace(values[0])
	if title == "" {
		m.Status = StatusBar{Text: "a title is required", IsError: true}
		return m, nil
	}

	var fields tasks.Fields
	switch m.form.kind {
	case model.KindLongTerm:
		fields.DueDate = strings.TrimSpace(values[1])
	case model.KindRecommended:
		duration, err := strconv.Atoi(strings.TrimSpace(values[1]))
		if err != nil {
			m.Status = StatusBar{Text: "duration must be a whole number of minutes", IsError: true}
			return m, nil
		}
		fields.Duration = duration
	default:
		fields.Date = strings.TrimSpace(values[1])
		fields.StartTime = strings.TrimSpace(values[2])
		fields.EndTime = strings.TrimSpace(values[3])
	}

	kind := m.form.kind
	m.form = newAddForm()
	m.form.kind = kind
	m.form.rebuild()
	return m, m.addTaskCmd(kind, title, fields)
}
