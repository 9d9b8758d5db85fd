package update

import (
	"fmt"
	"strings"

	"teum/internal/model"
	"teum/internal/planner"
)

func (m Model) renderTimelineView() string {
	if len(m.Entries) == 0 {
		return "no appointments on this date\n\npress 2 to add one, f to fill the day"
	}
	var b strings.Builder
	for i, entry := range m.Entries {
		marker := " "
		if i == m.Cursor {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", marker, formatEntry(entry)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatEntry(entry planner.Entry) string {
	if entry.Kind == planner.EntryRecommended {
		return fmt.Sprintf("%s-%s  ~ %s (%dm suggestion)", entry.StartTime, entry.EndTime, entry.Title, entry.Duration)
	}
	check := "[ ]"
	if entry.IsCompleted {
		check = "[x]"
	}
	return fmt.Sprintf("%s-%s %s %s", entry.StartTime, entry.EndTime, check, entry.Title)
}

func (m Model) renderLongTermPane() string {
	if len(m.LongTerm) == 0 {
		return "goals\n\nnothing due"
	}
	var b strings.Builder
	b.WriteString("goals\n\n")
	for _, task := range m.LongTerm {
		b.WriteString(fmt.Sprintf("%s  %s\n", task.DueDate, task.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderManageView() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("add task  [kind: %s]  (tab to switch)\n\n", kindLabel(m.form.kind)))
	for i, in := range m.form.inputs {
		marker := " "
		if i == m.form.focus {
			marker = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-22s %s\n", marker, m.form.labels[i]+":", in.View()))
	}
	b.WriteString("\nenter: next field / submit   esc: back")
	return b.String()
}

func kindLabel(kind model.Kind) string {
	switch kind {
	case model.KindLongTerm:
		return "long-term goal"
	case model.KindRecommended:
		return "recommended activity"
	default:
		return "daily appointment"
	}
}

func (m Model) renderCompletedView() string {
	if len(m.CompletedDaily) == 0 {
		return "no completed appointments"
	}
	var b strings.Builder
	b.WriteString("completed (kept 30 days)\n\n")
	for _, task := range m.CompletedDaily {
		b.WriteString(fmt.Sprintf("%s  %s-%s  %s\n", task.CompletedDate, task.StartTime, task.EndTime, task.Title))
	}
	return strings.TrimRight(b.String(), "\n")
}
