package update

import (
	"context"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"teum/internal/model"
	"teum/internal/planner"
	"teum/internal/tasks"
)

// refreshCmd rebuilds everything the screens show for the selected date.
// The sweep runs first so expired completed tasks never reach a screen.
func (m Model) refreshCmd() tea.Cmd {
	repo, engine, sweeper, date := m.repo, m.engine, m.sweeper, m.SelectedDate
	return func() tea.Msg {
		ctx := context.Background()
		if sweeper != nil {
			sweeper.Sweep(ctx)
		}

		entries, err := engine.DisplayTimeline(ctx, date)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		db, err := repo.Snapshot(ctx)
		if err != nil {
			return AppErrorMsg{Err: err}
		}

		longTerm := make([]model.LongTermTask, 0, len(db.LongTermTasks))
		for _, t := range db.LongTermTasks {
			if !t.IsCompleted && t.DueDate >= date {
				longTerm = append(longTerm, t)
			}
		}
		sort.SliceStable(longTerm, func(i, j int) bool {
			return longTerm[i].DueDate < longTerm[j].DueDate
		})

		completed := make([]model.DailyTask, 0, len(db.DailyTasks))
		for _, t := range db.DailyTasks {
			if t.IsCompleted {
				completed = append(completed, t)
			}
		}
		sort.SliceStable(completed, func(i, j int) bool {
			return completed[i].CompletedDate > completed[j].CompletedDate
		})

		return TimelineLoadedMsg{Entries: entries, LongTerm: longTerm, CompletedDaily: completed}
	}
}

func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		<-changes
		return StoreChangedMsg{}
	}
}

func (m Model) toggleEntryCmd(entry planner.Entry) tea.Cmd {
	repo, engine := m.repo, m.engine
	return func() tea.Msg {
		ctx := context.Background()
		if entry.Kind == planner.EntryRecommended {
			// Accepting a suggestion turns it into a real daily task.
			if _, err := engine.CommitPlacement(ctx, entry); err != nil {
				return AppErrorMsg{Err: err}
			}
			return MutationDoneMsg{Status: fmt.Sprintf("accepted %q at %s", entry.Title, entry.StartTime)}
		}
		rec, ok, err := repo.ToggleCompleted(ctx, model.KindDaily, entry.ID)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if !ok {
			return SetStatusMsg{Text: "task is gone; refreshing", IsError: true}
		}
		if rec.IsCompleted {
			return MutationDoneMsg{Status: fmt.Sprintf("completed %q", rec.Title)}
		}
		return MutationDoneMsg{Status: fmt.Sprintf("reopened %q", rec.Title)}
	}
}

func (m Model) deleteEntryCmd(entry planner.Entry) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		if entry.Kind != planner.EntryFixed {
			return SetStatusMsg{Text: "suggestions are not stored; nothing to delete", IsError: true}
		}
		if err := repo.Delete(context.Background(), model.KindDaily, entry.ID); err != nil {
			return AppErrorMsg{Err: err}
		}
		return MutationDoneMsg{Status: fmt.Sprintf("deleted %q", entry.Title)}
	}
}

func (m Model) fillDayCmd() tea.Cmd {
	engine, date := m.engine, m.SelectedDate
	return func() tea.Msg {
		created, err := engine.FillDay(context.Background(), date)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if len(created) == 0 {
			return SetStatusMsg{Text: "no free slot fits a recommended activity"}
		}
		return MutationDoneMsg{Status: fmt.Sprintf("placed %d recommended activities", len(created))}
	}
}

func (m Model) addTaskCmd(kind model.Kind, title string, fields tasks.Fields) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		rec, err := repo.Add(context.Background(), kind, title, fields)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return MutationDoneMsg{Status: fmt.Sprintf("added %q", rec.Title)}
	}
}
